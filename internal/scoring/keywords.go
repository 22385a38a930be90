package scoring

import (
	"regexp"
	"strings"
)

var alphaRunRe = regexp.MustCompile(`[a-z]+`)

// keywordResult is the outcome of matching JD keywords against a resume.
type keywordResult struct {
	score   float64
	matched []string
	missing []string
}

// extractKeywords returns lowercase alphabetic tokens of at least minLen letters,
// deduplicated, in the order they first appear.
func extractKeywords(text string, minLen int) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, token := range alphaRunRe.FindAllString(strings.ToLower(text), -1) {
		if len(token) < minLen {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	return out
}

// matchKeywords fuzzy-matches every JD keyword against the whole resume. Both sides are
// lowercased, so "Python" in a resume is an exact hit for the keyword "python"; a
// case-sensitive comparison would score it 83.33 and give a lower skill_match.
func (s *Scorer) matchKeywords(resume, jd string) keywordResult {
	lowerResume := strings.ToLower(resume)
	res := keywordResult{matched: make([]string, 0), missing: make([]string, 0)}

	var total float64
	var hits int
	for _, key := range extractKeywords(jd, s.cfg.MinKeywordLength) {
		score := partialRatio(key, lowerResume)
		if score >= s.cfg.FuzzyThreshold {
			hits++
			total += score
			res.matched = append(res.matched, key)
		} else {
			res.missing = append(res.missing, key)
		}
	}

	res.score = s.cfg.KeywordFloor
	if hits > 0 {
		res.score = total / float64(hits)
	}
	res.matched = capList(res.matched, s.cfg.MaxKeywords)
	res.missing = capList(res.missing, s.cfg.MaxKeywords)

	return res
}

func capList(list []string, limit int) []string {
	if limit >= 0 && len(list) > limit {
		return list[:limit]
	}
	return list
}

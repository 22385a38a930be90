package jobs

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/jobhunter/internal/logger"
)

const (
	skillShare = 40.0
	titleBonus = 20.0
	maxMatch   = 100.0
)

var seniorityWords = []string{"senior", "lead", "principal"}

// Ranker scores postings against resume skills.
type Ranker struct {
	logger *zap.Logger
	score  func(Posting, []string) float64
}

// NewRanker returns a ranker that reports failures to l.
func NewRanker(l *zap.Logger) *Ranker {
	return &Ranker{logger: logger.OrNop(l), score: MatchScore}
}

// Rank scores postings with a no-op logger. See (*Ranker).Rank.
func Rank(postings []Posting, skills []string) []Posting {
	return NewRanker(nil).Rank(postings, skills)
}

// Rank returns a new slice with MatchScore set on every posting, best match first.
// Postings with equal scores keep their relative order. If scoring fails the input is
// returned unchanged.
func (r *Ranker) Rank(postings []Posting, skills []string) (ranked []Posting) {
	defer func() {
		if rec := recover(); rec != nil {
			err := &RankingError{Err: fmt.Errorf("panic: %v", rec)}
			r.logger.Error("ranking failed, returning unranked jobs", zap.Error(err))
			ranked = postings
		}
	}()

	ranked = make([]Posting, len(postings))
	for i, p := range postings {
		score := r.score(p, skills)
		p.MatchScore = &score
		ranked[i] = p
	}

	slices.SortStableFunc(ranked, func(a, b Posting) int {
		switch {
		case *a.MatchScore > *b.MatchScore:
			return -1
		case *a.MatchScore < *b.MatchScore:
			return 1
		default:
			return 0
		}
	})

	return ranked
}

// MatchScore is the share of skills found in the description and requirements (up to
// 40 points) plus 20 points for a senior, lead or principal title, capped at 100.
func MatchScore(p Posting, skills []string) float64 {
	haystack := strings.ToLower(p.Description + " " + strings.Join(p.Requirements, " "))

	var score float64
	if len(skills) > 0 {
		matched := 0
		for _, skill := range skills {
			if strings.Contains(haystack, strings.ToLower(skill)) {
				matched++
			}
		}
		score = float64(matched) / float64(len(skills)) * skillShare
	}

	title := strings.ToLower(p.Title)
	for _, word := range seniorityWords {
		if strings.Contains(title, word) {
			score += titleBonus
			break
		}
	}

	return math.Min(score, maxMatch)
}

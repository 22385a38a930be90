package scoring

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	yearsRe = regexp.MustCompile(`(\d+)\+?\s*year`)

	educationMarkers     = []string{"bachelor", "master", "ph.d", "phd", "b.sc", "m.sc", "btech", "mtech", "mba"}
	certificationMarkers = []string{"aws", "azure", "gcp", "pmp", "scrum", "cfa", "cissp", "security+", "ocp", "ckad", "cka"}
	achievementVerbs     = []string{"built", "designed", "deployed", "shipped", "launched"}
	impactVerbs          = []string{"improved", "reduced", "increased", "saved", "automated", "optimized", "generated", "achieved"}
	sectionHeaders       = []string{"experience", "education", "projects", "skills"}
	bulletMarkers        = []string{"•", "- "}
)

// maxYears returns the largest "N year(s)" figure mentioned in lower.
func maxYears(lower string) int {
	best := 0
	for _, m := range yearsRe.FindAllStringSubmatch(lower, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > best {
			best = n
		}
	}
	return best
}

func experienceScore(lower string) float64 {
	switch years := maxYears(lower); {
	case years >= 8:
		return 95
	case years >= 5:
		return 88
	case years >= 3:
		return 78
	case years >= 1:
		return 65
	default:
		return 40
	}
}

func educationScore(lower string) float64 {
	switch hits := markersPresent(lower, educationMarkers); {
	case hits >= 2:
		return 88
	case hits == 1:
		return 75
	default:
		return 55
	}
}

func certificationScore(lower string) float64 {
	return math.Min(60+float64(markersPresent(lower, certificationMarkers))*8, 92)
}

func projectsScore(lower string) float64 {
	projects := strings.Count(lower, "project")
	achievements := occurrences(lower, achievementVerbs)
	return math.Min(55+float64(projects)*6+float64(achievements)*3, 94)
}

func impactScore(lower string) float64 {
	return math.Min(70+float64(markersPresent(lower, impactVerbs))*4, 96)
}

// formattingScore counts bullets on the original text and section headers on its lowercase form.
func formattingScore(text, lower string) float64 {
	bullets := occurrences(text, bulletMarkers)
	sections := occurrences(lower, sectionHeaders)
	return math.Min(65+float64(min(bullets, 12))*2+float64(min(sections, 6))*3, 95)
}

// markersPresent counts how many distinct markers appear at least once.
func markersPresent(lower string, markers []string) int {
	hits := 0
	for _, m := range markers {
		if strings.Contains(lower, m) {
			hits++
		}
	}
	return hits
}

// occurrences counts every non-overlapping occurrence of every marker.
func occurrences(text string, markers []string) int {
	total := 0
	for _, m := range markers {
		total += strings.Count(text, m)
	}
	return total
}

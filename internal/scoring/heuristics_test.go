package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeuristicSubscores(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   func(string) float64
		in   string
		want float64
	}{
		{name: "experience none", fn: experienceScore, in: "fresh graduate", want: 40},
		{name: "experience one year", fn: experienceScore, in: "1 year in support", want: 65},
		{name: "experience takes the numeric max", fn: experienceScore, in: "9 years total, 10+ years of linux, 2 years go", want: 95},
		{name: "experience five", fn: experienceScore, in: "5 years", want: 88},
		{name: "experience three", fn: experienceScore, in: "3years", want: 78},
		{name: "education none", fn: educationScore, in: "self taught", want: 55},
		{name: "education one", fn: educationScore, in: "mba from somewhere", want: 75},
		{name: "education two", fn: educationScore, in: "bachelor then master", want: 88},
		{name: "certification none", fn: certificationScore, in: "none", want: 60},
		{name: "certification repeats count once", fn: certificationScore, in: "aws aws aws", want: 68},
		{name: "certification cap", fn: certificationScore, in: "aws azure gcp pmp scrum cfa", want: 92},
		{name: "projects", fn: projectsScore, in: "project built", want: 64},
		{name: "projects cap", fn: projectsScore, in: "project project project project project project project", want: 94},
		{name: "impact", fn: impactScore, in: "improved improved reduced", want: 78},
		{name: "impact cap", fn: impactScore, in: "improved reduced increased saved automated optimized generated achieved", want: 96},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn(tt.in))
		})
	}
}

func TestFormattingScore(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 65.0, formattingScore("plain", "plain"))
	assert.Equal(t, 71.0, formattingScore("• a\n• b\n- c", "• a\n• b\n- c"))

	text := "Experience\nEducation\nProjects\nSkills"
	assert.Equal(t, 77.0, formattingScore(text, "experience\neducation\nprojects\nskills"))
}

func TestExtractKeywords(t *testing.T) {
	t.Parallel()

	got := extractKeywords("Go, Python and python; SQL Kubernetes python3", 4)
	assert.Equal(t, []string{"python", "kubernetes"}, got)
	assert.Empty(t, extractKeywords("", 4))
}

func TestPartialRatio(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 100.0, partialRatio("python", "i write python daily"))
	assert.Equal(t, 100.0, partialRatio("i write python daily", "python"))
	assert.InDelta(t, 100*8.0/9, partialRatio("kubernets", "we run kubernetes"), 1e-9)
	assert.Equal(t, 0.0, partialRatio("", "anything"))
	assert.Equal(t, 0.0, partialRatio("zzzz", "abc"))
}

func TestMatchKeywordsFloorAndCap(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.MaxKeywords = 1
	s := &Scorer{cfg: cfg}

	res := s.matchKeywords("nothing relevant here", "qqqq xxxx wwww")
	assert.Equal(t, cfg.KeywordFloor, res.score)
	assert.Empty(t, res.matched)
	assert.Len(t, res.missing, 1)
	assert.Equal(t, "qqqq", res.missing[0])
}

func TestMatchKeywordsIgnoresCase(t *testing.T) {
	t.Parallel()

	s := &Scorer{cfg: DefaultConfig()}

	res := s.matchKeywords("Senior PYTHON engineer", "Python")
	assert.Equal(t, 100.0, res.score)
	assert.Equal(t, []string{"python"}, res.matched)
	assert.Empty(t, res.missing)
}

package filtering

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/jobhunter/internal/jobs"
	"github.com/spigell/jobhunter/internal/scoring"
)

func ptr[T any](v T) *T { return &v }

func titles(postings []jobs.Posting) []string {
	out := make([]string, 0, len(postings))
	for _, p := range postings {
		out = append(out, p.Title)
	}
	return out
}

func samplePostings() []jobs.Posting {
	return []jobs.Posting{
		{Title: "Go Developer", Company: "Acme", SalaryRange: ptr("$150,000 - $180,000 a year"), Description: "Full-time role", URL: ptr("https://jobs.example/1")},
		{Title: "Data Analyst", Company: "Globex", SalaryRange: ptr("6-9 Lacs PA"), Description: "Part time, SQL"},
		{Title: "QA Engineer", Company: "initech ", Description: "Contract, full time"},
		{Title: "Support", Company: "Hooli", SalaryRange: ptr("competitive"), MatchScore: ptr(10.0)},
	}
}

func TestRunAppliesEnabledSteps(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	steps := DefaultSteps()
	DisableByName(steps, "resume_fit", "no resume given")

	cfg := &Config{
		ExcludedCompanies: []string{"Initech"},
		SalaryMin:         ptr(100000),
		JobType:           "full time",
		MinimumMatchScore: 5,
	}

	got, reports, err := Run(context.Background(), cfg, Deps{Logger: zap.New(core)}, steps, samplePostings())
	require.NoError(t, err)
	assert.Empty(t, reports)

	// Initech is excluded; Data Analyst and Support do not mention full time.
	assert.Equal(t, []string{"Go Developer"}, titles(got))
	assert.Equal(t, 1, logs.FilterMessage("filter disabled").Len())
	assert.Equal(t, 5, logs.FilterMessage("filter step").Len())
}

func TestRunStopsOnInvalidConfig(t *testing.T) {
	t.Parallel()

	_, _, err := Run(context.Background(), &Config{SalaryMin: ptr(10), SalaryMax: ptr(5)}, Deps{}, []Filter{NewSalaryRange()}, samplePostings())
	assert.ErrorContains(t, err, "salary_range")
}

func TestExcludedCompanies(t *testing.T) {
	t.Parallel()

	f := NewExcludedCompanies()
	require.NoError(t, f.Validate(&Config{ExcludedCompanies: []string{" ACME ", ""}}))

	got, step, err := f.Apply(context.Background(), Deps{}, samplePostings())
	require.NoError(t, err)
	assert.Equal(t, Step{Initial: 4, Dropped: 1, Left: 3}, step)
	assert.NotContains(t, titles(got), "Go Developer")
}

func TestSalaryRangeKeepsUnknownSalaries(t *testing.T) {
	t.Parallel()

	f := NewSalaryRange()
	require.NoError(t, f.Validate(&Config{SalaryMax: ptr(120000)}))

	got, _, err := f.Apply(context.Background(), Deps{}, samplePostings())
	require.NoError(t, err)
	assert.Equal(t, []string{"QA Engineer", "Support"}, titles(got))
}

func TestParseSalary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		lo, hi float64
		ok     bool
	}{
		{in: "6-9 Lacs PA", lo: 600000, hi: 900000, ok: true},
		{in: "$150,000 - $180,000 a year", lo: 150000, hi: 180000, ok: true},
		{in: "90K–110K a year", lo: 90000, hi: 110000, ok: true},
		{in: "200000-300000 RUR", lo: 200000, hi: 300000, ok: true},
		{in: "up to 5000 USD", lo: 0, hi: 5000, ok: true},
		{in: "from 100000 RUR", lo: 100000, hi: math.Inf(1), ok: true},
		{in: "competitive", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			lo, hi, ok := parseSalary(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.lo, lo)
				assert.Equal(t, tt.hi, hi)
			}
		})
	}
}

func TestJobType(t *testing.T) {
	t.Parallel()

	f := NewJobType()
	require.NoError(t, f.Validate(&Config{JobType: "Part-Time"}))

	got, _, err := f.Apply(context.Background(), Deps{}, samplePostings())
	require.NoError(t, err)
	assert.Equal(t, []string{"Data Analyst"}, titles(got))
}

func TestMinimumMatchScore(t *testing.T) {
	t.Parallel()

	f := NewMinimumMatchScore()
	assert.Error(t, f.Validate(&Config{MinimumMatchScore: 101}))
	require.NoError(t, f.Validate(&Config{MinimumMatchScore: 50}))

	got, step, err := f.Apply(context.Background(), Deps{}, samplePostings())
	require.NoError(t, err)
	assert.Equal(t, 1, step.Dropped)
	assert.NotContains(t, titles(got), "Support")
}

func TestExcludeFileRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "excluded.json")
	postings := samplePostings()

	loaded, err := LoadExcluded(path)
	require.NoError(t, err)
	assert.Empty(t, loaded.Items)

	require.NoError(t, AppendToFile(path, ToExcluded(postings[:1], ExcludeActorUser, "")))
	require.NoError(t, AppendToFile(path, ToExcluded([]jobs.Posting{{Title: "DATA ANALYST", Company: "GLOBEX"}}, ExcludeActorUser, "not interested")))

	loaded, err = LoadExcluded(path)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 2)
	assert.Equal(t, "https://jobs.example/1", loaded.Items[0].URL)
	assert.Equal(t, "not interested", loaded.Items[1].Reason)

	f := NewExcludeFile()
	require.NoError(t, f.Validate(&Config{ExcludeFile: path}))
	got, step, err := f.Apply(context.Background(), Deps{}, postings)
	require.NoError(t, err)
	assert.Equal(t, 2, step.Dropped)
	assert.Equal(t, []string{"QA Engineer", "Support"}, titles(got))
}

type stubScorer struct {
	scores map[string]float64
	err    error
}

func (s stubScorer) Score(_ context.Context, _ string, jd string) (*scoring.Report, error) {
	if s.err != nil {
		return nil, s.err
	}
	for title, score := range s.scores {
		if len(jd) >= len(title) && jd[:len(title)] == title {
			return &scoring.Report{FinalScore: score}, nil
		}
	}
	return nil, errors.New("unknown posting")
}

func TestResumeFit(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "excluded.json")
	steps := []Filter{NewResumeFit()}
	cfg := &Config{ExcludeFile: path, ResumeFit: &ResumeFitConfig{MinimumFitScore: 60}}
	deps := Deps{
		Resume: "resume text",
		Scorer: stubScorer{scores: map[string]float64{"Go Developer": 82, "Data Analyst": 41, "QA Engineer": 60}},
	}

	got, reports, err := Run(context.Background(), cfg, deps, steps, samplePostings())
	require.NoError(t, err)

	// Support fails to score and is kept.
	assert.Equal(t, []string{"Go Developer", "QA Engineer", "Support"}, titles(got))
	assert.Len(t, reports, 3)
	assert.Equal(t, 82.0, reports["go developeracme"].FinalScore)

	excluded, err := LoadExcluded(path)
	require.NoError(t, err)
	require.Len(t, excluded.Items, 1)
	assert.Equal(t, ExcludeActorResumeFit, excluded.Items[0].Actor)
	assert.Equal(t, "Globex", excluded.Items[0].Company)
}

func TestResumeFitRequiresConfigAndResume(t *testing.T) {
	t.Parallel()

	_, _, err := Run(context.Background(), &Config{}, Deps{}, []Filter{NewResumeFit()}, samplePostings())
	assert.Error(t, err)

	cfg := &Config{ResumeFit: &ResumeFitConfig{MinimumFitScore: 50}}
	_, _, err = Run(context.Background(), cfg, Deps{Scorer: stubScorer{}}, []Filter{NewResumeFit()}, samplePostings())
	assert.ErrorContains(t, err, "resume text is required")

	invalid := &scoring.InvalidInputError{Field: "resume", Reason: "too short"}
	_, _, err = Run(context.Background(), cfg, Deps{Resume: "x", Scorer: stubScorer{err: invalid}}, []Filter{NewResumeFit()}, samplePostings())
	assert.ErrorIs(t, err, scoring.ErrInvalidInput)
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	steps := DefaultSteps()
	DisableByName(steps, "resume_fit", "no resume given")
	require.NoError(t, steps[0].Validate(&Config{ExcludedCompanies: []string{"Acme"}}))

	statuses := Describe(steps)
	require.Len(t, statuses, len(steps))
	assert.Equal(t, "excluded_companies", statuses[0].Name)
	assert.Equal(t, "acme", statuses[0].Details["companies"])

	last := statuses[len(statuses)-1]
	assert.Equal(t, "resume_fit", last.Name)
	assert.False(t, last.Enabled)
	assert.Equal(t, "no resume given", last.Reason)
}

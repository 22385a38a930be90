// Package filtering narrows aggregated job postings down with a sequence of steps.
package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/jobhunter/internal/jobs"
	"github.com/spigell/jobhunter/internal/scoring"
)

// Filter represents a single filtering step applied to postings.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, postings []jobs.Posting) ([]jobs.Posting, Step, error)
}

// Scorer rates a resume against a job description.
type Scorer interface {
	Score(ctx context.Context, resume, jd string) (*scoring.Report, error)
}

// Deps aggregates dependencies shared across all filtering steps.
type Deps struct {
	Logger *zap.Logger
	Scorer Scorer
	Resume string
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Config contains configuration settings consumed by the filters.
type Config struct {
	ExcludedCompanies []string
	ExcludeFile       string
	SalaryMin         *int
	SalaryMax         *int
	JobType           string
	MinimumMatchScore float64
	ResumeFit         *ResumeFitConfig
}

// ResumeFitConfig configures the resume_fit step.
type ResumeFitConfig struct {
	MinimumFitScore float64
	// MaxPostings bounds how many postings are scored; the rest pass unscored.
	MaxPostings int
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

// statusProvider is implemented by filters that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

// toggle is the enable/disable state shared by every step.
type toggle struct {
	disabled bool
	reason   string
}

func (t *toggle) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *toggle) IsEnabled() bool { return !t.disabled }

// DefaultSteps returns every step in execution order.
func DefaultSteps() []Filter {
	return []Filter{
		NewExcludedCompanies(),
		NewExcludeFile(),
		NewSalaryRange(),
		NewJobType(),
		NewMinimumMatchScore(),
		NewResumeFit(),
	}
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run executes the supplied filters sequentially, returning the remaining postings and
// the score reports collected along the way, keyed by posting key.
func Run(ctx context.Context, cfg *Config, deps Deps, steps []Filter, postings []jobs.Posting) ([]jobs.Posting, map[string]*scoring.Report, error) {
	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(cfg); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	reports := make(map[string]*scoring.Report)
	for _, step := range steps {
		if !step.IsEnabled() {
			if deps.Logger != nil {
				deps.Logger.Info("filter disabled", zap.String("name", step.Name()))
			}
			continue
		}

		next, info, err := step.Apply(ctx, deps, postings)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		if deps.Logger != nil {
			deps.Logger.Info("filter step",
				zap.String("name", step.Name()),
				zap.Int("initial", info.Initial),
				zap.Int("dropped", info.Dropped),
				zap.Int("left", info.Left),
			)
		}

		postings = next

		if collector, ok := step.(interface {
			Reports() map[string]*scoring.Report
		}); ok {
			for key, report := range collector.Reports() {
				reports[key] = report
			}
		}
	}

	return postings, reports, nil
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

// keep returns the postings accepted by fn along with the step summary.
func keep(postings []jobs.Posting, fn func(jobs.Posting) bool) ([]jobs.Posting, Step, []string) {
	kept := make([]jobs.Posting, 0, len(postings))
	var dropped []string
	for _, p := range postings {
		if fn(p) {
			kept = append(kept, p)
			continue
		}
		dropped = append(dropped, describe(p))
	}
	return kept, Step{Initial: len(postings), Dropped: len(postings) - len(kept), Left: len(kept)}, dropped
}

func describe(p jobs.Posting) string {
	if p.Company == "" {
		return p.Title
	}
	return p.Title + " @ " + p.Company
}

package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/jobhunter/internal/jobs"
)

type minimumMatchScoreFilter struct {
	toggle
	minimum float64
}

// NewMinimumMatchScore creates a filter that drops ranked postings scoring below the
// configured minimum. Unranked postings pass.
func NewMinimumMatchScore() Filter {
	return &minimumMatchScoreFilter{}
}

func (f *minimumMatchScoreFilter) Name() string { return "minimum_match_score" }

func (f *minimumMatchScoreFilter) Validate(cfg *Config) error {
	f.minimum = 0
	if cfg == nil {
		return nil
	}
	if cfg.MinimumMatchScore < 0 || cfg.MinimumMatchScore > 100 {
		return fmt.Errorf("minimum match score must be within [0, 100], got %v", cfg.MinimumMatchScore)
	}
	f.minimum = cfg.MinimumMatchScore
	return nil
}

func (f *minimumMatchScoreFilter) Apply(_ context.Context, deps Deps, postings []jobs.Posting) ([]jobs.Posting, Step, error) {
	if f.minimum <= 0 {
		return postings, Step{Initial: len(postings), Left: len(postings)}, nil
	}

	kept, step, dropped := keep(postings, func(p jobs.Posting) bool {
		return p.MatchScore == nil || *p.MatchScore >= f.minimum
	})

	if deps.Logger != nil && len(dropped) > 0 {
		deps.Logger.Info("excluding postings below minimum match score",
			zap.Float64("minimum_match_score", f.minimum),
			zap.Strings("excluded_postings", dropped),
			zap.Int("postings_left", step.Left),
		)
	}

	return kept, step, nil
}

func (f *minimumMatchScoreFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"minimum": fmt.Sprintf("%.0f", f.minimum)},
	}
}

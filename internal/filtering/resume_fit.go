package filtering

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/jobhunter/internal/jobs"
	"github.com/spigell/jobhunter/internal/scoring"
)

type resumeFitFilter struct {
	toggle
	config      *ResumeFitConfig
	excludeFile string
	reports     map[string]*scoring.Report
}

// NewResumeFit creates the step that scores the resume against every posting and drops
// the postings below the minimum fit score. Rejected postings are appended to the
// exclude file when one is configured.
func NewResumeFit() Filter {
	return &resumeFitFilter{}
}

func (f *resumeFitFilter) Name() string { return "resume_fit" }

func (f *resumeFitFilter) Validate(cfg *Config) error {
	f.config = nil
	f.excludeFile = ""
	if cfg != nil {
		f.config = cfg.ResumeFit
		f.excludeFile = strings.TrimSpace(cfg.ExcludeFile)
	}
	if f.config == nil {
		return fmt.Errorf("resume fit configuration is required when the filter is enabled")
	}
	if f.config.MinimumFitScore < 0 || f.config.MinimumFitScore > 100 {
		return fmt.Errorf("minimum fit score must be within [0, 100], got %v", f.config.MinimumFitScore)
	}
	return nil
}

func (f *resumeFitFilter) Apply(ctx context.Context, deps Deps, postings []jobs.Posting) ([]jobs.Posting, Step, error) {
	if deps.Scorer == nil {
		return postings, Step{}, fmt.Errorf("scorer is required")
	}
	if strings.TrimSpace(deps.Resume) == "" {
		return postings, Step{}, fmt.Errorf("resume text is required")
	}

	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	f.reports = make(map[string]*scoring.Report)
	approved := make([]jobs.Posting, 0, len(postings))
	rejected := make([]jobs.Posting, 0)

	for i, p := range postings {
		if f.config.MaxPostings > 0 && i >= f.config.MaxPostings {
			approved = append(approved, p)
			continue
		}

		report, err := deps.Scorer.Score(ctx, deps.Resume, postingText(p))
		if errors.Is(err, scoring.ErrInvalidInput) {
			return postings, Step{}, err
		}
		if err != nil {
			log.Warn("scoring posting failed, keeping it", zap.String("posting", describe(p)), zap.Error(err))
			approved = append(approved, p)
			continue
		}
		f.reports[p.Key()] = report

		if report.FinalScore < f.config.MinimumFitScore {
			log.Info("posting rejected by resume fit",
				zap.String("posting", describe(p)),
				zap.Float64("fit_score", report.FinalScore),
			)
			rejected = append(rejected, p)
			continue
		}

		approved = append(approved, p)
	}

	if f.excludeFile != "" && len(rejected) > 0 {
		reason := fmt.Sprintf("fit score below %.0f", f.config.MinimumFitScore)
		if err := AppendToFile(f.excludeFile, ToExcluded(rejected, ExcludeActorResumeFit, reason)); err != nil {
			log.Warn("failed to append postings to exclude file", zap.String("exclude_file", f.excludeFile), zap.Error(err))
		}
	}

	log.Info("resume fit filtering completed",
		zap.Int("initial_postings", len(postings)),
		zap.Int("approved_postings", len(approved)),
	)

	return approved, Step{Initial: len(postings), Dropped: len(rejected), Left: len(approved)}, nil
}

// Reports returns the score reports of the last Apply, keyed by posting key.
func (f *resumeFitFilter) Reports() map[string]*scoring.Report {
	return f.reports
}

func (f *resumeFitFilter) Status() Status {
	details := map[string]string{}
	if f.config != nil {
		details["minimum_fit_score"] = fmt.Sprintf("%.0f", f.config.MinimumFitScore)
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

func postingText(p jobs.Posting) string {
	parts := []string{p.Title, p.Description}
	if len(p.Requirements) > 0 {
		parts = append(parts, "Requirements: "+strings.Join(p.Requirements, "; "))
	}
	return strings.Join(parts, "\n")
}

package filtering

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/jobhunter/internal/jobs"
)

var nonLetterRe = regexp.MustCompile(`[^a-z]+`)

type jobTypeFilter struct {
	toggle
	jobType string
}

// NewJobType creates a filter that keeps postings mentioning the requested job type.
// "Full-time", "full time" and "fulltime" are treated alike.
func NewJobType() Filter {
	return &jobTypeFilter{}
}

func (f *jobTypeFilter) Name() string { return "job_type" }

func (f *jobTypeFilter) Validate(cfg *Config) error {
	f.jobType = ""
	if cfg != nil {
		f.jobType = squash(cfg.JobType)
	}
	return nil
}

func (f *jobTypeFilter) Apply(_ context.Context, deps Deps, postings []jobs.Posting) ([]jobs.Posting, Step, error) {
	if f.jobType == "" {
		return postings, Step{Initial: len(postings), Left: len(postings)}, nil
	}

	kept, step, dropped := keep(postings, func(p jobs.Posting) bool {
		text := p.Title + " " + p.Description + " " + strings.Join(p.Requirements, " ")
		return strings.Contains(squash(text), f.jobType)
	})

	if deps.Logger != nil && len(dropped) > 0 {
		deps.Logger.Info("excluding postings of other job types",
			zap.String("job_type", f.jobType),
			zap.Strings("excluded_postings", dropped),
			zap.Int("postings_left", step.Left),
		)
	}

	return kept, step, nil
}

func (f *jobTypeFilter) Status() Status {
	details := map[string]string{}
	if f.jobType != "" {
		details["job_type"] = f.jobType
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

func squash(s string) string {
	return nonLetterRe.ReplaceAllString(strings.ToLower(s), "")
}

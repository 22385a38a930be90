package filtering

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/jobhunter/internal/jobs"
)

type excludeFileFilter struct {
	toggle
	path string
}

// NewExcludeFile creates a filter that removes postings recorded in the exclude file.
func NewExcludeFile() Filter {
	return &excludeFileFilter{}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Validate(cfg *Config) error {
	f.path = ""
	if cfg != nil {
		f.path = strings.TrimSpace(cfg.ExcludeFile)
	}
	return nil
}

func (f *excludeFileFilter) Apply(_ context.Context, deps Deps, postings []jobs.Posting) ([]jobs.Posting, Step, error) {
	if f.path == "" {
		return postings, Step{Initial: len(postings), Left: len(postings)}, nil
	}

	excluded, err := LoadExcluded(f.path)
	if err != nil {
		return postings, Step{}, fmt.Errorf("getting excluded postings from file: %w", err)
	}

	kept, step, dropped := keep(postings, func(p jobs.Posting) bool {
		return !excluded.Contains(p)
	})

	if deps.Logger != nil && len(dropped) > 0 {
		deps.Logger.Info("excluding postings based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_postings", dropped),
			zap.Int("postings_left", step.Left),
		)
	}

	return kept, step, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

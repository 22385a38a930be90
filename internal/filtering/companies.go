package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/jobhunter/internal/jobs"
)

type excludedCompaniesFilter struct {
	toggle
	companies []string
}

// NewExcludedCompanies creates a filter that removes postings from companies listed in the config.
func NewExcludedCompanies() Filter {
	return &excludedCompaniesFilter{}
}

func (f *excludedCompaniesFilter) Name() string { return "excluded_companies" }

func (f *excludedCompaniesFilter) Validate(cfg *Config) error {
	f.companies = nil
	if cfg == nil {
		return nil
	}
	for _, c := range cfg.ExcludedCompanies {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			f.companies = append(f.companies, c)
		}
	}
	return nil
}

func (f *excludedCompaniesFilter) Apply(_ context.Context, deps Deps, postings []jobs.Posting) ([]jobs.Posting, Step, error) {
	if len(f.companies) == 0 {
		return postings, Step{Initial: len(postings), Left: len(postings)}, nil
	}

	kept, step, dropped := keep(postings, func(p jobs.Posting) bool {
		company := strings.ToLower(strings.TrimSpace(p.Company))
		for _, c := range f.companies {
			if company == c {
				return false
			}
		}
		return true
	})

	if deps.Logger != nil && len(dropped) > 0 {
		deps.Logger.Info("excluding postings by companies",
			zap.Strings("excluded_companies", f.companies),
			zap.Strings("excluded_postings", dropped),
			zap.Int("postings_left", step.Left),
		)
	}

	return kept, step, nil
}

func (f *excludedCompaniesFilter) Status() Status {
	details := map[string]string{}
	if len(f.companies) > 0 {
		details["companies"] = strings.Join(f.companies, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

package filtering

import (
	"context"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/jobhunter/internal/jobs"
)

var (
	thousandsSepRe = regexp.MustCompile(`(\d),(\d{3})`)
	amountRe       = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(k|lakhs?|lacs?|lpa|m)?\b`)
)

var errSalaryBounds = errors.New("salary min is greater than salary max")

var multipliers = map[string]float64{
	"k":     1e3,
	"lakh":  1e5,
	"lakhs": 1e5,
	"lac":   1e5,
	"lacs":  1e5,
	"lpa":   1e5,
	"m":     1e6,
}

// parseSalary reads the numeric bounds of a free-form salary text such as
// "6-9 Lacs PA", "$150,000 - $180,000 a year" or "from 100000 RUR".
// Currencies are not converted.
func parseSalary(text string) (lo, hi float64, ok bool) {
	lower := strings.ToLower(text)
	for thousandsSepRe.MatchString(lower) {
		lower = thousandsSepRe.ReplaceAllString(lower, "$1$2")
	}

	matches := amountRe.FindAllStringSubmatch(lower, -1)
	if len(matches) == 0 {
		return 0, 0, false
	}

	// A unit written once ("6-9 lacs") applies to every bare number.
	shared := 1.0
	for _, m := range matches {
		if m[2] != "" {
			shared = multipliers[m[2]]
			break
		}
	}

	amounts := make([]float64, 0, 2)
	for _, m := range matches {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		mult := shared
		if m[2] != "" {
			mult = multipliers[m[2]]
		}
		amounts = append(amounts, v*mult)
		if len(amounts) == 2 {
			break
		}
	}
	if len(amounts) == 0 {
		return 0, 0, false
	}

	if len(amounts) == 1 {
		switch {
		case strings.Contains(lower, "up to"):
			return 0, amounts[0], true
		case strings.Contains(lower, "from"):
			return amounts[0], math.Inf(1), true
		default:
			return amounts[0], amounts[0], true
		}
	}

	return math.Min(amounts[0], amounts[1]), math.Max(amounts[0], amounts[1]), true
}

type salaryRangeFilter struct {
	toggle
	min *int
	max *int
}

// NewSalaryRange creates a filter that drops postings whose salary lies entirely outside
// the requested range. Postings without a readable salary are kept.
func NewSalaryRange() Filter {
	return &salaryRangeFilter{}
}

func (f *salaryRangeFilter) Name() string { return "salary_range" }

func (f *salaryRangeFilter) Validate(cfg *Config) error {
	f.min, f.max = nil, nil
	if cfg == nil {
		return nil
	}
	f.min, f.max = cfg.SalaryMin, cfg.SalaryMax
	if f.min != nil && f.max != nil && *f.min > *f.max {
		return errSalaryBounds
	}
	return nil
}

func (f *salaryRangeFilter) Apply(_ context.Context, deps Deps, postings []jobs.Posting) ([]jobs.Posting, Step, error) {
	if f.min == nil && f.max == nil {
		return postings, Step{Initial: len(postings), Left: len(postings)}, nil
	}

	kept, step, dropped := keep(postings, func(p jobs.Posting) bool {
		if p.SalaryRange == nil {
			return true
		}
		lo, hi, ok := parseSalary(*p.SalaryRange)
		if !ok {
			return true
		}
		if f.min != nil && hi < float64(*f.min) {
			return false
		}
		if f.max != nil && lo > float64(*f.max) {
			return false
		}
		return true
	})

	if deps.Logger != nil && len(dropped) > 0 {
		deps.Logger.Info("excluding postings outside of salary range",
			zap.Strings("excluded_postings", dropped),
			zap.Int("postings_left", step.Left),
		)
	}

	return kept, step, nil
}

func (f *salaryRangeFilter) Status() Status {
	details := map[string]string{}
	if f.min != nil {
		details["min"] = strconv.Itoa(*f.min)
	}
	if f.max != nil {
		details["max"] = strconv.Itoa(*f.max)
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

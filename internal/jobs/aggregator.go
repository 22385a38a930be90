package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/jobhunter/internal/logger"
)

// DefaultMaxResults caps a merged search when no limit is configured.
const DefaultMaxResults = 50

// Config tunes the aggregator.
type Config struct {
	// MaxResults caps the merged list. Zero means DefaultMaxResults.
	MaxResults int `mapstructure:"max-results" validate:"gte=0"`
	// SourceTimeout bounds every single fetcher. Zero disables the bound.
	SourceTimeout time.Duration `mapstructure:"source-timeout" validate:"gte=0"`
}

// Aggregator fans a search out to every configured fetcher and merges the results.
type Aggregator struct {
	fetchers []Fetcher
	cfg      Config
	logger   *zap.Logger
}

// SourceReport describes the contribution of one fetcher to a search.
type SourceReport struct {
	Name     string        `json:"name"`
	Fetched  int           `json:"fetched"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// Failed reports whether the source contributed nothing because of an error.
func (r SourceReport) Failed() bool { return r.Err != nil }

// SearchReport summarizes a search run.
type SearchReport struct {
	ID         string         `json:"id"`
	Params     SearchParams   `json:"params"`
	Sources    []SourceReport `json:"sources"`
	Merged     int            `json:"merged"`
	Duplicates int            `json:"duplicates"`
	Returned   int            `json:"returned"`
}

// NewAggregator keeps fetchers in the given order; merge order follows it.
func NewAggregator(fetchers []Fetcher, cfg Config, l *zap.Logger) *Aggregator {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultMaxResults
	}

	return &Aggregator{
		fetchers: append([]Fetcher(nil), fetchers...),
		cfg:      cfg,
		logger:   logger.OrNop(l),
	}
}

// Search runs every fetcher concurrently and returns the merged, deduplicated and capped
// postings. Failing sources contribute nothing; the result is never nil.
func (a *Aggregator) Search(ctx context.Context, params SearchParams) []Posting {
	postings, _ := a.SearchWithReport(ctx, params)
	return postings
}

// SearchWithReport is Search plus a per-source summary.
func (a *Aggregator) SearchWithReport(ctx context.Context, params SearchParams) ([]Posting, *SearchReport) {
	report := &SearchReport{
		ID:      uuid.NewString(),
		Params:  params,
		Sources: make([]SourceReport, len(a.fetchers)),
	}
	results := make([][]Posting, len(a.fetchers))

	// Fetchers never fail the group: one source going down must not cancel its siblings.
	var g errgroup.Group
	for i, f := range a.fetchers {
		g.Go(func() error {
			results[i], report.Sources[i] = a.fetch(ctx, f, params, report.ID)
			return nil
		})
	}
	_ = g.Wait()

	merged := make([]Posting, 0)
	seen := make(map[string]struct{})
	for i, batch := range results {
		for _, p := range batch {
			p = normalize(p, report.Sources[i].Name)
			report.Merged++

			key := p.Key()
			if _, ok := seen[key]; ok {
				report.Duplicates++
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, p)
		}
	}

	if len(merged) > a.cfg.MaxResults {
		merged = merged[:a.cfg.MaxResults]
	}
	report.Returned = len(merged)

	a.logger.Info("job search finished",
		zap.String(logger.FieldSearchID, report.ID),
		zap.String("query", params.Query),
		zap.Int("sources", len(a.fetchers)),
		zap.Int("merged", report.Merged),
		zap.Int("duplicates", report.Duplicates),
		zap.Int("returned", report.Returned),
	)

	return merged, report
}

type fetchOutcome struct {
	postings []Posting
	err      error
}

func (a *Aggregator) fetch(ctx context.Context, f Fetcher, params SearchParams, searchID string) (postings []Posting, rep SourceReport) {
	name := f.Name()
	rep.Name = name
	log := a.logger.With(logger.SourceFields(name, searchID)...)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			postings = nil
			rep.Err = &SourceFetchError{Source: name, Err: fmt.Errorf("panic: %v", r)}
		}
		rep.Duration = time.Since(start)
		rep.Fetched = len(postings)

		if rep.Err != nil {
			log.Warn("source failed, skipping", zap.Error(rep.Err), zap.Duration("duration", rep.Duration))
			return
		}
		log.Debug("source fetched", zap.Int("postings", rep.Fetched), zap.Duration("duration", rep.Duration))
	}()

	if a.cfg.SourceTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.SourceTimeout)
		defer cancel()
	}

	// Fetch runs on its own goroutine so a source that ignores ctx still times out.
	// The channel is buffered: an abandoned fetch finishes without blocking.
	done := make(chan fetchOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fetchOutcome{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		got, err := f.Fetch(ctx, params)
		done <- fetchOutcome{postings: got, err: err}
	}()

	var out fetchOutcome
	select {
	case out = <-done:
	case <-ctx.Done():
		out = fetchOutcome{err: ctx.Err()}
	}

	got, err := out.postings, out.err
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s: %w", a.cfg.SourceTimeout, err)
		}
		return nil, SourceReport{Name: name, Err: &SourceFetchError{Source: name, Err: err}}
	}

	return got, rep
}

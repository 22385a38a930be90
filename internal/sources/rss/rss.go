// Package rss reads job postings from RSS and Atom job boards.
package rss

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"

	"github.com/spigell/jobhunter/internal/jobs"
	"github.com/spigell/jobhunter/internal/logger"
	"github.com/spigell/jobhunter/internal/sources/httpsource"
)

const (
	Name = "RSS"

	defaultLimit = 50
)

type Options struct {
	Feeds []string
	// Limit caps the postings taken across all feeds.
	Limit int
	HTTP  httpsource.Options
}

// Source implements jobs.Fetcher over a fixed list of feeds. Feeds cannot be queried, so
// items are kept when any query word appears in their title or description.
type Source struct {
	feeds  []string
	limit  int
	client *httpsource.Client
	logger *zap.Logger
}

var _ jobs.Fetcher = (*Source)(nil)

func New(opts Options, l *zap.Logger) *Source {
	if opts.Limit <= 0 {
		opts.Limit = defaultLimit
	}

	l = logger.OrNop(l).With(zap.String(logger.FieldSource, Name))
	return &Source{
		feeds:  opts.Feeds,
		limit:  opts.Limit,
		client: httpsource.New(opts.HTTP, l),
		logger: l,
	}
}

func (s *Source) Name() string { return Name }

// Fetch fails only when every feed failed.
func (s *Source) Fetch(ctx context.Context, params jobs.SearchParams) ([]jobs.Posting, error) {
	keywords := strings.Fields(strings.ToLower(params.Query))
	parser := gofeed.NewParser()
	out := make([]jobs.Posting, 0)

	var errs []error
	for _, feedURL := range s.feeds {
		if len(out) >= s.limit {
			break
		}

		body, err := s.client.Get(ctx, feedURL, nil)
		if err != nil {
			errs = append(errs, err)
			s.logger.Warn("feed unavailable", zap.String("feed", feedURL), zap.Error(err))
			continue
		}

		feed, err := parser.Parse(bytes.NewReader(body))
		if err != nil {
			errs = append(errs, fmt.Errorf("parsing feed %s: %w", feedURL, err))
			s.logger.Warn("feed is not valid rss or atom", zap.String("feed", feedURL), zap.Error(err))
			continue
		}

		for _, item := range feed.Items {
			if len(out) >= s.limit {
				break
			}

			p := toPosting(feed, item)
			if !matches(p, keywords) {
				continue
			}
			out = append(out, p)
		}
	}

	if len(errs) > 0 && len(errs) == len(s.feeds) {
		return nil, errors.Join(errs...)
	}

	return out, nil
}

func toPosting(feed *gofeed.Feed, item *gofeed.Item) jobs.Posting {
	title := strings.TrimSpace(item.Title)
	company := ""
	if item.Author != nil {
		company = strings.TrimSpace(item.Author.Name)
	}
	// Boards such as We Work Remotely publish "Company: Role" titles.
	if company == "" {
		if before, after, ok := strings.Cut(title, ": "); ok {
			company, title = strings.TrimSpace(before), strings.TrimSpace(after)
		}
	}

	description := item.Description
	if description == "" {
		description = item.Content
	}

	source := Name
	if feed.Title != "" {
		source = strings.TrimSpace(feed.Title)
	}

	return jobs.Posting{
		Title:        title,
		Company:      company,
		Description:  stripHTML(description),
		Requirements: item.Categories,
		Source:       source,
		URL:          jobs.StringPtr(item.Link),
	}
}

func matches(p jobs.Posting, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}

	text := strings.ToLower(p.Title + " " + p.Description)
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func stripHTML(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

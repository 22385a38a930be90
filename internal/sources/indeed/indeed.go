// Package indeed scrapes job cards from indeed.com search results.
package indeed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/spigell/jobhunter/internal/jobs"
	"github.com/spigell/jobhunter/internal/logger"
	"github.com/spigell/jobhunter/internal/sources/httpsource"
)

const (
	Name = "Indeed"

	defaultBaseURL = "https://www.indeed.com"
	defaultLimit   = 20
)

type Options struct {
	BaseURL string
	Limit   int
	HTTP    httpsource.Options
}

// Source implements jobs.Fetcher for indeed.com. Indeed blocks scrapers often; a block
// yields an empty result rather than an error.
type Source struct {
	client  *httpsource.Client
	baseURL string
	limit   int
	logger  *zap.Logger
}

var _ jobs.Fetcher = (*Source)(nil)

func New(opts Options, l *zap.Logger) *Source {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultLimit
	}
	if opts.HTTP.Headers == nil {
		opts.HTTP.Headers = map[string]string{
			"Referer": "https://www.google.com/",
			"Cookie":  "ctk=allow",
		}
	}

	l = logger.OrNop(l).With(zap.String(logger.FieldSource, Name))
	return &Source{
		client:  httpsource.New(opts.HTTP, l),
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		limit:   opts.Limit,
		logger:  l,
	}
}

func (s *Source) Name() string { return Name }

func (s *Source) Fetch(ctx context.Context, params jobs.SearchParams) ([]jobs.Posting, error) {
	q := url.Values{}
	q.Set("q", params.Query)
	q.Set("l", params.Location)

	body, err := s.client.Get(ctx, s.baseURL+"/jobs", q)
	if errors.Is(err, httpsource.ErrBlocked) {
		s.logger.Warn("blocked by indeed, proxy rotation may be needed", zap.Error(err))
		return []jobs.Posting{}, nil
	}
	if err != nil {
		return nil, err
	}

	postings, err := s.parse(body)
	if err != nil {
		return nil, fmt.Errorf("parsing indeed results: %w", err)
	}

	return postings, nil
}

func (s *Source) parse(body []byte) ([]jobs.Posting, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	postings := make([]jobs.Posting, 0)
	doc.Find("a.tapItem").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		title := card.Find("span[title]").First()
		name, ok := title.Attr("title")
		if !ok || strings.TrimSpace(name) == "" {
			name = title.Text()
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return true
		}

		var link *string
		if href, ok := card.Attr("href"); ok && href != "" {
			link = jobs.StringPtr(s.baseURL + "/" + strings.TrimLeft(href, "/"))
		}

		postings = append(postings, jobs.Posting{
			Title:       name,
			Company:     text(card, ".companyName"),
			Location:    text(card, ".companyLocation"),
			SalaryRange: jobs.StringPtr(text(card, ".salary-snippet")),
			Description: text(card, ".job-snippet"),
			Source:      Name,
			URL:         link,
		})

		return len(postings) < s.limit
	})

	return postings, nil
}

func text(card *goquery.Selection, selector string) string {
	return strings.Join(strings.Fields(card.Find(selector).First().Text()), " ")
}

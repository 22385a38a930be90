// Package naukri scrapes job listings from naukri.com search pages.
package naukri

import (
	"bytes"
	"context"
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
	// Name is the source name stamped on every posting.
	Name = "Naukri"

	defaultBaseURL = "https://www.naukri.com"
	defaultLimit   = 20
)

// Options configure the source.
type Options struct {
	BaseURL string
	// Limit caps the postings taken from one listing page.
	Limit int
	HTTP  httpsource.Options
}

// Source implements jobs.Fetcher for naukri.com.
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

	l = logger.OrNop(l).With(zap.String(logger.FieldSource, Name))
	return &Source{
		client:  httpsource.New(opts.HTTP, l),
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		limit:   opts.Limit,
		logger:  l,
	}
}

func (s *Source) Name() string { return Name }

// Fetch loads the "<query>-jobs[-in-<location>]" listing page.
func (s *Source) Fetch(ctx context.Context, params jobs.SearchParams) ([]jobs.Posting, error) {
	page := s.baseURL + "/" + listingPath(params.Query, params.Location)

	body, err := s.client.Get(ctx, page, nil)
	if err != nil {
		return nil, err
	}

	postings, err := s.parse(body)
	if err != nil {
		return nil, fmt.Errorf("parsing naukri listing: %w", err)
	}
	s.logger.Debug("parsed listing", zap.Int("postings", len(postings)))

	return postings, nil
}

func listingPath(query, location string) string {
	path := slug(query) + "-jobs"
	if loc := slug(location); loc != "" {
		path += "-in-" + loc
	}
	return path
}

func slug(s string) string {
	return url.PathEscape(strings.Join(strings.Fields(strings.ToLower(s)), "-"))
}

func (s *Source) parse(body []byte) ([]jobs.Posting, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	postings := make([]jobs.Posting, 0)
	doc.Find("article.jobTuple").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		link := card.Find("a.title").First()
		title := strings.TrimSpace(link.Text())
		if title == "" {
			return true
		}

		href, _ := link.Attr("href")
		postings = append(postings, jobs.Posting{
			Title:       title,
			Company:     text(card, "a.subTitle"),
			Location:    text(card, ".locWdth"),
			SalaryRange: jobs.StringPtr(text(card, ".salary")),
			Description: text(card, ".job-description"),
			Source:      Name,
			URL:         jobs.StringPtr(s.absolute(href)),
		})

		return len(postings) < s.limit
	})

	return postings, nil
}

func (s *Source) absolute(href string) string {
	if href == "" || strings.HasPrefix(href, "http") {
		return href
	}
	return s.baseURL + "/" + strings.TrimLeft(href, "/")
}

func text(card *goquery.Selection, selector string) string {
	return strings.Join(strings.Fields(card.Find(selector).First().Text()), " ")
}

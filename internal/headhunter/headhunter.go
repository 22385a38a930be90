// Package headhunter searches vacancies through the public hh.ru API.
package headhunter

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/jobhunter/internal/jobs"
	"github.com/spigell/jobhunter/internal/logger"
)

const (
	// Name is the source name stamped on every posting.
	Name = "HeadHunter"

	apiURL    = "https://api.hh.ru"
	userAgent = "jobhunter/1.0 (github.com/spigell/jobhunter)"
	// Max value for search per page.
	perPage = "100"
	// defaultMaxPages bounds paging; hh.ru serves at most 2000 items anyway.
	defaultMaxPages = 5
)

// Options configure the client. Token is optional: vacancy search is public.
type Options struct {
	Token    string
	APIURL   string
	Areas    []int
	MaxPages int
	Timeout  time.Duration
}

type Client struct {
	token      string
	areas      []int
	maxPages   int
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

var _ jobs.Fetcher = (*Client)(nil)

func New(opts Options, l *zap.Logger) *Client {
	if opts.APIURL == "" {
		opts.APIURL = apiURL
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = defaultMaxPages
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	return &Client{
		token:    strings.TrimSpace(opts.Token),
		areas:    opts.Areas,
		maxPages: opts.MaxPages,
		APIURL:   strings.TrimRight(opts.APIURL, "/"),
		HTTPClient: &http.Client{
			Timeout: opts.Timeout,
		},
		logger:    logger.OrNop(l).With(zap.String(logger.FieldSource, Name)),
		UserAgent: userAgent,
	}
}

func (c *Client) Name() string { return Name }

// Fetch searches vacancies and converts them into postings.
func (c *Client) Fetch(ctx context.Context, params jobs.SearchParams) ([]jobs.Posting, error) {
	vacancies, err := c.Search(ctx, c.searchParams(params))
	if err != nil {
		return nil, fmt.Errorf("searching hh.ru vacancies: %w", err)
	}

	postings := make([]jobs.Posting, 0, vacancies.Len())
	for _, v := range vacancies.Items {
		postings = append(postings, v.Posting())
	}

	return postings, nil
}

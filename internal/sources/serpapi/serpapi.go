// Package serpapi fetches Google Jobs results through the SerpAPI JSON endpoint.
package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/jobhunter/internal/jobs"
	"github.com/spigell/jobhunter/internal/logger"
	"github.com/spigell/jobhunter/internal/sources/httpsource"
)

const (
	Name = "Google Jobs"

	defaultBaseURL  = "https://serpapi.com"
	searchPath      = "/search.json"
	engine          = "google_jobs"
	defaultLocation = "Remote"
)

type Options struct {
	APIKey  string
	BaseURL string
	HTTP    httpsource.Options
}

// Source implements jobs.Fetcher. Without an API key it is disabled and returns nothing.
type Source struct {
	apiKey  string
	client  *httpsource.Client
	baseURL string
	logger  *zap.Logger
}

var _ jobs.Fetcher = (*Source)(nil)

func New(opts Options, l *zap.Logger) *Source {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}

	l = logger.OrNop(l).With(zap.String(logger.FieldSource, Name))
	return &Source{
		apiKey:  strings.TrimSpace(opts.APIKey),
		client:  httpsource.New(opts.HTTP, l),
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		logger:  l,
	}
}

func (s *Source) Name() string { return Name }

// Enabled reports whether an API key is configured.
func (s *Source) Enabled() bool { return s.apiKey != "" }

type result struct {
	Title         string `json:"title"`
	CompanyName   string `json:"company_name"`
	Location      string `json:"location"`
	Description   string `json:"description"`
	Salary        string `json:"salary"`
	JobPostURL    string `json:"job_post_url"`
	ShareLink     string `json:"share_link"`
	JobHighlights []struct {
		Title string   `json:"title"`
		Items []string `json:"items"`
		Link  string   `json:"link"`
	} `json:"job_highlights"`
	ApplyOptions []struct {
		Title     string `json:"title"`
		Link      string `json:"link"`
		ApplyLink string `json:"apply_link"`
	} `json:"apply_options"`
	DetectedExtensions struct {
		Salary       string `json:"salary"`
		ScheduleType string `json:"schedule_type"`
	} `json:"detected_extensions"`
}

type decoded struct {
	postings []jobs.Posting
	err      error
}

func (s *Source) Fetch(ctx context.Context, params jobs.SearchParams) ([]jobs.Posting, error) {
	if !s.Enabled() {
		s.logger.Debug("no api key configured, skipping")
		return []jobs.Posting{}, nil
	}

	location := params.Location
	if strings.TrimSpace(location) == "" {
		location = defaultLocation
	}

	q := url.Values{}
	q.Set("engine", engine)
	q.Set("q", params.Query)
	q.Set("location", location)
	q.Set("api_key", s.apiKey)

	body, err := s.client.Get(ctx, s.baseURL+searchPath, q)
	if err != nil {
		return nil, redact(err, s.apiKey)
	}

	// Decoding runs on its own goroutine so a huge payload cannot hold the fetch past ctx.
	done := make(chan decoded, 1)
	go func() {
		postings, err := decode(body)
		done <- decoded{postings: postings, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("decoding serpapi response: %w", res.err)
		}
		return res.postings, nil
	}
}

func decode(body []byte) ([]jobs.Posting, error) {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}
	if msg, ok := payload["error"].(string); ok && msg != "" {
		return nil, fmt.Errorf("serpapi: %s", msg)
	}

	var results []result
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &results,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(payload["jobs_results"]); err != nil {
		return nil, err
	}

	postings := make([]jobs.Posting, 0, len(results))
	for _, r := range results {
		postings = append(postings, r.posting())
	}
	return postings, nil
}

func (r result) posting() jobs.Posting {
	salary := r.Salary
	if salary == "" {
		salary = r.DetectedExtensions.Salary
	}

	requirements := make([]string, 0)
	for _, h := range r.JobHighlights {
		if strings.EqualFold(strings.TrimSpace(h.Title), "qualifications") {
			requirements = append(requirements, h.Items...)
		}
	}

	return jobs.Posting{
		Title:        r.Title,
		Company:      r.CompanyName,
		Location:     r.Location,
		SalaryRange:  jobs.StringPtr(salary),
		Description:  r.Description,
		Requirements: requirements,
		Source:       Name,
		URL:          jobs.StringPtr(r.directURL()),
	}
}

// directURL prefers the first apply link, then a highlight link, then the post URL.
func (r result) directURL() string {
	for _, opt := range r.ApplyOptions {
		if opt.Link != "" {
			return opt.Link
		}
		if opt.ApplyLink != "" {
			return opt.ApplyLink
		}
	}
	if len(r.JobHighlights) > 0 && r.JobHighlights[0].Link != "" {
		return r.JobHighlights[0].Link
	}
	if r.JobPostURL != "" {
		return r.JobPostURL
	}
	return r.ShareLink
}

// redactedError hides the API key that net/http errors carry in the request URL.
type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }

func (e *redactedError) Unwrap() error { return e.err }

func redact(err error, key string) error {
	if key == "" || !strings.Contains(err.Error(), key) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(err.Error(), key, "REDACTED"), err: err}
}

// Package httpsource is the HTTP plumbing shared by the scraping job sources: a timeout
// client, rotating browser user agents, a request rate limit and block detection.
package httpsource

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/spigell/jobhunter/internal/logger"
)

const (
	defaultTimeout = 15 * time.Second
	// maxBodySize bounds how much of a listing page is read.
	maxBodySize = 8 << 20
)

// ErrBlocked is returned when a site refuses to serve the scraper.
var ErrBlocked = errors.New("blocked by remote site")

// DefaultUserAgents is the rotation used when Options.UserAgents is empty.
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
}

// StatusError is a non-200 response that is not a block.
type StatusError struct {
	URL    string
	Status string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bad status from %s: %s", e.URL, e.Status)
}

// Options configure a Client. Zero values pick sensible defaults.
type Options struct {
	Timeout time.Duration
	// RequestsPerSecond limits outgoing requests. Zero disables the limit.
	RequestsPerSecond float64
	Burst             int
	UserAgents        []string
	Headers           map[string]string
}

// Client performs rate-limited GET requests on behalf of one source.
type Client struct {
	HTTPClient *http.Client
	limiter    *rate.Limiter
	userAgents []string
	headers    map[string]string
	logger     *zap.Logger
}

// New builds a client for a source.
func New(opts Options, l *zap.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	agents := opts.UserAgents
	if len(agents) == 0 {
		agents = DefaultUserAgents
	}

	return &Client{
		HTTPClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
		userAgents: agents,
		headers:    opts.Headers,
		logger:     logger.OrNop(l),
	}
}

// UserAgent picks one of the configured user agents.
func (c *Client) UserAgent() string {
	return c.userAgents[rand.IntN(len(c.userAgents))]
}

// Get fetches rawURL with q as its query and returns the (decompressed) body.
// 403 and 429 answers are reported as ErrBlocked, other non-200 answers as *StatusError.
func (c *Client) Get(ctx context.Context, rawURL string, q url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if q != nil {
		req.URL.RawQuery = q.Encode()
	}

	req.Header.Set("User-Agent", c.UserAgent())
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", "gzip")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	c.logger.Debug("make request", zap.String("url", redactedURL(req.URL)))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%s: %s: %w", req.URL.Host, resp.Status, ErrBlocked)
	case resp.StatusCode != http.StatusOK:
		return nil, &StatusError{URL: redactedURL(req.URL), Status: resp.Status, Code: resp.StatusCode}
	}

	var body io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		body = gz
	}

	return io.ReadAll(io.LimitReader(body, maxBodySize))
}

// secretParams are query keys whose values never reach logs or errors.
var secretParams = []string{"api_key", "apikey", "key", "token", "access_token"}

func redactedURL(u *url.URL) string {
	q := u.Query()
	hidden := false
	for _, name := range secretParams {
		if q.Has(name) {
			q.Set(name, "REDACTED")
			hidden = true
		}
	}
	if !hidden {
		return u.String()
	}

	clone := *u
	clone.RawQuery = q.Encode()
	return clone.String()
}

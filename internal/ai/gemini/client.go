// Package gemini implements ai.Completer on top of the Google GenAI SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/jobhunter/internal/logger"
	"github.com/spigell/jobhunter/internal/utils"
)

const (
	ProviderName = "gemini"

	defaultModel        = "gemini-2.5-flash"
	defaultTemperature  = 0.3
	defaultMaxLogLength = 200
	baseRetryDelay      = 2 * time.Second
	maxRetryDelay       = 30 * time.Second
)

var (
	wait = utils.WaitFor

	retryAfterRe = regexp.MustCompile(`(?i)retry (?:after|in) (\d+(?:\.\d+)?)\s*s`)
)

// contentModels is the slice of the genai client the generator needs.
type contentModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Options configures a Generator.
type Options struct {
	APIKey       string
	Model        string
	Temperature  float32
	MaxRetries   int
	MaxLogLength int
	// JSONOutput asks the model for an application/json response body.
	JSONOutput bool
}

// Generator wraps the Google GenAI client to provide simple prompt-based interactions.
type Generator struct {
	models      contentModels
	model       string
	temperature float32
	maxRetries  int
	maxLogLen   int
	jsonOutput  bool
	logger      *zap.Logger
}

// NewGenerator creates a new Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, opts Options, l *zap.Logger) (*Generator, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newGenerator(client.Models, opts, l), nil
}

func newGenerator(models contentModels, opts Options, l *zap.Logger) *Generator {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}

	temperature := opts.Temperature
	if temperature <= 0 {
		temperature = defaultTemperature
	}

	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}

	maxLogLen := opts.MaxLogLength
	if maxLogLen <= 0 {
		maxLogLen = defaultMaxLogLength
	}

	return &Generator{
		models:      models,
		model:       model,
		temperature: temperature,
		maxRetries:  maxRetries,
		maxLogLen:   maxLogLen,
		jsonOutput:  opts.JSONOutput,
		logger:      logger.WithCommonFields(l, ProviderName, model),
	}
}

// Complete sends the prompt to Gemini and returns the joined textual parts of the reply.
// Transient API failures are retried up to the configured number of attempts.
func (g *Generator) Complete(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.models == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.temperature),
	}
	if g.jsonOutput {
		cfg.ResponseMIMEType = "application/json"
	}

	g.logger.Debug("gemini generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, g.maxLogLen)),
	)

	var lastErr error
	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
		if err == nil {
			output, err := responseText(resp)
			if err != nil {
				return "", err
			}

			g.logger.Debug("gemini generate content response",
				zap.Int("attempt", attempt),
				zap.Int("response_length", utf8.RuneCountInString(output)),
				zap.String("response_preview", utils.TruncateForLog(output, g.maxLogLen)),
			)
			return output, nil
		}

		lastErr = err
		delay, retry := retryDelay(err, attempt)
		if !retry || attempt == g.maxRetries {
			break
		}

		g.logger.Warn("gemini request failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		if err := wait(ctx, delay); err != nil {
			return "", fmt.Errorf("generate content: %w", err)
		}
	}

	return "", fmt.Errorf("generate content: %w", lastErr)
}

// Model returns the configured model name.
func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

// retryDelay reports whether err is transient and how long to wait before the next attempt.
func retryDelay(err error, attempt int) (time.Duration, bool) {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return 0, false
	}

	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		if m := retryAfterRe.FindStringSubmatch(apiErr.Message); m != nil {
			seconds, perr := strconv.ParseFloat(m[1], 64)
			if perr == nil {
				delay := time.Duration(seconds * float64(time.Second))
				if delay > maxRetryDelay {
					return 0, false
				}
				return delay, true
			}
		}
		return backoff(attempt), true
	case apiErr.Code >= http.StatusInternalServerError:
		return backoff(attempt), true
	default:
		return 0, false
	}
}

func backoff(attempt int) time.Duration {
	delay := baseRetryDelay << (attempt - 1)
	if delay > maxRetryDelay {
		return maxRetryDelay
	}
	return delay
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", errors.New("gemini api returned no response")
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

package gemini

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type fakeResponse struct {
	resp *genai.GenerateContentResponse
	err  error
}

type fakeModels struct {
	mu      sync.Mutex
	queue   []fakeResponse
	calls   int
	models  []string
	configs []*genai.GenerateContentConfig
	prompts []string
}

func (f *fakeModels) enqueue(resp *genai.GenerateContentResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, fakeResponse{resp: resp, err: err})
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.models = append(f.models, model)
	f.configs = append(f.configs, config)
	for _, content := range contents {
		for _, part := range content.Parts {
			f.prompts = append(f.prompts, part.Text)
		}
	}
	if len(f.queue) == 0 {
		return nil, errors.New("unexpected call")
	}
	res := f.queue[0]
	f.queue = f.queue[1:]
	return res.resp, res.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func noWait(t *testing.T) *[]time.Duration {
	t.Helper()
	var waited []time.Duration
	original := wait
	wait = func(_ context.Context, d time.Duration) error {
		waited = append(waited, d)
		return nil
	}
	t.Cleanup(func() { wait = original })
	return &waited
}

func TestGeneratorJoinsTextParts(t *testing.T) {
	models := &fakeModels{}
	models.enqueue(textResponse(" {\"a\": ", "", "1} "), nil)

	g := newGenerator(models, Options{Model: "gemini-pro", JSONOutput: true}, zap.NewNop())

	out, err := g.Complete(context.Background(), "  prompt  ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out != "{\"a\":\n1}" {
		t.Fatalf("unexpected output: %q", out)
	}
	if models.models[0] != "gemini-pro" {
		t.Fatalf("unexpected model: %q", models.models[0])
	}
	if models.prompts[0] != "prompt" {
		t.Fatalf("expected trimmed prompt, got %q", models.prompts[0])
	}
	cfg := models.configs[0]
	if cfg.ResponseMIMEType != "application/json" {
		t.Fatalf("expected json mime type, got %q", cfg.ResponseMIMEType)
	}
	if cfg.Temperature == nil || *cfg.Temperature != defaultTemperature {
		t.Fatalf("expected default temperature, got %v", cfg.Temperature)
	}
}

func TestGeneratorRetriesOnTemporaryError(t *testing.T) {
	waited := noWait(t)

	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"})
	models.enqueue(textResponse("retry ok"), nil)

	g := newGenerator(models, Options{Model: "gemini-pro", MaxRetries: 2}, zap.NewNop())

	output, err := g.Complete(context.Background(), "message")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if output != "retry ok" {
		t.Fatalf("unexpected output: %q", output)
	}
	if models.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", models.calls)
	}
	if len(*waited) != 1 || (*waited)[0] != baseRetryDelay {
		t.Fatalf("expected a single base backoff, got %v", *waited)
	}
}

func TestGeneratorStopsAfterRetriesExhausted(t *testing.T) {
	noWait(t)

	models := &fakeModels{}
	tempErr := genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}
	models.enqueue(nil, tempErr)
	models.enqueue(nil, tempErr)

	g := newGenerator(models, Options{Model: "gemini-pro", MaxRetries: 2}, zap.NewNop())

	if _, err := g.Complete(context.Background(), "msg"); err == nil {
		t.Fatal("expected error after retries exhausted")
	}
	if models.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", models.calls)
	}
}

func TestGeneratorDoesNotRetryOnLongQuotaDelay(t *testing.T) {
	noWait(t)

	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{
		Code:    http.StatusTooManyRequests,
		Status:  "RESOURCE_EXHAUSTED",
		Message: "quota exhausted, retry after 60 seconds",
	})

	g := newGenerator(models, Options{Model: "gemini-pro", MaxRetries: 3}, zap.NewNop())

	if _, err := g.Complete(context.Background(), "msg"); err == nil {
		t.Fatal("expected error when quota delay too long")
	}
	if models.calls != 1 {
		t.Fatalf("expected single call, got %d", models.calls)
	}
}

func TestGeneratorDoesNotRetryClientErrors(t *testing.T) {
	noWait(t)

	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"})

	g := newGenerator(models, Options{MaxRetries: 3}, zap.NewNop())

	if _, err := g.Complete(context.Background(), "msg"); err == nil {
		t.Fatal("expected error")
	}
	if models.calls != 1 {
		t.Fatalf("expected single call, got %d", models.calls)
	}
	if g.Model() != defaultModel {
		t.Fatalf("expected default model, got %q", g.Model())
	}
}

func TestGeneratorRejectsEmptyResponses(t *testing.T) {
	models := &fakeModels{}
	models.enqueue(textResponse("   "), nil)

	g := newGenerator(models, Options{}, zap.NewNop())

	if _, err := g.Complete(context.Background(), "msg"); err == nil {
		t.Fatal("expected error for empty response")
	}
	if _, err := g.Complete(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty prompt")
	}
}

// Package ai holds the boundary to external text-completion services and the helpers
// used to read loosely structured JSON out of their replies.
package ai

import (
	"context"
	"errors"
	"fmt"
)

// Completer turns a prompt into free-form text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CompleterFunc adapts a plain function to the Completer interface.
type CompleterFunc func(ctx context.Context, prompt string) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// ErrNoCompleter is reported when a component needs a completion but none is configured.
var ErrNoCompleter = errors.New("text completion service is not configured")

// ExternalServiceError describes a failed call to, or unusable reply from, a completion service.
// Callers in the core recover from it locally and never return it.
type ExternalServiceError struct {
	Op  string
	Err error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// Call runs the completion and wraps any failure, including a nil completer, as an
// *ExternalServiceError tagged with op.
func Call(ctx context.Context, c Completer, op, prompt string) (string, error) {
	if c == nil {
		return "", &ExternalServiceError{Op: op, Err: ErrNoCompleter}
	}

	raw, err := c.Complete(ctx, prompt)
	if err != nil {
		return "", &ExternalServiceError{Op: op, Err: err}
	}

	return raw, nil
}

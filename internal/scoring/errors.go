package scoring

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is matched by every *InvalidInputError.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError reports a resume that cannot be scored.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

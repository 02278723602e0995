package assistant

import (
	"errors"

	"github.com/bitrise-io/bitrise-plugins-code-assistant/llm"
)

// ErrMissingCredential makes the dispatcher run the API key setup instead of failing
var ErrMissingCredential = llm.ErrMissingAPIKey

// errSuperseded is the cancel cause of a task replaced by a newer one of the same kind
var errSuperseded = errors.New("superseded by a newer request")

// PreconditionError is shown to the user as is, nothing was sent
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string {
	return e.Message
}

func precondition(message string) error {
	return &PreconditionError{Message: message}
}

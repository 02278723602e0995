package llm

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMissingAPIKey is returned before any request is made when no key is configured
	ErrMissingAPIKey = errors.New("please set your API key first")
	// ErrMalformedResponse is returned for a successful reply without completion text
	ErrMalformedResponse = errors.New("unexpected API response format")
)

// RequestError is a non-2xx reply from the remote API
type RequestError struct {
	StatusCode int
	Status     string
	// Message is the remote error.message, if the body carried one
	Message string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Status != "" {
		return e.Status
	}
	if text := http.StatusText(e.StatusCode); text != "" {
		return fmt.Sprintf("%d %s", e.StatusCode, text)
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

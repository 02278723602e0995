package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/bitrise-io/bitrise-plugins-code-assistant/logger"
	"github.com/bitrise-io/bitrise-plugins-code-assistant/model"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// OptionType defines the type of option
type OptionType string

// Available option types
const (
	ModelNameOption   OptionType = "model"
	ModelPrefixOption OptionType = "model_prefix"
	BaseURLOption     OptionType = "base_url"
	APITimeoutOption  OptionType = "api_timeout"
)

// Option represents a generic configuration option for any LLM provider
type Option struct {
	Type  OptionType
	Value any
}

// WithModel creates an option to set the model name
func WithModel(model string) Option {
	return Option{
		Type:  ModelNameOption,
		Value: model,
	}
}

// WithModelPrefix creates an option to prepend a routing prefix (e.g. "hf:") to the model name
func WithModelPrefix(prefix string) Option {
	return Option{
		Type:  ModelPrefixOption,
		Value: prefix,
	}
}

// WithBaseURL creates an option to point the client at a different endpoint
func WithBaseURL(baseURL string) Option {
	return Option{
		Type:  BaseURLOption,
		Value: baseURL,
	}
}

// WithAPITimeout creates an option to set the API timeout in seconds, zero disables it
func WithAPITimeout(timeout int) Option {
	return Option{
		Type:  APITimeoutOption,
		Value: timeout,
	}
}

// LLM defines the interface for language model prompting
type LLM interface {
	// Prompt sends a single chat request and returns the first completion's text
	Prompt(ctx context.Context, req model.ChatRequest) (string, error)
}

// NewLLM creates a client for the named provider
func NewLLM(providerName, apiKey string, opts ...Option) (LLM, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	var llmClient LLM
	var err error

	switch providerName {
	case ProviderOpenAI, "":
		llmClient, err = NewOpenAI(apiKey, opts...)
	case ProviderAnthropic:
		llmClient, err = NewAnthropic(apiKey, opts...)
	default:
		err = fmt.Errorf("unsupported provider: %s", providerName)
	}

	if err == nil {
		logger.Debugf("Using LLM provider: %s", providerName)
	}

	return llmClient, err
}

// withTimeout applies the timeout only when one is configured
func withTimeout(ctx context.Context, seconds int) (context.Context, context.CancelFunc) {
	if seconds <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, time.Duration(seconds)*time.Second)
}

package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/bitrise-io/bitrise-plugins-code-assistant/common"
	"github.com/bitrise-io/bitrise-plugins-code-assistant/logger"
	"github.com/bitrise-io/bitrise-plugins-code-assistant/model"
	"github.com/tidwall/gjson"
)

// AnthropicModel implements the LLM interface using Anthropic's API
type AnthropicModel struct {
	client     anthropic.Client
	modelName  string
	apiTimeout int // in seconds
}

// NewAnthropic creates a new Anthropic client
func NewAnthropic(apiKey string, opts ...Option) (*AnthropicModel, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	model := &AnthropicModel{
		modelName: common.DefaultAnthropicModel,
	}
	baseURL := ""

	for _, opt := range opts {
		switch opt.Type {
		case ModelNameOption:
			if modelName, ok := opt.Value.(string); ok && modelName != "" {
				model.modelName = modelName
			}
		case BaseURLOption:
			if url, ok := opt.Value.(string); ok {
				baseURL = url
			}
		case APITimeoutOption:
			if timeout, ok := opt.Value.(int); ok {
				model.apiTimeout = timeout
			}
		}
	}

	retryClient := common.NewRetryableClient(common.DefaultRetryConfig())
	clientOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(retryClient.StandardClient()),
		option.WithMaxRetries(0),
	}
	// the OpenAI compatible default endpoint does not speak the messages API
	if baseURL != "" && baseURL != common.DefaultBaseURL {
		clientOpts = append(clientOpts, option.WithBaseURL(baseURL))
	}
	model.client = anthropic.NewClient(clientOpts...)

	logger.Debugf("Anthropic client initialized with model: %s, timeout: %d seconds", model.modelName, model.apiTimeout)

	return model, nil
}

// Prompt sends a request to Anthropic and returns the concatenated text blocks
func (a *AnthropicModel) Prompt(ctx context.Context, req model.ChatRequest) (string, error) {
	ctx, cancel := withTimeout(ctx, a.apiTimeout)
	defer cancel()

	messageParams := anthropic.MessageNewParams{
		Model:     a.requestModel(),
		MaxTokens: int64(req.MaxTokens),
		System: []anthropic.TextBlockParam{
			{Text: req.SystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.UserPrompt)),
		},
		Temperature: anthropic.Float(float64(req.Temperature)),
	}

	logger.Infof("Sending request to Anthropic with model %s, max tokens %d", messageParams.Model, req.MaxTokens)

	message, err := a.client.Messages.New(ctx, messageParams)
	if err != nil {
		err = anthropicError(err)
		logger.Errorf("Anthropic request failed: %v", err)
		return "", err
	}

	var content string
	for _, block := range message.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			content += b.Text
		}
	}

	if content == "" {
		return "", ErrMalformedResponse
	}
	return content, nil
}

func (a *AnthropicModel) requestModel() anthropic.Model {
	switch a.modelName {
	case "claude-3.7-sonnet":
		return anthropic.ModelClaude3_7SonnetLatest
	case "claude-3.5-sonnet":
		return anthropic.ModelClaude3_5SonnetLatest
	case "claude-3.5-haiku":
		return anthropic.ModelClaude3_5HaikuLatest
	}
	return anthropic.Model(a.modelName)
}

// anthropicError maps SDK errors onto RequestError
func anthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		reqErr := &RequestError{
			StatusCode: apiErr.StatusCode,
			Message:    gjson.Get(apiErr.RawJSON(), "error.message").String(),
		}
		if text := http.StatusText(apiErr.StatusCode); text != "" {
			reqErr.Status = fmt.Sprintf("%d %s", apiErr.StatusCode, text)
		}
		return reqErr
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("AI request failed: %w", err)
}

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bitrise-io/bitrise-plugins-code-assistant/common"
	"github.com/bitrise-io/bitrise-plugins-code-assistant/logger"
	"github.com/bitrise-io/bitrise-plugins-code-assistant/model"
	"github.com/sashabaranov/go-openai"
)

// OpenAIModel implements the LLM interface against any OpenAI compatible chat completion API
type OpenAIModel struct {
	client      *openai.Client
	modelName   string
	modelPrefix string
	apiTimeout  int // in seconds
}

// NewOpenAI creates a new OpenAI compatible client
func NewOpenAI(apiKey string, opts ...Option) (*OpenAIModel, error) {
	if apiKey == "" {
		logger.Error("OpenAI API key cannot be empty")
		return nil, ErrMissingAPIKey
	}

	model := &OpenAIModel{
		modelName:   common.DefaultModel,
		modelPrefix: common.DefaultModelPrefix,
	}
	baseURL := common.DefaultBaseURL

	for _, opt := range opts {
		switch opt.Type {
		case ModelNameOption:
			if modelName, ok := opt.Value.(string); ok && modelName != "" {
				model.modelName = modelName
			}
		case ModelPrefixOption:
			if prefix, ok := opt.Value.(string); ok {
				model.modelPrefix = prefix
			}
		case BaseURLOption:
			if url, ok := opt.Value.(string); ok && url != "" {
				baseURL = url
			}
		case APITimeoutOption:
			if timeout, ok := opt.Value.(int); ok {
				model.apiTimeout = timeout
			}
		}
	}

	// Single attempt; the pass-through handler keeps error bodies readable
	retryClient := common.NewRetryableClient(common.DefaultRetryConfig())

	config := openai.DefaultConfig(apiKey)
	config.BaseURL = strings.TrimRight(baseURL, "/")
	config.HTTPClient = retryClient.StandardClient()
	model.client = openai.NewClientWithConfig(config)

	logger.Debugf("OpenAI client initialized with model: %s, base url: %s, timeout: %d seconds",
		model.requestModel(), config.BaseURL, model.apiTimeout)

	return model, nil
}

// Prompt sends a request to the chat completion endpoint and returns the first choice's content
func (o *OpenAIModel) Prompt(ctx context.Context, req model.ChatRequest) (string, error) {
	ctx, cancel := withTimeout(ctx, o.apiTimeout)
	defer cancel()

	chatReq := openai.ChatCompletionRequest{
		Model: o.requestModel(),
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: req.SystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.UserPrompt,
			},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Stream:      false,
	}

	logger.Infof("Sending request with model %s, messages %d, max tokens %d",
		chatReq.Model, len(chatReq.Messages), chatReq.MaxTokens)

	resp, err := o.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		err = openAIError(err)
		logger.Errorf("Chat completion failed: %v", err)
		return "", err
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		logger.Errorf("Unexpected API response: %d choices", len(resp.Choices))
		return "", ErrMalformedResponse
	}

	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAIModel) requestModel() string {
	if o.modelPrefix == "" || strings.HasPrefix(o.modelName, o.modelPrefix) {
		return o.modelName
	}
	return o.modelPrefix + o.modelName
}

// openAIError maps go-openai errors onto RequestError
func openAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &RequestError{
			StatusCode: apiErr.HTTPStatusCode,
			Status:     apiErr.HTTPStatus,
			Message:    apiErr.Message,
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &RequestError{
			StatusCode: reqErr.HTTPStatusCode,
			Status:     reqErr.HTTPStatus,
		}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("AI request failed: %w", err)
}

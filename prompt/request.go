package prompt

import "github.com/bitrise-io/bitrise-plugins-code-assistant/model"

// Tuning carries the per-session request parameters
type Tuning struct {
	Temperature float32
	MaxTokens   int
}

// NewRequest pairs the user prompt with the system prompt chosen by codeRelated.
// Callers are expected to reject empty input before building a request.
func NewRequest(userPrompt string, codeRelated bool, tuning Tuning) model.ChatRequest {
	req := model.ChatRequest{
		SystemPrompt: GetSystemPrompt(codeRelated),
		UserPrompt:   userPrompt,
		Temperature:  tuning.Temperature,
		MaxTokens:    tuning.MaxTokens,
	}
	if req.MaxTokens <= 0 {
		req.MaxTokens = model.DefaultMaxTokens
	}
	return req
}

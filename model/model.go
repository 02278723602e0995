package model

// Default request tuning, kept low so replies fit in a notification
const (
	DefaultTemperature = 0.5
	DefaultMaxTokens   = 150
)

// ChatRequest represents a single system + user prompt exchange with the LLM
type ChatRequest struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float32
	MaxTokens    int
}

// CodeFix is a fix-code reply decomposed into its three sections
type CodeFix struct {
	Issues       string
	Improvements string
	FixedCode    string
}

package assistant

import "context"

// Selection is the text the user highlighted in a document
type Selection struct {
	// Document identifies the source, e.g. a file path
	Document string
	// StartLine and EndLine are 1-based and inclusive; zero means the whole document
	StartLine int
	EndLine   int
	Text      string
	Language  string
}

// InputOptions describes an input box
type InputOptions struct {
	Prompt      string
	Placeholder string
	Value       string
	Secret      bool
	// Validate returns a non-empty message when the input is rejected
	Validate func(string) string
}

// Host is the editor surface the assistant drives
type Host interface {
	ShowInfo(message string)
	ShowError(message string)
	ShowPanel(title, body string)
	// PromptInput returns ok=false when the user dismissed the input
	PromptInput(ctx context.Context, opts InputOptions) (value string, ok bool, err error)
	// Confirm returns the chosen option, or "" when dismissed
	Confirm(ctx context.Context, message string, options ...string) (string, error)
	// Selection returns ok=false when there is no active editor
	Selection() (Selection, bool)
	ReplaceSelection(sel Selection, text string) error
	ShowPresence(state PresenceState)
}

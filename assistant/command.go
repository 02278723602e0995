package assistant

// Kind identifies a user command
type Kind string

const (
	KindAskQuestion         Kind = "ask-question"
	KindSetAPIKey           Kind = "set-api-key"
	KindSelectModel         Kind = "select-model"
	KindToggleNotifications Kind = "toggle-notifications"
	KindExplainSelection    Kind = "explain-selection"
	KindSuggestFix          Kind = "suggest-fix"
	KindWakeAvatar          Kind = "wake-avatar"
)

// Command is one of the concrete command types below
type Command interface {
	Kind() Kind
}

type AskQuestion struct {
	Question string
}

type SetAPIKey struct{}

type SelectModel struct{}

type ToggleNotifications struct{}

type ExplainSelection struct{}

type SuggestFix struct{}

type WakeAvatar struct{}

func (AskQuestion) Kind() Kind         { return KindAskQuestion }
func (SetAPIKey) Kind() Kind           { return KindSetAPIKey }
func (SelectModel) Kind() Kind         { return KindSelectModel }
func (ToggleNotifications) Kind() Kind { return KindToggleNotifications }
func (ExplainSelection) Kind() Kind    { return KindExplainSelection }
func (SuggestFix) Kind() Kind          { return KindSuggestFix }
func (WakeAvatar) Kind() Kind          { return KindWakeAvatar }

// ParseKind maps a command name as typed by the user to its Kind
func ParseKind(name string) (Kind, bool) {
	switch k := Kind(name); k {
	case KindAskQuestion, KindSetAPIKey, KindSelectModel, KindToggleNotifications,
		KindExplainSelection, KindSuggestFix, KindWakeAvatar:
		return k, true
	}
	return "", false
}

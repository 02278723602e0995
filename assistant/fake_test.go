package assistant

import (
	"context"
	"sync"

	"github.com/bitrise-io/bitrise-plugins-code-assistant/common"
	"github.com/bitrise-io/bitrise-plugins-code-assistant/llm"
	"github.com/bitrise-io/bitrise-plugins-code-assistant/model"
)

type fakeHost struct {
	mu        sync.Mutex
	infos     []string
	errors    []string
	panels    []string
	presences []PresenceState
	prompts   []InputOptions
	replaced  []string
	confirms  []string

	inputs    []string
	dismissed bool
	choice    string
	selection *Selection
}

func (h *fakeHost) ShowInfo(message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.infos = append(h.infos, message)
}

func (h *fakeHost) ShowError(message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors = append(h.errors, message)
}

func (h *fakeHost) ShowPanel(title, body string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.panels = append(h.panels, title+"\n"+body)
}

func (h *fakeHost) PromptInput(_ context.Context, opts InputOptions) (string, bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.prompts = append(h.prompts, opts)
	if h.dismissed || len(h.inputs) == 0 {
		return "", false, nil
	}
	value := h.inputs[0]
	h.inputs = h.inputs[1:]
	if opts.Validate != nil && opts.Validate(value) != "" {
		return "", false, nil
	}
	return value, true, nil
}

func (h *fakeHost) Confirm(_ context.Context, message string, _ ...string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.confirms = append(h.confirms, message)
	return h.choice, nil
}

func (h *fakeHost) Selection() (Selection, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.selection == nil {
		return Selection{}, false
	}
	return *h.selection, true
}

func (h *fakeHost) ReplaceSelection(_ Selection, text string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.replaced = append(h.replaced, text)
	return nil
}

func (h *fakeHost) ShowPresence(state PresenceState) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.presences = append(h.presences, state)
}

func (h *fakeHost) lastInfo() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.infos) == 0 {
		return ""
	}
	return h.infos[len(h.infos)-1]
}

// fakeLLM records requests and answers with a fixed reply
type fakeLLM struct {
	mu       sync.Mutex
	requests []model.ChatRequest
	reply    string
	err      error
	// block, when set, holds Prompt until it is closed or ctx is done
	block chan struct{}
}

func (f *fakeLLM) Prompt(ctx context.Context, req model.ChatRequest) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	block := f.block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.reply, f.err
}

func (f *fakeLLM) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func newTestAssistant(host *fakeHost, client *fakeLLM, settings common.Settings) (*Assistant, *common.Session) {
	session := common.NewSession(settings, nil)
	a := New(session, host,
		WithClientFactory(func(common.Settings) (llm.LLM, error) { return client, nil }),
		WithPresenceDelays(PresenceDelays{}),
		withPicker(func(int) int { return 0 }),
	)
	return a, session
}

func settingsWithKey() common.Settings {
	settings := common.WithDefaultSettings()
	settings.APIKey = "key"
	return settings
}

package assistant

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/bitrise-io/bitrise-plugins-code-assistant/common"
	"github.com/bitrise-io/bitrise-plugins-code-assistant/llm"
	"github.com/bitrise-io/bitrise-plugins-code-assistant/logger"
)

// Handler runs a single command
type Handler func(ctx context.Context, cmd Command) error

// Registry maps every command kind to its handler
type Registry map[Kind]Handler

// ClientFactory builds an LLM client from the settings snapshot of one request
type ClientFactory func(settings common.Settings) (llm.LLM, error)

// DefaultClientFactory creates a client for the configured provider
func DefaultClientFactory(settings common.Settings) (llm.LLM, error) {
	return llm.NewLLM(settings.Provider, settings.APIKey,
		llm.WithModel(settings.Model),
		llm.WithModelPrefix(settings.ModelPrefix),
		llm.WithBaseURL(settings.BaseURL),
		llm.WithAPITimeout(settings.APITimeout),
	)
}

// Assistant dispatches user commands against a host
type Assistant struct {
	session   *common.Session
	host      Host
	newClient ClientFactory
	presence  *Presence
	tasks     *Tasks
	registry  Registry
	pick      func(n int) int
}

// Option customizes an Assistant
type Option func(*Assistant)

// WithClientFactory replaces the LLM client factory
func WithClientFactory(factory ClientFactory) Option {
	return func(a *Assistant) { a.newClient = factory }
}

// WithPresenceDelays sets how long transient avatar states last
func WithPresenceDelays(delays PresenceDelays) Option {
	return func(a *Assistant) { a.presence = NewPresence(delays, a.host.ShowPresence) }
}

func withPicker(pick func(n int) int) Option {
	return func(a *Assistant) { a.pick = pick }
}

func New(session *common.Session, host Host, opts ...Option) *Assistant {
	a := &Assistant{
		session:   session,
		host:      host,
		newClient: DefaultClientFactory,
		tasks:     NewTasks(),
		pick:      rand.IntN,
	}
	a.presence = NewPresence(DefaultPresenceDelays(), host.ShowPresence)

	for _, opt := range opts {
		opt(a)
	}

	a.registry = Registry{
		KindAskQuestion:         handle(a.askQuestion),
		KindSetAPIKey:           handle(a.setAPIKey),
		KindSelectModel:         handle(a.selectModel),
		KindToggleNotifications: handle(a.toggleNotifications),
		KindExplainSelection:    handle(a.explainSelection),
		KindSuggestFix:          handle(a.suggestFix),
		KindWakeAvatar:          handle(a.wakeAvatar),
	}
	return a
}

// handle adapts a handler for one concrete command type
func handle[C Command](fn func(context.Context, C) error) Handler {
	return func(ctx context.Context, cmd Command) error {
		c, ok := cmd.(C)
		if !ok {
			return fmt.Errorf("handler cannot run %T", cmd)
		}
		return fn(ctx, c)
	}
}

// register replaces the handler of a kind
func (a *Assistant) register(kind Kind, h Handler) {
	a.registry[kind] = h
}

// Presence returns the avatar state tracker
func (a *Assistant) Presence() *Presence {
	return a.presence
}

// Dispatch runs cmd. Errors are reported to the host and returned.
// A running command of the same kind is canceled first.
func (a *Assistant) Dispatch(ctx context.Context, cmd Command) error {
	h, ok := a.registry[cmd.Kind()]
	if !ok {
		return fmt.Errorf("unknown command: %s", cmd.Kind())
	}

	ctx, id, done := a.tasks.Start(ctx, cmd.Kind())
	defer done()
	log := logger.With("command", cmd.Kind(), "task", id)
	log.Debug("Running command")

	err := h(ctx, cmd)
	if errors.Is(err, ErrMissingCredential) {
		log.Info("No API key configured, starting key setup")
		a.presence.Set(Attentive)
		err = a.setupAPIKey(ctx)
	}
	if err == nil {
		return nil
	}

	if superseded(ctx) {
		log.Debug("Command superseded by a newer one")
		return err
	}

	log.Errorf("Command failed: %v", err)
	a.host.ShowError("Error: " + err.Error())
	a.presence.Set(Resting)
	return err
}

// client builds an LLM client or reports the missing key
func (a *Assistant) client(settings common.Settings) (llm.LLM, error) {
	if settings.APIKey == "" {
		return nil, ErrMissingCredential
	}
	return a.newClient(settings)
}

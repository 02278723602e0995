package common

import "sync"

// Persister stores a single setting value in one scope
type Persister interface {
	Save(scope Scope, key, value string) error
}

// Session is the in-memory configuration shared by all commands.
// Readers take a Snapshot; writes go through the setters only.
type Session struct {
	mu        sync.RWMutex
	settings  Settings
	persister Persister
}

// NewSession wraps settings loaded at startup. persister may be nil to keep changes in memory.
func NewSession(settings Settings, persister Persister) *Session {
	return &Session{
		settings:  settings,
		persister: persister,
	}
}

// Snapshot returns a copy of the current settings
func (s *Session) Snapshot() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// SetModel persists the model to user scope and then updates memory
func (s *Session) SetModel(model string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(KeyModel, model); err != nil {
		return err
	}
	s.settings.Model = model
	return nil
}

// SetAPIKey persists the key to user scope and then updates memory
func (s *Session) SetAPIKey(apiKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(KeyAPIKey, apiKey); err != nil {
		return err
	}
	s.settings.APIKey = apiKey
	return nil
}

// ToggleNotifications flips the display mode and returns the new value. It is not persisted.
func (s *Session) ToggleNotifications() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings.Notifications = !s.settings.Notifications
	return s.settings.Notifications
}

func (s *Session) persist(key, value string) error {
	if s.persister == nil {
		return nil
	}
	return s.persister.Save(ScopeUser, key, value)
}

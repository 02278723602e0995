package common

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitrise-io/bitrise-plugins-code-assistant/logger"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultProvider    = "openai"
	DefaultModel       = "gpt-3.5-turbo"
	DefaultBaseURL     = "https://glhf.chat/api/openai/v1"
	DefaultModelPrefix = "hf:"

	settingsDirName       = "code-assistant"
	settingsFileName      = "settings.yml"
	workspaceSettingsFile = ".code-assistant.yml"
)

// DefaultAnthropicModel replaces DefaultModel when the provider is anthropic
const DefaultAnthropicModel = "claude-3.7-sonnet"

// Setting keys as they appear in the YAML files
const (
	KeyModel  = "model"
	KeyAPIKey = "api_key"
)

// Scope selects which settings file a write goes to
type Scope string

const (
	ScopeUser      Scope = "user"
	ScopeWorkspace Scope = "workspace"
)

type Settings struct {
	Provider      string  `yaml:"provider"`
	Model         string  `yaml:"model"`
	APIKey        string  `yaml:"api_key"`
	BaseURL       string  `yaml:"base_url"`
	ModelPrefix   string  `yaml:"model_prefix"`
	Temperature   float32 `yaml:"temperature"`
	MaxTokens     int     `yaml:"max_tokens"`
	APITimeout    int     `yaml:"api_timeout"`
	Notifications bool    `yaml:"notifications"`
}

func WithDefaultSettings() Settings {
	return Settings{
		Provider:      DefaultProvider,
		Model:         DefaultModel,
		BaseURL:       DefaultBaseURL,
		ModelPrefix:   DefaultModelPrefix,
		Temperature:   0.5,
		MaxTokens:     150,
		Notifications: true,
	}
}

// WithYamlFile overlays the keys present in the file at path onto settings.
// A missing, unreadable or invalid file leaves settings untouched.
func WithYamlFile(settings Settings, path string) Settings {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Infof("Failed to read settings file %s: %v", path, err)
		}
		return settings
	}

	overlay := settings
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		logger.Infof("Failed to parse YAML file %s: %v", path, err)
		return settings
	}
	logger.Debugf("Using settings from YAML file: %s", path)
	return overlay
}

// WithEnv overlays LLM_* environment variables, loading .env from the working directory first
func WithEnv(settings Settings) Settings {
	if err := godotenv.Load(); err == nil {
		logger.Debug("Loaded environment from .env")
	}

	if v := os.Getenv("LLM_API_KEY"); v != "" {
		settings.APIKey = v
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		settings.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		settings.Model = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		settings.BaseURL = v
	}
	return WithProviderModel(settings)
}

// WithProviderModel swaps the OpenAI default model for the default of the configured provider.
// A model chosen explicitly for another provider is kept.
func WithProviderModel(settings Settings) Settings {
	if settings.Model == "" || settings.Model == DefaultModel {
		settings.Model = DefaultModelFor(settings.Provider)
	}
	return settings
}

// DefaultModelFor returns the model used when none is configured for provider
func DefaultModelFor(provider string) string {
	if provider == "anthropic" {
		return DefaultAnthropicModel
	}
	return DefaultModel
}

// Store reads and writes the user wide and workspace settings files
type Store struct {
	UserPath      string
	WorkspacePath string
}

// NewStore returns a store rooted at the OS user config dir and the given workspace dir
func NewStore(workspaceDir string) Store {
	userPath := ""
	if dir, err := os.UserConfigDir(); err == nil {
		userPath = filepath.Join(dir, settingsDirName, settingsFileName)
	} else {
		logger.Warnf("No user config directory, user settings disabled: %v", err)
	}

	return Store{
		UserPath:      userPath,
		WorkspacePath: filepath.Join(workspaceDir, workspaceSettingsFile),
	}
}

// Load resolves defaults, then user settings, then workspace settings
func (s Store) Load() Settings {
	settings := WithDefaultSettings()
	if s.UserPath != "" {
		settings = WithYamlFile(settings, s.UserPath)
	}
	if s.WorkspacePath != "" {
		settings = WithYamlFile(settings, s.WorkspacePath)
	}
	return WithProviderModel(settings)
}

// Save writes a single key into the file of the given scope, keeping other keys as they are
func (s Store) Save(scope Scope, key, value string) error {
	path, err := s.path(scope)
	if err != nil {
		return err
	}

	values := map[string]interface{}{}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &values); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if values == nil {
			values = map[string]interface{}{}
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	values[key] = value

	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	// the file can hold the API key
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	logger.Debugf("Saved %s to %s settings", key, scope)
	return nil
}

func (s Store) path(scope Scope) (string, error) {
	switch scope {
	case ScopeUser:
		if s.UserPath == "" {
			return "", fmt.Errorf("user settings location is not available")
		}
		return s.UserPath, nil
	case ScopeWorkspace:
		return s.WorkspacePath, nil
	}
	return "", fmt.Errorf("unknown settings scope: %s", scope)
}

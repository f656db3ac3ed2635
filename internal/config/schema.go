package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/coopco/toolcall/internal/providers"
)

// DefaultPrompt is the question asked when none is given.
const DefaultPrompt = "What's the current stock price for Apple?"

// ErrMissingAPIKey is returned by Validate when the selected provider needs a key.
var ErrMissingAPIKey = errors.New("API key is not set")

// Config is the top-level configuration
type Config struct {
	Provider ProviderConfig `json:"provider"`
	Agent    AgentConfig    `json:"agent"`
	Log      LogConfig      `json:"log"`
}

// ProviderConfig selects the model service. Name may be empty, in which case
// the provider is inferred from the model name.
type ProviderConfig struct {
	Name    string `json:"name"`
	APIKey  string `json:"apiKey"`
	BaseURL string `json:"baseUrl"`
}

type AgentConfig struct {
	Model         string `json:"model"`
	MaxTokens     int    `json:"maxTokens"`
	MaxToolRounds int    `json:"maxToolRounds"`
	Prompt        string `json:"prompt"`
}

type LogConfig struct {
	Level string `json:"level"` // debug, info, warn, error
}

// DefaultConfig returns a Config with sensible defaults applied.
func DefaultConfig() *Config {
	return &Config{
		Agent: AgentConfig{
			Model:         "claude-sonnet-4-20250514",
			MaxTokens:     4096,
			MaxToolRounds: 10,
			Prompt:        DefaultPrompt,
		},
		Log: LogConfig{Level: "warn"},
	}
}

// ProviderSpec resolves the configured provider.
func (c *Config) ProviderSpec() (*providers.ProviderSpec, error) {
	return providers.Resolve(c.Provider.Name, c.Agent.Model)
}

// Validate checks the settings needed to start a run.
func (c *Config) Validate() error {
	spec, err := c.ProviderSpec()
	if err != nil {
		return err
	}
	if !spec.IsLocal && strings.TrimSpace(c.Provider.APIKey) == "" {
		if spec.EnvKey != "" {
			return fmt.Errorf("%w: set %s or TOOLCALL_API_KEY", ErrMissingAPIKey, spec.EnvKey)
		}
		return fmt.Errorf("%w: set TOOLCALL_API_KEY", ErrMissingAPIKey)
	}
	if c.Agent.MaxTokens <= 0 {
		return fmt.Errorf("agent.maxTokens must be positive, got %d", c.Agent.MaxTokens)
	}
	if strings.TrimSpace(c.Agent.Prompt) == "" {
		return errors.New("agent.prompt is required")
	}
	return nil
}

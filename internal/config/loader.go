package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Load loads config from the default path (~/.toolcall/config.json). A missing
// file is not an error; defaults and environment overrides still apply.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	cfg, err := LoadFromFile(filepath.Join(home, ".toolcall", "config.json"))
	if errors.Is(err, fs.ErrNotExist) {
		cfg = DefaultConfig()
		if err := applyEnvOverrides(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return cfg, err
}

// LoadFromFile loads config from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer f.Close()
	return LoadFromReader(f)
}

// LoadFromReader loads config from an io.Reader, applying defaults and env overrides.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()

	if err := json.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE files into the process environment. Variables
// already set are kept and missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// applyEnvOverrides applies TOOLCALL_-prefixed environment variable overrides.
// The provider's own key variable is read later by FillAPIKey, once the
// provider is final.
func applyEnvOverrides(cfg *Config) error {
	envMap := map[string]*string{
		"TOOLCALL_PROVIDER":  &cfg.Provider.Name,
		"TOOLCALL_API_KEY":   &cfg.Provider.APIKey,
		"TOOLCALL_BASE_URL":  &cfg.Provider.BaseURL,
		"TOOLCALL_MODEL":     &cfg.Agent.Model,
		"TOOLCALL_PROMPT":    &cfg.Agent.Prompt,
		"TOOLCALL_LOG_LEVEL": &cfg.Log.Level,
	}
	for env, ptr := range envMap {
		if val := os.Getenv(env); val != "" {
			*ptr = val
		}
	}

	intMap := map[string]*int{
		"TOOLCALL_MAX_TOKENS":      &cfg.Agent.MaxTokens,
		"TOOLCALL_MAX_TOOL_ROUNDS": &cfg.Agent.MaxToolRounds,
	}
	for env, ptr := range intMap {
		val := os.Getenv(env)
		if val == "" {
			continue
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", env, val, err)
		}
		*ptr = n
	}

	return nil
}

// FillAPIKey reads the API key from the selected provider's variable (e.g.
// ANTHROPIC_API_KEY) when none was set in the file or TOOLCALL_API_KEY. Call
// it once, after every provider and model override is applied.
func (c *Config) FillAPIKey() {
	if c.Provider.APIKey != "" {
		return
	}
	spec, err := c.ProviderSpec()
	if err != nil || spec.EnvKey == "" {
		return
	}
	c.Provider.APIKey = os.Getenv(spec.EnvKey)
}

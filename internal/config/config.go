package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/steveyegge/workup/internal/cost"
	"github.com/steveyegge/workup/internal/errs"
	"github.com/steveyegge/workup/internal/gateway"
	"github.com/steveyegge/workup/internal/scaffold"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = ".workup.yaml"

// Config is the workup configuration loaded from YAML.
type Config struct {
	// Provider selects the LLM backend: "anthropic" or "gemini"
	Provider string `yaml:"provider"`

	// Model overrides the provider's default model
	Model string `yaml:"model,omitempty"`

	// BaseURL points the client at a different API endpoint
	BaseURL string `yaml:"base_url,omitempty"`

	// APIKeyEnv names the environment variable holding the API key.
	// Empty means the provider default (ANTHROPIC_API_KEY / GEMINI_API_KEY).
	APIKeyEnv string `yaml:"api_key_env,omitempty"`

	// Timeout bounds each LLM request, e.g. "60s", "2m"
	Timeout string `yaml:"timeout"`

	// MaxTokens caps each model reply
	MaxTokens int `yaml:"max_tokens"`

	// MaxSessionTokens caps the tokens spent per session; 0 = unlimited
	MaxSessionTokens int `yaml:"max_session_tokens"`

	// Language is the starter-code language: "python" or "javascript"
	Language string `yaml:"language"`

	// OutputDir receives flowchart.png, project_structure.zip and project_table.csv
	OutputDir string `yaml:"output_dir"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Provider:  gateway.ProviderAnthropic,
		Timeout:   "60s",
		MaxTokens: gateway.DefaultMaxTokens,
		Language:  scaffold.DefaultLanguage,
		OutputDir: ".",
	}
}

// Load reads the configuration at path. A missing file yields Default().
// Environment overrides are applied last:
//   - WORKUP_PROVIDER: LLM provider
//   - WORKUP_MODEL: model name
//   - WORKUP_BASE_URL: API endpoint
//   - WORKUP_MAX_TOKENS: reply token cap
//   - WORKUP_MAX_SESSION_TOKENS: session token budget
//   - WORKUP_LANGUAGE: starter-code language
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	parseEnvString("WORKUP_PROVIDER", &cfg.Provider)
	parseEnvString("WORKUP_MODEL", &cfg.Model)
	parseEnvString("WORKUP_BASE_URL", &cfg.BaseURL)
	parseEnvString("WORKUP_LANGUAGE", &cfg.Language)
	if err := parseEnvInt("WORKUP_MAX_TOKENS", &cfg.MaxTokens); err != nil {
		return err
	}
	return parseEnvInt("WORKUP_MAX_SESSION_TOKENS", &cfg.MaxSessionTokens)
}

// Validate checks that the configuration has usable values.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Provider) {
	case gateway.ProviderAnthropic, gateway.ProviderGemini:
	default:
		return errs.Unsupported("provider", c.Provider)
	}
	if _, err := scaffold.LookupLanguage(c.Language); err != nil {
		return err
	}
	if c.MaxTokens < 1 {
		return fmt.Errorf("max_tokens must be at least 1 (got %d)", c.MaxTokens)
	}
	if c.MaxSessionTokens < 0 {
		return fmt.Errorf("max_session_tokens cannot be negative (got %d)", c.MaxSessionTokens)
	}
	d, err := c.TimeoutDuration()
	if err != nil {
		return err
	}
	if d <= 0 {
		return fmt.Errorf("timeout must be positive (got %s)", c.Timeout)
	}
	return nil
}

// TimeoutDuration parses Timeout as a Go duration such as "30s" or "2m".
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return gateway.DefaultTimeout, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	return d, nil
}

// Gateway converts the configuration into gateway settings. The API key is
// read from APIKeyEnv when set.
func (c *Config) Gateway() (*gateway.Config, error) {
	timeout, err := c.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	gc := &gateway.Config{
		Provider:  c.Provider,
		BaseURL:   c.BaseURL,
		Model:     c.Model,
		MaxTokens: c.MaxTokens,
		Timeout:   timeout,
	}
	if c.APIKeyEnv != "" {
		gc.APIKey = os.Getenv(c.APIKeyEnv)
		if gc.APIKey == "" {
			return nil, fmt.Errorf("%s not set", c.APIKeyEnv)
		}
	}
	return gc, nil
}

// UsageTracker returns a token tracker priced for the configured model
// and limited by MaxSessionTokens.
func (c *Config) UsageTracker() *cost.Tracker {
	model := c.Model
	if model == "" {
		model = gateway.GetDefaultModel(c.Provider)
	}
	return cost.NewTracker(cost.PricingFor(model), int64(c.MaxSessionTokens))
}

// String renders the configuration as YAML.
func (c *Config) String() string {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("%+v", *c)
	}
	return string(data)
}

// SaveDefault writes the default configuration to path.
func SaveDefault(path string) error {
	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

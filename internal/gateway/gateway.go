// Package gateway sends prompts to an LLM chat endpoint and returns the
// model's text.
//
// The gateway is split across files:
// - gateway.go: Gateway interface, configuration, provider selection (this file)
// - anthropic.go: Anthropic Messages API backend
// - gemini.go: Google Gemini backend
// - prompts.go: workload, workflow and naming prompts
// - utils.go: shared helpers
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/steveyegge/workup/internal/cost"
	"github.com/steveyegge/workup/internal/errs"
)

// Providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// Model defaults per provider.
const (
	// ModelSonnet is the default Anthropic model.
	ModelSonnet = "claude-sonnet-4-5-20250929"

	// ModelGeminiFlash is the default Gemini model.
	ModelGeminiFlash = "gemini-2.5-flash"
)

const (
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxTokens caps the model output.
	DefaultMaxTokens = 4096

	// FailurePrefix marks text that reports a failed request instead of
	// model output.
	FailurePrefix = "API request failed: "
)

// Gateway sends one system role and one user prompt and returns the
// model's literal text. Implementations make a single attempt per call.
type Gateway interface {
	Request(ctx context.Context, systemRole, userPrompt string) (string, error)
}

// Func adapts an ordinary function to the Gateway interface.
type Func func(ctx context.Context, systemRole, userPrompt string) (string, error)

// Request calls f.
func (f Func) Request(ctx context.Context, systemRole, userPrompt string) (string, error) {
	return f(ctx, systemRole, userPrompt)
}

// Config holds gateway configuration.
type Config struct {
	Provider   string        // "anthropic" (default) or "gemini"
	APIKey     string        // if empty, read from the provider's env var
	BaseURL    string        // optional API endpoint override
	Model      string        // if empty, GetDefaultModel(Provider)
	MaxTokens  int           // default: 4096
	Timeout    time.Duration // per-request timeout (default: 60s)
	HTTPClient *http.Client  // optional transport override
	Logger     *zap.Logger   // optional; defaults to a no-op logger
	Usage      *cost.Tracker // optional token accounting and budget
}

// GetDefaultModel returns the model for provider, checking WORKUP_MODEL first.
func GetDefaultModel(provider string) string {
	if model := os.Getenv("WORKUP_MODEL"); model != "" {
		return model
	}
	if normalizeProvider(provider) == ProviderGemini {
		return ModelGeminiFlash
	}
	return ModelSonnet
}

// APIKeyEnv returns the environment variable holding the provider's key.
func APIKeyEnv(provider string) string {
	if normalizeProvider(provider) == ProviderGemini {
		return "GEMINI_API_KEY"
	}
	return "ANTHROPIC_API_KEY"
}

func normalizeProvider(p string) string {
	p = strings.ToLower(strings.TrimSpace(p))
	if p == "" {
		return ProviderAnthropic
	}
	return p
}

// New builds the gateway for cfg.Provider.
func New(ctx context.Context, cfg *Config) (Gateway, error) {
	switch normalizeProvider(cfg.Provider) {
	case ProviderAnthropic:
		return NewAnthropic(cfg)
	case ProviderGemini:
		return NewGemini(ctx, cfg)
	default:
		return nil, errs.Unsupported("provider", cfg.Provider)
	}
}

// settings is the resolved, provider-independent part of Config.
type settings struct {
	apiKey    string
	model     string
	maxTokens int
	timeout   time.Duration
	logger    *zap.Logger
	usage     *cost.Tracker
}

func resolve(cfg *Config) (settings, error) {
	provider := normalizeProvider(cfg.Provider)
	s := settings{
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
		logger:    cfg.Logger,
		usage:     cfg.Usage,
	}
	if s.apiKey == "" {
		env := APIKeyEnv(provider)
		s.apiKey = os.Getenv(env)
		if s.apiKey == "" {
			return s, fmt.Errorf("%s not set", env)
		}
	}
	if s.model == "" {
		s.model = GetDefaultModel(provider)
	}
	if s.maxTokens <= 0 {
		s.maxTokens = DefaultMaxTokens
	}
	if s.timeout <= 0 {
		s.timeout = DefaultTimeout
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s, nil
}

// Text calls gw and returns its output, or the error rendered as text with
// FailurePrefix. Shell code uses it so a failed request shows up as a
// message instead of aborting the run.
func Text(ctx context.Context, gw Gateway, systemRole, userPrompt string) string {
	out, err := gw.Request(ctx, systemRole, userPrompt)
	if err != nil {
		return FailurePrefix + err.Error()
	}
	return out
}

// IsFailure reports whether text was produced by Text for a failed request.
func IsFailure(text string) bool {
	return strings.HasPrefix(text, FailurePrefix)
}

package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/steveyegge/workup/internal/cost"
)

// Anthropic is a Gateway backed by the Anthropic Messages API.
type Anthropic struct {
	client    *anthropic.Client
	model     string
	maxTokens int
	timeout   time.Duration
	logger    *zap.Logger
	usage     *cost.Tracker
}

var _ Gateway = (*Anthropic)(nil)

// NewAnthropic creates an Anthropic gateway. SDK retries are disabled so
// each Request is exactly one attempt.
func NewAnthropic(cfg *Config) (*Anthropic, error) {
	s, err := resolve(cfg)
	if err != nil {
		return nil, err
	}

	opts := []option.RequestOption{
		option.WithAPIKey(s.apiKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}
	client := anthropic.NewClient(opts...)

	return &Anthropic{
		client:    &client,
		model:     s.model,
		maxTokens: s.maxTokens,
		timeout:   s.timeout,
		logger:    s.logger,
		usage:     s.usage,
	}, nil
}

// Model returns the model name used for requests.
func (a *Anthropic) Model() string {
	return a.model
}

// Request sends systemRole as the system prompt and userPrompt as the only
// user message.
func (a *Anthropic) Request(ctx context.Context, systemRole, userPrompt string) (string, error) {
	if err := a.usage.Check(); err != nil {
		return "", err
	}
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: int64(a.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}
	if systemRole != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemRole}}
	}

	response, err := a.client.Messages.New(ctx, params)
	if err != nil {
		a.logger.Warn("anthropic request failed",
			zap.String("model", a.model),
			zap.Duration("duration", time.Since(startTime)),
			zap.Error(err))
		return "", fmt.Errorf("anthropic API call failed: %w", err)
	}

	var text strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	a.usage.RecordUsage(response.Usage.InputTokens, response.Usage.OutputTokens)
	a.logger.Info("anthropic request",
		zap.String("model", a.model),
		zap.Int64("input_tokens", response.Usage.InputTokens),
		zap.Int64("output_tokens", response.Usage.OutputTokens),
		zap.Duration("duration", time.Since(startTime)))

	return text.String(), nil
}

package gateway

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/steveyegge/workup/internal/cost"
)

// Gemini is a Gateway backed by the Google Gemini API.
type Gemini struct {
	client    *genai.Client
	model     string
	maxTokens int
	timeout   time.Duration
	logger    *zap.Logger
	usage     *cost.Tracker
}

var _ Gateway = (*Gemini)(nil)

// NewGemini creates a Gemini gateway.
func NewGemini(ctx context.Context, cfg *Config) (*Gemini, error) {
	s, err := resolve(cfg)
	if err != nil {
		return nil, err
	}

	cc := &genai.ClientConfig{
		APIKey:     s.apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Gemini{
		client:    client,
		model:     s.model,
		maxTokens: s.maxTokens,
		timeout:   s.timeout,
		logger:    s.logger,
		usage:     s.usage,
	}, nil
}

// Model returns the model name used for requests.
func (g *Gemini) Model() string {
	return g.model
}

// Request sends systemRole as the system instruction and userPrompt as the
// content.
func (g *Gemini) Request(ctx context.Context, systemRole, userPrompt string) (string, error) {
	if err := g.usage.Check(); err != nil {
		return "", err
	}
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(g.maxTokens),
	}
	if systemRole != "" {
		config.SystemInstruction = genai.NewContentFromText(systemRole, genai.RoleUser)
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(userPrompt), config)
	if err != nil {
		g.logger.Warn("gemini request failed",
			zap.String("model", g.model),
			zap.Duration("duration", time.Since(startTime)),
			zap.Error(err))
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}

	fields := []zap.Field{
		zap.String("model", g.model),
		zap.Duration("duration", time.Since(startTime)),
	}
	if u := result.UsageMetadata; u != nil {
		g.usage.RecordUsage(int64(u.PromptTokenCount), int64(u.CandidatesTokenCount))
		fields = append(fields,
			zap.Int32("input_tokens", u.PromptTokenCount),
			zap.Int32("output_tokens", u.CandidatesTokenCount))
	}
	g.logger.Info("gemini request", fields...)

	return result.Text(), nil
}

// Package cost tracks LLM token usage and its estimated price over a
// session, with an optional token budget.
package cost

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrBudgetExceeded is returned by Check once the token budget is used up.
var ErrBudgetExceeded = errors.New("token budget exceeded")

// Pricing is the price in USD per one million tokens.
type Pricing struct {
	InputTokenCost  float64
	OutputTokenCost float64
}

// PricingFor returns list prices for known model families. Unknown models
// are priced at zero so the token counts are still reported.
func PricingFor(model string) Pricing {
	m := strings.ToLower(model)
	switch {
	case strings.Contains(m, "opus"):
		return Pricing{InputTokenCost: 15.00, OutputTokenCost: 75.00}
	case strings.Contains(m, "sonnet"):
		return Pricing{InputTokenCost: 3.00, OutputTokenCost: 15.00}
	case strings.Contains(m, "haiku"):
		return Pricing{InputTokenCost: 1.00, OutputTokenCost: 5.00}
	case strings.Contains(m, "gemini") && strings.Contains(m, "flash"):
		return Pricing{InputTokenCost: 0.30, OutputTokenCost: 2.50}
	case strings.Contains(m, "gemini") && strings.Contains(m, "pro"):
		return Pricing{InputTokenCost: 1.25, OutputTokenCost: 10.00}
	default:
		return Pricing{}
	}
}

// Tracker accumulates usage. It is safe for concurrent use. A nil *Tracker
// records nothing and never refuses a request.
type Tracker struct {
	pricing   Pricing
	maxTokens int64 // 0 = unlimited

	mu           sync.Mutex
	calls        int
	inputTokens  int64
	outputTokens int64
}

// NewTracker creates a tracker. maxTokens caps input plus output tokens;
// zero means unlimited.
func NewTracker(pricing Pricing, maxTokens int64) *Tracker {
	return &Tracker{pricing: pricing, maxTokens: maxTokens}
}

// RecordUsage adds one request's token counts.
func (t *Tracker) RecordUsage(inputTokens, outputTokens int64) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls++
	t.inputTokens += inputTokens
	t.outputTokens += outputTokens
}

// Check returns ErrBudgetExceeded when the budget is used up.
func (t *Tracker) Check() error {
	if t == nil || t.maxTokens <= 0 {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if used := t.inputTokens + t.outputTokens; used >= t.maxTokens {
		return fmt.Errorf("%w: %d of %d tokens used", ErrBudgetExceeded, used, t.maxTokens)
	}
	return nil
}

// Reset clears the recorded usage.
func (t *Tracker) Reset() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls, t.inputTokens, t.outputTokens = 0, 0, 0
}

// Stats is a snapshot of recorded usage.
type Stats struct {
	Calls        int
	InputTokens  int64
	OutputTokens int64
	MaxTokens    int64
	Cost         float64
}

// TotalTokens returns input plus output tokens.
func (s Stats) TotalTokens() int64 {
	return s.InputTokens + s.OutputTokens
}

func (s Stats) String() string {
	out := fmt.Sprintf("%d requests, %d tokens (%d in / %d out), $%.4f",
		s.Calls, s.TotalTokens(), s.InputTokens, s.OutputTokens, s.Cost)
	if s.MaxTokens > 0 {
		out += fmt.Sprintf(", budget %d", s.MaxTokens)
	}
	return out
}

// Stats returns the usage recorded so far.
func (t *Tracker) Stats() Stats {
	if t == nil {
		return Stats{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return Stats{
		Calls:        t.calls,
		InputTokens:  t.inputTokens,
		OutputTokens: t.outputTokens,
		MaxTokens:    t.maxTokens,
		Cost:         t.calculateCost(t.inputTokens, t.outputTokens),
	}
}

func (t *Tracker) calculateCost(inputTokens, outputTokens int64) float64 {
	inputCost := float64(inputTokens) * t.pricing.InputTokenCost / 1_000_000
	outputCost := float64(outputTokens) * t.pricing.OutputTokenCost / 1_000_000
	return inputCost + outputCost
}

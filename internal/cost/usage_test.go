package cost

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricingFor(t *testing.T) {
	tests := []struct {
		model string
		want  Pricing
	}{
		{"claude-sonnet-4-5-20250929", Pricing{3.00, 15.00}},
		{"claude-opus-4-1", Pricing{15.00, 75.00}},
		{"claude-haiku-4-5", Pricing{1.00, 5.00}},
		{"gemini-2.5-flash", Pricing{0.30, 2.50}},
		{"gemini-2.5-pro", Pricing{1.25, 10.00}},
		{"some-local-model", Pricing{}},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			assert.Equal(t, tt.want, PricingFor(tt.model))
		})
	}
}

func TestTracker_RecordUsage(t *testing.T) {
	tr := NewTracker(Pricing{InputTokenCost: 3.00, OutputTokenCost: 15.00}, 0)

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.RecordUsage(1_000, 500)
		}()
	}
	wg.Wait()

	s := tr.Stats()
	assert.Equal(t, 3, s.Calls)
	assert.Equal(t, int64(3_000), s.InputTokens)
	assert.Equal(t, int64(1_500), s.OutputTokens)
	assert.Equal(t, int64(4_500), s.TotalTokens())
	assert.InDelta(t, 0.009+0.0225, s.Cost, 1e-9)
	assert.Equal(t, "3 requests, 4500 tokens (3000 in / 1500 out), $0.0315", s.String())
}

func TestTracker_Budget(t *testing.T) {
	tr := NewTracker(Pricing{}, 1_000)
	require.NoError(t, tr.Check())

	tr.RecordUsage(600, 400)
	err := tr.Check()
	assert.ErrorIs(t, err, ErrBudgetExceeded)
	assert.Contains(t, tr.Stats().String(), "budget 1000")

	tr.Reset()
	assert.NoError(t, tr.Check())
	assert.Zero(t, tr.Stats().Calls)
}

func TestTracker_Nil(t *testing.T) {
	var tr *Tracker
	tr.RecordUsage(10, 10)
	tr.Reset()
	assert.NoError(t, tr.Check())
	assert.Equal(t, Stats{}, tr.Stats())
}

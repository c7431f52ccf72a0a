package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		balance float64
		riskPct float64
		entry   float64
		stop    float64
		want    float64
	}{
		// Risking 2% of 10000 = 200 against a 10-point stop.
		{"basic", 10_000, 0.02, 100, 90, 20},
		// Suggested value would exceed the balance: cap at balance/entry.
		{"capped at balance", 1_000, 0.02, 100, 99.9, 10},
		{"zero entry", 10_000, 0.02, 0, 90, 0},
		{"negative stop", 10_000, 0.02, 100, -1, 0},
		{"stop equals entry", 10_000, 0.02, 100, 100, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := PositionSize(tt.balance, tt.riskPct, tt.entry, tt.stop)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestRiskRewardRatio(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 2.0, RiskRewardRatio(100, 95, 110), 1e-12)
	assert.InDelta(t, 0.5, RiskRewardRatio(100, 90, 105), 1e-12)

	// Safe zero on degenerate input.
	assert.Zero(t, RiskRewardRatio(0, 95, 110))
	assert.Zero(t, RiskRewardRatio(100, 0, 110))
	assert.Zero(t, RiskRewardRatio(100, 100, 110))
}

func TestSafePositionSize(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)

	// Unconstrained: plain sizing. 2% of 10000 = 200 over a 20-point stop
	// gives 10 units, worth 1000, exactly the single-order cap.
	size := m.SafePositionSize(10_000, 100, 80, 0.02)
	assert.InDelta(t, 10, size, 1e-9)

	// Position cap nearly used up: clamp to what remains.
	m.UpdatePosition(99, 100) // 9900 of 10000 used
	size = m.SafePositionSize(10_000, 100, 80, 0.02)
	assert.InDelta(t, 1.0, size, 1e-9)

	// Cap fully used: refuse to size.
	m.UpdatePosition(1, 100)
	size = m.SafePositionSize(10_000, 100, 80, 0.02)
	assert.Zero(t, size)
}

func TestSafePositionSize_SingleOrderClamp(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)

	// A wide balance and tight stop produce an oversized order; the
	// single-order cap (1000) clamps it to 10 units at price 100.
	size := m.SafePositionSize(5_000, 100, 99, 0.02)
	assert.InDelta(t, 10, size, 1e-9)
}

func TestShouldStopLossAndTakeProfit(t *testing.T) {
	t.Parallel()

	m := newTestManager(t) // stop 5%, take 10%

	assert.True(t, m.ShouldStopLoss(94, 100))
	assert.True(t, m.ShouldStopLoss(95, 100))
	assert.False(t, m.ShouldStopLoss(96, 100))
	assert.False(t, m.ShouldStopLoss(100, 0))

	assert.True(t, m.ShouldTakeProfit(110, 100))
	assert.False(t, m.ShouldTakeProfit(109, 100))
	assert.False(t, m.ShouldTakeProfit(110, 0))
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	require.Zero(t, reg.Len())

	m1 := newTestManager(t)
	m2 := newTestManager(t)

	reg.Register(1, m1)
	reg.Register(2, m2)
	assert.Equal(t, 2, reg.Len())

	got, ok := reg.Get(1)
	require.True(t, ok)
	assert.Same(t, m1, got)

	_, ok = reg.Get(99)
	assert.False(t, ok)

	reg.Remove(1)
	_, ok = reg.Get(1)
	assert.False(t, ok)
	assert.Equal(t, 1, reg.Len())
}

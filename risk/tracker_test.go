package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTracker_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewTracker(0, 0.10)
	assert.Error(t, err)
	_, err = NewTracker(1.5, 0.10)
	assert.Error(t, err)
	_, err = NewTracker(0.05, 0)
	assert.Error(t, err)
}

func TestTracker_AddAndRemove(t *testing.T) {
	t.Parallel()

	tr, err := NewTracker(0.05, 0.10)
	require.NoError(t, err)

	tr.AddPosition("BTC/USDT", 100, 0.5)

	pos, ok := tr.Position("BTC/USDT")
	require.True(t, ok)
	assert.InDelta(t, 95.0, pos.StopLoss, 1e-9)
	assert.InDelta(t, 110.0, pos.TakeProfit, 1e-9)
	assert.Equal(t, 0.5, pos.Amount)

	tr.RemovePosition("BTC/USDT")
	_, ok = tr.Position("BTC/USDT")
	assert.False(t, ok)

	// Removing a missing symbol is a no-op.
	tr.RemovePosition("ETH/USDT")
}

func TestTracker_CheckPositions(t *testing.T) {
	t.Parallel()

	tr, err := NewTracker(0.05, 0.10)
	require.NoError(t, err)

	tr.AddPosition("BTC/USDT", 100, 1)
	tr.AddPosition("ETH/USDT", 50, 2)
	tr.AddPosition("BNB/USDT", 10, 3)

	actions := tr.CheckPositions(map[string]float64{
		"BTC/USDT": 94,  // below stop at 95
		"ETH/USDT": 56,  // above take at 55
		"BNB/USDT": 9.8, // inside the band
	})

	require.Len(t, actions, 2)

	byAction := map[string]PositionAction{}
	for _, a := range actions {
		byAction[a.Action] = a
	}

	sl := byAction["stop_loss"]
	assert.Equal(t, "BTC/USDT", sl.Symbol)
	assert.InDelta(t, 0.06, sl.ChangePercent, 1e-9)

	tp := byAction["take_profit"]
	assert.Equal(t, "ETH/USDT", tp.Symbol)
	assert.InDelta(t, 0.12, tp.ChangePercent, 1e-9)
}

func TestTracker_StopLossWinsOverTakeProfit(t *testing.T) {
	t.Parallel()

	// A degenerate tracker where both levels can be hit by the same price:
	// the stop-loss branch is evaluated first and must win.
	tr, err := NewTracker(0.5, 0.10)
	require.NoError(t, err)
	tr.AddPosition("BTC/USDT", 100, 1)

	// Stop at 50, take at 110. Price 40 triggers only the stop.
	actions := tr.CheckPositions(map[string]float64{"BTC/USDT": 40})
	require.Len(t, actions, 1)
	assert.Equal(t, "stop_loss", actions[0].Action)
}

func TestTracker_MissingQuoteSkipped(t *testing.T) {
	t.Parallel()

	tr, err := NewTracker(0.05, 0.10)
	require.NoError(t, err)
	tr.AddPosition("BTC/USDT", 100, 1)

	actions := tr.CheckPositions(map[string]float64{"ETH/USDT": 1})
	assert.Empty(t, actions)
}

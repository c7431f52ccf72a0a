package strategies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/quantrisk/backtest"
)

func TestMartingaleEntersWhenFlat(t *testing.T) {
	t.Parallel()

	m := NewMartingale(DefaultMartingaleParams())
	signals := m.OnBar(bar(100, 101, 99, 100), backtest.Account{Balance: 10000})

	require.Len(t, signals, 1)
	assert.Equal(t, backtest.Buy, signals[0].Action)
	assert.InDelta(t, 1.0, signals[0].Amount, 1e-9, "100 quote units at price 100")
}

func TestMartingaleTakeProfitResetsStreak(t *testing.T) {
	t.Parallel()

	m := NewMartingale(DefaultMartingaleParams())
	m.losses = 2

	acct := backtest.Account{Balance: 10000, Position: 1, EntryPrice: 100}
	signals := m.OnBar(bar(106, 106, 105, 106), acct)

	require.Len(t, signals, 1)
	assert.Equal(t, backtest.Sell, signals[0].Action)
	assert.Equal(t, "take profit", signals[0].Reason)
	assert.Zero(t, m.ConsecutiveLosses())
}

func TestMartingaleStopLossDoublesDown(t *testing.T) {
	t.Parallel()

	m := NewMartingale(DefaultMartingaleParams())

	acct := backtest.Account{Balance: 10000, Position: 1, EntryPrice: 100}
	signals := m.OnBar(bar(89, 90, 88, 89), acct)
	require.Len(t, signals, 1)
	assert.Equal(t, "stop loss", signals[0].Reason)
	assert.Equal(t, 1, m.ConsecutiveLosses())

	// Next flat entry sizes up by the multiplier.
	reentry := m.OnBar(bar(89, 90, 88, 89), backtest.Account{Balance: 10000})
	require.Len(t, reentry, 1)
	assert.InDelta(t, 150.0/89.0, reentry[0].Amount, 1e-9)
}

func TestMartingaleHoldsInsideBand(t *testing.T) {
	t.Parallel()

	m := NewMartingale(DefaultMartingaleParams())
	acct := backtest.Account{Balance: 10000, Position: 1, EntryPrice: 100}

	assert.Empty(t, m.OnBar(bar(102, 103, 101, 102), acct))
}

func TestMartingaleSkipsEntryBeyondBalance(t *testing.T) {
	t.Parallel()

	m := NewMartingale(MartingaleParams{
		InitialAmount:     100,
		Multiplier:        10,
		TakeProfitPercent: 0.05,
		StopLossPercent:   0.10,
	})
	m.losses = 3 // next entry would be 100 * 10^3 = 100000 quote units

	assert.Empty(t, m.OnBar(bar(100, 101, 99, 100), backtest.Account{Balance: 10000}))
}

func TestStrategyRegistry(t *testing.T) {
	t.Parallel()

	for _, name := range Names() {
		s, err := New(name)
		require.NoError(t, err)
		assert.Equal(t, name, s.Name())
	}

	_, err := New("bogus")
	assert.Error(t, err)
}

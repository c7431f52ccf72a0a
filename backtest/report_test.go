package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fill(action Action, price, amount, commission float64) SimulatedTrade {
	return SimulatedTrade{
		Time:       time.Now(),
		Action:     action,
		Price:      price,
		Amount:     amount,
		Commission: commission,
	}
}

func TestIndexMatcher(t *testing.T) {
	t.Parallel()

	t.Run("pairs even buy with odd sell", func(t *testing.T) {
		t.Parallel()
		profits := IndexMatcher{}.Match([]SimulatedTrade{
			fill(Buy, 100, 2, 0.2),
			fill(Sell, 110, 2, 0.22),
			fill(Buy, 100, 1, 0.1),
			fill(Sell, 90, 1, 0.09),
		})
		require.Len(t, profits, 2)
		assert.InDelta(t, 20-0.42, profits[0], 1e-9)
		assert.InDelta(t, -10-0.19, profits[1], 1e-9)
	})

	t.Run("skips non alternating pairs", func(t *testing.T) {
		t.Parallel()
		profits := IndexMatcher{}.Match([]SimulatedTrade{
			fill(Buy, 100, 1, 0),
			fill(Buy, 100, 1, 0),
			fill(Sell, 110, 1, 0),
		})
		assert.Empty(t, profits)
	})

	t.Run("dangling last fill ignored", func(t *testing.T) {
		t.Parallel()
		profits := IndexMatcher{}.Match([]SimulatedTrade{
			fill(Buy, 100, 1, 0),
			fill(Sell, 105, 1, 0),
			fill(Buy, 100, 1, 0),
		})
		require.Len(t, profits, 1)
	})
}

func TestFIFOMatcher(t *testing.T) {
	t.Parallel()

	t.Run("matches oldest buy first", func(t *testing.T) {
		t.Parallel()
		profits := FIFOMatcher{}.Match([]SimulatedTrade{
			fill(Buy, 100, 1, 0),
			fill(Buy, 120, 1, 0),
			fill(Sell, 110, 2, 0),
		})
		require.Len(t, profits, 2)
		assert.InDelta(t, 10.0, profits[0], 1e-9)
		assert.InDelta(t, -10.0, profits[1], 1e-9)
	})

	t.Run("partial close splits a lot", func(t *testing.T) {
		t.Parallel()
		profits := FIFOMatcher{}.Match([]SimulatedTrade{
			fill(Buy, 100, 2, 2),
			fill(Sell, 110, 1, 1.1),
		})
		require.Len(t, profits, 1)
		// One matched unit carries one unit of each side's commission.
		assert.InDelta(t, 10-1-1.1, profits[0], 1e-9)
	})

	t.Run("handles interleaved opens where index pairing mismatches", func(t *testing.T) {
		t.Parallel()
		trades := []SimulatedTrade{
			fill(Buy, 100, 1, 0),
			fill(Buy, 100, 1, 0),
			fill(Sell, 110, 1, 0),
			fill(Sell, 110, 1, 0),
		}
		assert.Empty(t, IndexMatcher{}.Match(trades))

		profits := FIFOMatcher{}.Match(trades)
		require.Len(t, profits, 2)
		assert.InDelta(t, 10.0, profits[0], 1e-9)
		assert.InDelta(t, 10.0, profits[1], 1e-9)
	})
}

func TestReportEmptyLedger(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, DefaultConfig())
	report := e.Report()
	assert.Zero(t, report.TotalReturn)
	assert.Zero(t, report.TotalTrades)
	assert.InDelta(t, DefaultConfig().InitialCapital, report.FinalEquity, 1e-9)
}

func TestReportBreakEvenPairsCountNowhere(t *testing.T) {
	t.Parallel()

	cfg := Config{InitialCapital: 10000, CommissionRate: 0, SlippageRate: 0, MaxPosition: 1e9}
	e := newTestEngine(t, cfg)

	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	e.ExecuteOrder(at, Buy, 100, 1)
	e.ExecuteOrder(at.Add(time.Hour), Sell, 100, 1)

	report := e.Report()
	assert.Zero(t, report.TotalTrades, "a zero-profit pair is neither a win nor a loss")
	assert.Zero(t, report.WinRate)
}

func TestReportProfitFactor(t *testing.T) {
	t.Parallel()

	cfg := Config{InitialCapital: 100000, CommissionRate: 0, SlippageRate: 0, MaxPosition: 1e9}
	e := newTestEngine(t, cfg)

	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	e.ExecuteOrder(at, Buy, 100, 1)
	e.ExecuteOrder(at.AddDate(0, 0, 1), Sell, 120, 1)
	e.ExecuteOrder(at.AddDate(0, 0, 2), Buy, 100, 1)
	e.ExecuteOrder(at.AddDate(0, 0, 3), Sell, 95, 1)

	report := e.Report()
	assert.Equal(t, 2, report.TotalTrades)
	assert.InDelta(t, 20.0/5.0, report.ProfitFactor, 1e-9)
	assert.InDelta(t, 50.0, report.WinRate, 1e-9)
	assert.InDelta(t, 20.0, report.MaxProfit, 1e-9)
	assert.InDelta(t, 5.0, report.MaxLoss, 1e-9)
}

package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/quantrisk/cost"
)

func newTestEngine(t *testing.T, cfg Config, opts ...Option) *Engine {
	t.Helper()
	e, err := NewEngine(cfg, opts...)
	require.NoError(t, err)
	return e
}

// scripted emits a fixed signal list per bar index.
type scripted struct {
	signals map[int][]Signal
	bar     int
}

func (s *scripted) Name() string { return "scripted" }

func (s *scripted) OnBar(Bar, Account) []Signal {
	sigs := s.signals[s.bar]
	s.bar++
	return sigs
}

func TestNewEngineRejectsBadConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.InitialCapital = 0
	_, err := NewEngine(cfg)
	assert.Error(t, err)
}

func TestExecuteOrderRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := Config{InitialCapital: 10000, CommissionRate: 0.001, SlippageRate: 0, MaxPosition: 1e9}
	e := newTestEngine(t, cfg)

	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	buy := e.ExecuteOrder(at, Buy, 50000, 0.1)
	assert.InDelta(t, 5.0, buy.Commission, 1e-9)
	assert.InDelta(t, 4995.0, e.Balance(), 1e-9)
	assert.InDelta(t, 0.1, e.Position(), 1e-12)
	assert.InDelta(t, 50000.0, e.EntryPrice(), 1e-9)

	sell := e.ExecuteOrder(at.Add(24*time.Hour), Sell, 55000, 0.1)
	assert.InDelta(t, 5.5, sell.Commission, 1e-9)
	assert.InDelta(t, 10489.5, e.Balance(), 1e-9)
	assert.Zero(t, e.Position())
	assert.Zero(t, e.EntryPrice(), "full close clears the entry price")
}

func TestExecuteOrderSlippage(t *testing.T) {
	t.Parallel()

	cfg := Config{InitialCapital: 100000, CommissionRate: 0, SlippageRate: 0.001, MaxPosition: 1e9}
	e := newTestEngine(t, cfg)

	at := time.Now()
	buy := e.ExecuteOrder(at, Buy, 50000, 0.1)
	assert.InDelta(t, 50050.0, buy.Price, 1e-9, "buys slip up")

	sell := e.ExecuteOrder(at, Sell, 50000, 0.1)
	assert.InDelta(t, 49950.0, sell.Price, 1e-9, "sells slip down")
}

func TestExecuteOrderShrinksToFunds(t *testing.T) {
	t.Parallel()

	cfg := Config{InitialCapital: 1000, CommissionRate: 0.001, SlippageRate: 0, MaxPosition: 1e9}
	e := newTestEngine(t, cfg)

	// Requested 1 unit at 2000 cannot be covered; amount shrinks so
	// remaining funds pay for the fill, using the pre-shrink commission.
	trade := e.ExecuteOrder(time.Now(), Buy, 2000, 1)
	assert.InDelta(t, (1000.0-2.0)/2000.0, trade.Amount, 1e-12)
	assert.Greater(t, e.Balance(), 0.0)
	assert.Less(t, e.Balance(), 2.0)
}

func TestEntryPriceOnlyOnFreshOpen(t *testing.T) {
	t.Parallel()

	cfg := Config{InitialCapital: 100000, CommissionRate: 0, SlippageRate: 0, MaxPosition: 1e9}
	e := newTestEngine(t, cfg)

	at := time.Now()
	e.ExecuteOrder(at, Buy, 100, 10)
	require.InDelta(t, 100.0, e.EntryPrice(), 1e-9)

	e.ExecuteOrder(at, Buy, 120, 10)
	assert.InDelta(t, 100.0, e.EntryPrice(), 1e-9, "adding to a position keeps the opening price")

	e.ExecuteOrder(at, Sell, 110, 20)
	assert.Zero(t, e.EntryPrice())
}

func TestRunEquityCurveAndReport(t *testing.T) {
	t.Parallel()

	cfg := Config{InitialCapital: 10000, CommissionRate: 0.001, SlippageRate: 0, MaxPosition: 1e9}
	e := newTestEngine(t, cfg)

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := []Bar{
		{Time: start, Open: 50000, High: 50500, Low: 49500, Close: 50000, Volume: 10},
		{Time: start.AddDate(0, 0, 10), Open: 55000, High: 55500, Low: 54500, Close: 55000, Volume: 10},
	}

	strat := &scripted{signals: map[int][]Signal{
		0: {{Action: Buy, Amount: 0.1}},
		1: {{Action: Sell, Amount: 0.1}},
	}}

	report, err := e.Run(NewSliceFeed(bars), strat)
	require.NoError(t, err)

	curve := e.EquityCurve()
	require.Len(t, curve, 2)
	assert.InDelta(t, 9995.0, curve[0].Equity, 1e-9)
	assert.InDelta(t, 10489.5, curve[1].Equity, 1e-9)

	assert.InDelta(t, 0.04895, report.TotalReturn, 1e-9)
	assert.Equal(t, 1, report.TotalTrades)
	assert.Equal(t, 1, report.ProfitableTrades)
	assert.InDelta(t, 100.0, report.WinRate, 1e-9)
	assert.InDelta(t, 489.5, report.AvgProfit, 1e-9)
	assert.Greater(t, report.AnnualReturn, report.TotalReturn, "ten-day gain compounds to a larger annual figure")
	assert.GreaterOrEqual(t, report.MaxDrawdown, 0.0)
	assert.LessOrEqual(t, report.MaxDrawdown, 1.0)
}

func TestRunHonorsTimeWindow(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := Config{
		InitialCapital: 10000, CommissionRate: 0, SlippageRate: 0, MaxPosition: 1e9,
		Start: start.AddDate(0, 0, 1),
		End:   start.AddDate(0, 0, 3),
	}
	e := newTestEngine(t, cfg)

	bars := make([]Bar, 4)
	for i := range bars {
		bars[i] = Bar{Time: start.AddDate(0, 0, i), Open: 100, High: 101, Low: 99, Close: 100, Volume: 1}
	}

	// One buy per bar. Only the two bars inside [start+1d, start+3d)
	// may reach the strategy; the window end itself is excluded.
	strat := &scripted{signals: map[int][]Signal{
		0: {{Action: Buy, Amount: 1}},
		1: {{Action: Buy, Amount: 1}},
		2: {{Action: Buy, Amount: 1}},
		3: {{Action: Buy, Amount: 1}},
	}}

	_, err := e.Run(NewSliceFeed(bars), strat)
	require.NoError(t, err)

	trades := e.Trades()
	require.Len(t, trades, 2)
	assert.Equal(t, cfg.Start, trades[0].Time)
	assert.Equal(t, start.AddDate(0, 0, 2), trades[1].Time)

	curve := e.EquityCurve()
	require.Len(t, curve, 2, "out-of-window bars leave no equity points")
}

func TestConfigRejectsInvertedWindow(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Start = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	cfg.End = cfg.Start.AddDate(0, 0, -1)
	assert.Error(t, cfg.Validate())

	cfg.End = time.Time{}
	assert.NoError(t, cfg.Validate(), "an open-ended window is fine")
}

func TestRunSkipsEmptySignals(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, DefaultConfig())
	start := time.Now()
	bars := []Bar{{Time: start, Open: 100, High: 101, Low: 99, Close: 100, Volume: 1}}

	strat := &scripted{signals: map[int][]Signal{
		0: {{Action: Buy, Amount: 0}, {Action: "hold", Amount: 5}},
	}}

	_, err := e.Run(NewSliceFeed(bars), strat)
	require.NoError(t, err)
	assert.Empty(t, e.Trades())
}

func TestRunRejectsMalformedBar(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, DefaultConfig())
	bars := []Bar{{Time: time.Now(), Open: 100, High: 90, Low: 99, Close: 100, Volume: 1}}

	_, err := e.Run(NewSliceFeed(bars), &scripted{})
	assert.Error(t, err)
}

func TestRunDefaultsSignalPriceToClose(t *testing.T) {
	t.Parallel()

	cfg := Config{InitialCapital: 10000, CommissionRate: 0, SlippageRate: 0, MaxPosition: 1e9}
	e := newTestEngine(t, cfg)

	bars := []Bar{{Time: time.Now(), Open: 100, High: 110, Low: 95, Close: 105, Volume: 1}}
	strat := &scripted{signals: map[int][]Signal{0: {{Action: Buy, Amount: 1}}}}

	_, err := e.Run(NewSliceFeed(bars), strat)
	require.NoError(t, err)

	trades := e.Trades()
	require.Len(t, trades, 1)
	assert.InDelta(t, 105.0, trades[0].Price, 1e-9)
}

func TestResetClearsState(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, DefaultConfig())
	e.ExecuteOrder(time.Now(), Buy, 100, 1)
	require.NotEmpty(t, e.Trades())

	e.Reset()
	assert.InDelta(t, DefaultConfig().InitialCapital, e.Balance(), 1e-9)
	assert.Zero(t, e.Position())
	assert.Empty(t, e.Trades())
	assert.Empty(t, e.EquityCurve())
}

func TestEngineFeedsCostModel(t *testing.T) {
	t.Parallel()

	model, err := cost.NewModel(cost.DefaultConfig())
	require.NoError(t, err)

	cfg := Config{InitialCapital: 100000, CommissionRate: 0, SlippageRate: 0, MaxPosition: 1e9}
	e := newTestEngine(t, cfg, WithCostModel(model))

	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	e.ExecuteOrder(at, Buy, 50000, 0.1)
	e.ExecuteOrder(at.Add(6*time.Hour), Sell, 51000, 0.1)

	ledger := model.Ledger()
	require.Len(t, ledger, 2)
	assert.Equal(t, cost.Open, ledger[0].Action)
	assert.Equal(t, cost.Close, ledger[1].Action)
	assert.InDelta(t, 100.0, ledger[1].GrossProfit, 1e-9)
}

package backtest

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rustyeddy/quantrisk/cost"
	"github.com/rustyeddy/quantrisk/id"
	"github.com/rustyeddy/quantrisk/journal"
)

const defaultSymbol = "BTC/USDT"

// Engine owns one simulated account and its trade ledger. It has no internal
// locking; each run owns exactly one engine.
type Engine struct {
	cfg     Config
	symbol  string
	logger  *zap.Logger
	costs   *cost.Model
	jnl     journal.Journal
	matcher Matcher

	balance    float64
	position   float64
	entryPrice float64
	entryTime  time.Time

	trades []SimulatedTrade
	equity []EquityPoint
}

type Option func(*Engine)

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithCostModel feeds every open and full close through the given cost
// ledger alongside the engine's own commission accounting.
func WithCostModel(m *cost.Model) Option {
	return func(e *Engine) { e.costs = m }
}

func WithJournal(j journal.Journal) Option {
	return func(e *Engine) { e.jnl = j }
}

func WithMatcher(m Matcher) Option {
	return func(e *Engine) { e.matcher = m }
}

func WithSymbol(symbol string) Option {
	return func(e *Engine) { e.symbol = symbol }
}

func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("backtest config: %w", err)
	}

	e := &Engine{
		cfg:     cfg,
		symbol:  defaultSymbol,
		logger:  zap.NewNop(),
		jnl:     journal.Nop{},
		matcher: IndexMatcher{},
		balance: cfg.InitialCapital,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Reset clears all run state back to the configured initial capital.
func (e *Engine) Reset() {
	e.balance = e.cfg.InitialCapital
	e.position = 0
	e.entryPrice = 0
	e.entryTime = time.Time{}
	e.trades = nil
	e.equity = nil
	if e.costs != nil {
		e.costs.Reset()
	}
}

func (e *Engine) Balance() float64    { return e.balance }
func (e *Engine) Position() float64   { return e.position }
func (e *Engine) EntryPrice() float64 { return e.entryPrice }

// Equity marks the account to the given price.
func (e *Engine) Equity(price float64) float64 {
	return e.balance + e.position*price
}

func (e *Engine) Trades() []SimulatedTrade {
	out := make([]SimulatedTrade, len(e.trades))
	copy(out, e.trades)
	return out
}

func (e *Engine) EquityCurve() []EquityPoint {
	out := make([]EquityPoint, len(e.equity))
	copy(out, e.equity)
	return out
}

// ExecuteOrder fills one order against the account. Buys slip up, sells slip
// down. A buy that the balance cannot cover is shrunk to what the remaining
// funds buy after commission, never rejected. Entry price is set only when
// the fill opens the position from flat and cleared when a sell takes it
// back to zero.
func (e *Engine) ExecuteOrder(at time.Time, action Action, price, amount float64) SimulatedTrade {
	var fill float64
	if action == Buy {
		fill = price * (1 + e.cfg.SlippageRate)
	} else {
		fill = price * (1 - e.cfg.SlippageRate)
	}

	value := fill * amount
	commission := value * e.cfg.CommissionRate

	if action == Buy && value+commission > e.balance {
		shrunk := (e.balance - commission) / fill
		e.logger.Debug("shrinking buy to available funds",
			zap.Float64("requested", amount),
			zap.Float64("filled", shrunk))
		amount = shrunk
		value = fill * amount
		commission = value * e.cfg.CommissionRate
	}

	if action == Buy {
		e.balance -= value + commission
		e.position += amount
		if e.position == amount {
			e.entryPrice = fill
			e.entryTime = at
			if e.costs != nil {
				e.recordCost(e.costs.OpenCost(at, e.symbol, cost.Long, fill, amount))
			}
		}
	} else {
		e.balance += value - commission
		e.position -= amount
		if e.position == 0 {
			if e.costs != nil {
				e.recordCost(e.costs.CloseCost(at, e.symbol, cost.Long, e.entryPrice, fill, amount, at.Sub(e.entryTime)))
			}
			e.journalClose(at, fill, amount, commission)
			e.entryPrice = 0
			e.entryTime = time.Time{}
		}
	}

	if e.position*fill > e.cfg.MaxPosition {
		e.logger.Warn("position value above configured maximum",
			zap.Float64("position_value", e.position*fill),
			zap.Float64("max_position", e.cfg.MaxPosition))
	}

	trade := SimulatedTrade{
		TradeID:    id.New(),
		Time:       at,
		Symbol:     e.symbol,
		Action:     action,
		Price:      fill,
		Amount:     amount,
		Value:      value,
		Commission: commission,
		Balance:    e.balance,
		Position:   e.position,
	}
	e.trades = append(e.trades, trade)
	return trade
}

// recordCost persists a cost row best-effort; a journal failure never stops
// the run.
func (e *Engine) recordCost(tc cost.TradeCost) {
	err := e.jnl.RecordCost(journal.CostRecord{
		TradeID:     tc.TradeID,
		Time:        tc.Time,
		Symbol:      tc.Symbol,
		Side:        string(tc.Side),
		Action:      string(tc.Action),
		Amount:      tc.Amount,
		TradeValue:  tc.TradeValue,
		Commission:  tc.Commission,
		Slippage:    tc.Slippage,
		FundingCost: tc.FundingCost,
		TotalCost:   tc.TotalCost,
	})
	if err != nil {
		e.logger.Warn("journal cost record failed", zap.Error(err))
	}
}

func (e *Engine) journalClose(at time.Time, exitPrice, amount, commission float64) {
	err := e.jnl.RecordTrade(journal.TradeRecord{
		TradeID:    id.New(),
		Symbol:     e.symbol,
		Side:       string(Sell),
		Amount:     amount,
		EntryPrice: e.entryPrice,
		ExitPrice:  exitPrice,
		OpenTime:   e.entryTime,
		CloseTime:  at,
		RealizedPL: (exitPrice-e.entryPrice)*amount - commission,
		Reason:     "close",
	})
	if err != nil {
		e.logger.Warn("journal trade record failed", zap.Error(err))
	}
}

// Run replays the feed through the strategy in bar order and returns the
// terminal performance report. A malformed bar or feed error aborts the run.
func (e *Engine) Run(feed BarFeed, strat Strategy) (*PerformanceReport, error) {
	e.Reset()

	e.logger.Info("starting run",
		zap.String("strategy", strat.Name()),
		zap.String("symbol", e.symbol),
		zap.Float64("capital", e.cfg.InitialCapital))

	for {
		bar, ok, err := feed.Next()
		if err != nil {
			return nil, fmt.Errorf("bar feed: %w", err)
		}
		if !ok {
			break
		}
		if err := bar.Validate(); err != nil {
			return nil, err
		}
		if !inWindow(bar.Time, e.cfg.Start, e.cfg.End) {
			continue
		}

		signals := strat.OnBar(bar, Account{
			Balance:    e.balance,
			Position:   e.position,
			EntryPrice: e.entryPrice,
		})

		for _, sig := range signals {
			if sig.Amount <= 0 {
				continue
			}
			if sig.Action != Buy && sig.Action != Sell {
				continue
			}
			price := sig.Price
			if price == 0 {
				price = bar.Close
			}
			e.ExecuteOrder(bar.Time, sig.Action, price, sig.Amount)
		}

		point := EquityPoint{Time: bar.Time, Equity: e.Equity(bar.Close)}
		e.equity = append(e.equity, point)
		if err := e.jnl.RecordEquity(journal.EquitySnapshot{
			Time:     point.Time,
			Balance:  e.balance,
			Position: e.position,
			Equity:   point.Equity,
		}); err != nil {
			e.logger.Warn("journal equity record failed", zap.Error(err))
		}
	}

	report := e.Report()
	e.logger.Info("run finished",
		zap.Int("fills", len(e.trades)),
		zap.Float64("final_equity", report.FinalEquity),
		zap.Float64("total_return", report.TotalReturn))
	return report, nil
}

func inWindow(t, start, end time.Time) bool {
	if !start.IsZero() && t.Before(start) {
		return false
	}
	if !end.IsZero() && !t.Before(end) {
		return false
	}
	return true
}

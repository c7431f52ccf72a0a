package risk

import (
	"fmt"
	"time"
)

// TrackedPosition is one open position watched for stop-loss/take-profit.
// Stop and take levels are fixed at entry.
type TrackedPosition struct {
	Symbol     string    `json:"symbol"`
	EntryPrice float64   `json:"entry_price"`
	Amount     float64   `json:"amount"`
	StopLoss   float64   `json:"stop_loss"`
	TakeProfit float64   `json:"take_profit"`
	CreatedAt  time.Time `json:"created_at"`
}

// PositionAction tells the caller to exit a position and why.
type PositionAction struct {
	Symbol        string  `json:"symbol"`
	Action        string  `json:"action"` // "stop_loss" or "take_profit"
	Reason        string  `json:"reason"`
	CurrentPrice  float64 `json:"current_price"`
	EntryPrice    float64 `json:"entry_price"`
	ChangePercent float64 `json:"change_percent"`
}

// Tracker watches open positions for stop-loss and take-profit triggers.
// Like Manager, each instance has a single owner; concurrent mutation of the
// same symbol is the caller's bug.
type Tracker struct {
	stopLossPct   float64
	takeProfitPct float64
	now           func() time.Time

	positions map[string]TrackedPosition
}

// NewTracker builds a tracker with the given exit thresholds (fractions,
// e.g. 0.05 for a 5% stop).
func NewTracker(stopLossPct, takeProfitPct float64) (*Tracker, error) {
	if stopLossPct <= 0 || stopLossPct >= 1 {
		return nil, fmt.Errorf("stop loss percent must be in (0,1), got %v", stopLossPct)
	}
	if takeProfitPct <= 0 {
		return nil, fmt.Errorf("take profit percent must be positive, got %v", takeProfitPct)
	}
	return &Tracker{
		stopLossPct:   stopLossPct,
		takeProfitPct: takeProfitPct,
		now:           time.Now,
		positions:     make(map[string]TrackedPosition),
	}, nil
}

// AddPosition registers (or replaces) the tracked position for a symbol,
// deriving its stop and take levels from the entry price.
func (t *Tracker) AddPosition(symbol string, entryPrice, amount float64) {
	t.positions[symbol] = TrackedPosition{
		Symbol:     symbol,
		EntryPrice: entryPrice,
		Amount:     amount,
		StopLoss:   entryPrice * (1 - t.stopLossPct),
		TakeProfit: entryPrice * (1 + t.takeProfitPct),
		CreatedAt:  t.now(),
	}
}

// RemovePosition drops the tracked position for a symbol, if present.
func (t *Tracker) RemovePosition(symbol string) {
	delete(t.positions, symbol)
}

// Position returns the tracked entry for a symbol.
func (t *Tracker) Position(symbol string) (TrackedPosition, bool) {
	p, ok := t.positions[symbol]
	return p, ok
}

// Positions returns a copy of all tracked entries.
func (t *Tracker) Positions() map[string]TrackedPosition {
	out := make(map[string]TrackedPosition, len(t.positions))
	for k, v := range t.positions {
		out[k] = v
	}
	return out
}

// CheckPositions scans tracked positions against current prices and returns
// the exits to perform. Stop-loss is checked before take-profit, so one
// position can trigger at most one action per call. Symbols without a quote
// are skipped.
func (t *Tracker) CheckPositions(current map[string]float64) []PositionAction {
	var actions []PositionAction

	for symbol, pos := range t.positions {
		price, ok := current[symbol]
		if !ok {
			continue
		}

		switch {
		case price <= pos.StopLoss:
			actions = append(actions, PositionAction{
				Symbol:        symbol,
				Action:        "stop_loss",
				Reason:        fmt.Sprintf("price hit stop level: %.4f <= %.4f", price, pos.StopLoss),
				CurrentPrice:  price,
				EntryPrice:    pos.EntryPrice,
				ChangePercent: (pos.EntryPrice - price) / pos.EntryPrice,
			})
		case price >= pos.TakeProfit:
			actions = append(actions, PositionAction{
				Symbol:        symbol,
				Action:        "take_profit",
				Reason:        fmt.Sprintf("price hit take level: %.4f >= %.4f", price, pos.TakeProfit),
				CurrentPrice:  price,
				EntryPrice:    pos.EntryPrice,
				ChangePercent: (price - pos.EntryPrice) / pos.EntryPrice,
			})
		}
	}

	return actions
}

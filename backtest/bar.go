package backtest

import (
	"fmt"
	"time"
)

// Bar is one OHLCV row of market history.
type Bar struct {
	Time   time.Time `json:"timestamp"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Validate rejects bars a run cannot safely price against. A bad bar
// terminates the run; partial results past a malformed row are not
// salvageable.
func (b Bar) Validate() error {
	if b.Time.IsZero() {
		return fmt.Errorf("bar missing timestamp")
	}
	if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
		return fmt.Errorf("bar at %s has non-positive price", b.Time.Format(time.RFC3339))
	}
	if b.High < b.Low {
		return fmt.Errorf("bar at %s has high %v below low %v", b.Time.Format(time.RFC3339), b.High, b.Low)
	}
	if b.Volume < 0 {
		return fmt.Errorf("bar at %s has negative volume", b.Time.Format(time.RFC3339))
	}
	return nil
}

type Action string

const (
	Buy  Action = "buy"
	Sell Action = "sell"
)

// Signal is one order request from a strategy. A zero Price means fill at
// the bar close.
type Signal struct {
	Action Action  `json:"action"`
	Price  float64 `json:"price,omitempty"`
	Amount float64 `json:"amount"`
	Reason string  `json:"reason,omitempty"`
}

// Account is the engine state visible to a strategy on each bar.
type Account struct {
	Balance    float64 `json:"balance"`
	Position   float64 `json:"position"`
	EntryPrice float64 `json:"entry_price"`
}

// Strategy is called once per bar and may emit any number of signals.
type Strategy interface {
	Name() string
	OnBar(bar Bar, acct Account) []Signal
}

// SimulatedTrade is one immutable fill in the run ledger. Price is the
// slipped fill price; Balance and Position are the post-fill state.
type SimulatedTrade struct {
	TradeID    string    `json:"trade_id"`
	Time       time.Time `json:"timestamp"`
	Symbol     string    `json:"symbol"`
	Action     Action    `json:"action"`
	Price      float64   `json:"price"`
	Amount     float64   `json:"amount"`
	Value      float64   `json:"value"`
	Commission float64   `json:"commission"`
	Balance    float64   `json:"balance"`
	Position   float64   `json:"position"`
	Reason     string    `json:"reason,omitempty"`
}

// EquityPoint is one sample of the equity curve, taken after each bar.
type EquityPoint struct {
	Time   time.Time `json:"timestamp"`
	Equity float64   `json:"equity"`
}

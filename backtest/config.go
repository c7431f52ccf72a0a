// Package backtest replays OHLCV bars through a strategy against a simulated
// account. Fills model slippage and commission; shortfalls shrink the order
// instead of rejecting it. The engine is a single-owner state machine with no
// internal locking.
package backtest

import (
	"fmt"
	"time"
)

type Config struct {
	InitialCapital float64 `json:"initial_capital" yaml:"initial_capital"`
	CommissionRate float64 `json:"commission_rate" yaml:"commission_rate"`
	SlippageRate   float64 `json:"slippage_rate" yaml:"slippage_rate"`
	MaxPosition    float64 `json:"max_position" yaml:"max_position"`

	// Start and End bound the run to [Start, End). Either may be zero,
	// which leaves that side of the window open.
	Start time.Time `json:"start,omitempty" yaml:"start,omitempty"`
	End   time.Time `json:"end,omitempty" yaml:"end,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		InitialCapital: 10000,
		CommissionRate: 0.001,
		SlippageRate:   0.0005,
		MaxPosition:    10000,
	}
}

func (c Config) Validate() error {
	if c.InitialCapital <= 0 {
		return fmt.Errorf("initial_capital must be positive, got %v", c.InitialCapital)
	}
	if c.CommissionRate < 0 {
		return fmt.Errorf("commission_rate must not be negative, got %v", c.CommissionRate)
	}
	if c.SlippageRate < 0 {
		return fmt.Errorf("slippage_rate must not be negative, got %v", c.SlippageRate)
	}
	if c.MaxPosition <= 0 {
		return fmt.Errorf("max_position must be positive, got %v", c.MaxPosition)
	}
	if !c.Start.IsZero() && !c.End.IsZero() && !c.End.After(c.Start) {
		return fmt.Errorf("end %v must be after start %v", c.End, c.Start)
	}
	return nil
}

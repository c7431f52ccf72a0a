// Package strategies bundles the built-in trading strategies plus a registry
// so the CLI can construct one by name.
package strategies

import (
	"fmt"

	"github.com/rustyeddy/quantrisk/backtest"
)

// Noop emits no signals. Useful as a baseline and in wiring tests.
type Noop struct{}

func (Noop) Name() string { return "noop" }

func (Noop) OnBar(backtest.Bar, backtest.Account) []backtest.Signal { return nil }

// New constructs a named strategy with its default parameters.
func New(name string) (backtest.Strategy, error) {
	switch name {
	case "noop":
		return Noop{}, nil
	case "grid":
		return NewGrid(DefaultGridParams()), nil
	case "martingale":
		return NewMartingale(DefaultMartingaleParams()), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}

// Names lists the constructible strategy names.
func Names() []string {
	return []string{"noop", "grid", "martingale"}
}

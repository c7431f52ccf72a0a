package strategies

import (
	"math"

	"github.com/rustyeddy/quantrisk/backtest"
)

type MartingaleParams struct {
	InitialAmount     float64 `json:"initial_amount" yaml:"initial_amount"` // quote currency per entry
	Multiplier        float64 `json:"multiplier" yaml:"multiplier"`
	TakeProfitPercent float64 `json:"take_profit_percent" yaml:"take_profit_percent"`
	StopLossPercent   float64 `json:"stop_loss_percent" yaml:"stop_loss_percent"`
}

func DefaultMartingaleParams() MartingaleParams {
	return MartingaleParams{
		InitialAmount:     100,
		Multiplier:        1.5,
		TakeProfitPercent: 0.05,
		StopLossPercent:   0.10,
	}
}

// Martingale buys a fixed quote amount when flat and doubles down after each
// stopped-out trade: entry size is initial * multiplier^losses. A take-profit
// exit resets the loss streak.
type Martingale struct {
	params MartingaleParams
	losses int
}

func NewMartingale(params MartingaleParams) *Martingale {
	return &Martingale{params: params}
}

func (m *Martingale) Name() string { return "martingale" }

func (m *Martingale) ConsecutiveLosses() int { return m.losses }

func (m *Martingale) OnBar(bar backtest.Bar, acct backtest.Account) []backtest.Signal {
	if acct.Position > 0 && acct.EntryPrice > 0 {
		pnlPercent := (bar.Close - acct.EntryPrice) / acct.EntryPrice

		if pnlPercent >= m.params.TakeProfitPercent {
			m.losses = 0
			return []backtest.Signal{{
				Action: backtest.Sell,
				Price:  bar.Close,
				Amount: acct.Position,
				Reason: "take profit",
			}}
		}
		if pnlPercent <= -m.params.StopLossPercent {
			m.losses++
			return []backtest.Signal{{
				Action: backtest.Sell,
				Price:  bar.Close,
				Amount: acct.Position,
				Reason: "stop loss",
			}}
		}
		return nil
	}

	if acct.Position == 0 {
		quote := m.params.InitialAmount
		if m.losses > 0 {
			quote = m.params.InitialAmount * math.Pow(m.params.Multiplier, float64(m.losses))
		}
		if quote <= acct.Balance {
			return []backtest.Signal{{
				Action: backtest.Buy,
				Price:  bar.Close,
				Amount: quote / bar.Close,
				Reason: "martingale entry",
			}}
		}
	}
	return nil
}

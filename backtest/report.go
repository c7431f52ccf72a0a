package backtest

import (
	"math"
	"time"

	"github.com/rustyeddy/quantrisk/stats"
)

// PerformanceReport is the terminal summary of one run.
type PerformanceReport struct {
	InitialCapital float64 `json:"initial_capital"`
	FinalEquity    float64 `json:"final_equity"`

	TotalReturn  float64 `json:"total_return"`
	AnnualReturn float64 `json:"annual_return"`
	MaxDrawdown  float64 `json:"max_drawdown"`
	SharpeRatio  float64 `json:"sharpe_ratio"`
	SortinoRatio float64 `json:"sortino_ratio"`

	TotalTrades      int     `json:"total_trades"`
	ProfitableTrades int     `json:"profitable_trades"`
	LosingTrades     int     `json:"losing_trades"`
	WinRate          float64 `json:"win_rate"`
	ProfitFactor     float64 `json:"profit_factor"`
	AvgProfit        float64 `json:"avg_profit"`
	AvgLoss          float64 `json:"avg_loss"`
	MaxProfit        float64 `json:"max_profit"`
	MaxLoss          float64 `json:"max_loss"`

	Volatility float64 `json:"volatility"`
	VaR95      float64 `json:"var_95"`
	CVaR95     float64 `json:"cvar_95"`
}

// Matcher pairs ledger fills into round trips for the win/loss statistics.
// The pairing policy is pluggable because strategies differ in how strictly
// their fills alternate.
type Matcher interface {
	Match(trades []SimulatedTrade) []float64
}

// IndexMatcher pairs fills by raw ledger index: entries (0,1), (2,3), ...
// count as a round trip when the even entry is a buy and the odd one a sell,
// regardless of whether they belong to the same position. Strategies whose
// fills interleave opens and closes out of strict alternation will be
// mispaired; use FIFOMatcher for those.
type IndexMatcher struct{}

func (IndexMatcher) Match(trades []SimulatedTrade) []float64 {
	var profits []float64
	for i := 0; i+1 < len(trades); i += 2 {
		buy, sell := trades[i], trades[i+1]
		if buy.Action != Buy || sell.Action != Sell {
			continue
		}
		profit := (sell.Price-buy.Price)*buy.Amount - (buy.Commission + sell.Commission)
		profits = append(profits, profit)
	}
	return profits
}

// FIFOMatcher matches each sell against the oldest unmatched buy quantity.
// Commissions are apportioned pro rata to the matched quantity.
type FIFOMatcher struct{}

func (FIFOMatcher) Match(trades []SimulatedTrade) []float64 {
	type lot struct {
		price      float64
		amount     float64
		commission float64 // per unit
	}
	var open []lot
	var profits []float64

	for _, t := range trades {
		switch t.Action {
		case Buy:
			if t.Amount <= 0 {
				continue
			}
			open = append(open, lot{
				price:      t.Price,
				amount:     t.Amount,
				commission: t.Commission / t.Amount,
			})
		case Sell:
			remaining := t.Amount
			if remaining <= 0 {
				continue
			}
			sellCommPerUnit := t.Commission / t.Amount
			for remaining > 0 && len(open) > 0 {
				matched := math.Min(remaining, open[0].amount)
				profit := (t.Price-open[0].price)*matched -
					matched*(open[0].commission+sellCommPerUnit)
				profits = append(profits, profit)

				open[0].amount -= matched
				remaining -= matched
				if open[0].amount <= 0 {
					open = open[1:]
				}
			}
		}
	}
	return profits
}

// daysBetween truncates to whole days, matching calendar-day duration math.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// Report computes performance metrics from the current ledger and equity
// curve. An empty ledger yields a zero report.
func (e *Engine) Report() *PerformanceReport {
	r := &PerformanceReport{InitialCapital: e.cfg.InitialCapital}
	if len(e.trades) == 0 {
		r.FinalEquity = e.cfg.InitialCapital
		return r
	}

	r.FinalEquity = e.cfg.InitialCapital
	if len(e.equity) > 0 {
		r.FinalEquity = e.equity[len(e.equity)-1].Equity
	}
	r.TotalReturn = (r.FinalEquity - e.cfg.InitialCapital) / e.cfg.InitialCapital

	if len(e.trades) > 1 {
		days := daysBetween(e.trades[0].Time, e.trades[len(e.trades)-1].Time)
		if days > 0 {
			r.AnnualReturn = math.Pow(1+r.TotalReturn, 365/float64(days)) - 1
		}
	}

	curve := make([]float64, len(e.equity))
	for i, p := range e.equity {
		curve[i] = p.Equity
	}
	r.MaxDrawdown = stats.MaxDrawdown(curve)

	returns := stats.Returns(curve)
	r.SharpeRatio = stats.Sharpe(returns)
	r.SortinoRatio = stats.Sortino(returns)
	r.Volatility = stats.AnnualizedVolatility(returns)
	if len(returns) > 0 {
		r.VaR95 = stats.VaR95(returns)
		r.CVaR95 = stats.CVaR95(returns)
	}

	profits := e.matcher.Match(e.trades)
	var wins, losses []float64
	for _, p := range profits {
		switch {
		case p > 0:
			wins = append(wins, p)
		case p < 0:
			losses = append(losses, -p)
		}
	}

	r.TotalTrades = len(wins) + len(losses)
	r.ProfitableTrades = len(wins)
	r.LosingTrades = len(losses)
	if r.TotalTrades > 0 {
		r.WinRate = float64(r.ProfitableTrades) / float64(r.TotalTrades) * 100
	}

	var grossProfit, grossLoss float64
	for _, w := range wins {
		grossProfit += w
		r.MaxProfit = math.Max(r.MaxProfit, w)
	}
	for _, l := range losses {
		grossLoss += l
		r.MaxLoss = math.Max(r.MaxLoss, l)
	}
	if len(wins) > 0 {
		r.AvgProfit = grossProfit / float64(len(wins))
	}
	if len(losses) > 0 {
		r.AvgLoss = grossLoss / float64(len(losses))
	}
	if grossLoss > 0 {
		r.ProfitFactor = grossProfit / grossLoss
	}

	return r
}

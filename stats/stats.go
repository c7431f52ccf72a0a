// Package stats provides the pure numeric functions behind performance
// reporting: return series, dispersion, drawdown, risk-adjusted ratios and
// tail-risk measures. All functions are total: degenerate input (empty or
// single-element series, zero variance) yields 0 rather than an error.
package stats

import (
	"math"
	"sort"
)

// TradingDays is the annualization factor for daily return series.
const TradingDays = 252

// Returns computes the percent-change series of xs. The result has
// len(xs)-1 elements (or none when fewer than 2 samples). Steps whose
// base value is zero are skipped.
func Returns(xs []float64) []float64 {
	if len(xs) < 2 {
		return nil
	}
	out := make([]float64, 0, len(xs)-1)
	for i := 1; i < len(xs); i++ {
		if xs[i-1] == 0 {
			continue
		}
		out = append(out, (xs[i]-xs[i-1])/xs[i-1])
	}
	return out
}

// Mean returns the arithmetic mean of xs, or 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// StdDev returns the sample standard deviation (n-1 denominator) of xs,
// or 0 when fewer than 2 samples.
func StdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := Mean(xs)
	ss := 0.0
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

// PopStdDev returns the population standard deviation (n denominator) of xs,
// or 0 when fewer than 2 samples.
func PopStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := Mean(xs)
	ss := 0.0
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)))
}

// MaxDrawdown returns the largest percentage decline of the equity series
// from its running historical peak. The result is always in [0, 1] for
// non-negative equity series.
func MaxDrawdown(equity []float64) float64 {
	if len(equity) == 0 {
		return 0
	}
	peak := equity[0]
	maxDD := 0.0
	for _, e := range equity[1:] {
		if e > peak {
			peak = e
			continue
		}
		if peak > 0 {
			if dd := (peak - e) / peak; dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// Sharpe annualizes the mean of a daily return series against its
// annualized standard deviation. Zero variance yields 0.
func Sharpe(returns []float64) float64 {
	sd := StdDev(returns)
	if sd == 0 {
		return 0
	}
	return Mean(returns) * TradingDays / (sd * math.Sqrt(TradingDays))
}

// Sortino is Sharpe with only the negative returns in the denominator:
// upside volatility is not penalized. Returns 0 when there are no losing
// periods or the downside deviation is zero.
func Sortino(returns []float64) float64 {
	var downside []float64
	for _, r := range returns {
		if r < 0 {
			downside = append(downside, r)
		}
	}
	sd := StdDev(downside)
	if sd == 0 {
		return 0
	}
	return Mean(returns) * TradingDays / (sd * math.Sqrt(TradingDays))
}

// AnnualizedVolatility scales the standard deviation of a daily return
// series to a yearly horizon.
func AnnualizedVolatility(returns []float64) float64 {
	return StdDev(returns) * math.Sqrt(TradingDays)
}

// Percentile returns the p-th percentile (0..100) of xs using linear
// interpolation between closest ranks, matching the numpy default.
func Percentile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// VaR95 is the 5th percentile of the return distribution: the daily loss
// threshold not exceeded with 95% confidence.
func VaR95(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	return Percentile(returns, 5)
}

// CVaR95 is the mean of the returns at or below VaR95: the expected loss
// conditional on being in the tail.
func CVaR95(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	v := VaR95(returns)
	var tail []float64
	for _, r := range returns {
		if r <= v {
			tail = append(tail, r)
		}
	}
	return Mean(tail)
}

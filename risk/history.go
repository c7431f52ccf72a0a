package risk

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
)

// priceHistoryCap bounds the per-symbol ring buffer.
const priceHistoryCap = 100

// crashDropThreshold is a second, always-on abnormal-market check: a
// one-sided drop of more than 15% between observations is treated as a
// crash regardless of the configurable PriceChangeThreshold.
const crashDropThreshold = 0.15

// PricePoint is one buffered observation for a symbol.
type PricePoint struct {
	Price float64   `json:"price"`
	Time  time.Time `json:"time"`
}

// MarketCheck is the result of an abnormal-market scan for one tick.
type MarketCheck struct {
	IsAbnormal         bool    `json:"is_abnormal"`
	Reason             string  `json:"reason,omitempty"`
	PriceChangePercent float64 `json:"price_change_percent"`
	Recommendation     string  `json:"recommendation"`
}

// Volatility returns the population standard deviation of the trailing
// period prices divided by their mean. Fewer than 2 samples or a zero mean
// yields 0.
func Volatility(prices []float64, period int) float64 {
	if period > 0 && len(prices) > period {
		prices = prices[len(prices)-period:]
	}
	if len(prices) < 2 {
		return 0
	}

	mean := 0.0
	for _, p := range prices {
		mean += p
	}
	mean /= float64(len(prices))
	if mean == 0 {
		return 0
	}

	ss := 0.0
	for _, p := range prices {
		d := p - mean
		ss += d * d
	}
	return math.Sqrt(ss/float64(len(prices))) / mean
}

// UpdatePriceHistory appends a tick to the symbol's bounded buffer and
// refreshes its last seen price. A zero timestamp means "now".
func (m *Manager) UpdatePriceHistory(symbol string, price float64, at time.Time) {
	if at.IsZero() {
		at = m.now()
	}
	buf := append(m.priceHistory[symbol], PricePoint{Price: price, Time: at})
	if len(buf) > priceHistoryCap {
		buf = buf[len(buf)-priceHistoryCap:]
	}
	m.priceHistory[symbol] = buf
	m.lastPrice[symbol] = price
}

// PriceHistory returns a copy of the buffered points for a symbol.
func (m *Manager) PriceHistory(symbol string) []PricePoint {
	buf := m.priceHistory[symbol]
	out := make([]PricePoint, len(buf))
	copy(out, buf)
	return out
}

// CheckVolatility passes trivially when volatility protection is disabled;
// otherwise it computes volatility over the symbol's full buffer and fails
// when it exceeds the configured threshold.
func (m *Manager) CheckVolatility(symbol string) (bool, string, float64) {
	if !m.limits.EnableVolatilityProtection {
		return true, "volatility protection disabled", 0
	}

	buf := m.priceHistory[symbol]
	prices := make([]float64, len(buf))
	for i, p := range buf {
		prices[i] = p.Price
	}

	vol := Volatility(prices, len(prices))
	if vol > m.limits.VolatilityThreshold {
		return false, fmt.Sprintf("volatility %.2f%% exceeds threshold %.2f%%",
			vol*100, m.limits.VolatilityThreshold*100), vol
	}
	return true, "ok", vol
}

// DetectAbnormalMarket compares a tick against the symbol's last observed
// price. The first observation seeds the baseline and reports normal. Two
// checks then run independently: a symmetric move beyond the configured
// threshold flags the market as abnormal, and a one-sided drop beyond the
// crash constant recommends an emergency exit. The baseline is updated
// unconditionally. An optional trailing volume is carried into the abnormal
// log line but does not affect the verdict.
func (m *Manager) DetectAbnormalMarket(symbol string, price float64, volume ...float64) MarketCheck {
	last, seen := m.lastPrice[symbol]
	if !seen || last == 0 {
		m.lastPrice[symbol] = price
		return MarketCheck{Recommendation: "normal market"}
	}

	change := (price - last) / last
	res := MarketCheck{
		PriceChangePercent: math.Abs(change) * 100,
		Recommendation:     "normal market",
	}

	if math.Abs(change) > m.limits.PriceChangeThreshold {
		res.IsAbnormal = true
		res.Reason = fmt.Sprintf("%s moved %.2f%% in one tick", symbol, math.Abs(change)*100)
		res.Recommendation = "pause trading"
	}

	if (last-price)/last > crashDropThreshold {
		res.IsAbnormal = true
		res.Reason = fmt.Sprintf("%s crashed %.2f%% in one tick", symbol, (last-price)/last*100)
		res.Recommendation = "emergency exit"
	}

	if res.IsAbnormal {
		fields := []zap.Field{
			zap.String("symbol", symbol),
			zap.Float64("last", last),
			zap.Float64("price", price),
			zap.String("recommendation", res.Recommendation),
		}
		if len(volume) > 0 {
			fields = append(fields, zap.Float64("volume", volume[0]))
		}
		m.logger.Warn("abnormal market detected", fields...)
	}

	m.lastPrice[symbol] = price
	return res
}

// LastPrice returns the last observed price for a symbol, if any.
func (m *Manager) LastPrice(symbol string) (float64, bool) {
	p, ok := m.lastPrice[symbol]
	return p, ok
}

package risk

import "math"

// The sizing helpers follow a "safe zero" contract: degenerate input (zero
// or negative prices, zero risk distance) returns 0 instead of an error.
// Callers treat 0 as "do not trade".

// PositionSize suggests a position size such that hitting the stop loses at
// most balance*riskPct. The suggested value is capped so the position never
// exceeds the full account balance.
func PositionSize(balance, riskPct, entryPrice, stopPrice float64) float64 {
	if entryPrice <= 0 || stopPrice <= 0 {
		return 0
	}

	riskAmount := balance * riskPct
	lossPerUnit := math.Abs(entryPrice - stopPrice)
	if lossPerUnit <= 0 {
		return 0
	}

	size := riskAmount / lossPerUnit
	if size*entryPrice > balance {
		size = balance / entryPrice
	}
	return size
}

// RiskRewardRatio returns reward distance over risk distance, or 0 when
// either price is degenerate or the risk distance is zero.
func RiskRewardRatio(entryPrice, stopPrice, takeProfitPrice float64) float64 {
	if stopPrice <= 0 || entryPrice <= 0 {
		return 0
	}

	risk := math.Abs(entryPrice - stopPrice)
	reward := math.Abs(takeProfitPrice - entryPrice)
	if risk == 0 {
		return 0
	}
	return reward / risk
}

// SafePositionSize clamps PositionSize against the manager's position and
// single-order limits. It returns 0 when the position cap is already used up.
func (m *Manager) SafePositionSize(balance, entryPrice, stopPrice, maxRiskPct float64) float64 {
	size := PositionSize(balance, maxRiskPct, entryPrice, stopPrice)
	if size == 0 {
		return 0
	}

	value := size * entryPrice
	if ok, _ := m.CheckPositionLimit(value); !ok {
		available := m.limits.MaxPosition - m.currentPosition
		if available <= 0 {
			return 0
		}
		size = math.Min(size, available/entryPrice)
		value = size * entryPrice
	}

	if value > m.limits.MaxSingleOrder {
		size = m.limits.MaxSingleOrder / entryPrice
	}
	return size
}

// ShouldStopLoss reports whether the loss from entry to current price has
// reached the configured stop threshold.
func (m *Manager) ShouldStopLoss(currentPrice, entryPrice float64) bool {
	if entryPrice <= 0 {
		return false
	}
	return (entryPrice-currentPrice)/entryPrice >= m.limits.StopLossThreshold
}

// ShouldTakeProfit reports whether the gain from entry to current price has
// reached the configured take threshold.
func (m *Manager) ShouldTakeProfit(currentPrice, entryPrice float64) bool {
	if entryPrice <= 0 {
		return false
	}
	return (currentPrice-entryPrice)/entryPrice >= m.limits.TakeProfitThreshold
}

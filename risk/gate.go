package risk

import (
	"fmt"

	"go.uber.org/zap"
)

// Decision is the outcome of a pre-trade gate evaluation.
type Decision struct {
	Allowed        bool     `json:"allowed"`
	Reasons        []string `json:"reasons,omitempty"`
	Level          Level    `json:"-"`
	LevelName      string   `json:"risk_level"`
	Recommendation string   `json:"recommendation"`
}

// PreTradeCheck runs the full gate for a proposed trade: all limits first,
// then a risk-level evaluation of the post-trade posture. A HIGH level still
// allows the trade but recommends caution; CRITICAL blocks it outright.
func (m *Manager) PreTradeCheck(positionDelta, orderValue float64) Decision {
	passed, reasons := m.CheckAllLimits(positionDelta, orderValue)
	if !passed {
		return Decision{
			Reasons:        reasons,
			Level:          High,
			LevelName:      High.String(),
			Recommendation: "pause trading or reduce position size",
		}
	}

	level := m.EvaluateRiskLevel(m.currentPosition+positionDelta, m.dailyPnL, 0)
	d := Decision{
		Allowed:        true,
		Level:          level,
		LevelName:      level.String(),
		Recommendation: "ok to trade",
	}

	switch level {
	case High:
		d.Recommendation = "reduce trade frequency or order size"
		m.logger.Warn("risk level high", zap.Float64("position_delta", positionDelta))
	case Critical:
		d.Allowed = false
		d.Reasons = []string{"risk level critical"}
		d.Recommendation = "stop trading immediately"
		m.logger.Error("risk level critical", zap.Float64("position_delta", positionDelta))
	}
	return d
}

// PostTradeUpdate records the outcome of an executed trade: position,
// realized P&L and the daily log, in that order. It returns a fresh report.
func (m *Manager) PostTradeUpdate(symbol, side string, amount, price, pnl float64) Report {
	if side == "buy" {
		m.UpdatePosition(amount, price)
	} else {
		m.UpdatePosition(-amount, price)
	}

	m.UpdatePnL(pnl)
	m.RecordTrade(TradeLogEntry{
		Symbol: symbol,
		Side:   side,
		Price:  price,
		Amount: amount,
		PnL:    pnl,
	})

	return m.Report()
}

// Alert surfaces near-limit warnings before a hard breach: 80% of either
// loss cap, or 90% of position or order usage. Returns nil when nothing is
// close to its limit.
type Alert struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// CheckAlert inspects the current counters for near-limit conditions.
func (m *Manager) CheckAlert() *Alert {
	if m.dailyPnL < -m.limits.MaxDailyLoss*0.8 {
		return &Alert{
			Type:     "warning",
			Message:  fmt.Sprintf("daily loss approaching limit (%.2f / -%.2f)", m.dailyPnL, m.limits.MaxDailyLoss),
			Severity: "high",
		}
	}
	if m.totalPnL < -m.limits.MaxTotalLoss*0.8 {
		return &Alert{
			Type:     "warning",
			Message:  fmt.Sprintf("total loss approaching limit (%.2f / -%.2f)", m.totalPnL, m.limits.MaxTotalLoss),
			Severity: "critical",
		}
	}
	if usage := m.currentPosition / m.limits.MaxPosition; usage > 0.9 {
		return &Alert{
			Type:     "warning",
			Message:  fmt.Sprintf("position usage high (%.1f%%)", usage*100),
			Severity: "medium",
		}
	}
	if m.orderCount >= int(float64(m.limits.MaxOrders)*0.9) && m.orderCount > 0 {
		return &Alert{
			Type:     "warning",
			Message:  fmt.Sprintf("order count approaching limit (%d / %d)", m.orderCount, m.limits.MaxOrders),
			Severity: "medium",
		}
	}
	return nil
}

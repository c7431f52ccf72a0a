package risk

import "time"

// LimitsStatus reports whether each individual check would currently pass a
// zero-magnitude trial input (a no-op trade).
type LimitsStatus struct {
	Position          bool `json:"position"`
	DailyLoss         bool `json:"daily_loss"`
	TotalLoss         bool `json:"total_loss"`
	Orders            bool `json:"orders"`
	SingleOrder       bool `json:"single_order"`
	ConsecutiveLosses bool `json:"consecutive_losses"`
	EmergencyStop     bool `json:"emergency_stop"`
}

// Report is a JSON-serializable snapshot of the manager's state. It is
// derived on demand and never the source of truth.
type Report struct {
	Timestamp          time.Time    `json:"timestamp"`
	CurrentPosition    float64      `json:"current_position"`
	MaxPosition        float64      `json:"max_position"`
	PositionUsageRatio float64      `json:"position_usage_ratio"`
	DailyPnL           float64      `json:"daily_pnl"`
	TotalPnL           float64      `json:"total_pnl"`
	DailyLossLimit     float64      `json:"daily_loss_limit"`
	TotalLossLimit     float64      `json:"total_loss_limit"`
	OrderCount         int          `json:"order_count"`
	MaxOrders          int          `json:"max_orders"`
	DailyTrades        int          `json:"daily_trades"`
	ConsecutiveLosses  int          `json:"consecutive_losses"`
	ConsecutiveWins    int          `json:"consecutive_wins"`
	EmergencyStop      bool         `json:"emergency_stop_triggered"`
	EmergencyReason    string       `json:"emergency_stop_reason,omitempty"`
	LimitsStatus       LimitsStatus `json:"limits_status"`
}

// Report snapshots all counters plus the would-pass state of each check.
func (m *Manager) Report() Report {
	usage := 0.0
	if m.limits.MaxPosition > 0 {
		usage = m.currentPosition / m.limits.MaxPosition
	}

	status := LimitsStatus{}
	status.Position, _ = m.CheckPositionLimit(0)
	status.DailyLoss, _ = m.CheckDailyLossLimit()
	status.TotalLoss, _ = m.CheckTotalLossLimit()
	status.Orders, _ = m.CheckOrderLimit()
	status.SingleOrder, _ = m.CheckSingleOrderLimit(0)
	status.ConsecutiveLosses, _ = m.CheckConsecutiveLosses()
	status.EmergencyStop, _ = m.CheckEmergencyStop()

	return Report{
		Timestamp:          m.now(),
		CurrentPosition:    m.currentPosition,
		MaxPosition:        m.limits.MaxPosition,
		PositionUsageRatio: usage,
		DailyPnL:           m.dailyPnL,
		TotalPnL:           m.totalPnL,
		DailyLossLimit:     m.limits.MaxDailyLoss,
		TotalLossLimit:     m.limits.MaxTotalLoss,
		OrderCount:         m.orderCount,
		MaxOrders:          m.limits.MaxOrders,
		DailyTrades:        len(m.dailyTrades),
		ConsecutiveLosses:  m.consecutiveLosses,
		ConsecutiveWins:    m.consecutiveWins,
		EmergencyStop:      m.emergencyStop,
		EmergencyReason:    m.emergencyReason,
		LimitsStatus:       status,
	}
}

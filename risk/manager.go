package risk

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
)

// Level classifies the current risk posture of a bot.
type Level int

const (
	Low Level = iota
	Medium
	High
	Critical
)

func (l Level) String() string {
	switch l {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	default:
		return "critical"
	}
}

// TradeLogEntry is one row of the daily trade log.
type TradeLogEntry struct {
	Time   time.Time `json:"timestamp"`
	Symbol string    `json:"symbol"`
	Side   string    `json:"side"`
	Price  float64   `json:"price"`
	Amount float64   `json:"amount"`
	PnL    float64   `json:"pnl"`
}

// Manager is the stateful risk gate for a single bot. It is not safe for
// concurrent use; the owning bot must serialize calls. Limit breaches only
// block individual trades through CheckAllLimits. The emergency stop is the
// sole hard halt, and it is set and cleared explicitly, never by a breach.
type Manager struct {
	limits Limits
	logger *zap.Logger
	now    func() time.Time

	currentPosition   float64
	dailyPnL          float64
	totalPnL          float64
	orderCount        int
	dailyTrades       []TradeLogEntry
	consecutiveLosses int
	consecutiveWins   int

	priceHistory map[string][]PricePoint
	lastPrice    map[string]float64

	emergencyStop   bool
	emergencyReason string

	lastReset time.Time // date of the last daily rollover
}

// Option configures a Manager at construction.
type Option func(*Manager)

// WithLogger attaches a structured logger. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithClock overrides the wall clock used for daily rollovers and trade
// timestamps. Tests use this to simulate date changes.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager builds a risk gate from a validated limit set.
func NewManager(limits Limits, opts ...Option) (*Manager, error) {
	if err := limits.Validate(); err != nil {
		return nil, fmt.Errorf("risk limits: %w", err)
	}

	m := &Manager{
		limits:       limits,
		logger:       zap.NewNop(),
		now:          time.Now,
		priceHistory: make(map[string][]PricePoint),
		lastPrice:    make(map[string]float64),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.lastReset = dateOf(m.now())
	return m, nil
}

// Limits returns the immutable configuration of this manager.
func (m *Manager) Limits() Limits { return m.limits }

func dateOf(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, t.Location())
}

// ResetDailyLimits rolls the daily counters over when the wall-clock date has
// advanced. Calling it repeatedly on the same day is a no-op; the daily-loss
// and order-count checks call it lazily before evaluating.
func (m *Manager) ResetDailyLimits() {
	today := dateOf(m.now())
	if today.Equal(m.lastReset) {
		return
	}
	m.dailyPnL = 0
	m.dailyTrades = nil
	m.orderCount = 0
	m.lastReset = today
	m.logger.Info("daily risk limits reset", zap.Time("date", today))
}

// CheckPositionLimit verifies that adding delta notional stays within the
// position cap.
func (m *Manager) CheckPositionLimit(delta float64) (bool, string) {
	next := m.currentPosition + delta
	if next > m.limits.MaxPosition {
		return false, fmt.Sprintf("position limit exceeded: %.2f > %.2f", next, m.limits.MaxPosition)
	}
	return true, "ok"
}

// CheckDailyLossLimit fails once the day's realized loss passes the cap.
func (m *Manager) CheckDailyLossLimit() (bool, string) {
	m.ResetDailyLimits()
	if m.dailyPnL < -m.limits.MaxDailyLoss {
		return false, fmt.Sprintf("daily loss limit exceeded: %.2f < -%.2f", m.dailyPnL, m.limits.MaxDailyLoss)
	}
	return true, "ok"
}

// CheckTotalLossLimit fails once the lifetime loss passes the cap.
func (m *Manager) CheckTotalLossLimit() (bool, string) {
	if m.totalPnL < -m.limits.MaxTotalLoss {
		return false, fmt.Sprintf("total loss limit exceeded: %.2f < -%.2f", m.totalPnL, m.limits.MaxTotalLoss)
	}
	return true, "ok"
}

// CheckOrderLimit fails once the day's order count reaches the cap.
func (m *Manager) CheckOrderLimit() (bool, string) {
	m.ResetDailyLimits()
	if m.orderCount >= m.limits.MaxOrders {
		return false, fmt.Sprintf("order count limit reached: %d >= %d", m.orderCount, m.limits.MaxOrders)
	}
	return true, "ok"
}

// CheckSingleOrderLimit fails when one order's notional exceeds the cap.
func (m *Manager) CheckSingleOrderLimit(orderValue float64) (bool, string) {
	if orderValue > m.limits.MaxSingleOrder {
		return false, fmt.Sprintf("single order limit exceeded: %.2f > %.2f", orderValue, m.limits.MaxSingleOrder)
	}
	return true, "ok"
}

// CheckConsecutiveLosses fails once the losing streak reaches the cap.
func (m *Manager) CheckConsecutiveLosses() (bool, string) {
	if m.consecutiveLosses >= m.limits.MaxConsecutiveLosses {
		return false, fmt.Sprintf("consecutive loss limit reached: %d >= %d", m.consecutiveLosses, m.limits.MaxConsecutiveLosses)
	}
	return true, "ok"
}

// CheckEmergencyStop fails while the halt flag is set.
func (m *Manager) CheckEmergencyStop() (bool, string) {
	if m.emergencyStop {
		return false, fmt.Sprintf("emergency stop active: %s", m.emergencyReason)
	}
	return true, "ok"
}

// CheckAllLimits gates a proposed trade. The emergency stop short-circuits
// with a single reason; every other check is evaluated independently and all
// failures are reported together.
func (m *Manager) CheckAllLimits(positionDelta, orderValue float64) (bool, []string) {
	if ok, msg := m.CheckEmergencyStop(); !ok {
		return false, []string{msg}
	}

	var reasons []string
	record := func(ok bool, msg string) {
		if !ok {
			reasons = append(reasons, msg)
		}
	}

	record(m.CheckPositionLimit(positionDelta))
	record(m.CheckDailyLossLimit())
	record(m.CheckTotalLossLimit())
	record(m.CheckOrderLimit())
	record(m.CheckSingleOrderLimit(orderValue))
	record(m.CheckConsecutiveLosses())

	if len(reasons) > 0 {
		m.logger.Warn("trade rejected by risk gate",
			zap.Float64("position_delta", positionDelta),
			zap.Float64("order_value", orderValue),
			zap.Strings("reasons", reasons))
		return false, reasons
	}
	return true, nil
}

// EvaluateRiskLevel scores the current posture: up to 30 points for position
// usage, 40 for loss pressure, 30 for volatility. The position term is not
// clamped, so exposure far beyond the cap can dominate the score.
func (m *Manager) EvaluateRiskLevel(positionValue, unrealizedPnL, volatility float64) Level {
	score := 0.0

	if m.limits.MaxPosition > 0 {
		score += positionValue / m.limits.MaxPosition * 30
	}
	if m.limits.MaxDailyLoss > 0 {
		score += math.Min(math.Abs(unrealizedPnL)/m.limits.MaxDailyLoss, 1) * 40
	}
	score += math.Min(volatility/0.10, 1) * 30

	switch {
	case score < 30:
		return Low
	case score < 60:
		return Medium
	case score < 85:
		return High
	default:
		return Critical
	}
}

// UpdatePosition applies a signed fill to the open notional.
func (m *Manager) UpdatePosition(amount, price float64) {
	value := amount * price
	m.currentPosition += value
	m.logger.Info("position updated",
		zap.Float64("delta", value),
		zap.Float64("position", m.currentPosition))
}

// UpdatePnL applies a realized profit or loss to the daily and total
// counters and advances the win/loss streak. The two streak counters are
// mutually exclusive: a win zeroes the loss streak and vice versa. A zero
// P&L leaves both untouched.
func (m *Manager) UpdatePnL(pnl float64) {
	m.dailyPnL += pnl
	m.totalPnL += pnl

	switch {
	case pnl > 0:
		m.consecutiveLosses = 0
		m.consecutiveWins++
	case pnl < 0:
		m.consecutiveWins = 0
		m.consecutiveLosses++
	}

	m.logger.Info("pnl updated",
		zap.Float64("pnl", pnl),
		zap.Float64("daily", m.dailyPnL),
		zap.Float64("total", m.totalPnL))
}

// RecordTrade appends to the daily log and counts the order.
func (m *Manager) RecordTrade(t TradeLogEntry) {
	if t.Time.IsZero() {
		t.Time = m.now()
	}
	m.dailyTrades = append(m.dailyTrades, t)
	m.orderCount++
}

// TriggerEmergencyStop sets the hard halt. While set, CheckAllLimits and
// CheckEmergencyStop fail unconditionally until ResetEmergencyStop.
func (m *Manager) TriggerEmergencyStop(reason string) {
	m.emergencyStop = true
	m.emergencyReason = reason
	m.logger.Error("emergency stop triggered", zap.String("reason", reason))
}

// ResetEmergencyStop clears the hard halt. Only an explicit operator action
// should call this.
func (m *Manager) ResetEmergencyStop() {
	m.emergencyStop = false
	m.emergencyReason = ""
	m.logger.Info("emergency stop reset")
}

// EmergencyStopped reports whether the halt flag is set, and why.
func (m *Manager) EmergencyStopped() (bool, string) {
	return m.emergencyStop, m.emergencyReason
}

// ConsecutiveLosses returns the current losing streak.
func (m *Manager) ConsecutiveLosses() int { return m.consecutiveLosses }

// ConsecutiveWins returns the current winning streak.
func (m *Manager) ConsecutiveWins() int { return m.consecutiveWins }

// CurrentPosition returns the open signed notional.
func (m *Manager) CurrentPosition() float64 { return m.currentPosition }

// DailyPnL returns the day's realized P&L.
func (m *Manager) DailyPnL() float64 { return m.dailyPnL }

// TotalPnL returns the lifetime realized P&L.
func (m *Manager) TotalPnL() float64 { return m.totalPnL }

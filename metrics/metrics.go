// Package metrics exposes Prometheus instrumentation for the risk gate and
// simulation runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rustyeddy/quantrisk/risk"
)

var (
	ChecksPassed   = prometheus.NewCounter(prometheus.CounterOpts{Name: "risk_checks_passed_total", Help: "Pre-trade checks that passed every limit"})
	ChecksRejected = prometheus.NewCounter(prometheus.CounterOpts{Name: "risk_checks_rejected_total", Help: "Pre-trade checks rejected by at least one limit"})
	EmergencyStops = prometheus.NewCounter(prometheus.CounterOpts{Name: "risk_emergency_stops_total", Help: "Emergency stop activations"})
	AbnormalMarket = prometheus.NewCounter(prometheus.CounterOpts{Name: "risk_abnormal_market_total", Help: "Abnormal market detections"})

	RiskLevel     = prometheus.NewGauge(prometheus.GaugeOpts{Name: "risk_level", Help: "0=low, 1=medium, 2=high, 3=critical"})
	DailyPnL      = prometheus.NewGauge(prometheus.GaugeOpts{Name: "risk_daily_pnl", Help: "Realized profit and loss since the daily reset"})
	TotalPnL      = prometheus.NewGauge(prometheus.GaugeOpts{Name: "risk_total_pnl", Help: "Lifetime realized profit and loss"})
	OpenPosition  = prometheus.NewGauge(prometheus.GaugeOpts{Name: "risk_open_position_value", Help: "Current open position notional"})
	OrdersToday   = prometheus.NewGauge(prometheus.GaugeOpts{Name: "risk_orders_today", Help: "Orders counted since the daily reset"})
	EmergencyHalt = prometheus.NewGauge(prometheus.GaugeOpts{Name: "risk_emergency_halted", Help: "1 while the emergency stop is active"})

	RunsCompleted = prometheus.NewCounter(prometheus.CounterOpts{Name: "sim_runs_completed_total", Help: "Simulation runs finished"})
	RunFills      = prometheus.NewGauge(prometheus.GaugeOpts{Name: "sim_run_fills", Help: "Fills executed by the most recent run"})
)

func init() {
	prometheus.MustRegister(
		ChecksPassed, ChecksRejected, EmergencyStops, AbnormalMarket,
		RiskLevel, DailyPnL, TotalPnL, OpenPosition, OrdersToday, EmergencyHalt,
		RunsCompleted, RunFills,
	)
}

// ObserveReport pushes one risk report into the gauges.
func ObserveReport(r risk.Report) {
	DailyPnL.Set(r.DailyPnL)
	TotalPnL.Set(r.TotalPnL)
	OpenPosition.Set(r.CurrentPosition)
	OrdersToday.Set(float64(r.OrderCount))
	if r.EmergencyStop {
		EmergencyHalt.Set(1)
	} else {
		EmergencyHalt.Set(0)
	}
}

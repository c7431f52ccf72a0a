// Package risk implements the pre-trade risk gate: a per-bot state machine of
// rolling P&L counters, streak tracking, price-history volatility checks and
// an operator-controlled emergency stop. Every public method is a synchronous
// state transformer with no I/O; each bot owns exactly one Manager and the
// caller serializes access.
package risk

import "fmt"

// Limits is the immutable risk configuration for one bot. Construct it once,
// validate it, and never mutate it afterwards.
type Limits struct {
	MaxPosition    float64 `json:"max_position" yaml:"max_position"`         // max open notional
	MaxDailyLoss   float64 `json:"max_daily_loss" yaml:"max_daily_loss"`     // per-day loss cap
	MaxTotalLoss   float64 `json:"max_total_loss" yaml:"max_total_loss"`     // lifetime loss cap
	MaxOrders      int     `json:"max_orders" yaml:"max_orders"`             // order count cap per day
	MaxSingleOrder float64 `json:"max_single_order" yaml:"max_single_order"` // notional cap per order

	StopLossThreshold   float64 `json:"stop_loss_threshold" yaml:"stop_loss_threshold"`
	TakeProfitThreshold float64 `json:"take_profit_threshold" yaml:"take_profit_threshold"`

	MaxConsecutiveLosses int     `json:"max_consecutive_losses" yaml:"max_consecutive_losses"`
	VolatilityThreshold  float64 `json:"volatility_threshold" yaml:"volatility_threshold"`

	// PriceChangeThreshold is the single-tick move that flags the market as
	// abnormal. A harsher hardcoded crash check exists alongside it; see
	// Manager.DetectAbnormalMarket.
	PriceChangeThreshold float64 `json:"price_change_threshold" yaml:"price_change_threshold"`

	EnableAutoStop             bool `json:"enable_auto_stop" yaml:"enable_auto_stop"`
	EnableVolatilityProtection bool `json:"enable_volatility_protection" yaml:"enable_volatility_protection"`
	EnableEmergencyStop        bool `json:"enable_emergency_stop" yaml:"enable_emergency_stop"`
}

// DefaultLimits returns the limit set used by the stock bot configuration.
func DefaultLimits() Limits {
	return Limits{
		MaxPosition:                10_000,
		MaxDailyLoss:               1_000,
		MaxTotalLoss:               5_000,
		MaxOrders:                  50,
		MaxSingleOrder:             1_000,
		StopLossThreshold:          0.05,
		TakeProfitThreshold:        0.10,
		MaxConsecutiveLosses:       5,
		VolatilityThreshold:        0.05,
		PriceChangeThreshold:       0.10,
		EnableAutoStop:             true,
		EnableVolatilityProtection: true,
		EnableEmergencyStop:        true,
	}
}

// Validate rejects limit sets that would make the gate meaningless. Invalid
// configuration fails here, at construction, never inside a check method.
func (l Limits) Validate() error {
	if l.MaxPosition <= 0 {
		return fmt.Errorf("max_position must be positive, got %v", l.MaxPosition)
	}
	if l.MaxDailyLoss <= 0 {
		return fmt.Errorf("max_daily_loss must be positive, got %v", l.MaxDailyLoss)
	}
	if l.MaxTotalLoss <= 0 {
		return fmt.Errorf("max_total_loss must be positive, got %v", l.MaxTotalLoss)
	}
	if l.MaxOrders <= 0 {
		return fmt.Errorf("max_orders must be positive, got %d", l.MaxOrders)
	}
	if l.MaxSingleOrder <= 0 {
		return fmt.Errorf("max_single_order must be positive, got %v", l.MaxSingleOrder)
	}
	if l.StopLossThreshold <= 0 || l.StopLossThreshold >= 1 {
		return fmt.Errorf("stop_loss_threshold must be in (0,1), got %v", l.StopLossThreshold)
	}
	if l.TakeProfitThreshold <= 0 {
		return fmt.Errorf("take_profit_threshold must be positive, got %v", l.TakeProfitThreshold)
	}
	if l.MaxConsecutiveLosses <= 0 {
		return fmt.Errorf("max_consecutive_losses must be positive, got %d", l.MaxConsecutiveLosses)
	}
	if l.VolatilityThreshold <= 0 {
		return fmt.Errorf("volatility_threshold must be positive, got %v", l.VolatilityThreshold)
	}
	if l.PriceChangeThreshold <= 0 || l.PriceChangeThreshold >= 1 {
		return fmt.Errorf("price_change_threshold must be in (0,1), got %v", l.PriceChangeThreshold)
	}
	return nil
}

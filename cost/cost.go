// Package cost models the full cost of a simulated fill: commission,
// slippage, funding while the position was held, and fixed fees. The model
// keeps a running ledger so a whole backtest can be summarized at the end.
package cost

import (
	"fmt"
	"time"

	"github.com/rustyeddy/quantrisk/id"
)

// Side of a position.
type Side string

const (
	Long  Side = "long"
	Short Side = "short"
)

// Action performed on the position.
type Action string

const (
	Open  Action = "open"
	Close Action = "close"
)

// Config holds the fee schedule. Construct once and validate; the model
// never reads anything else at runtime.
type Config struct {
	CommissionTaker float64 `json:"commission_taker" yaml:"commission_taker"`
	CommissionMaker float64 `json:"commission_maker" yaml:"commission_maker"`
	SlippageRate    float64 `json:"slippage_rate" yaml:"slippage_rate"`

	EnableFundingCost bool    `json:"enable_funding_cost" yaml:"enable_funding_cost"`
	FundingRate       float64 `json:"funding_rate" yaml:"funding_rate"` // per day
	MarginCostRate    float64 `json:"margin_cost_rate" yaml:"margin_cost_rate"`

	NetworkFee    float64 `json:"network_fee" yaml:"network_fee"`
	WithdrawalFee float64 `json:"withdrawal_fee" yaml:"withdrawal_fee"`
}

// closeSlippageFactor scales exit slippage: closes cross wider spreads than
// entries.
const closeSlippageFactor = 1.2

// DefaultConfig mirrors a typical spot taker fee schedule.
func DefaultConfig() Config {
	return Config{
		CommissionTaker: 0.001,
		CommissionMaker: 0.0008,
		SlippageRate:    0.0005,
		FundingRate:     0.0001,
		MarginCostRate:  0.00005,
	}
}

// Validate rejects negative rates.
func (c Config) Validate() error {
	for _, r := range []struct {
		name  string
		value float64
	}{
		{"commission_taker", c.CommissionTaker},
		{"commission_maker", c.CommissionMaker},
		{"slippage_rate", c.SlippageRate},
		{"funding_rate", c.FundingRate},
		{"margin_cost_rate", c.MarginCostRate},
		{"network_fee", c.NetworkFee},
		{"withdrawal_fee", c.WithdrawalFee},
	} {
		if r.value < 0 {
			return fmt.Errorf("%s must not be negative, got %v", r.name, r.value)
		}
	}
	return nil
}

// TradeCost is one immutable row of the cost ledger.
type TradeCost struct {
	TradeID    string    `json:"trade_id"`
	Time       time.Time `json:"timestamp"`
	Symbol     string    `json:"symbol"`
	Side       Side      `json:"side"`
	Action     Action    `json:"action"`
	EntryPrice float64   `json:"entry_price"`
	ExitPrice  float64   `json:"exit_price,omitempty"`
	Amount     float64   `json:"amount"`
	TradeValue float64   `json:"trade_value"`

	Commission  float64 `json:"commission"`
	Slippage    float64 `json:"slippage"`
	FundingCost float64 `json:"funding_cost"`
	OtherCost   float64 `json:"other_cost"`

	TotalCost float64 `json:"total_cost"`
	CostRate  float64 `json:"cost_rate"`

	GrossProfit float64 `json:"gross_profit"`
	NetProfit   float64 `json:"net_profit"`
}

// Model accumulates trade costs over a run. Like the rest of this core it is
// single-owner: no internal locking.
type Model struct {
	cfg    Config
	ledger []TradeCost

	totalCommission float64
	totalSlippage   float64
	totalFunding    float64
	totalOther      float64
	totalCost       float64
	totalValue      float64
}

// NewModel builds a cost model from a validated fee schedule.
func NewModel(cfg Config) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("cost config: %w", err)
	}
	return &Model{cfg: cfg}, nil
}

// Reset clears the ledger and every running total.
func (m *Model) Reset() {
	m.ledger = nil
	m.totalCommission = 0
	m.totalSlippage = 0
	m.totalFunding = 0
	m.totalOther = 0
	m.totalCost = 0
	m.totalValue = 0
}

// Ledger returns a copy of the accumulated cost rows.
func (m *Model) Ledger() []TradeCost {
	out := make([]TradeCost, len(m.ledger))
	copy(out, m.ledger)
	return out
}

// OpenCost computes and records the cost of opening a position. Funding is
// always zero at open; it accrues over the holding period and is charged at
// close.
func (m *Model) OpenCost(at time.Time, symbol string, side Side, price, amount float64) TradeCost {
	value := price * amount

	commission := value * m.cfg.CommissionTaker
	slippage := value * m.cfg.SlippageRate
	other := 0.0

	total := commission + slippage + other
	rate := 0.0
	if value > 0 {
		rate = total / value
	}

	tc := TradeCost{
		TradeID:    id.New(),
		Time:       at,
		Symbol:     symbol,
		Side:       side,
		Action:     Open,
		EntryPrice: price,
		Amount:     amount,
		TradeValue: value,

		Commission: commission,
		Slippage:   slippage,
		OtherCost:  other,

		TotalCost: total,
		CostRate:  rate,

		NetProfit: -total,
	}

	m.record(tc)
	return tc
}

// CloseCost computes and records the cost of closing a position. Exit
// slippage is scaled up by closeSlippageFactor. Funding is charged only when
// it is enabled and a positive holding duration is known; an unknown holding
// time charges nothing rather than guessing.
func (m *Model) CloseCost(at time.Time, symbol string, side Side, entryPrice, closePrice, amount float64, holding time.Duration) TradeCost {
	value := closePrice * amount

	commission := value * m.cfg.CommissionTaker
	slippage := value * m.cfg.SlippageRate * closeSlippageFactor

	funding := 0.0
	if m.cfg.EnableFundingCost && holding > 0 {
		holdingDays := holding.Seconds() / 86_400
		avgValue := (entryPrice + closePrice) / 2 * amount
		funding = holdingDays * m.cfg.FundingRate * avgValue
	}

	other := 0.0

	var gross float64
	if side == Long {
		gross = (closePrice - entryPrice) * amount
	} else {
		gross = (entryPrice - closePrice) * amount
	}

	total := commission + slippage + funding + other
	rate := 0.0
	if value > 0 {
		rate = total / value
	}

	tc := TradeCost{
		TradeID:    id.New(),
		Time:       at,
		Symbol:     symbol,
		Side:       side,
		Action:     Close,
		EntryPrice: entryPrice,
		ExitPrice:  closePrice,
		Amount:     amount,
		TradeValue: value,

		Commission:  commission,
		Slippage:    slippage,
		FundingCost: funding,
		OtherCost:   other,

		TotalCost: total,
		CostRate:  rate,

		GrossProfit: gross,
		NetProfit:   gross - total,
	}

	m.record(tc)
	return tc
}

func (m *Model) record(tc TradeCost) {
	m.ledger = append(m.ledger, tc)
	m.totalCommission += tc.Commission
	m.totalSlippage += tc.Slippage
	m.totalFunding += tc.FundingCost
	m.totalOther += tc.OtherCost
	m.totalCost += tc.TotalCost
	m.totalValue += tc.TradeValue
}

// ProfitAfterCost subtracts the full accumulated cost from a gross figure.
func (m *Model) ProfitAfterCost(gross float64) float64 {
	return gross - m.totalCost
}

// TotalCost returns the accumulated cost across the ledger.
func (m *Model) TotalCost() float64 { return m.totalCost }

// Package journal persists what a simulation run produced: fills, equity
// snapshots, and per-trade costs. Backends share the Journal interface so a
// run can write to SQLite, CSV, or nothing at all.
package journal

import "time"

type TradeRecord struct {
	TradeID    string
	Symbol     string
	Side       string
	Amount     float64
	EntryPrice float64
	ExitPrice  float64
	OpenTime   time.Time
	CloseTime  time.Time
	RealizedPL float64
	Reason     string
}

type EquitySnapshot struct {
	Time     time.Time
	Balance  float64
	Position float64
	Equity   float64
}

// CostRecord is the persisted form of a cost ledger row.
type CostRecord struct {
	TradeID     string
	Time        time.Time
	Symbol      string
	Side        string
	Action      string
	Amount      float64
	TradeValue  float64
	Commission  float64
	Slippage    float64
	FundingCost float64
	TotalCost   float64
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquitySnapshot) error
	RecordCost(CostRecord) error
	Close() error
}

// Nop discards everything. Useful when a run does not need persistence.
type Nop struct{}

func (Nop) RecordTrade(TradeRecord) error { return nil }

func (Nop) RecordEquity(EquitySnapshot) error { return nil }

func (Nop) RecordCost(CostRecord) error { return nil }

func (Nop) Close() error { return nil }

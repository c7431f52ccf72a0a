package cost

// Summary is the final cost breakdown for a run. Percentages are of total
// cost, in [0, 100].
type Summary struct {
	Trades int `json:"trades"`

	TotalCommission float64 `json:"total_commission"`
	TotalSlippage   float64 `json:"total_slippage"`
	TotalFunding    float64 `json:"total_funding"`
	TotalOther      float64 `json:"total_other"`
	TotalCost       float64 `json:"total_cost"`
	TotalValue      float64 `json:"total_value"`

	CommissionPercent float64 `json:"commission_percent"`
	SlippagePercent   float64 `json:"slippage_percent"`
	FundingPercent    float64 `json:"funding_percent"`
	OtherPercent      float64 `json:"other_percent"`

	AverageCostRate float64 `json:"average_cost_rate"`
}

// Summarize folds the ledger totals into a Summary. An empty ledger yields a
// zero summary.
func (m *Model) Summarize() Summary {
	s := Summary{
		Trades:          len(m.ledger),
		TotalCommission: m.totalCommission,
		TotalSlippage:   m.totalSlippage,
		TotalFunding:    m.totalFunding,
		TotalOther:      m.totalOther,
		TotalCost:       m.totalCost,
		TotalValue:      m.totalValue,
	}
	if m.totalCost > 0 {
		s.CommissionPercent = m.totalCommission / m.totalCost * 100
		s.SlippagePercent = m.totalSlippage / m.totalCost * 100
		s.FundingPercent = m.totalFunding / m.totalCost * 100
		s.OtherPercent = m.totalOther / m.totalCost * 100
	}
	if m.totalValue > 0 {
		s.AverageCostRate = m.totalCost / m.totalValue
	}
	return s
}

// CapitalEfficiency is net profit per unit of capital deployed across the
// ledger. Zero deployment yields zero.
func (m *Model) CapitalEfficiency(netProfit float64) float64 {
	if m.totalValue <= 0 {
		return 0
	}
	return netProfit / m.totalValue
}

// BreakEvenTrades estimates how many round trips of the given value are
// needed to pay back the cost incurred so far, assuming each trip earns
// profitPerTrade gross. Non-positive profit yields zero.
func (m *Model) BreakEvenTrades(profitPerTrade float64) float64 {
	if profitPerTrade <= 0 {
		return 0
	}
	return m.totalCost / profitPerTrade
}

// journal/csv.go
package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSVJournal struct {
	trades     *csv.Writer
	equity     *csv.Writer
	costs      *csv.Writer
	tf, ef, cf *os.File
}

func NewCSV(tradesPath, equityPath, costsPath string) (*CSVJournal, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	ef, err := os.Create(equityPath)
	if err != nil {
		tf.Close()
		return nil, err
	}
	cf, err := os.Create(costsPath)
	if err != nil {
		tf.Close()
		ef.Close()
		return nil, err
	}

	tw := csv.NewWriter(tf)
	ew := csv.NewWriter(ef)
	cw := csv.NewWriter(cf)

	if err := tw.Write([]string{"trade_id", "symbol", "side", "amount", "entry_price", "exit_price", "open_time", "close_time", "realized_pl", "reason"}); err != nil {
		return nil, err
	}
	if err := ew.Write([]string{"time", "balance", "position", "equity"}); err != nil {
		return nil, err
	}
	if err := cw.Write([]string{"trade_id", "time", "symbol", "side", "action", "amount", "trade_value", "commission", "slippage", "funding_cost", "total_cost"}); err != nil {
		return nil, err
	}

	for _, w := range []*csv.Writer{tw, ew, cw} {
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, err
		}
	}

	return &CSVJournal{tw, ew, cw, tf, ef, cf}, nil
}

func (j *CSVJournal) RecordTrade(t TradeRecord) error {
	err := j.trades.Write([]string{
		t.TradeID,
		t.Symbol,
		t.Side,
		f(t.Amount),
		f(t.EntryPrice),
		f(t.ExitPrice),
		t.OpenTime.Format(time.RFC3339),
		t.CloseTime.Format(time.RFC3339),
		f(t.RealizedPL),
		t.Reason,
	})
	if err != nil {
		return err
	}
	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSVJournal) RecordEquity(e EquitySnapshot) error {
	err := j.equity.Write([]string{
		e.Time.Format(time.RFC3339),
		f(e.Balance),
		f(e.Position),
		f(e.Equity),
	})
	if err != nil {
		return err
	}
	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSVJournal) RecordCost(c CostRecord) error {
	err := j.costs.Write([]string{
		c.TradeID,
		c.Time.Format(time.RFC3339),
		c.Symbol,
		c.Side,
		c.Action,
		f(c.Amount),
		f(c.TradeValue),
		f(c.Commission),
		f(c.Slippage),
		f(c.FundingCost),
		f(c.TotalCost),
	})
	if err != nil {
		return err
	}
	j.costs.Flush()
	return j.costs.Error()
}

func (j *CSVJournal) Close() error {
	for _, w := range []*csv.Writer{j.trades, j.equity, j.costs} {
		w.Flush()
		if err := w.Error(); err != nil {
			return err
		}
	}
	for _, file := range []*os.File{j.tf, j.ef, j.cf} {
		if err := file.Close(); err != nil {
			return err
		}
	}
	return nil
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}

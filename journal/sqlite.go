package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, symbol, side, amount, entry_price, exit_price, open_time, close_time, realized_pl, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.Symbol, t.Side, t.Amount, t.EntryPrice,
		t.ExitPrice, t.OpenTime, t.CloseTime, t.RealizedPL, t.Reason,
	)
	return err
}

func (j *SQLite) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(time, balance, position, equity)
		VALUES (?, ?, ?, ?)`,
		e.Time, e.Balance, e.Position, e.Equity,
	)
	return err
}

func (j *SQLite) RecordCost(c CostRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO costs
		(trade_id, time, symbol, side, action, amount, trade_value, commission, slippage, funding_cost, total_cost)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.TradeID, c.Time, c.Symbol, c.Side, c.Action, c.Amount,
		c.TradeValue, c.Commission, c.Slippage, c.FundingCost, c.TotalCost,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

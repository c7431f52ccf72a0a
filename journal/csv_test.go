package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVJournal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tp := filepath.Join(dir, "trades.csv")
	ep := filepath.Join(dir, "equity.csv")
	cp := filepath.Join(dir, "costs.csv")

	j, err := NewCSV(tp, ep, cp)
	require.NoError(t, err)

	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, j.RecordTrade(testTrade("t-1", 480, at)))
	require.NoError(t, j.RecordEquity(EquitySnapshot{Time: at, Balance: 10000, Equity: 10480}))
	require.NoError(t, j.RecordCost(CostRecord{
		TradeID: "c-1", Time: at, Symbol: "BTC/USDT", Side: "long",
		Action: "close", Amount: 0.5, TradeValue: 25500,
		Commission: 25.5, Slippage: 15.3, FundingCost: 2.1, TotalCost: 42.9,
	}))
	require.NoError(t, j.Close())

	trades := readCSV(t, tp)
	require.Len(t, trades, 2)
	assert.Equal(t, "trade_id", trades[0][0])
	assert.Equal(t, "t-1", trades[1][0])
	assert.Equal(t, "BTC/USDT", trades[1][1])
	assert.Equal(t, "480.000000", trades[1][8])

	equity := readCSV(t, ep)
	require.Len(t, equity, 2)
	assert.Equal(t, at.Format(time.RFC3339), equity[1][0])
	assert.Equal(t, "10480.000000", equity[1][3])

	costs := readCSV(t, cp)
	require.Len(t, costs, 2)
	assert.Equal(t, "42.900000", costs[1][10])
}

func TestNopJournal(t *testing.T) {
	t.Parallel()

	var j Journal = Nop{}
	assert.NoError(t, j.RecordTrade(TradeRecord{}))
	assert.NoError(t, j.RecordEquity(EquitySnapshot{}))
	assert.NoError(t, j.RecordCost(CostRecord{}))
	assert.NoError(t, j.Close())
}

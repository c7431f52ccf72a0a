package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/quantrisk/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query the SQLite trade journal",
	Long: `Journal queries recorded runs from the SQLite journal database.

Subcommands:
  trade  - Show one trade by ID
  day    - List trades closed on a specific day
  today  - List trades closed today
  equity - List equity snapshots for a specific day
  costs  - Sum recorded trading costs, optionally per symbol

Examples:
  quantrisk journal trade <trade-id>
  quantrisk journal day 2026-08-15
  quantrisk journal equity 2026-08-15
  quantrisk journal costs BTC/USDT`,
}

var journalTradeCmd = &cobra.Command{
	Use:   "trade <trade-id>",
	Short: "Show one trade by ID",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalTrade,
}

var journalTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "List trades closed today",
	Args:  cobra.NoArgs,
	RunE:  runJournalToday,
}

var journalDayCmd = &cobra.Command{
	Use:   "day <YYYY-MM-DD>",
	Short: "List trades closed on a specific day",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalDay,
}

var journalEquityCmd = &cobra.Command{
	Use:   "equity <YYYY-MM-DD>",
	Short: "List equity snapshots for a specific day",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalEquity,
}

var journalCostsCmd = &cobra.Command{
	Use:   "costs [symbol]",
	Short: "Sum recorded trading costs, optionally per symbol",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runJournalCosts,
}

var journalDBPath string

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalTradeCmd)
	journalCmd.AddCommand(journalTodayCmd)
	journalCmd.AddCommand(journalDayCmd)
	journalCmd.AddCommand(journalEquityCmd)
	journalCmd.AddCommand(journalCostsCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./quantrisk.sqlite", "path to SQLite journal DB")
}

func openJournalDB() (*journal.SQLite, error) {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

func runJournalTrade(cmd *cobra.Command, args []string) error {
	j, err := openJournalDB()
	if err != nil {
		return err
	}
	defer j.Close()

	rec, err := j.GetTrade(args[0])
	if err != nil {
		return err
	}

	fmt.Println(journal.FormatTradeOrg(rec))
	return nil
}

func runJournalToday(cmd *cobra.Command, args []string) error {
	loc := time.Local
	return listJournalDay(time.Now().In(loc).Format("2006-01-02"), loc)
}

func runJournalDay(cmd *cobra.Command, args []string) error {
	return listJournalDay(args[0], time.Local)
}

func listJournalDay(day string, loc *time.Location) error {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)

	j, err := openJournalDB()
	if err != nil {
		return err
	}
	defer j.Close()

	recs, err := j.ListTradesClosedBetween(start, start.Add(24*time.Hour))
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}
	if len(recs) == 0 {
		fmt.Printf("No trades closed on %s\n", day)
		return nil
	}

	fmt.Println(journal.FormatTradesOrg(recs))
	return nil
}

func runJournalEquity(cmd *cobra.Command, args []string) error {
	loc := time.Local
	t, err := time.ParseInLocation("2006-01-02", args[0], loc)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)

	j, err := openJournalDB()
	if err != nil {
		return err
	}
	defer j.Close()

	snaps, err := j.ListEquityBetween(start, start.Add(24*time.Hour))
	if err != nil {
		return fmt.Errorf("query equity: %w", err)
	}
	if len(snaps) == 0 {
		fmt.Printf("No equity snapshots on %s\n", args[0])
		return nil
	}

	for _, s := range snaps {
		fmt.Printf("%s  balance=%.2f  position=%.6f  equity=%.2f\n",
			s.Time.UTC().Format(time.RFC3339), s.Balance, s.Position, s.Equity)
	}
	return nil
}

func runJournalCosts(cmd *cobra.Command, args []string) error {
	j, err := openJournalDB()
	if err != nil {
		return err
	}
	defer j.Close()

	symbol := ""
	if len(args) > 0 {
		symbol = args[0]
	}

	total, err := j.SumCosts(symbol)
	if err != nil {
		return fmt.Errorf("sum costs: %w", err)
	}

	if symbol == "" {
		fmt.Printf("Total recorded cost: %.6f\n", total)
	} else {
		fmt.Printf("Total recorded cost for %s: %.6f\n", symbol, total)
	}
	return nil
}

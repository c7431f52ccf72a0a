package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/quantrisk/backtest"
	"github.com/rustyeddy/quantrisk/config"
	"github.com/rustyeddy/quantrisk/cost"
	"github.com/rustyeddy/quantrisk/id"
	"github.com/rustyeddy/quantrisk/journal"
	"github.com/rustyeddy/quantrisk/metrics"
	"github.com/rustyeddy/quantrisk/strategies"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a strategy against OHLCV history",
	Long: `Backtest replays OHLCV bars through a strategy and reports performance.

Bars come from a CSV file (time,open,high,low,close,volume) or from a
generated sample series when --sample is set.

Supported strategies:
  - noop: emits no signals (baseline)
  - grid: ladder of resting buy/sell levels around the first close
  - martingale: fixed entry that sizes up after each stopped-out trade

Example:
  quantrisk backtest --bars data/btc_hourly.csv --strategy grid`,
	RunE: runBacktest,
}

var (
	btBarsPath    string
	btSample      bool
	btSampleDays  int
	btSamplePrice float64
	btSampleVol   float64
	btStrategy    string
	btConfigPath  string
	btSymbol      string
	btFIFO        bool
	btOrgPath     string
	btMetricsAddr string
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btBarsPath, "bars", "b", "", "path to OHLCV CSV (time,open,high,low,close,volume)")
	backtestCmd.Flags().BoolVar(&btSample, "sample", false, "generate sample bars instead of reading a file")
	backtestCmd.Flags().IntVar(&btSampleDays, "sample-days", 30, "days of hourly sample data")
	backtestCmd.Flags().Float64Var(&btSamplePrice, "sample-price", 50000, "sample series starting price")
	backtestCmd.Flags().Float64Var(&btSampleVol, "sample-volatility", 0.02, "sample series volatility")

	backtestCmd.Flags().StringVarP(&btStrategy, "strategy", "s", "noop", "strategy name (noop, grid, martingale)")
	backtestCmd.Flags().StringVarP(&btConfigPath, "config", "c", "", "path to config file (defaults apply when omitted)")
	backtestCmd.Flags().StringVar(&btSymbol, "symbol", "", "trading symbol (overrides config)")
	backtestCmd.Flags().BoolVar(&btFIFO, "fifo", false, "use FIFO trade matching for win/loss statistics")
	backtestCmd.Flags().StringVar(&btOrgPath, "org", "", "write an org-mode run summary to this path")
	backtestCmd.Flags().StringVar(&btMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address during the run")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg := config.Default()
	if btConfigPath != "" {
		cfg, err = config.LoadFromFile(btConfigPath)
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	if btSymbol != "" {
		cfg.Symbol = btSymbol
	}

	if btMetricsAddr != "" {
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(btMetricsAddr, nil); err != nil {
				logger.Warn("metrics server stopped", zap.Error(err))
			}
		}()
	}

	feed, dataset, err := openFeed()
	if err != nil {
		return err
	}
	defer feed.Close()

	strat, err := strategies.New(btStrategy)
	if err != nil {
		return err
	}

	jnl, err := cfg.OpenJournal()
	if err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	defer jnl.Close()

	costModel, err := cost.NewModel(cfg.Cost)
	if err != nil {
		return err
	}

	opts := []backtest.Option{
		backtest.WithLogger(logger),
		backtest.WithJournal(jnl),
		backtest.WithCostModel(costModel),
		backtest.WithSymbol(cfg.Symbol),
	}
	if btFIFO {
		opts = append(opts, backtest.WithMatcher(backtest.FIFOMatcher{}))
	}

	engine, err := backtest.NewEngine(cfg.Backtest, opts...)
	if err != nil {
		return err
	}

	report, err := engine.Run(feed, strat)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	metrics.RunsCompleted.Inc()
	metrics.RunFills.Set(float64(len(engine.Trades())))

	costSummary := costModel.Summarize()
	printReport(report, costSummary)

	if btOrgPath != "" {
		if err := writeOrgSummary(report, costSummary, strat.Name(), dataset, cfg.Symbol, engine); err != nil {
			return fmt.Errorf("org summary: %w", err)
		}
		fmt.Printf("\nWrote run summary: %s\n", btOrgPath)
	}
	return nil
}

func openFeed() (backtest.BarFeed, string, error) {
	if btSample {
		end := time.Now().UTC().Truncate(time.Hour)
		start := end.AddDate(0, 0, -btSampleDays)
		bars := backtest.GenerateSampleBars(start, end, btSamplePrice, btSampleVol, 42)
		return backtest.NewSliceFeed(bars), "sample", nil
	}
	if btBarsPath == "" {
		return nil, "", fmt.Errorf("either --bars or --sample is required")
	}
	feed, err := backtest.NewCSVFeed(btBarsPath)
	if err != nil {
		return nil, "", fmt.Errorf("open bars: %w", err)
	}
	return feed, btBarsPath, nil
}

func printReport(r *backtest.PerformanceReport, costs cost.Summary) {
	fmt.Printf("\nBacktest Complete!\n")
	fmt.Printf("  Final Equity:   $%.2f\n", r.FinalEquity)
	fmt.Printf("  Total Return:   %.2f%%\n", r.TotalReturn*100)
	fmt.Printf("  Annual Return:  %.2f%%\n", r.AnnualReturn*100)
	fmt.Printf("  Max Drawdown:   %.2f%%\n", r.MaxDrawdown*100)
	fmt.Printf("  Sharpe Ratio:   %.2f\n", r.SharpeRatio)
	fmt.Printf("  Sortino Ratio:  %.2f\n", r.SortinoRatio)
	fmt.Printf("  VaR 95%%:        %.4f\n", r.VaR95)
	fmt.Printf("  Round Trips:    %d (%d wins / %d losses, %.1f%% win rate)\n",
		r.TotalTrades, r.ProfitableTrades, r.LosingTrades, r.WinRate)
	fmt.Printf("  Trading Costs:  $%.2f (commission %.1f%%, slippage %.1f%%, funding %.1f%%)\n",
		costs.TotalCost, costs.CommissionPercent, costs.SlippagePercent, costs.FundingPercent)
}

func writeOrgSummary(r *backtest.PerformanceReport, costs cost.Summary, strategy, dataset, symbol string, engine *backtest.Engine) error {
	sum := journal.RunSummary{
		RunID:           id.New(),
		Created:         time.Now(),
		Symbol:          symbol,
		Strategy:        strategy,
		Dataset:         dataset,
		InitialCapital:  r.InitialCapital,
		FinalEquity:     r.FinalEquity,
		Trades:          r.TotalTrades,
		Wins:            r.ProfitableTrades,
		Losses:          r.LosingTrades,
		TotalReturnPct:  r.TotalReturn * 100,
		AnnualReturnPct: r.AnnualReturn * 100,
		MaxDrawdownPct:  r.MaxDrawdown * 100,
		SharpeRatio:     r.SharpeRatio,
		WinRatePct:      r.WinRate,
		TotalCost:       costs.TotalCost,
	}
	if trades := engine.Trades(); len(trades) > 0 {
		sum.Start = trades[0].Time
		sum.End = trades[len(trades)-1].Time
	}
	return sum.WriteOrg(btOrgPath)
}

package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "quantrisk",
	Short: "A risk-control and trade-simulation engine for crypto strategies",
	Long: `Quantrisk is a risk-control state machine and trade-simulation engine.

It provides tools for:
  - Backtesting trading strategies against OHLCV history
  - Enforcing position, loss, and order limits before every trade
  - Abnormal-market and volatility circuit breakers
  - Full trading-cost accounting (commission, slippage, funding)
  - Performance analytics: drawdown, Sharpe, Sortino, VaR/CVaR
  - Journaling runs to SQLite or CSV`,
}

var verbose bool

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	return cfg.Build()
}

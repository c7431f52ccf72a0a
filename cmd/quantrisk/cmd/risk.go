package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/quantrisk/config"
	"github.com/rustyeddy/quantrisk/metrics"
	"github.com/rustyeddy/quantrisk/risk"
)

var riskCmd = &cobra.Command{
	Use:   "risk",
	Short: "Evaluate risk limits and print reports",
	Long: `Risk evaluates a proposed trade against the configured limits.

Subcommands:
  check  - Run every limit check against a proposed order
  report - Print the full risk state report as JSON

Examples:
  quantrisk risk check --order-value 500 --position-delta 500
  quantrisk risk report --config run.yaml`,
}

var riskCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Run every limit check against a proposed order",
	RunE:  runRiskCheck,
}

var riskReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the full risk state report as JSON",
	RunE:  runRiskReport,
}

var (
	riskConfigPath    string
	riskOrderValue    float64
	riskPositionDelta float64
)

func init() {
	rootCmd.AddCommand(riskCmd)
	riskCmd.AddCommand(riskCheckCmd)
	riskCmd.AddCommand(riskReportCmd)

	riskCmd.PersistentFlags().StringVarP(&riskConfigPath, "config", "c", "", "path to config file (defaults apply when omitted)")
	riskCheckCmd.Flags().Float64Var(&riskOrderValue, "order-value", 0, "proposed order notional")
	riskCheckCmd.Flags().Float64Var(&riskPositionDelta, "position-delta", 0, "proposed position change in notional")
}

func newRiskManager() (*risk.Manager, error) {
	logger, err := newLogger()
	if err != nil {
		return nil, err
	}

	cfg := config.Default()
	if riskConfigPath != "" {
		cfg, err = config.LoadFromFile(riskConfigPath)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	return risk.NewManager(cfg.Risk, risk.WithLogger(logger))
}

func runRiskCheck(cmd *cobra.Command, args []string) error {
	mgr, err := newRiskManager()
	if err != nil {
		return err
	}

	decision := mgr.PreTradeCheck(riskPositionDelta, riskOrderValue)
	if decision.Allowed {
		metrics.ChecksPassed.Inc()
		fmt.Println("✓ Trade allowed")
	} else {
		metrics.ChecksRejected.Inc()
		fmt.Println("✗ Trade rejected")
		for _, reason := range decision.Reasons {
			fmt.Printf("  - %s\n", reason)
		}
	}
	fmt.Printf("Risk level: %s\n", decision.Level)
	return nil
}

func runRiskReport(cmd *cobra.Command, args []string) error {
	mgr, err := newRiskManager()
	if err != nil {
		return err
	}

	report := mgr.Report()
	metrics.ObserveReport(report)

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

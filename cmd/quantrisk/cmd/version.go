package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("quantrisk version %s\n", version)
		fmt.Println("A risk-control and trade-simulation engine for crypto strategies")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

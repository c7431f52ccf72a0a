package main

import (
	"os"

	"github.com/rustyeddy/quantrisk/cmd/quantrisk/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

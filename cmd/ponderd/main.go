package main

import (
	"os"

	"github.com/ponder-dex/ponder/cmd/ponderd/cmd"
)

func main() {
	rootCmd := cmd.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

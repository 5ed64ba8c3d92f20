package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "curvesim",
		Short:         "Bonding curve settlement simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "config file (yaml, json or toml)")
	root.PersistentFlags().StringSlice("env-file", nil, ".env files to load before reading PUMP_SCIENCE_* variables")

	root.AddCommand(
		newSimulateCmd(),
		newQuoteCmd(),
		newAuditCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

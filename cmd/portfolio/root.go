package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Portfolio site with live automation, AI and game demos",
	Long: `Portfolio serves a single-page portfolio, a resume download, a contact form
and server-side simulations of PLC, assistant and game demos.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); overrides LOG_LEVEL")
}

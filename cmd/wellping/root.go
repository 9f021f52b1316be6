package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wellping",
	Short: "wellping drives experience-sampling survey pings",
	Long: `wellping walks respondents through experience-sampling surveys defined
as question graphs: conditional branches, repeated sub-sequences, and
templated question text, with every step resumable from a persisted
snapshot.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
}

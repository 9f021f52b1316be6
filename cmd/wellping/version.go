package main

import (
	"fmt"

	"github.com/spf13/cobra"

	wellping "github.com/wellping/wellping-sub000"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of wellping",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("wellping version %s\n", wellping.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

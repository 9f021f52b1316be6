package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wellping/wellping-sub000/pkg/adapters/studyfile"
)

var validateCmd = &cobra.Command{
	Use:   "validate [study file...]",
	Short: "Check study files for dangling references and structural errors",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := false
		for _, path := range args {
			graph, err := studyfile.Load(path)
			if err != nil {
				failed = true
				fmt.Printf("FAIL %s\n%v\n", path, err)
				continue
			}
			fmt.Printf("OK   %s (stream %q, %d questions)\n", path, graph.StreamName, len(graph.Questions))
		}
		if failed {
			return fmt.Errorf("validation failed")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

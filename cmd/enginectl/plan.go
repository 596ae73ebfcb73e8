package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rosflow/engine/engine/workflow"
)

func planCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan <document.yaml>",
		Short: "Load, validate, and print a workflow's scheduling order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			libraryPaths, err := cmd.Flags().GetStringSlice("library-path")
			if err != nil {
				return err
			}
			text, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading document: %w", err)
			}
			wf, err := workflow.Plan(text, workflow.Options{LibraryPaths: libraryPaths})
			if err != nil {
				return fmt.Errorf("planning document: %w", err)
			}
			for i, job := range wf.Order() {
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, job)
			}
			return nil
		},
	}
	return cmd
}

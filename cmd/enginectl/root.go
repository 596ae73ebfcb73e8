package main

import (
	"github.com/spf13/cobra"
)

// RootCmd assembles the enginectl command tree.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "enginectl",
		Short: "Plan and run declarative workflow documents",
	}
	root.PersistentFlags().StringSlice(
		"library-path", nil,
		"directory to search for imported modules (repeatable)",
	)
	root.AddCommand(planCmd(), runCmd())
	return root
}

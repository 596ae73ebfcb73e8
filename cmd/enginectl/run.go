package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rosflow/engine/engine/config"
	"github.com/rosflow/engine/engine/executor"
	"github.com/rosflow/engine/engine/logging"
	"github.com/rosflow/engine/engine/workflow"
)

func runCmd() *cobra.Command {
	var inputsPath string
	cmd := &cobra.Command{
		Use:   "run <document.yaml>",
		Short: "Plan and execute a workflow document, printing its terminal result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			libraryPaths, err := cmd.Flags().GetStringSlice("library-path")
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			log := logging.NewLogger(cfg.ToLoggingConfig())
			ctx := logging.ContextWithLogger(cmd.Context(), log)

			text, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading document: %w", err)
			}
			inputs, err := readInputs(inputsPath)
			if err != nil {
				return err
			}

			cacheCap, graph, http, clk, err := buildCapabilities(cfg)
			if err != nil {
				return fmt.Errorf("building capabilities: %w", err)
			}

			wf, err := workflow.Plan(text, workflow.Options{
				LibraryPaths: libraryPaths,
				Capabilities: executor.Capabilities{
					Graph:       graph,
					Cache:       cacheCap,
					HTTPClient:  http,
					ClockSource: clk,
				},
			})
			if err != nil {
				return fmt.Errorf("planning document: %w", err)
			}

			result, err := wf.Execute(ctx, inputs)
			if err != nil {
				return fmt.Errorf("executing workflow: %w", err)
			}
			return printResult(cmd, result)
		},
	}
	cmd.Flags().StringVar(&inputsPath, "inputs-file", "", "path to a JSON file of workflow inputs")
	return cmd
}

func readInputs(path string) (map[string]any, error) {
	if path == "" {
		return map[string]any{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading inputs file: %w", err)
	}
	var inputs map[string]any
	if err := json.Unmarshal(data, &inputs); err != nil {
		return nil, fmt.Errorf("parsing inputs file: %w", err)
	}
	return inputs, nil
}

func printResult(cmd *cobra.Command, result any) error {
	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	return nil
}

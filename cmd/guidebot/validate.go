package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/guidebot/internal/cli"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the dialogue graph for consistency",
	Long: `Loads the graph and checks that the welcome node exists, every option and intent rule
points at a node, and keys are unique. Unreachable nodes are reported as warnings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := cli.NewLogger(cfg)
		if err != nil {
			return err
		}
		engine, err := cli.NewEngine(cfg, logger)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Graph %q is valid: %d nodes, %d rules ✅\n", engine.Name, engine.Graph().Len(), len(engine.Rules()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

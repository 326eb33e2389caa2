package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/guidebot/internal/cli"
	"github.com/aretw0/guidebot/pkg/runner"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <text>",
	Short: "Show which rule and node a message maps to",
	Args:  cobra.MinimumNArgs(1),
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
			return err
		}

		text, err := runner.SanitizeInputLimit(strings.Join(args, " "), cfg.MaxInputSize)
		if err != nil {
			return err
		}
		res := engine.Classify(text)
		node, _ := engine.Resolve(res.Target)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{"classification": res, "node": node})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "rule=%s target=%s fallback=%t\n%s\n", res.Rule, res.Target, res.Fallback, node.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	classifyCmd.Flags().Bool("json", false, "Print JSON")
}

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/guidebot/internal/cli"
	"github.com/aretw0/guidebot/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the dialogue graph",
	Long:  `Outputs a Mermaid diagram (graph TD) of nodes, option edges and intent rules, or the nodes as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		links, _ := cmd.Flags().GetBool("links")

		logger, err := cli.NewLogger(cfg)
		if err != nil {
			return err
		}
		engine, err := cli.NewEngine(cfg, logger)
		if err != nil {
			return err
		}
		nodes := engine.Inspect()
		out := cmd.OutOrStdout()

		switch format {
		case "mermaid":
			rules := make(map[string]string)
			for _, r := range engine.Rules() {
				rules[r.Name] = r.Target
			}
			fmt.Fprint(out, graph.GenerateMermaid(nodes, graph.Options{Rules: rules, Links: links}))
			return nil
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(nodes)
		}
		return fmt.Errorf("unknown format %q (mermaid, json)", format)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("format", "mermaid", "Output format: mermaid or json")
	graphCmd.Flags().Bool("links", false, "Include node links as dotted edges")
}

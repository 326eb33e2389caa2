package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/guidebot/internal/cli"
	"github.com/aretw0/guidebot/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the stateless HTTP server",
	Long: `Exposes the assistant as a JSON API over HTTP (see /openapi.yaml), with Prometheus
metrics on /metrics. Optionally serves MCP over SSE on a second address.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		mcpAddr, _ := cmd.Flags().GetString("mcp-sse")
		watch, _ := cmd.Flags().GetBool("watch")

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		return cli.Serve(sigCtx, cli.ServeOptions{
			Config:  cfg,
			MCPAddr: mcpAddr,
			Watch:   watch,
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String(config.KeyAddr, config.DefaultAddr, "Address to listen on")
	serveCmd.Flags().String("mcp-sse", "", "Also serve MCP over SSE on this address (e.g. :8081)")
	serveCmd.Flags().Bool("watch", false, "Stream graph directory changes on /events")
}

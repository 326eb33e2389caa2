package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/guidebot"
	"github.com/aretw0/guidebot/internal/cli"
	"github.com/aretw0/guidebot/pkg/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the assistant as an MCP Server so AI agents can classify questions
and read the dialogue graph as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		transport, _ := cmd.Flags().GetString("transport")
		addr, _ := cmd.Flags().GetString("addr")

		logger, err := cli.NewLogger(cfg)
		if err != nil {
			return err
		}
		engine, err := cli.NewEngine(cfg, logger)
		if err != nil {
			return err
		}
		srv := mcp.NewServer(engine, guidebot.Version,
			mcp.WithLogger(logger),
			mcp.WithMaxInputSize(cfg.MaxInputSize),
		)

		switch transport {
		case "stdio":
			// Logs go to stderr; stdout carries JSON-RPC.
			logger.Info("Starting GuideBot MCP Server (Stdio)")
			return srv.ServeStdio()
		case "sse":
			sigCtx := cli.NewSignalContext(cmd.Context())
			defer sigCtx.Cancel()
			if err := srv.ServeSSE(sigCtx, addr); err != nil {
				return err
			}
			logger.Info("MCP Server stopped gracefully")
			return nil
		}
		return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().String("addr", ":8081", "Address to listen on (only for SSE)")
}

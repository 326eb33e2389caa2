package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/guidebot/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "guidebot",
	Short: "GuideBot is a guided-conversation assistant",
	Long: `GuideBot answers visitors of a privacy-compliance site with a static dialogue graph
and ordered keyword intent rules. No language model, no server-side sessions.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands); GUIDEBOT_* env vars and --config fill the rest.
	pf := rootCmd.PersistentFlags()
	pf.String(config.KeyConfigFile, "", "Config file (yaml, json or toml)")
	pf.String(config.KeyLogLevel, "info", "Log level: debug, info, warn, error")
	pf.String(config.KeyGraphDir, "", "Directory of dialogue nodes (default: embedded catalog)")
	pf.Duration(config.KeyPacing, config.DefaultPacing, "Typing delay before each text reply")
	pf.Int(config.KeyMaxInputSize, config.New().GetInt(config.KeyMaxInputSize), "Maximum message size in bytes")
	pf.String(config.KeyFallbackMessage, "", "Override the clarification message")
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	return config.Load(cmd.Flags())
}

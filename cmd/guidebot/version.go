package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/guidebot"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of guidebot",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "guidebot version %s\n", strings.TrimSpace(guidebot.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/guidebot/internal/cli"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the assistant in the terminal",
	Long: `Opens a chat session. Type a question, a number to pick an option,
/links to list the links of the last message, /open <n> to follow one and /close to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		jsonMode, _ := cmd.Flags().GetBool("json")
		plain, _ := cmd.Flags().GetBool("plain")
		baseURL, _ := cmd.Flags().GetString("base-url")

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		return cli.RunChat(sigCtx, cli.ChatOptions{
			Config:  cfg,
			JSON:    jsonMode,
			Plain:   plain,
			BaseURL: baseURL,
		})
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().Bool("json", false, "Read and write NDJSON events")
	chatCmd.Flags().Bool("plain", false, "Disable markdown rendering and hyperlinks")
	chatCmd.Flags().String("base-url", "", "Base URL for internal links")
}

package cli

import (
	"fmt"

	"github.com/emoralesr/diagwiz/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server on stdio",
	Long: `Start a Model Context Protocol server exposing the diagnostic engine
(list_categories, list_symptoms, get_questions, diagnose, check_rule) to AI
assistants over stdio.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return fmt.Errorf("knowledge base store not initialized")
		}
		server := mcp.NewServer(Store, Ingestor, Events, appVersion)
		return server.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

// Package cli implements the dgw command-line interface: the interactive
// diagnosis wizard, one-shot diagnosis, knowledge-base inspection and
// ingestion, and the MCP server command.
package cli

import (
	"fmt"

	"github.com/emoralesr/diagwiz/internal/core"
	"github.com/emoralesr/diagwiz/internal/observability"
	"github.com/emoralesr/diagwiz/internal/storage"
	"github.com/emoralesr/diagwiz/pkg/models"
	"github.com/spf13/cobra"
)

// Service dependencies, set during app initialization in app.go.
var (
	Store    storage.KnowledgeBaseStore
	Ingestor core.RuleIngestor
	Events   observability.EventLog
	Config   *models.GlobalConfig
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "dgw",
	Short: "diagwiz - interactive troubleshooting wizard",
	Long: `diagwiz (dgw) is a forward-chaining diagnostic engine for interactive
troubleshooting. Given a knowledge base of symptom-to-cause rules and a set
of user answers, it determines the most plausible cause of a problem and
explains how it got there.

It provides an interactive wizard, a one-shot diagnose command, knowledge
base inspection and ingestion commands, and an MCP server for AI assistants.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("dgw %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadKB loads the active knowledge-base snapshot.
func loadKB() (*models.KnowledgeBase, error) {
	if Store == nil {
		return nil, fmt.Errorf("knowledge base store not initialized")
	}
	kb, err := Store.Load()
	if err != nil {
		return nil, err
	}
	return kb, nil
}

// Package internal provides the App struct that wires all components of the
// diagwiz system together and initializes the CLI layer.
package internal

import (
	"os"
	"path/filepath"

	"github.com/emoralesr/diagwiz/internal/cli"
	"github.com/emoralesr/diagwiz/internal/core"
	"github.com/emoralesr/diagwiz/internal/observability"
	"github.com/emoralesr/diagwiz/internal/storage"
	"github.com/emoralesr/diagwiz/pkg/models"
)

// App holds all service dependencies for the diagwiz system.
type App struct {
	BasePath string

	// Configuration
	ConfigMgr core.ConfigurationManager
	Config    *models.GlobalConfig

	// Storage layer
	Store storage.KnowledgeBaseStore

	// Core services
	Ingestor core.RuleIngestor

	// Observability
	EventLog observability.EventLog
}

// NewApp creates and wires all components of the diagwiz system. basePath is
// the directory holding .diagwizrc and, by default, the knowledge-base files.
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(basePath)
	cfg, err := app.ConfigMgr.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := app.ConfigMgr.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	app.Config = cfg

	// --- Storage layer ---
	app.Store = storage.NewOverlayStore(
		resolvePath(basePath, cfg.BaseKBPath),
		resolvePath(basePath, cfg.UserKBPath),
	)

	// --- Core services ---
	app.Ingestor = core.NewRuleIngestor(app.Store, cfg.DefaultActions)

	// --- Observability ---
	if cfg.EventsEnabled {
		eventLogPath := filepath.Join(basePath, ".dgw_events.jsonl")
		app.EventLog, err = observability.NewJSONLEventLog(eventLogPath)
		if err != nil {
			// Non-fatal: disable the event log if it can't be created.
			app.EventLog = nil
		}
	}

	// --- CLI wiring ---
	cli.Store = app.Store
	cli.Ingestor = app.Ingestor
	cli.Events = app.EventLog
	cli.Config = app.Config

	return app, nil
}

// resolvePath interprets relative knowledge-base paths against basePath.
func resolvePath(basePath, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(basePath, path)
}

// ResolveBasePath determines the diagwiz base directory: DIAGWIZ_HOME when
// set, otherwise the nearest ancestor directory containing .diagwizrc,
// otherwise the current directory.
func ResolveBasePath() string {
	if home := os.Getenv("DIAGWIZ_HOME"); home != "" {
		return home
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, ".diagwizrc")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	cwd, _ := os.Getwd()
	return cwd
}

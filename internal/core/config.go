package core

import (
	"fmt"
	"strings"

	"github.com/emoralesr/diagwiz/pkg/models"
	"github.com/spf13/viper"
)

// ConfigurationManager defines the interface for loading and validating the
// .diagwizrc configuration file.
type ConfigurationManager interface {
	LoadConfig() (*models.GlobalConfig, error)
	ValidateConfig(cfg *models.GlobalConfig) error
}

// viperConfigManager implements ConfigurationManager using Viper for
// reading the YAML configuration file.
type viperConfigManager struct {
	// basePath is the directory where .diagwizrc resides.
	basePath string
}

// NewConfigurationManager creates a ConfigurationManager that reads
// configuration relative to basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// defaultGlobalConfig returns a GlobalConfig populated with sensible defaults.
func defaultGlobalConfig() *models.GlobalConfig {
	return &models.GlobalConfig{
		BaseKBPath:    "kb.yaml",
		UserKBPath:    "kb.user.yaml",
		ShowTrace:     true,
		EventsEnabled: true,
	}
}

// LoadConfig reads the .diagwizrc file from the base path. If the file does
// not exist, defaults are returned.
func (cm *viperConfigManager) LoadConfig() (*models.GlobalConfig, error) {
	cfg := defaultGlobalConfig()

	v := viper.New()
	v.SetConfigName(".diagwizrc")
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)

	v.SetDefault("kb.base_path", cfg.BaseKBPath)
	v.SetDefault("kb.user_path", cfg.UserKBPath)
	v.SetDefault("wizard.show_trace", cfg.ShowTrace)
	v.SetDefault("events.enabled", cfg.EventsEnabled)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading .diagwizrc: %w", err)
	}

	cfg.BaseKBPath = v.GetString("kb.base_path")
	cfg.UserKBPath = v.GetString("kb.user_path")
	cfg.ShowTrace = v.GetBool("wizard.show_trace")
	cfg.EventsEnabled = v.GetBool("events.enabled")
	cfg.DefaultActions = v.GetStringSlice("ingest.default_actions")

	return cfg, nil
}

// ValidateConfig checks the configuration for invalid values and returns a
// clear error message identifying every problem found.
func (cm *viperConfigManager) ValidateConfig(cfg *models.GlobalConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var errs []string
	if strings.TrimSpace(cfg.BaseKBPath) == "" {
		errs = append(errs, "kb.base_path must not be empty")
	}
	if strings.TrimSpace(cfg.UserKBPath) == "" {
		errs = append(errs, "kb.user_path must not be empty")
	}
	for i, a := range cfg.DefaultActions {
		if strings.TrimSpace(a) == "" {
			errs = append(errs, fmt.Sprintf("ingest.default_actions[%d] must not be blank", i))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

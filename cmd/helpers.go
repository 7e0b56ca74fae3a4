package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cahier-numerique/cahier/internal/config"
)

// defaultConfigPath is ~/.cahier.yml, falling back to the working
// directory when the home directory cannot be resolved.
func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cahier.yml"
	}
	return filepath.Join(home, ".cahier.yml")
}

// loadConfig loads the config, applies flag overrides and validates.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if backendURL != "" {
		cfg.Backend.URL = backendURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

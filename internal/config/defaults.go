package config

import (
	"os"
	"path/filepath"
)

// DefaultConfig returns a Config with sensible defaults. The state
// database and exports live under the user's home directory.
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		Backend: BackendConfig{
			URL:   "http://localhost:8000",
			Level: "college",
		},
		UI: UIConfig{
			Theme:        "dark",
			GlamourStyle: "auto",
		},
		Storage: StorageConfig{
			Path: filepath.Join(home, ".cahier", "state.db"),
		},
		Export: ExportConfig{
			Dir:  filepath.Join(home, ".cahier", "exports"),
			Port: 8765,
		},
	}
}

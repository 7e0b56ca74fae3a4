// Package config loads and validates the client configuration from a
// YAML file with environment overrides.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/cahier-numerique/cahier/internal/subject"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (CAHIER_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: CAHIER_BACKEND_URL -> backend.url, etc.
	if err := k.Load(env.Provider("CAHIER_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "CAHIER_")), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validThemes is the set of recognized UI themes.
var validThemes = map[string]bool{
	"dark":  true,
	"light": true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Backend.URL == "" {
		return fmt.Errorf("backend.url is required")
	}
	u, err := url.Parse(c.Backend.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid backend.url %q: must be an http(s) URL", c.Backend.URL)
	}

	if c.Backend.Level != "" && !subject.ValidLevel(c.Backend.Level) {
		return fmt.Errorf("invalid backend.level %q: must be one of 6eme, 5eme, 4eme, 3eme, college", c.Backend.Level)
	}

	if c.UI.Theme != "" && !validThemes[c.UI.Theme] {
		return fmt.Errorf("invalid ui.theme %q: must be dark or light", c.UI.Theme)
	}

	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required")
	}

	if c.Export.Port < 0 || c.Export.Port > 65535 {
		return fmt.Errorf("invalid export.port %d", c.Export.Port)
	}

	return nil
}

package config

// Config is the top-level cahier configuration, corresponding to .cahier.yml.
type Config struct {
	Backend BackendConfig `yaml:"backend" koanf:"backend"`
	UI      UIConfig      `yaml:"ui" koanf:"ui"`
	Storage StorageConfig `yaml:"storage" koanf:"storage"`
	Export  ExportConfig  `yaml:"export" koanf:"export"`
}

// BackendConfig locates the tutoring backend.
type BackendConfig struct {
	URL   string `yaml:"url" koanf:"url"`
	Level string `yaml:"level" koanf:"level"`
}

// UIConfig holds terminal UI settings.
type UIConfig struct {
	Theme        string `yaml:"theme" koanf:"theme"`
	GlamourStyle string `yaml:"glamour_style" koanf:"glamour_style"`
}

// StorageConfig locates the local state database.
type StorageConfig struct {
	Path string `yaml:"path" koanf:"path"`
}

// ExportConfig holds lesson-export settings.
type ExportConfig struct {
	Dir  string `yaml:"dir" koanf:"dir"`
	Port int    `yaml:"port" koanf:"port"`
}

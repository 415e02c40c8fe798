package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig is the optional YAML overlay read from hemispheres.yaml in the
// working directory. Zero values leave the corresponding Config field alone.
type FileConfig struct {
	BaseURL           string `yaml:"base_url"`
	PlacesIndexURL    string `yaml:"places_index_url"`
	OutputDir         string `yaml:"output_dir"`
	Headless          *bool  `yaml:"headless"`
	MaxRevealAttempts int    `yaml:"max_reveal_attempts"`
	MaxRetries        int    `yaml:"max_retries"`

	Database struct {
		Enabled  bool   `yaml:"enabled"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslmode"`
	} `yaml:"database"`
}

// LoadFile reads a YAML overlay. A missing file is not an error; the caller
// gets nil and keeps the defaults.
func LoadFile(path string) (*FileConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &fc, nil
}

// Apply overlays file settings onto the config.
func (c *Config) Apply(fc *FileConfig) {
	if fc == nil {
		return
	}
	if fc.BaseURL != "" {
		c.BaseURL = fc.BaseURL
	}
	if fc.PlacesIndexURL != "" {
		c.PlacesIndexURL = fc.PlacesIndexURL
	}
	if fc.OutputDir != "" {
		c.OutputDir = fc.OutputDir
	}
	if fc.Headless != nil {
		c.Headless = *fc.Headless
	}
	if fc.MaxRevealAttempts > 0 {
		c.MaxRevealAttempts = fc.MaxRevealAttempts
	}
	if fc.MaxRetries > 0 {
		c.MaxRetries = fc.MaxRetries
	}

	db := fc.Database
	c.DBEnabled = db.Enabled
	if db.Host != "" {
		c.DBHost = db.Host
	}
	if db.Port > 0 {
		c.DBPort = db.Port
	}
	if db.User != "" {
		c.DBUser = db.User
	}
	if db.Password != "" {
		c.DBPassword = db.Password
	}
	if db.Name != "" {
		c.DBName = db.Name
	}
	if db.SSLMode != "" {
		c.DBSSLMode = db.SSLMode
	}
}

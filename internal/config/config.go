// Package config loads the YAML server configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AppConfig is the root configuration structure.
type AppConfig struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Limits  LimitsConfig  `yaml:"limits"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port                 int      `yaml:"port"`
	BindAddress          string   `yaml:"bind_address"`
	EnableCORS           bool     `yaml:"enable_cors"`
	AllowOrigins         []string `yaml:"allow_origins"`
	BodyLimit            string   `yaml:"body_limit"`
	EnableRequestLogging bool     `yaml:"enable_request_logging"`
}

// StorageConfig contains on-disk directory settings.
type StorageConfig struct {
	DataDirectory   string `yaml:"data_directory"`
	ExportDirectory string `yaml:"export_directory"`
}

// LimitsConfig caps request sizes.
type LimitsConfig struct {
	MaxBoxesPerRequest int `yaml:"max_boxes_per_request"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:                 8090,
			BindAddress:          "0.0.0.0",
			EnableCORS:           true,
			AllowOrigins:         []string{"*"},
			BodyLimit:            "8M",
			EnableRequestLogging: true,
		},
		Storage: StorageConfig{
			DataDirectory:   "./data/plans",
			ExportDirectory: "./data/exports",
		},
		Limits: LimitsConfig{
			MaxBoxesPerRequest: 500,
		},
	}
}

// LoadConfig reads configuration from a YAML file. A missing file
// yields the defaults with no error.
func LoadConfig(path string) (*AppConfig, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("invalid server port %d", cfg.Server.Port)
	}
	if cfg.Limits.MaxBoxesPerRequest < 0 {
		return nil, fmt.Errorf("max_boxes_per_request must not be negative")
	}
	return cfg, nil
}

// EnsureDirectories creates the configured data directories.
func (c *AppConfig) EnsureDirectories() error {
	for _, dir := range []string{c.Storage.DataDirectory, c.Storage.ExportDirectory} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

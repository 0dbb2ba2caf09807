// Package config provides YAML-based configuration for the analyst server.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Analysis AnalysisConfig `yaml:"analysis"`
	LLM      LLMConfig      `yaml:"llm"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int    `yaml:"port"`
	BindAddress  string `yaml:"bindAddress"`
	EnableCORS   bool   `yaml:"enableCORS"`
	AllowOrigins string `yaml:"allowOrigins"`
	ReadTimeout  int    `yaml:"readTimeoutSeconds"`
	WriteTimeout int    `yaml:"writeTimeoutSeconds"`
	IdleTimeout  int    `yaml:"idleTimeoutSeconds"`
	BodyLimit    string `yaml:"bodyLimit"`
}

// StorageConfig contains data directory and row-store settings.
type StorageConfig struct {
	DataDirectory          string `yaml:"dataDirectory"`
	PlotsDirectory         string `yaml:"plotsDirectory"`
	TempDirectory          string `yaml:"tempDirectory"`
	EnableDuckDB           bool   `yaml:"enableDuckDB"`
	IdleReleaseMinutes     int    `yaml:"idleReleaseMinutes"`
	CleanupIntervalMinutes int    `yaml:"cleanupIntervalMinutes"`
}

// AnalysisConfig tunes EDA and default plot generation.
type AnalysisConfig struct {
	MaxHistograms   int `yaml:"maxHistograms"`
	MaxCountCharts  int `yaml:"maxCountCharts"`
	SampleRows      int `yaml:"sampleRows"`
	PreviewRowLimit int `yaml:"previewRowLimit"`
}

// LLMConfig selects and configures the insight provider.
// The API key is read from the environment, never from the config file.
type LLMConfig struct {
	Provider       string `yaml:"provider"`
	Model          string `yaml:"model"`
	APIKeyEnv      string `yaml:"apiKeyEnv"`
	BaseURL        string `yaml:"baseURL"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

// APIKey resolves the provider key from the configured environment variable.
func (c LLMConfig) APIKey() string {
	return os.Getenv(c.APIKeyEnv)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8000,
			BindAddress:  "127.0.0.1",
			EnableCORS:   true,
			AllowOrigins: "*",
			ReadTimeout:  30,
			WriteTimeout: 60,
			IdleTimeout:  120,
			BodyLimit:    "100M",
		},
		Storage: StorageConfig{
			DataDirectory:          "./data",
			PlotsDirectory:         "./data/plots",
			TempDirectory:          "./data/temp",
			EnableDuckDB:           true,
			IdleReleaseMinutes:     30,
			CleanupIntervalMinutes: 5,
		},
		Analysis: AnalysisConfig{
			MaxHistograms:   6,
			MaxCountCharts:  3,
			SampleRows:      10,
			PreviewRowLimit: 1000,
		},
		LLM: LLMConfig{
			Provider:       "gemini",
			Model:          "gemini-2.0-flash",
			APIKeyEnv:      "GEMINI_API_KEY",
			TimeoutSeconds: 45,
		},
	}
}

// Load reads the YAML config at path, applying defaults for missing values.
// A missing file is not an error; defaults are returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return cfg, nil
}

// EnsureDirectories creates all configured data directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Storage.DataDirectory,
		c.Storage.PlotsDirectory,
		c.Storage.TempDirectory,
	}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetServerAddr returns the listen address in host:port form.
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// PlotsDir returns the absolute plots directory.
func (c *Config) PlotsDir() string {
	abs, err := filepath.Abs(c.Storage.PlotsDirectory)
	if err != nil {
		return c.Storage.PlotsDirectory
	}
	return abs
}

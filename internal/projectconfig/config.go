// Package projectconfig provides the Config struct and loader for
// .evalboard.yaml project-level configuration files, layered with
// environment variables (a .env file is honored when present).
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default values for project configuration. These are the single source of
// truth — Load() references them and no other code should duplicate them.
const (
	DefaultEngine      = "openai"
	DefaultModel       = "gpt-4o"
	DefaultMaxTokens   = 1500
	DefaultTemperature = 0.7

	DefaultServerPort = 3000

	DefaultConfigFile = ".evalboard.yaml"
)

// StoreConfig holds relational store settings. URL takes precedence; when
// empty the PG* environment variables are consulted by the store package.
type StoreConfig struct {
	URL string `yaml:"url,omitempty"`
}

// BlobConfig holds object store settings.
type BlobConfig struct {
	// ServiceURL is the blob service endpoint, e.g.
	// https://myaccount.blob.core.windows.net/.
	ServiceURL string `yaml:"service_url,omitempty"`
	// Container is the container holding task files.
	Container string `yaml:"container,omitempty"`
}

// ModelConfig holds model client settings.
type ModelConfig struct {
	Engine      string  `yaml:"engine,omitempty"`
	Model       string  `yaml:"model,omitempty"`
	MaxTokens   int64   `yaml:"max_tokens,omitempty"`
	Temperature float64 `yaml:"temperature,omitempty"`
}

// ServerConfig holds dashboard server settings.
type ServerConfig struct {
	Port int `yaml:"port,omitempty"`
}

// Config is the merged project configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store,omitempty"`
	Blob   BlobConfig   `yaml:"blob,omitempty"`
	Model  ModelConfig  `yaml:"model,omitempty"`
	Server ServerConfig `yaml:"server,omitempty"`
}

// Load reads .evalboard.yaml from dir (when present), applies defaults and
// environment overrides. A missing config file is not an error; a malformed
// one is. A .env file in dir is loaded first so its values are visible as
// ordinary environment variables.
func Load(dir string) (*Config, error) {
	// Ignore the error: a missing .env is the common case.
	_ = godotenv.Load(filepath.Join(dir, ".env"))

	cfg := &Config{
		Model: ModelConfig{
			Engine:      DefaultEngine,
			Model:       DefaultModel,
			MaxTokens:   DefaultMaxTokens,
			Temperature: DefaultTemperature,
		},
		Server: ServerConfig{Port: DefaultServerPort},
	}

	path := filepath.Join(dir, DefaultConfigFile)
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// No project file; defaults plus env only.
	case err != nil:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if cfg.Model.Engine == "" {
		cfg.Model.Engine = DefaultEngine
	}
	if cfg.Model.Model == "" {
		cfg.Model.Model = DefaultModel
	}
	if cfg.Model.MaxTokens <= 0 {
		cfg.Model.MaxTokens = DefaultMaxTokens
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	return cfg, nil
}

// applyEnv overlays environment variables onto cfg. Environment wins over
// the YAML file so secrets and deployment overrides never need to be
// committed.
func applyEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Store.URL = v
	}
	if v := os.Getenv("AZURE_BLOB_SERVICE_URL"); v != "" {
		cfg.Blob.ServiceURL = v
	}
	if v := os.Getenv("AZURE_BLOB_CONTAINER"); v != "" {
		cfg.Blob.Container = v
	}
	if v := os.Getenv("EVALBOARD_ENGINE"); v != "" {
		cfg.Model.Engine = v
	}
	if v := os.Getenv("EVALBOARD_MODEL"); v != "" {
		cfg.Model.Model = v
	}
}

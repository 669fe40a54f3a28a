package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the codexplain.yaml configuration.
type Config struct {
	Addr          string         `yaml:"addr"`
	DefaultMethod string         `yaml:"default_method"`
	Delegate      DelegateConfig `yaml:"delegate"`
	CORS          CORSConfig     `yaml:"cors"`
}

// DelegateConfig controls the external-model analysis path.
type DelegateConfig struct {
	Provider       string `yaml:"provider"`        // default provider: "gemini" or "ollama"
	Model          string `yaml:"model"`           // default model id
	TimeoutSeconds int    `yaml:"timeout_seconds"` // bound on one delegate call
	CacheSize      int    `yaml:"cache_size"`      // LRU entries; 0 disables caching
	OllamaHost     string `yaml:"ollama_host"`
}

// CORSConfig controls the browser-facing CORS headers.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Addr:          ":8000",
		DefaultMethod: "rule",
		Delegate: DelegateConfig{
			Provider:       "gemini",
			Model:          "gemini-2.5-flash",
			TimeoutSeconds: 30,
			CacheSize:      128,
			OllamaHost:     "http://localhost:11434",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
	}
}

// Load reads a configuration file from the given path.
// Missing fields are filled with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	// Ensure required defaults
	if cfg.Addr == "" {
		cfg.Addr = ":8000"
	}
	if cfg.Delegate.TimeoutSeconds <= 0 {
		cfg.Delegate.TimeoutSeconds = 30
	}
	if cfg.Delegate.OllamaHost == "" {
		cfg.Delegate.OllamaHost = "http://localhost:11434"
	}

	return cfg, nil
}

// DelegateTimeout returns the configured delegate call bound as a Duration.
func (c *Config) DelegateTimeout() time.Duration {
	return time.Duration(c.Delegate.TimeoutSeconds) * time.Second
}

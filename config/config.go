// Package config loads the server and table-builder configuration from a
// YAML file, with sensible defaults when no file is given.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenAddr   string   `yaml:"listen_addr"`
	DBPath       string   `yaml:"db_path"`
	MaxHeight    uint64   `yaml:"max_height"`
	Workers      int      `yaml:"workers"`
	RuleSetPaths []string `yaml:"rule_set_paths,omitempty"`
}

// Load reads the config at path, or returns the defaults when path is
// empty.
func Load(path string) (Config, error) {
	cfg := defaults()
	if strings.TrimSpace(path) == "" {
		cfg.Normalize()
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func defaults() Config {
	return Config{
		ListenAddr: ":8080",
		DBPath:     "nimlib.db",
		MaxHeight:  200,
	}
}

func (c *Config) Normalize() {
	if c == nil {
		return
	}
	if strings.TrimSpace(c.ListenAddr) == "" {
		c.ListenAddr = ":8080"
	}
	if strings.TrimSpace(c.DBPath) == "" {
		c.DBPath = "nimlib.db"
	}
	if c.MaxHeight == 0 {
		c.MaxHeight = 200
	}
	if c.Workers < 0 {
		c.Workers = 0
	}
}

func (c Config) Validate() error {
	for i, p := range c.RuleSetPaths {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("rule_set_paths[%d] must not be empty", i)
		}
	}
	return nil
}

package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// FileEnv names an optional yaml, json, toml or env file. Environment
// variables still override values read from it.
const FileEnv = "PUZZLE_CONFIG"

type Config struct {
	Name string `yaml:"name" env:"NAME" env-default:"puzzle"`
	Log  Log    `yaml:"log"`
	Pow  Pow    `yaml:"pow"`
}

// LoadConfig reads the configuration from the file named by PUZZLE_CONFIG,
// if any, and from the environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if path := os.Getenv(FileEnv); path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Pow.validate(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// Usage describes every environment variable the configuration reads.
func Usage() string {
	desc, err := cleanenv.GetDescription(&Config{}, nil)
	if err != nil {
		return ""
	}
	return desc
}

package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

type StoreConfig struct {
	Path string `toml:"path"`
}

type ServerConfig struct {
	Port        string `toml:"port"`
	FrontendURL string `toml:"frontend_url"`
}

// Prompts carries overrides for the provider prompt templates. Empty fields
// fall back to the in-code defaults.
type Prompts struct {
	Extraction string `toml:"extraction"`
	Simulation string `toml:"simulation"`
}

type Config struct {
	LLM     LLMConfig    `toml:"llm"`
	Store   StoreConfig  `toml:"store"`
	Server  ServerConfig `toml:"server"`
	Prompts Prompts      `toml:"prompts"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return &cfg, nil
}

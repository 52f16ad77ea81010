package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config is the root configuration structure.
type Config struct {
	Analysis AnalysisConfig `json:"analysis"`
	Display  DisplayConfig  `json:"display"`
}

// AnalysisConfig holds divergence analysis options.
type AnalysisConfig struct {
	DefaultUpstream string `json:"defaultUpstream"` // Default: "master"
	Engine          string `json:"engine"`          // Default: "auto"
}

// DisplayConfig holds report presentation options.
type DisplayConfig struct {
	ShortHashLength int  `json:"shortHashLength"` // Default: 7
	NoColor         bool `json:"noColor"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			DefaultUpstream: "master",
			Engine:          "auto",
		},
		Display: DisplayConfig{
			ShortHashLength: 7,
			NoColor:         false,
		},
	}
}

// LoadConfig loads configuration from a file, merging with defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		// Try default locations
		candidates := []string{".forkpoint.json"}
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			candidates = append(candidates, filepath.Join(home, ".forkpoint.json"))
		} else if envHome := os.Getenv("HOME"); envHome != "" {
			candidates = append(candidates, filepath.Join(envHome, ".forkpoint.json"))
		}
		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveConfig saves configuration to a file.
func SaveConfig(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

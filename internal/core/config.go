package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// GlobalConfig stores registered store aliases and the default handle.
type GlobalConfig struct {
	Version       int               `json:"version"`
	Stores        map[string]string `json:"stores,omitempty"`
	DefaultHandle string            `json:"default_handle,omitempty"`
}

func globalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "strand", "config.json"), nil
}

// ReadGlobalConfig reads the global config file if present.
func ReadGlobalConfig() (*GlobalConfig, error) {
	path, err := globalConfigPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{Version: 1}, nil
		}
		return nil, err
	}
	var config GlobalConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse global config: %w", err)
	}
	return &config, nil
}

// WriteGlobalConfig writes the global config file, creating its directory.
func WriteGlobalConfig(config *GlobalConfig) error {
	path, err := globalConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// ResolveStore maps a --store value onto a database path: a registered
// alias wins, otherwise the value is treated as a path to the SQLite file.
func ResolveStore(config *GlobalConfig, value string) string {
	if config != nil {
		if path, ok := config.Stores[value]; ok {
			return path
		}
	}
	return value
}

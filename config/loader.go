package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// PrecinctConfig represents the full precinct registry configuration
type PrecinctConfig struct {
	Precincts []Precinct `json:"precincts"`
}

var (
	precinctConfig *PrecinctConfig
	configLock     sync.RWMutex
	configPath     = "config/precincts.json"
)

// LoadPrecinctConfig loads the precinct registry from file. When the
// file is absent the built-in SupportedPrecincts registry stays in
// effect.
func LoadPrecinctConfig() error {
	configLock.Lock()
	defer configLock.Unlock()

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %v", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %v", err)
	}

	var config PrecinctConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("failed to parse config: %v", err)
	}

	precinctConfig = &config
	SupportedPrecincts = config.Precincts
	return nil
}

// SavePrecinctConfig saves the current registry to file
func SavePrecinctConfig() error {
	configLock.Lock()
	defer configLock.Unlock()

	if precinctConfig == nil {
		return fmt.Errorf("no configuration loaded")
	}

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %v", err)
	}

	data, err := json.MarshalIndent(precinctConfig, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %v", err)
	}

	if err := os.WriteFile(absPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %v", err)
	}

	return nil
}

// Package cli holds the cobra commands for the tickethook binary.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/example/tickethook/internal/config"
	"github.com/example/tickethook/internal/wire"
)

// loadConfig reads the config from the current directory, falling back
// to defaults when no config file exists.
func loadConfig() (*config.Config, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config.Default(), nil
		}
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// getApp wires the application from the local config.
func getApp() (*wire.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return wire.Get(cfg)
}

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/tickethook/internal/core/command"
)

// Config is the flat tickethook configuration.
type Config struct {
	Version string `json:"version"`
	AppEnv  string `json:"app_env,omitempty"` // "dev" enables console logging

	// Envelope is empty or two characters bounding a command, e.g. "[]".
	Envelope string `json:"envelope,omitempty"`

	// AllowedDomains lists author email domains allowed to drive ticket
	// updates, space-separated. Empty allows everyone.
	AllowedDomains string `json:"allowed_domains,omitempty"`

	// Commands maps a category name to its space-separated alias list.
	// Missing categories fall back to the stock aliases.
	Commands map[string]string `json:"commands,omitempty"`

	CheckPerms bool `json:"check_perms"`
	Notify     bool `json:"notify"`

	// NotifyWebhookURL switches notification delivery from the log to an
	// HTTP POST target.
	NotifyWebhookURL string `json:"notify_webhook_url,omitempty"`

	HTTPAddr string `json:"http_addr,omitempty"`
	DBPath   string `json:"db_path,omitempty"`
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		Version:    "1",
		CheckPerms: true,
		Notify:     true,
		HTTPAddr:   ":8436",
	}
}

// Load reads .tickethook/config.json from the specified directory.
// Returns an error if no config is found - callers decide whether to
// fall back to Default.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, ".tickethook", "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes config.json to the directory.
func Save(dir string, cfg *Config) error {
	hookDir := filepath.Join(dir, ".tickethook")
	if err := os.MkdirAll(hookDir, 0755); err != nil {
		return fmt.Errorf("failed to create .tickethook dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(hookDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate rejects malformed settings. An envelope must be empty or
// exactly two characters.
func (c *Config) Validate() error {
	if len(c.Envelope) == 1 {
		return fmt.Errorf("envelope must be empty or two characters, got %q", c.Envelope)
	}
	for name := range c.Commands {
		if _, ok := categoryByName(name); !ok {
			return fmt.Errorf("unknown command category %q", name)
		}
	}
	return nil
}

// Domains returns the allowed domains as a slice.
func (c *Config) Domains() []string {
	return strings.Fields(c.AllowedDomains)
}

// CommandTable builds the command table: stock aliases first, then the
// configured overrides, so a configured category fully replaces its
// default alias set.
func (c *Config) CommandTable() *command.Table {
	table := command.NewTable()
	defaults := command.DefaultAliases()
	for cat, aliases := range defaults {
		if _, overridden := c.Commands[string(cat)]; overridden {
			continue
		}
		table.Register(cat, aliases)
	}
	for name, aliases := range c.Commands {
		cat, ok := categoryByName(name)
		if !ok {
			continue
		}
		table.Register(cat, strings.Fields(aliases))
	}
	return table
}

func categoryByName(name string) (command.Category, bool) {
	switch command.Category(name) {
	case command.CategoryClose, command.CategoryReopen, command.CategoryImplement,
		command.CategoryReject, command.CategoryInvalidate, command.CategoryWorksForMe,
		command.CategoryAlreadyImplemented, command.CategoryTestReady, command.CategoryReference:
		return command.Category(name), true
	}
	return "", false
}

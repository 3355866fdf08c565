package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// SaveConfig writes configuration values back to disk. It mirrors the
// Resolver's layout so that what gets written is what Resolve reads.
type SaveConfig struct {
	// GlobalConfigDir is the directory under ~/.config/ for global config.
	GlobalConfigDir string

	// GlobalConfigFile is the filename. Defaults to "config.yaml".
	GlobalConfigFile string

	// LocalConfigName is the per-repository config filename
	// (e.g. ".issueflow.yaml").
	LocalConfigName string

	// ValidGlobalKeys lists keys that may be set in global config.
	ValidGlobalKeys []string

	// ValidLocalKeys lists keys that may be set in local config.
	ValidLocalKeys []string
}

func (c SaveConfig) globalConfigFile() string {
	if c.GlobalConfigFile != "" {
		return c.GlobalConfigFile
	}
	return "config.yaml"
}

func (c SaveConfig) validateKey(key string, valid []string) error {
	if len(valid) > 0 && !slices.Contains(valid, key) {
		return fmt.Errorf("unknown config key: %s\n\nValid keys: %s",
			key, strings.Join(valid, ", "))
	}
	return nil
}

func (c SaveConfig) globalPath() (string, error) {
	if c.GlobalConfigDir == "" {
		return "", fmt.Errorf("global config directory not configured")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", c.GlobalConfigDir, c.globalConfigFile()), nil
}

// SaveGlobal sets a key in the global config file, creating the file
// and its directory if needed.
func (c SaveConfig) SaveGlobal(key, value string) error {
	if err := c.validateKey(key, c.ValidGlobalKeys); err != nil {
		return err
	}

	configPath, err := c.globalPath()
	if err != nil {
		return err
	}

	existing := loadYAMLMap(configPath)
	existing[key] = parseValue(value)

	if err := os.MkdirAll(filepath.Dir(configPath), 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(existing)
	if err != nil {
		return err
	}

	// Global config can hold tokens, keep it private.
	return os.WriteFile(configPath, data, 0o600)
}

// SaveLocal sets a key in the local config file at the git root.
func (c SaveConfig) SaveLocal(gitRoot, key, value string) error {
	if gitRoot == "" {
		return fmt.Errorf("git root not found")
	}
	if c.LocalConfigName == "" {
		return fmt.Errorf("local config name not configured")
	}

	if err := c.validateKey(key, c.ValidLocalKeys); err != nil {
		return err
	}

	configPath := filepath.Join(gitRoot, c.LocalConfigName)

	existing := loadYAMLMap(configPath)
	existing[key] = parseValue(value)

	data, err := yaml.Marshal(existing)
	if err != nil {
		return err
	}

	// Local config is committed alongside the code and stays readable.
	return os.WriteFile(configPath, data, 0o644) //nolint:gosec
}

// DeleteGlobalKey removes a key from the global config. Deleting a key
// that is not set is not an error.
func (c SaveConfig) DeleteGlobalKey(key string) error {
	configPath, err := c.globalPath()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil
	}

	var existing map[string]any
	if err := yaml.Unmarshal(data, &existing); err != nil {
		return nil
	}

	delete(existing, key)

	data, err = yaml.Marshal(existing)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o600)
}

// loadYAMLMap reads a YAML file into a map, returning an empty map when
// the file is missing or unparseable.
func loadYAMLMap(path string) map[string]any {
	var m map[string]any
	if data, err := os.ReadFile(path); err == nil {
		_ = yaml.Unmarshal(data, &m)
	}
	if m == nil {
		m = make(map[string]any)
	}
	return m
}

// parseValue converts "true"/"false" strings to booleans so YAML output
// stays typed; everything else is written as a string.
func parseValue(value string) any {
	switch strings.ToLower(value) {
	case "true":
		return true
	case "false":
		return false
	}
	return value
}

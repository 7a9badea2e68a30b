package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// SaveConfig writes keys to the global or local config file.
type SaveConfig struct {
	// GlobalConfigDir is the directory under ~/.config/ for global config.
	GlobalConfigDir string

	// GlobalConfigFile is the filename. Defaults to "config.yaml".
	GlobalConfigFile string

	// LocalConfigName is the filename for local config in git root.
	LocalConfigName string

	// ValidKeys lists keys that may be saved. If nil, all keys are valid.
	ValidKeys []string
}

// SaveSettings returns the saver for issueflow's config files.
func SaveSettings() SaveConfig {
	return SaveConfig{
		GlobalConfigDir: AppDir,
		LocalConfigName: LocalFileName,
		ValidKeys:       Keys,
	}
}

func (c SaveConfig) globalConfigFile() string {
	if c.GlobalConfigFile != "" {
		return c.GlobalConfigFile
	}
	return "config.yaml"
}

// GlobalPath returns the global config file path.
func (c SaveConfig) GlobalPath() (string, error) {
	if c.GlobalConfigDir == "" {
		return "", fmt.Errorf("global config directory not configured")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", c.GlobalConfigDir, c.globalConfigFile()), nil
}

func (c SaveConfig) validate(key string) error {
	if len(c.ValidKeys) > 0 && !slices.Contains(c.ValidKeys, key) {
		return fmt.Errorf("unknown config key: %s\n\nValid keys: %s", key, strings.Join(c.ValidKeys, ", "))
	}
	return nil
}

// SaveGlobal saves a key-value pair to the global config file. The file
// may hold credentials, so it is written 0600.
func (c SaveConfig) SaveGlobal(key, value string) error {
	if err := c.validate(key); err != nil {
		return err
	}
	configPath, err := c.GlobalPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0o700); err != nil {
		return err
	}
	return writeKey(configPath, key, value, 0o600)
}

// SaveLocal saves a key-value pair to the local config file in the git root.
func (c SaveConfig) SaveLocal(gitRoot, key, value string) error {
	if gitRoot == "" {
		return fmt.Errorf("git root not found")
	}
	if c.LocalConfigName == "" {
		return fmt.Errorf("local config name not configured")
	}
	if err := c.validate(key); err != nil {
		return err
	}
	if IsSecret(key) {
		return fmt.Errorf("%s is a credential; save it globally or use its environment variable", key)
	}

	// Local config is committed alongside the code and should be readable.
	return writeKey(filepath.Join(gitRoot, c.LocalConfigName), key, value, 0o644)
}

// DeleteGlobalKey removes a key from the global config.
func (c SaveConfig) DeleteGlobalKey(key string) error {
	configPath, err := c.GlobalPath()
	if err != nil {
		return err
	}

	existing, err := readYAML(configPath)
	if err != nil || existing == nil {
		return nil // Nothing to delete
	}
	delete(existing, key)

	data, err := yaml.Marshal(existing)
	if err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0o600)
}

func writeKey(path, key, value string, perm os.FileMode) error {
	existing, err := readYAML(path)
	if err != nil {
		return fmt.Errorf("existing config %s is not valid YAML: %w", path, err)
	}
	if existing == nil {
		existing = make(map[string]any)
	}
	existing[key] = value

	data, err := yaml.Marshal(existing)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, perm)
}

// readYAML returns nil, nil when the file does not exist.
func readYAML(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var parsed map[string]any
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, err
	}
	return parsed, nil
}

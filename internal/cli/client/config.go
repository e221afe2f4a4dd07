package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// envConfigPath overrides the config file location.
const envConfigPath = "GEOMED_CONFIG"

// GlobalConfig is the per-user client configuration stored in config.json.
type GlobalConfig struct {
	APIURL       string `json:"api_url"`
	ExportFormat string `json:"export_format,omitempty"`
}

var getConfigPathFunc = defaultGetConfigPath

func defaultGetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "geomed", "config.json"), nil
}

// GetConfigPath returns $GEOMED_CONFIG or the per-user config.json path.
func GetConfigPath() (string, error) {
	if p := os.Getenv(envConfigPath); p != "" {
		return p, nil
	}
	return getConfigPathFunc()
}

// LoadGlobalConfig returns nil, not an error, if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config GlobalConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}
	return &config, nil
}

// SaveGlobalConfig replaces the config file atomically; the file is readable by the owner only.
func SaveGlobalConfig(config *GlobalConfig) error {
	if config == nil {
		return errors.New("config cannot be nil")
	}

	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.json")
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Rename(tmp.Name(), configPath); err != nil {
		return fmt.Errorf("failed to replace config file: %w", err)
	}
	return nil
}

// UpdateGlobalConfig loads the config (or starts empty), applies fn and saves it.
func UpdateGlobalConfig(fn func(*GlobalConfig)) (*GlobalConfig, error) {
	config, err := LoadGlobalConfig()
	if err != nil {
		return nil, err
	}
	if config == nil {
		config = &GlobalConfig{}
	}
	fn(config)
	if err := SaveGlobalConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

// ValidateAPIURL requires an absolute http or https URL.
func ValidateAPIURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid API URL %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid API URL %q: expected http(s)://host[:port]", raw)
	}
	return nil
}

// exportRoute maps a user-facing format name to its download route and file extension.
func exportRoute(format string) (path, ext string, err error) {
	switch strings.ToLower(format) {
	case "xlsx", "excel":
		return "/api/export-history-excel", "xlsx", nil
	case "csv":
		return "/api/export-history-csv", "csv", nil
	}
	return "", "", fmt.Errorf("unsupported export format %q (use xlsx or csv)", format)
}

package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"albumdex/internal/config"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - ALBUMDEX_CONFIG_PATH: config file location (default: ~/.config/albumdex.toml)
//   - ALBUMDEX_HOME: base directory for albumdex data (default: ~/.local/share/albumdex)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}

// LoadConfig reads the config file named in defaults. A missing file yields
// the built-in configuration rooted at the default base directory. Paths the
// file leaves empty are filled from the same defaults.
func LoadConfig(defaults map[string]string) (*config.Config, error) {
	base := config.NewConfig(defaults["base_dir"])

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if errors.Is(err, fs.ErrNotExist) {
		return base, nil
	}
	if err != nil {
		return nil, err
	}

	if cfg.BaseDir == "" {
		cfg.BaseDir = base.BaseDir
	}
	if cfg.LogDir == "" {
		cfg.LogDir = filepath.Join(cfg.BaseDir, "log")
	}
	if cfg.SessionPath == "" {
		cfg.SessionPath = filepath.Join(cfg.BaseDir, "session.json")
	}
	return cfg, nil
}

// getConfigPath returns the config file path, checking ALBUMDEX_CONFIG_PATH first,
// then falling back to the default ~/.config/albumdex.toml.
func getConfigPath() (string, error) {
	if path := os.Getenv("ALBUMDEX_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "albumdex.toml"), nil
}

// getBaseDir returns the base directory for albumdex data, checking ALBUMDEX_HOME
// first, then falling back to the XDG default ~/.local/share/albumdex.
func getBaseDir() (string, error) {
	if path := os.Getenv("ALBUMDEX_HOME"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "albumdex"), nil
}

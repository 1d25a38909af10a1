package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/Paintersrp/nnt/internal/constants"
)

func GetConfigPath(homeDir string) string {
	return filepath.Join(
		homeDir,
		constants.ConfigDir,
		constants.ConfigFile+"."+constants.ConfigFileType,
	)
}

// EnsureConfigExists creates an empty config file when there is none and
// checks that the result names a usable notebook.
func EnsureConfigExists(homeDir string) error {
	configPath := GetConfigPath(homeDir)
	configDir := filepath.Dir(configPath)

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		file, err := os.Create(configPath)
		if err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		file.Close()
	} else if err != nil {
		return fmt.Errorf("failed to check config file existence: %w", err)
	}

	cfg, err := Load(homeDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.CurrentNotebook == "" {
		return &ConfigInitError{
			msg: "no notebook is configured, add one with `nnt notebook add <name> <url>`",
		}
	}

	nb, err := cfg.ActiveNotebook()
	if err != nil {
		return err
	}
	if strings.TrimSpace(nb.URL) == "" {
		return &ConfigInitError{
			msg: fmt.Sprintf("notebook %q has no url", cfg.CurrentNotebook),
		}
	}

	return nil
}

// ResolveStateDir returns the directory for logs and preferences,
// expanding a leading ~ in the configured value.
func ResolveStateDir(cfg *Config, homeDir string) (string, error) {
	dir := strings.TrimSpace(cfg.StateDir)
	if dir == "" {
		return filepath.Join(homeDir, constants.ConfigDir, constants.StateDirName), nil
	}
	expanded, err := homedir.Expand(dir)
	if err != nil {
		return "", fmt.Errorf("invalid state_dir %q: %w", dir, err)
	}
	return filepath.Clean(expanded), nil
}

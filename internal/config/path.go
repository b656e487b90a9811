package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ResolvePath applies CLI/XDG/home fallback rules for the config.jsonc location.
func ResolvePath(explicit string) (string, error) {
	if strings.TrimSpace(explicit) != "" {
		return explicit, nil
	}

	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.jsonc"), nil
}

// ModuleDirs resolves the command-module search directories. An empty
// configured list falls back to <config dir>/modules.
func ModuleDirs(cfg Config) ([]string, error) {
	if len(cfg.Modules.Dirs) > 0 {
		return cfg.Modules.Dirs, nil
	}
	dir, err := configDir()
	if err != nil {
		return nil, err
	}
	return []string{filepath.Join(dir, "modules")}, nil
}

// HistoryPath resolves the history database location. An empty
// configured path falls back to the XDG state directory.
func HistoryPath(cfg Config) (string, error) {
	if strings.TrimSpace(cfg.History.Path) != "" {
		return cfg.History.Path, nil
	}
	if xdg := strings.TrimSpace(os.Getenv("XDG_STATE_HOME")); xdg != "" {
		return filepath.Join(xdg, "parola", "history.db"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.New("unable to resolve user home for state fallback")
	}
	return filepath.Join(home, ".local", "state", "parola", "history.db"), nil
}

// legacyPath returns the pre-JSONC config.conf location.
func legacyPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.conf"), nil
}

func configDir() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, "parola"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.New("unable to resolve user home for config fallback")
	}
	return filepath.Join(home, ".config", "parola"), nil
}

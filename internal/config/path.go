// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

// DefaultHistoryPath returns the default location of the exchange history
// database, honoring XDG_DATA_HOME when set.
func DefaultHistoryPath() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "htsflow", "history.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "history.db")
	}
	return filepath.Join(home, ".local", "share", "htsflow", "history.db")
}

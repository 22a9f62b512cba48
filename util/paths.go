package util

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// DataDir returns the directory holding codegraph's local state, such as
// the transform history database.
// Priority: $CODEGRAPH_HOME -> $XDG_STATE_HOME/codegraph -> ~/.local/state/codegraph
// (Unix) / %LOCALAPPDATA%\codegraph (Windows).
func DataDir() (string, error) {
	if home := os.Getenv("CODEGRAPH_HOME"); home != "" {
		return home, nil
	}

	if runtime.GOOS != "windows" {
		if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
			return filepath.Join(xdg, "codegraph"), nil
		}
	}

	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(userHome, "AppData", "Local", "codegraph"), nil
	default:
		return filepath.Join(userHome, ".local", "state", "codegraph"), nil
	}
}

// EnsureDataDir creates the data directory if missing and returns it.
func EnsureDataDir() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return dir, nil
}

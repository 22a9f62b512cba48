package util

import (
	"os"
	"path/filepath"
)

// FindGitRoot walks up from the working directory looking for a .git
// entry. Falls back to the working directory itself when none is found.
func FindGitRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	cwd := dir
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd, nil
		}
		dir = parent
	}
}

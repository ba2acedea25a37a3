// Package config provides configuration utilities for the application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands ~ and environment variables in a file path.
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

// DefaultDBPath returns the default location of the expense database.
func DefaultDBPath() string {
	return ExpandPath("~/.local/share/cedisense/cedisense.db")
}

// ModelArtifactPath returns the versioned path for a serialized classifier
// artifact. Versioning the file name lets incompatible format revisions
// coexist on disk instead of failing to decode.
func ModelArtifactPath(dir string, version int) string {
	if dir == "" {
		dir = "~/.local/share/cedisense"
	}
	return filepath.Join(ExpandPath(dir), fmt.Sprintf("textcat-v%d.model", version))
}

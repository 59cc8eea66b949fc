// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/dompetku/dompet/internal/model"
)

// DefaultDatabasePath is used when no database path is configured.
const DefaultDatabasePath = "$HOME/.local/share/dompet/dompet.db"

// DatabasePath returns the configured SQLite path with ~ and environment
// variables expanded. Precedence: config file or DOMPET_ env vars, then
// the default location.
func DatabasePath() string {
	path := viper.GetString("database.path")
	if path == "" {
		path = DefaultDatabasePath
	}
	return ExpandPath(path)
}

// OwnerID returns the configured owner identifier stamped on every
// record this installation creates.
func OwnerID() string {
	owner := viper.GetString("owner.id")
	if owner == "" {
		owner = "local"
	}
	return owner
}

// DisplayLanguage returns the configured category display language,
// falling back to English for unknown values.
func DisplayLanguage() model.Language {
	switch viper.GetString("display.language") {
	case string(model.LangID):
		return model.LangID
	default:
		return model.LangEN
	}
}

// ExpandPath expands a leading ~ and $VAR environment variables in a
// file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

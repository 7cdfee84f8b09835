package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath is the environment variable for explicit config path
	EnvConfigPath = "SUPERHEROES_CONFIG"
	// ConfigFileName is the default config file name
	ConfigFileName = "superheroes.yaml"
	// ConfigDirName is the config directory name under XDG
	ConfigDirName = "superheroes"
)

// FindConfigPath searches for config file in priority order:
// 1. explicit (the --config flag)
// 2. $SUPERHEROES_CONFIG
// 3. ./superheroes.yaml (working directory)
// 4. $XDG_CONFIG_HOME/superheroes/config.yaml
// 5. ~/.config/superheroes/config.yaml
// 6. /etc/superheroes/config.yaml
//
// An explicit path is returned even if it does not exist, so that loading
// reports the missing file. Returns empty string if no config file found.
func FindConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}

	if path := os.Getenv(EnvConfigPath); path != "" {
		if fileExists(path) {
			return path
		}
	}

	if fileExists(ConfigFileName) {
		if abs, err := filepath.Abs(ConfigFileName); err == nil {
			return abs
		}
		return ConfigFileName
	}

	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		path := filepath.Join(xdgHome, ConfigDirName, "config.yaml")
		if fileExists(path) {
			return path
		}
	}

	if home := os.Getenv("HOME"); home != "" {
		path := filepath.Join(home, ".config", ConfigDirName, "config.yaml")
		if fileExists(path) {
			return path
		}
	}

	systemPath := filepath.Join("/etc", ConfigDirName, "config.yaml")
	if fileExists(systemPath) {
		return systemPath
	}

	return ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

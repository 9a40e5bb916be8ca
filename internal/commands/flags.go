// Package commands implements the ghostmark CLI commands.
package commands

import (
	"os"
	"path/filepath"

	"github.com/colonyops/ghostmark/internal/app"
	"github.com/colonyops/ghostmark/internal/core/config"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string
	Workspace  string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config

	// App holds the wired stores, built in the Before hook
	App *app.App
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "ghostmark", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "ghostmark")
}

// DefaultWorkspace returns the working directory, the workspace marks are
// anchored under when --workspace is not given.
func DefaultWorkspace() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// Package config handles configuration loading and validation for ghostmark.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ActionType tags what a shortcut binding executes.
type ActionType string

const (
	// ActionBuiltin runs a built-in feature (currently only insertLog).
	ActionBuiltin ActionType = "builtin"
	// ActionCommand runs a single host command.
	ActionCommand ActionType = "command"
	// ActionMacro runs an ordered list of host commands.
	ActionMacro ActionType = "macro"
)

// BuiltinInsertLog is the built-in debug-print insertion action.
const BuiltinInsertLog = "insertLog"

// Activation contexts a shortcut table can be keyed by. ContextWord is the
// generic fallback consulted when a context has no table of its own.
const (
	ContextLine      = "line"
	ContextSelection = "selection"
	ContextWord      = "word"
)

// Shortcut binds one key (within a context) to an action.
type Shortcut struct {
	Label    string     `yaml:"label"`
	Type     ActionType `yaml:"type"`
	Action   string     `yaml:"action,omitempty"`   // builtin action name
	Command  string     `yaml:"command,omitempty"`  // single host command id
	Commands []string   `yaml:"commands,omitempty"` // macro command ids, in order
}

// Config holds the application configuration.
type Config struct {
	// Shortcuts maps context name to key to binding. Keys are single
	// upper-case characters as the user would press them while confirmed.
	Shortcuts map[string]map[string]Shortcut `yaml:"shortcuts"`
	// SyncFile is a team export file watched for automatic import.
	SyncFile string `yaml:"sync_file"`
	// ExportedBy names this machine's user in export documents.
	ExportedBy string `yaml:"exported_by"`
	DataDir    string `yaml:"-"` // set by caller, not from config file
}

// DefaultConfig returns a Config with the built-in shortcut table.
func DefaultConfig() Config {
	return Config{
		Shortcuts: map[string]map[string]Shortcut{
			ContextWord: {
				"L": {Label: "Insert Log", Type: ActionBuiltin, Action: BuiltinInsertLog},
			},
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the
// provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			user := Config{}
			if err := yaml.Unmarshal(data, &user); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
			cfg.merge(user)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// merge overlays user configuration onto the defaults. User shortcut tables
// override per key, not per context, so adding one binding to a context
// keeps the default bindings alongside it.
func (c *Config) merge(user Config) {
	for context, table := range user.Shortcuts {
		if c.Shortcuts[context] == nil {
			c.Shortcuts[context] = map[string]Shortcut{}
		}
		for key, sc := range table {
			c.Shortcuts[context][key] = sc
		}
	}
	if user.SyncFile != "" {
		c.SyncFile = user.SyncFile
	}
	if user.ExportedBy != "" {
		c.ExportedBy = user.ExportedBy
	}
}

// ForContext returns the shortcut table for an activation context, falling
// back to the generic word table when the context has none.
func (c *Config) ForContext(context string) map[string]Shortcut {
	if table, ok := c.Shortcuts[context]; ok && len(table) > 0 {
		return table
	}
	return c.Shortcuts[ContextWord]
}

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	for context, table := range c.Shortcuts {
		if !validContext(context) {
			return fmt.Errorf("shortcuts: unknown context %q", context)
		}
		for key, sc := range table {
			if err := sc.validate(); err != nil {
				return fmt.Errorf("shortcuts.%s.%s: %w", context, key, err)
			}
		}
	}

	return nil
}

func (s Shortcut) validate() error {
	switch s.Type {
	case ActionBuiltin:
		if s.Action != BuiltinInsertLog {
			return fmt.Errorf("unknown builtin action %q", s.Action)
		}
	case ActionCommand:
		if s.Command == "" {
			return fmt.Errorf("command binding requires a command")
		}
	case ActionMacro:
		if len(s.Commands) == 0 {
			return fmt.Errorf("macro binding requires at least one command")
		}
	default:
		return fmt.Errorf("invalid type %q", s.Type)
	}
	return nil
}

func validContext(context string) bool {
	switch context {
	case ContextLine, ContextSelection, ContextWord:
		return true
	default:
		return false
	}
}

package config

import (
	"fmt"
	"os"
	"unicode"
	"unicode/utf8"

	"github.com/hay-kot/criterio"
)

// ValidateDeep performs comprehensive validation of the configuration
// including key shapes, binding contents, and file accessibility. The
// configPath argument specifies the config file location to validate
// (empty string skips config file checks).
// This calls Validate() first for basic structural validation.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
		criterio.Run("sync_file", c.SyncFile, isFileOrNotExist),
		c.validateShortcutKeys(),
	)
}

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	for context, table := range c.Shortcuts {
		for key, sc := range table {
			if sc.Label == "" {
				warnings = append(warnings, ValidationWarning{
					Category: "Shortcuts",
					Item:     fmt.Sprintf("%s.%s", context, key),
					Message:  "binding has no label; the action menu will show the raw action",
				})
			}
		}
	}

	if c.SyncFile == "" {
		warnings = append(warnings, ValidationWarning{
			Category: "Sync",
			Message:  "sync_file not set; automatic team import is disabled",
		})
	}

	return warnings
}

// validateShortcutKeys checks that every bound key is a single character,
// upper-cased when it is a letter (keys are matched against shifted input).
func (c *Config) validateShortcutKeys() error {
	var errs criterio.FieldErrorsBuilder
	for context, table := range c.Shortcuts {
		for key := range table {
			field := fmt.Sprintf("shortcuts.%s.%s", context, key)
			r, size := utf8.DecodeRuneInString(key)
			if size == 0 || size != len(key) {
				errs = errs.Append(field, fmt.Errorf("key must be a single character"))
				continue
			}
			if unicode.IsLetter(r) && !unicode.IsUpper(r) {
				errs = errs.Append(field, fmt.Errorf("letter keys must be upper case"))
			}
		}
	}
	return errs.ToError()
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

// isFileOrNotExist validates that a path is a regular file or doesn't exist.
func isFileOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // created on first export
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("is a directory, not a file")
	}
	return nil
}

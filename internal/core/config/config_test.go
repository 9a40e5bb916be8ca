package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", t.TempDir())
	require.NoError(t, err)

	table := cfg.ForContext(ContextLine)
	require.Contains(t, table, "L")
	assert.Equal(t, ActionBuiltin, table["L"].Type)
	assert.Equal(t, BuiltinInsertLog, table["L"].Action)
}

func TestLoadMergesUserShortcuts(t *testing.T) {
	path := writeConfig(t, `
shortcuts:
  word:
    K:
      label: Rename
      type: command
      command: editor.action.rename
  selection:
    W:
      label: Wrap and format
      type: macro
      commands:
        - editor.action.surroundWithSnippet
        - editor.action.formatSelection
sync_file: /tmp/team-marks.json
exported_by: dev@example.com
`)

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)

	word := cfg.ForContext(ContextWord)
	assert.Contains(t, word, "L", "default binding survives merge")
	assert.Contains(t, word, "K")
	assert.Equal(t, "editor.action.rename", word["K"].Command)

	sel := cfg.ForContext(ContextSelection)
	require.Contains(t, sel, "W")
	assert.Len(t, sel["W"].Commands, 2)

	assert.Equal(t, "/tmp/team-marks.json", cfg.SyncFile)
	assert.Equal(t, "dev@example.com", cfg.ExportedBy)
}

func TestForContextFallsBackToWord(t *testing.T) {
	cfg, err := Load("", t.TempDir())
	require.NoError(t, err)

	// line has no table of its own, so the word table serves it.
	line := cfg.ForContext(ContextLine)
	word := cfg.ForContext(ContextWord)
	assert.Equal(t, word, line)
}

func TestLoadRejectsInvalidBindings(t *testing.T) {
	cases := map[string]string{
		"unknown context": `
shortcuts:
  banana:
    K: {label: x, type: command, command: y}
`,
		"unknown builtin": `
shortcuts:
  word:
    K: {label: x, type: builtin, action: teleport}
`,
		"command without command": `
shortcuts:
  word:
    K: {label: x, type: command}
`,
		"empty macro": `
shortcuts:
  word:
    K: {label: x, type: macro, commands: []}
`,
		"bad type": `
shortcuts:
  word:
    K: {label: x, type: lambda}
`,
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content), t.TempDir())
			require.Error(t, err)
		})
	}
}

func TestValidateDeepKeyShapes(t *testing.T) {
	cfg, err := Load("", t.TempDir())
	require.NoError(t, err)

	cfg.Shortcuts[ContextWord]["k"] = Shortcut{Label: "x", Type: ActionCommand, Command: "y"}
	err = cfg.ValidateDeep("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upper case")

	delete(cfg.Shortcuts[ContextWord], "k")
	cfg.Shortcuts[ContextWord]["KK"] = Shortcut{Label: "x", Type: ActionCommand, Command: "y"}
	err = cfg.ValidateDeep("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "single character")
}

func TestWarnings(t *testing.T) {
	cfg, err := Load("", t.TempDir())
	require.NoError(t, err)

	cfg.Shortcuts[ContextWord]["K"] = Shortcut{Type: ActionCommand, Command: "y"}
	warnings := cfg.Warnings()

	var categories []string
	for _, w := range warnings {
		categories = append(categories, w.Category)
	}
	assert.Contains(t, categories, "Shortcuts", "unlabeled binding warns")
	assert.Contains(t, categories, "Sync", "missing sync_file warns")
}

package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/ghostmark/internal/core/mark"
	"github.com/colonyops/ghostmark/internal/editor"
	"github.com/colonyops/ghostmark/internal/editor/huhprompter"
)

type AddCmd struct {
	flags *Flags

	// flags
	key      string
	name     string
	note     string
	priority int64
}

// NewAddCmd creates a new add command
func NewAddCmd(flags *Flags) *AddCmd {
	return &AddCmd{flags: flags}
}

// Register adds the add command to the application
func (cmd *AddCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "add",
		Usage:     "Create a mark at a file location",
		UsageText: "ghostmark add <file:line> [--key k] [--name ...] [--note ...] [--priority n]",
		Description: `Creates a mark the same way the in-editor flow does. Fields not given
as flags are prompted for; cancelling a prompt accepts the defaults
(name "NoName", empty note, priority 3).`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "key",
				Aliases:     []string{"k"},
				Usage:       "category key a-z",
				Value:       "t",
				Destination: &cmd.key,
			},
			&cli.StringFlag{
				Name:        "name",
				Usage:       "mark name (skips the prompt)",
				Destination: &cmd.name,
			},
			&cli.StringFlag{
				Name:        "note",
				Usage:       "mark note (skips the prompt)",
				Destination: &cmd.note,
			},
			&cli.Int64Flag{
				Name:        "priority",
				Aliases:     []string{"p"},
				Usage:       "priority 1-5 (skips the prompt)",
				Destination: &cmd.priority,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *AddCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected a file:line argument. Run 'ghostmark add --help' for usage")
	}

	path, line, err := splitLocation(c.Args().First())
	if err != nil {
		return err
	}

	doc, err := openFileDoc(cmd.flags.App.WorkspaceRoot, path)
	if err != nil {
		return err
	}
	if line < 1 || line > doc.LineCount() {
		return fmt.Errorf("line %d out of range (file has %d lines)", line, doc.LineCount())
	}

	cat, ok := cmd.flags.App.Cats.Lookup(cmd.key)
	if !ok {
		return fmt.Errorf("no category configured for key %q", cmd.key)
	}

	opts := mark.AddOptions{
		Key:      cmd.key,
		Doc:      doc,
		Position: editor.Position{Line: line - 1},
		Name:     cmd.name,
		Note:     cmd.note,
		Priority: mark.DefaultPriority,
	}
	if cmd.priority != 0 {
		opts.Priority = mark.ClampPriority(int(cmd.priority))
	}

	if cmd.name == "" {
		cmd.promptMissing(ctx, &opts, cat.Icon, cat.Label)
	}

	m, err := cmd.flags.App.Marks.Add(ctx, opts)
	if err != nil {
		return fmt.Errorf("add mark: %w", err)
	}

	fmt.Fprintf(c.Root().Writer, "Marked as %s: %s (%s:%d, priority %d)\n",
		cat.Label, m.Name, cmd.flags.App.Marks.RelPath(m), m.Line+1, m.Priority)
	return nil
}

// promptMissing runs the in-editor prompt cascade for fields not given as
// flags. Cancelling a step short-circuits the rest to defaults.
func (cmd *AddCmd) promptMissing(ctx context.Context, opts *mark.AddOptions, icon, label string) {
	prompter := huhprompter.Prompter{}

	name, ok, err := prompter.Input(ctx, fmt.Sprintf("%s %s Mark - Name", icon, label), "Enter a name for this mark (or leave blank for NoName)")
	if err != nil || !ok {
		return
	}
	opts.Name = name

	if cmd.note == "" {
		note, ok, err := prompter.Input(ctx, fmt.Sprintf("%s %s Mark - Note", icon, label), "Enter a note for this mark (optional)")
		if err != nil || !ok {
			return
		}
		opts.Note = note
	}

	if cmd.priority == 0 {
		raw, ok, err := prompter.Input(ctx, fmt.Sprintf("%s %s Mark - Priority", icon, label), "1-5 (1=Highest, 5=Lowest, default=3)")
		if err != nil || !ok {
			return
		}
		if p, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			opts.Priority = mark.ClampPriority(p)
		}
	}
}

func splitLocation(arg string) (string, int, error) {
	idx := strings.LastIndex(arg, ":")
	if idx <= 0 || idx == len(arg)-1 {
		return "", 0, fmt.Errorf("location must be file:line, got %q", arg)
	}
	line, err := strconv.Atoi(arg[idx+1:])
	if err != nil {
		return "", 0, fmt.Errorf("location must be file:line, got %q", arg)
	}
	return arg[:idx], line, nil
}

// fileDoc adapts a file on disk to editor.Document for symbol fallback
// resolution.
type fileDoc struct {
	uri      string
	language string
	lines    []string
}

var _ editor.Document = (*fileDoc)(nil)

func openFileDoc(workspaceRoot, path string) (*fileDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(workspaceRoot, path)
	}

	return &fileDoc{
		uri:      "file://" + filepath.ToSlash(abs),
		language: languageForExt(filepath.Ext(path)),
		lines:    strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n"),
	}, nil
}

func (d *fileDoc) URI() string        { return d.uri }
func (d *fileDoc) LineCount() int     { return len(d.lines) }
func (d *fileDoc) LanguageID() string { return d.language }

func (d *fileDoc) LineText(line int) (string, error) {
	if line < 0 || line >= len(d.lines) {
		return "", fmt.Errorf("line %d out of range", line)
	}
	return d.lines[line], nil
}

func languageForExt(ext string) string {
	switch ext {
	case ".go":
		return "go"
	case ".ts", ".tsx":
		return "typescript"
	case ".js", ".jsx":
		return "javascript"
	case ".py":
		return "python"
	case ".java":
		return "java"
	case ".cs":
		return "csharp"
	case ".rs":
		return "rust"
	case ".php":
		return "php"
	default:
		return "plaintext"
	}
}

package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/ghostmark/internal/core/marksync"
)

type ExportCmd struct {
	flags *Flags

	// flags
	output string
}

// NewExportCmd creates a new export command
func NewExportCmd(flags *Flags) *ExportCmd {
	return &ExportCmd{flags: flags}
}

// Register adds the export command to the application
func (cmd *ExportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "export",
		Usage:     "Export marks to a shareable JSON file",
		UsageText: "ghostmark export [-o file]",
		Description: `Writes all marks as a version "1.0" export document with
workspace-relative paths, suitable for committing or importing on another
machine. Without -o, the configured sync_file is used; without either,
the document goes to stdout.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "output file (defaults to sync_file from config, then stdout)",
				Destination: &cmd.output,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ExportCmd) run(ctx context.Context, c *cli.Command) error {
	marks := cmd.flags.App.Marks.All()

	data, err := cmd.flags.App.Syncer.Export(marks, marksync.ExportOptions{
		ExportedBy:  cmd.flags.Config.ExportedBy,
		ProjectName: filepath.Base(cmd.flags.App.WorkspaceRoot),
		Now:         time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("export marks: %w", err)
	}

	target := cmd.output
	if target == "" {
		target = cmd.flags.Config.SyncFile
	}
	if target == "" {
		_, err := fmt.Fprintln(c.Root().Writer, string(data))
		return err
	}

	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}

	fmt.Fprintf(c.Root().Writer, "Exported %d marks to %s\n", len(marks), target)
	return nil
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/ghostmark/internal/core/marksync"
)

type ImportCmd struct {
	flags *Flags

	// flags
	yes bool
}

// NewImportCmd creates a new import command
func NewImportCmd(flags *Flags) *ImportCmd {
	return &ImportCmd{flags: flags}
}

// Register adds the import command to the application
func (cmd *ImportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "import",
		Usage:     "Import marks from an export file",
		UsageText: "ghostmark import <file> [--yes]",
		Description: `Merges an export document into the local collection. Incoming marks
win only when strictly newer; updates that change a mark's name or line
are reported as conflicts.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "skip the confirmation prompt",
				Destination: &cmd.yes,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ImportCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one file argument. Run 'ghostmark import --help' for usage")
	}
	path := c.Args().First()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}

	result, err := cmd.flags.App.Syncer.Import(cmd.flags.App.Marks.All(), data)
	if err != nil {
		if errors.Is(err, marksync.ErrInvalidFormat) {
			return fmt.Errorf("%s is not a valid ghostmark export: %w", path, err)
		}
		return fmt.Errorf("import marks: %w", err)
	}

	out := c.Root().Writer

	if result.New == 0 && result.Updated == 0 {
		fmt.Fprintf(out, "Nothing to import: %d marks already up to date\n", result.Skipped)
		return nil
	}

	if !cmd.yes {
		var confirm bool
		err := huh.NewConfirm().
			Title("Import marks?").
			Description(fmt.Sprintf("%d new, %d updated, %d unchanged, %d conflicts",
				result.New, result.Updated, result.Skipped, len(result.Conflicts))).
			Value(&confirm).
			Run()
		if err != nil {
			return err
		}
		if !confirm {
			fmt.Fprintln(out, "Import cancelled")
			return nil
		}
	}

	cmd.flags.App.Marks.ReplaceAll(ctx, result.Merged)

	fmt.Fprintf(out, "Imported %d new and %d updated marks (%d unchanged)\n",
		result.New, result.Updated, result.Skipped)

	for _, conflict := range result.Conflicts {
		fmt.Fprintf(out, "  conflict %s: %q@%d (local %s) -> %q@%d (imported %s)\n",
			conflict.ID,
			conflict.Existing.Name, conflict.Existing.Line+1, conflict.Existing.Created.Format("2006-01-02 15:04"),
			conflict.Imported.Name, conflict.Imported.Line+1, conflict.Imported.Created.Format("2006-01-02 15:04"))
	}

	return nil
}

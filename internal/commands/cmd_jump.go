package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/ghostmark/internal/core/mark"
	"github.com/colonyops/ghostmark/internal/core/nav"
)

type JumpCmd struct {
	flags *Flags

	// flags
	file string
	line int64
}

// NewJumpCmd creates a new jump command
func NewJumpCmd(flags *Flags) *JumpCmd {
	return &JumpCmd{flags: flags}
}

// Register adds the jump command to the application
func (cmd *JumpCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "jump",
		Usage:     "Print the next or previous mark location",
		UsageText: "ghostmark jump next|prev [--file path --line n]",
		Description: `Walks the mark ring (priority, then age) respecting the active key and
priority filters, and prints the target as path:line. Editors wire this
to a goto-location action. --file/--line give the current cursor; without
them the walk starts from the ring boundary.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "file",
				Usage:       "current file (workspace-relative or absolute)",
				Destination: &cmd.file,
			},
			&cli.Int64Flag{
				Name:        "line",
				Usage:       "current one-based line",
				Destination: &cmd.line,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *JumpCmd) run(ctx context.Context, c *cli.Command) error {
	direction := c.Args().First()
	if direction != "next" && direction != "prev" {
		return fmt.Errorf("expected 'next' or 'prev'. Run 'ghostmark jump --help' for usage")
	}

	marks := cmd.flags.App.Marks.Query(mark.Query{
		FilterKeys:       cmd.flags.App.Filters.Keys(),
		FilterPriorities: cmd.flags.App.Filters.Priorities(),
	})
	if len(marks) == 0 {
		return fmt.Errorf("no marks to jump to")
	}

	cur := nav.Cursor{
		DocumentRef: mark.AbsRef(cmd.flags.App.WorkspaceRoot, cmd.file),
		Line:        int(cmd.line) - 1,
	}

	var (
		target mark.Mark
		ok     bool
	)
	if direction == "next" {
		target, ok = nav.Next(marks, cur)
	} else {
		target, ok = nav.Prev(marks, cur)
	}
	if !ok {
		return fmt.Errorf("no marks to jump to")
	}

	_, err := fmt.Fprintf(c.Root().Writer, "%s:%d\n", cmd.flags.App.Marks.RelPath(target), target.Line+1)
	return err
}

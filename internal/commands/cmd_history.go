package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"
)

type HistoryCmd struct {
	flags *Flags
}

// NewHistoryCmd creates a new history command
func NewHistoryCmd(flags *Flags) *HistoryCmd {
	return &HistoryCmd{flags: flags}
}

// Register adds the history command to the application
func (cmd *HistoryCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "history",
		Usage:       "List executed shortcut commands by frequency",
		UsageText:   "ghostmark history [clear]",
		Description: "Shows host commands executed through shortcuts, most used first.",
		Action:      cmd.run,
		Commands: []*cli.Command{
			{
				Name:   "clear",
				Usage:  "Clear the command history",
				Action: cmd.runClear,
			},
		},
	})

	return app
}

func (cmd *HistoryCmd) run(ctx context.Context, c *cli.Command) error {
	entries := cmd.flags.App.History.Ranked()
	if len(entries) == 0 {
		fmt.Fprintf(os.Stderr, "No command history\n")
		return nil
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "COMMAND\tCOUNT\tLAST USED")
	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\n", e.Command, e.Count, e.LastExecuted.Local().Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func (cmd *HistoryCmd) runClear(ctx context.Context, c *cli.Command) error {
	cmd.flags.App.History.Clear(ctx)
	fmt.Fprintln(c.Root().Writer, "History cleared")
	return nil
}

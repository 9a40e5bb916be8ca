package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/ghostmark/internal/core/logging"
	"github.com/colonyops/ghostmark/internal/syncwatch"
	"github.com/colonyops/ghostmark/internal/tui"
)

// BrowseCmd runs the interactive mark browser. It is the default action
// when no subcommand is given.
type BrowseCmd struct {
	flags *Flags
}

// NewBrowseCmd creates a new browse command
func NewBrowseCmd(flags *Flags) *BrowseCmd {
	return &BrowseCmd{flags: flags}
}

// Register adds the browse command to the application
func (cmd *BrowseCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "browse",
		Usage:       "Browse marks interactively",
		UsageText:   "ghostmark browse",
		Description: "Opens the mark browser. Enter prints the selected location on exit.",
		Action:      cmd.Run,
	})

	return app
}

// Run starts the browser TUI.
func (cmd *BrowseCmd) Run(ctx context.Context, c *cli.Command) error {
	a := cmd.flags.App

	// Mirror edits other machines push through the sync file while the
	// browser is open.
	if a.Config.SyncFile != "" {
		watcher, err := syncwatch.New(a.Config.SyncFile, a.Syncer, a.Marks, a.Bus, logging.Component("syncwatch"))
		if err != nil {
			log.Warn().Err(err).Msg("sync watcher unavailable")
		} else {
			defer func() { _ = watcher.Close() }()
		}
	}

	browser := tui.NewBrowser(a.Marks, a.Cats, a.Filters, a.Bus)

	p := tea.NewProgram(browser, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run browser: %w", err)
	}

	if target, ok := browser.JumpTarget(); ok {
		_, err := fmt.Fprintf(c.Root().Writer, "%s:%d\n", a.Marks.RelPath(target), target.Line+1)
		return err
	}
	return nil
}

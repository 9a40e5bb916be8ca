package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/ghostmark/internal/core/mark"
	"github.com/colonyops/ghostmark/pkg/iojson"
)

type LsCmd struct {
	flags *Flags

	// flags
	keys          []string
	priorities    []int64
	search        string
	pathGlob      string
	sortBy        string
	hideCompleted bool
	jsonOutput    bool
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags) *LsCmd {
	return &LsCmd{flags: flags}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List marks",
		UsageText: "ghostmark ls [--key k] [--priority n] [--search text] [--path glob] [--sort created|priority|key]",
		Description: `Displays a table of marks in the current workspace.

Filters combine: --key and --priority may repeat, --path takes a
workspace-relative doublestar glob like 'src/**/*.go'.`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:        "key",
				Aliases:     []string{"k"},
				Usage:       "filter by category key (repeatable)",
				Destination: &cmd.keys,
			},
			&cli.Int64SliceFlag{
				Name:        "priority",
				Aliases:     []string{"p"},
				Usage:       "filter by priority 1-5 (repeatable)",
				Destination: &cmd.priorities,
			},
			&cli.StringFlag{
				Name:        "search",
				Aliases:     []string{"s"},
				Usage:       "case-insensitive search in name, note, and symbol",
				Destination: &cmd.search,
			},
			&cli.StringFlag{
				Name:        "path",
				Usage:       "filter by workspace-relative path glob",
				Destination: &cmd.pathGlob,
			},
			&cli.StringFlag{
				Name:        "sort",
				Usage:       "sort order (created, priority, key)",
				Value:       string(mark.SortCreated),
				Destination: &cmd.sortBy,
			},
			&cli.BoolFlag{
				Name:        "hide-completed",
				Usage:       "exclude completed marks",
				Destination: &cmd.hideCompleted,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	priorities := make([]int, len(cmd.priorities))
	for i, p := range cmd.priorities {
		priorities[i] = int(p)
	}

	marks := cmd.flags.App.Marks.Query(mark.Query{
		FilterKeys:       cmd.keys,
		FilterPriorities: priorities,
		SearchText:       cmd.search,
		PathGlob:         cmd.pathGlob,
		SortBy:           mark.SortBy(cmd.sortBy),
		HideCompleted:    cmd.hideCompleted,
	})

	out := c.Root().Writer

	if cmd.jsonOutput {
		infos := make([]markInfo, len(marks))
		for i, m := range marks {
			infos[i] = cmd.buildMarkInfo(m)
		}
		return iojson.WriteWith(out, os.Stderr, infos)
	}

	if len(marks) == 0 {
		fmt.Fprintf(os.Stderr, "No marks found\n")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "KEY\tNAME\tPRI\tLOCATION\tSYMBOL\tDONE")

	for _, m := range marks {
		done := ""
		if m.Completed {
			done = "✓"
		}
		loc := fmt.Sprintf("%s:%d", cmd.flags.App.Marks.RelPath(m), m.Line+1)
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n", m.Key, m.Name, m.Priority, loc, m.Breadcrumb, done)
	}

	return w.Flush()
}

// markInfo is the JSON output format for ghostmark ls --json.
type markInfo struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Name      string    `json:"name"`
	Note      string    `json:"note,omitempty"`
	Priority  int       `json:"priority"`
	Path      string    `json:"path"`
	Line      int       `json:"line"`
	Symbol    string    `json:"symbol"`
	Completed bool      `json:"completed"`
	Created   time.Time `json:"created"`
}

func (cmd *LsCmd) buildMarkInfo(m mark.Mark) markInfo {
	return markInfo{
		ID:        m.ID,
		Key:       m.Key,
		Name:      m.Name,
		Note:      m.Note,
		Priority:  m.Priority,
		Path:      cmd.flags.App.Marks.RelPath(m),
		Line:      m.Line + 1,
		Symbol:    m.Breadcrumb,
		Completed: m.Completed,
		Created:   m.Created,
	}
}

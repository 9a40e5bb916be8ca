package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/ghostmark/internal/core/config"
)

type KeysCmd struct {
	flags *Flags

	// flags
	plain bool
}

// NewKeysCmd creates a new keys command
func NewKeysCmd(flags *Flags) *KeysCmd {
	return &KeysCmd{flags: flags}
}

// Register adds the keys command to the application
func (cmd *KeysCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "keys",
		Usage:       "Show mark categories and shortcut bindings",
		UsageText:   "ghostmark keys [--plain]",
		Description: "Renders the category table and the per-context shortcut tables.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "plain",
				Usage:       "print raw markdown without terminal rendering",
				Destination: &cmd.plain,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *KeysCmd) run(ctx context.Context, c *cli.Command) error {
	md := cmd.buildMarkdown()

	if cmd.plain {
		_, err := fmt.Fprint(c.Root().Writer, md)
		return err
	}

	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return fmt.Errorf("init renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("render keys: %w", err)
	}

	_, err = fmt.Fprint(c.Root().Writer, out)
	return err
}

func (cmd *KeysCmd) buildMarkdown() string {
	var b strings.Builder

	b.WriteString("# ghostmark keys\n\n")

	b.WriteString("## Mark categories\n\n")
	b.WriteString("| Key | Icon | Label |\n|---|---|---|\n")
	for _, cat := range cmd.flags.App.Cats.All() {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", cat.Key, cat.Icon, cat.Label)
	}

	b.WriteString("\n## Shortcuts\n")
	for _, context := range []string{config.ContextLine, config.ContextSelection, config.ContextWord} {
		table := cmd.flags.Config.Shortcuts[context]
		if len(table) == 0 {
			continue
		}

		keys := make([]string, 0, len(table))
		for k := range table {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Fprintf(&b, "\n### %s\n\n", context)
		b.WriteString("| Key | Action | Type |\n|---|---|---|\n")
		for _, k := range keys {
			sc := table[k]
			label := sc.Label
			if label == "" {
				label = sc.Command
			}
			fmt.Fprintf(&b, "| %s | %s | %s |\n", k, label, sc.Type)
		}
	}

	b.WriteString("\n## Control keys (while hovering)\n\n")
	b.WriteString("- `a-z` create mark, `Shift+a-z` toggle key filter\n")
	b.WriteString("- `;` delete mark, `:` toggle complete\n")
	b.WriteString("- `Shift+1-5` toggle priority filter, `Shift+Space` clear filters\n")
	b.WriteString("- `@` mark list, `/` settings\n")

	return b.String()
}

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/ghostmark/internal/app"
	"github.com/colonyops/ghostmark/internal/commands"
	"github.com/colonyops/ghostmark/internal/core/config"
	"github.com/colonyops/ghostmark/internal/core/logging"
	"github.com/colonyops/ghostmark/internal/data/db"
	"github.com/colonyops/ghostmark/internal/data/stores"
	"github.com/colonyops/ghostmark/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		database  *db.DB
	)

	flags := &commands.Flags{}

	cliApp := &cli.Command{
		Name:      "ghostmark",
		Usage:     "Position-anchored code marks with shareable exports",
		UsageText: "ghostmark [global options] command [command options]",
		Description: `Ghostmark keeps position-anchored annotations on your code: category,
name, note, and priority, persisted per workspace and mergeable across
machines through export files.

Run 'ghostmark' with no arguments to open the interactive mark browser.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("GHOSTMARK_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/ghostmark.log)",
				Sources:     cli.EnvVars("GHOSTMARK_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("GHOSTMARK_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("GHOSTMARK_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.StringFlag{
				Name:        "workspace",
				Aliases:     []string{"w"},
				Usage:       "workspace root marks are anchored under",
				Sources:     cli.EnvVars("GHOSTMARK_WORKSPACE"),
				Value:       commands.DefaultWorkspace(),
				Destination: &flags.Workspace,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file so TUI output stays clean; use explicit
			// path or default to <datadir>/ghostmark.log
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "ghostmark.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger.Hook(logging.ContextHook{})
			logCloser = closer

			ctx = logging.WithWorkspace(ctx, flags.Workspace)

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			if err := os.MkdirAll(flags.DataDir, 0o755); err != nil {
				return ctx, fmt.Errorf("create data dir: %w", err)
			}

			database, err = db.Open(flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("open database: %w", err)
			}

			kvStore := stores.NewKVStore(database)

			flags.App, err = app.New(ctx, cfg, kvStore, flags.Workspace, logging.Component("app"))
			if err != nil {
				return ctx, fmt.Errorf("wire application: %w", err)
			}

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if database != nil {
				if err := database.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}

			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	browseCmd := commands.NewBrowseCmd(flags)

	cliApp = browseCmd.Register(cliApp)
	cliApp = commands.NewLsCmd(flags).Register(cliApp)
	cliApp = commands.NewAddCmd(flags).Register(cliApp)
	cliApp = commands.NewExportCmd(flags).Register(cliApp)
	cliApp = commands.NewImportCmd(flags).Register(cliApp)
	cliApp = commands.NewJumpCmd(flags).Register(cliApp)
	cliApp = commands.NewHistoryCmd(flags).Register(cliApp)
	cliApp = commands.NewKeysCmd(flags).Register(cliApp)
	cliApp = commands.NewConfigValidateCmd(flags).Register(cliApp)

	// Open the browser when no subcommand is provided
	cliApp.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'ghostmark --help' for usage", c.Args().First())
		}
		return browseCmd.Run(ctx, c)
	}

	exitCode := 0
	runErr := cliApp.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}

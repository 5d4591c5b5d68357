package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"taskboard/internal/config"
	"taskboard/internal/format"
	"taskboard/internal/logging"
	"taskboard/internal/model"
	"taskboard/internal/store"
)

type App struct {
	Seed       string
	Save       bool
	Today      string
	LogLevel   string
	PrettyJSON bool
	Format     string

	cfg    *config.Config
	cfgErr error
	log    zerolog.Logger
}

func NewRootCmd() *cobra.Command {
	cfg, cfgErr := config.NewEnvReader().Read()
	if cfg == nil {
		cfg = &config.Config{Env: config.EnvProd, Format: format.JSON}
	}
	app := &App{cfg: cfg, cfgErr: cfgErr, log: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:          "taskboard",
		Short:        "Task board CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  taskboard

  # Scriptable commands
  taskboard tasks list --status todo --sort dueDate

  # Direct task lookup (shortcut for: taskboard tasks show <task-id>)
  taskboard task-1

  # Work on a saved board and write changes back
  taskboard --seed board.json --save board --move task-1 --to done
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if app.cfgErr != nil {
			return writeErr(cmd, fmt.Errorf("config: %w", app.cfgErr))
		}
		if !format.Valid(app.Format) {
			return writeErr(cmd, fmt.Errorf("unknown format: %s", app.Format))
		}
		if strings.TrimSpace(app.Today) != "" {
			if _, err := model.ParseDate(app.Today); err != nil {
				return writeErr(cmd, fmt.Errorf("--today: %w", err))
			}
		}
		logCfg := *app.cfg
		logCfg.LogLevel = app.LogLevel
		log, err := logging.New(&logCfg, cmd.ErrOrStderr())
		if err != nil {
			return writeErr(cmd, err)
		}
		app.log = log
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Seed, "seed", cfg.Seed, "Snapshot file (.json or .sqlite) to start the session from (default: built-in sample tasks)")
	cmd.PersistentFlags().BoolVar(&app.Save, "save", false, "Write the session back to --seed after a mutating command")
	cmd.PersistentFlags().StringVar(&app.Today, "today", cfg.Today, "Treat this day (YYYY-MM-DD) as today")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", cfg.LogLevel, "Log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", cfg.Pretty, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", cfg.Format, "Output format (json|edn|table)")

	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newBoardCmd(app))
	cmd.AddCommand(newCalendarCmd(app))
	cmd.AddCommand(newStatsCmd(app))
	cmd.AddCommand(newRosterCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newTUICmd(app))
	cmd.AddCommand(newWebCmd(app))

	return cmd
}

// openSession starts the session store: seeded from --seed when given,
// otherwise from the sample tasks.
func openSession(ctx context.Context, app *App) (*store.Store, error) {
	roster := model.DefaultRoster()
	tasks := store.SampleTasks()
	if seed := strings.TrimSpace(app.Seed); seed != "" {
		loaded, err := store.LoadFile(ctx, seed, roster)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) || !app.Save {
				return nil, err
			}
			// --save on a missing seed starts an empty board at that path.
			loaded = nil
		}
		tasks = loaded
		app.log.Debug().Str("seed", seed).Int("tasks", len(tasks)).Msg("loaded seed")
	}
	return store.New(
		store.WithTasks(tasks),
		store.WithRoster(roster),
		store.WithLogger(app.log),
		store.WithClock(app.clock()),
	)
}

// clock returns time.Now, or a fixed --today.
func (app *App) clock() func() time.Time {
	if d, err := model.ParseDate(app.Today); err == nil {
		t := d.Time()
		return func() time.Time { return t }
	}
	return time.Now
}

// saveSession writes the session back to --seed when --save is set.
func saveSession(cmd *cobra.Command, app *App, st *store.Store) error {
	if !app.Save {
		return nil
	}
	seed := strings.TrimSpace(app.Seed)
	if seed == "" {
		return errors.New("--save requires --seed <file>")
	}
	return st.Save(cmd.Context(), seed)
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

package cli

import (
	"github.com/spf13/cobra"

	"taskboard/internal/tui"
)

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Interactive terminal UI (same as running with no command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app)
		},
	}
}

func runTUI(cmd *cobra.Command, app *App) error {
	st, err := openSession(cmd.Context(), app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer st.Close()

	if err := tui.Run(cmd.Context(), st, tui.Options{Log: app.log}); err != nil {
		return writeErr(cmd, err)
	}
	return saveSession(cmd, app, st)
}

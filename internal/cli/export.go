package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"taskboard/internal/store"
)

func newExportCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the session's tasks to a snapshot file (.json or .sqlite)",
		Long: strings.TrimSpace(`
Write the current session to a snapshot file.

The board only lives in memory; a snapshot is how you keep it. Start a later
session from it with --seed.
`),
		Example: strings.TrimSpace(`
taskboard export --out board.json
taskboard --seed board.json export --out board.sqlite
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out = strings.TrimSpace(out)
			if out == "" {
				return writeErr(cmd, errors.New("missing --out"))
			}
			f, err := store.FormatForPath(out)
			if err != nil {
				return writeErr(cmd, err)
			}

			st, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			if err := st.Save(cmd.Context(), out); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope(map[string]any{
				"path":   out,
				"format": f,
				"tasks":  st.Len(),
			}, nil))
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Output file (.json, .sqlite)")
	return cmd
}

package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"taskboard/internal/board"
	"taskboard/internal/model"
	"taskboard/internal/view"
)

func newBoardCmd(app *App) *cobra.Command {
	var moveID string
	var target string

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show the board columns (optionally move a card first)",
		Long: strings.TrimSpace(`
Show tasks grouped into the todo, in-progress, review and done columns.

With --move, the card is dropped on --to first. --to is a column
(todo|in-progress|review|done) or another task id, meaning that task's column.
Dropping on the card's own column or on an unknown target changes nothing.
`),
		Example: strings.TrimSpace(`
taskboard board --format table
taskboard board --move task-1 --to review
taskboard board --move task-2 --to task-5
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			moveID = strings.TrimSpace(moveID)
			if moveID == "" && cmd.Flags().Changed("to") {
				return writeErr(cmd, errors.New("--to requires --move <task-id>"))
			}

			st, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			meta := map[string]any{}
			if moveID != "" {
				res, err := board.Move(st, moveID, target)
				if err != nil {
					return writeErr(cmd, err)
				}
				if res.Reason == board.ReasonTaskNotFound {
					return writeErr(cmd, errNotFound("task", moveID))
				}
				if res.Changed {
					if err := saveSession(cmd, app, st); err != nil {
						return writeErr(cmd, err)
					}
				}
				meta["move"] = res
				meta["saved"] = app.Save && res.Changed
			}

			cols := view.ByStatus(st.Tasks())
			meta["total"] = cols.Total()
			return writeOut(cmd, app, envelope(boardColumns{cols: cols}, meta))
		},
	}

	cmd.Flags().StringVar(&moveID, "move", "", "Task id to move")
	cmd.Flags().StringVar(&target, "to", "", "Drop target: a status column or a task id")
	return cmd
}

type boardColumns struct {
	cols view.Columns
}

func (b boardColumns) MarshalJSON() ([]byte, error) {
	return marshalJSON(b.cols)
}

func (b boardColumns) Headers() []string {
	out := make([]string, 0, len(b.cols))
	for _, c := range b.cols {
		out = append(out, fmt.Sprintf("%s (%d)", c.Status.Label(), len(c.Tasks)))
	}
	return out
}

// Rows lays the columns side by side, one card per cell.
func (b boardColumns) Rows() [][]string {
	depth := 0
	for _, c := range b.cols {
		depth = max(depth, len(c.Tasks))
	}
	rows := make([][]string, depth)
	for r := range rows {
		rows[r] = make([]string, len(b.cols))
		for c, col := range b.cols {
			if r < len(col.Tasks) {
				rows[r][c] = cardLabel(col.Tasks[r])
			}
		}
	}
	return rows
}

func cardLabel(t model.Task) string {
	return fmt.Sprintf("%s %s [%s]", t.ID, t.Title, t.Priority)
}

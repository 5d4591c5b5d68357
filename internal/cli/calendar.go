package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"taskboard/internal/model"
	"taskboard/internal/view"
)

func newCalendarCmd(app *App) *cobra.Command {
	var date string
	var month string
	var week bool

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show tasks by due date (one day, a week or a month grid)",
		Example: strings.TrimSpace(`
taskboard calendar --date 2025-07-30
taskboard calendar --date 2025-07-30 --week
taskboard calendar --month 2025-08
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(date) != "" && strings.TrimSpace(month) != "" {
				return writeErr(cmd, errors.New("pass either --date or --month, not both"))
			}

			st, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()
			tasks := st.Tasks()
			today := st.Today()

			if strings.TrimSpace(month) != "" || (strings.TrimSpace(date) == "" && !week) {
				y, m := today.Year(), today.Month()
				if strings.TrimSpace(month) != "" {
					t, err := time.Parse("2006-01", strings.TrimSpace(month))
					if err != nil {
						return writeErr(cmd, fmt.Errorf("%w: --month %q (expected YYYY-MM)", model.ErrMalformedDate, month))
					}
					y, m = t.Year(), t.Month()
				}
				grid := view.MonthGrid(y, m, tasks)
				return writeOut(cmd, app, envelope(monthTable{grid: grid}, map[string]any{
					"today": today.String(),
				}))
			}

			day := today
			if strings.TrimSpace(date) != "" {
				day, err = model.ParseDate(date)
				if err != nil {
					return writeErr(cmd, err)
				}
			}
			if week {
				days := view.WeekOf(day, tasks)
				return writeOut(cmd, app, envelope(days, map[string]any{
					"from": days[0].Date.String(),
					"to":   days[len(days)-1].Date.String(),
				}))
			}
			onDay := view.OnDate(tasks, day)
			return writeOut(cmd, app, envelope(taskList{tasks: onDay, roster: st.Roster()}, map[string]any{
				"date":  day.String(),
				"count": len(onDay),
			}))
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to show (YYYY-MM-DD)")
	cmd.Flags().StringVar(&month, "month", "", "Month grid to show (YYYY-MM, default: current month)")
	cmd.Flags().BoolVar(&week, "week", false, "Show the Sunday-first week around --date (default: today)")
	return cmd
}

// monthTable prints a month as a Sunday-first grid; each cell is the day
// number plus the ids of tasks due that day.
type monthTable struct {
	grid view.Month
}

func (m monthTable) MarshalJSON() ([]byte, error) {
	return marshalJSON(m.grid)
}

func (m monthTable) Headers() []string {
	return []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
}

func (m monthTable) Rows() [][]string {
	rows := make([][]string, 0, len(m.grid.Weeks))
	for _, w := range m.grid.Weeks {
		row := make([]string, 7)
		for i, d := range w {
			if d == nil {
				continue
			}
			cell := fmt.Sprintf("%d", d.Date.Day())
			for _, t := range d.Tasks {
				cell += "\n" + t.ID
			}
			row[i] = cell
		}
		rows = append(rows, row)
	}
	return rows
}

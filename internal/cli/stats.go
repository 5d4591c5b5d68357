package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskboard/internal/model"
	"taskboard/internal/view"
)

func newStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Board metrics: totals, overdue, completion rate, distributions, team workload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			today := st.Today()
			s := view.Summarize(st.Tasks(), today, st.Roster())
			return writeOut(cmd, app, envelope(statsTable{s: s}, map[string]any{
				"today": today.String(),
			}))
		},
	}
}

type statsTable struct {
	s view.Summary
}

func (t statsTable) MarshalJSON() ([]byte, error) { return marshalJSON(t.s) }

func (t statsTable) Headers() []string { return []string{"METRIC", "VALUE"} }

func (t statsTable) Rows() [][]string {
	rows := [][]string{
		{"Total", fmt.Sprint(t.s.Total)},
		{"Completed", fmt.Sprint(t.s.Completed)},
		{"In progress", fmt.Sprint(t.s.InProgress)},
		{"Overdue", fmt.Sprint(t.s.Overdue)},
		{"Completion rate", fmt.Sprintf("%d%%", t.s.CompletionRate)},
	}
	for _, c := range t.s.ByPriority {
		rows = append(rows, []string{"Priority " + c.Name, fmt.Sprint(c.Value)})
	}
	for _, c := range t.s.ByStatus {
		rows = append(rows, []string{"Status " + c.Name, fmt.Sprint(c.Value)})
	}
	for _, w := range t.s.Team {
		rows = append(rows, []string{w.Name, fmt.Sprintf("%d/%d done (%d%%)", w.Completed, w.Assigned, w.Efficiency)})
	}
	return rows
}

func newRosterCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "roster",
		Short: "List the team members tasks can be assigned to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOut(cmd, app, envelope(rosterTable(model.DefaultRoster()), nil))
		},
	}
}

type rosterTable model.Roster

func (r rosterTable) Headers() []string { return []string{"ID", "NAME"} }

func (r rosterTable) Rows() [][]string {
	rows := make([][]string, 0, len(r))
	for _, m := range r {
		rows = append(rows, []string{m.ID, m.Name})
	}
	return rows
}

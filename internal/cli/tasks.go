package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"taskboard/internal/model"
	"taskboard/internal/statusutil"
	"taskboard/internal/view"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task"},
		Short:   "Task commands",
	}

	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksShowCmd(app))
	cmd.AddCommand(newTasksAddCmd(app))
	cmd.AddCommand(newTasksUpdateCmd(app))
	cmd.AddCommand(newTasksDeleteCmd(app))

	return cmd
}

func newTasksListCmd(app *App) *cobra.Command {
	var search, status, priority, assignee, sortKey string
	var desc bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks (search, filter, sort)",
		Example: strings.TrimSpace(`
taskboard tasks list --search api
taskboard tasks list --status in-progress --assignee MK
taskboard tasks list --sort priority --desc --format table
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := buildQuery(search, status, priority, assignee, sortKey, desc)
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			all := st.Tasks()
			tasks := view.Apply(all, q)
			return writeOut(cmd, app, envelope(taskList{tasks: tasks, roster: st.Roster()}, map[string]any{
				"count": len(tasks),
				"total": len(all),
				"query": q,
			}))
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive match on title or description")
	cmd.Flags().StringVar(&status, "status", view.All, "Status filter (todo|in-progress|review|done|all)")
	cmd.Flags().StringVar(&priority, "priority", view.All, "Priority filter (Low|Medium|High|all)")
	cmd.Flags().StringVar(&assignee, "assignee", view.All, "Assignee filter (member id or all)")
	cmd.Flags().StringVar(&sortKey, "sort", "", "Sort key (title|dueDate|priority|status)")
	cmd.Flags().BoolVar(&desc, "desc", false, "Sort descending")
	return cmd
}

func buildQuery(search, status, priority, assignee, sortKey string, desc bool) (view.Query, error) {
	dir := view.Asc
	if desc {
		dir = view.Desc
	}
	return view.ParseQuery(search, status, priority, assignee, sortKey, string(dir))
}

func newTasksShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			t, ok := st.Get(strings.TrimSpace(args[0]))
			if !ok {
				return writeErr(cmd, errNotFound("task", args[0]))
			}
			return writeOut(cmd, app, envelope(taskItem{task: t, roster: st.Roster()}, map[string]any{
				"assigneeName": st.Roster().Label(t.Assignee),
				"overdue":      view.IsOverdue(t, st.Today()),
			}))
		},
	}
}

type taskFlags struct {
	title, description, priority, assignee, due, status string
}

func (f *taskFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "Title")
	cmd.Flags().StringVar(&f.description, "description", "", "Description (markdown)")
	cmd.Flags().StringVar(&f.priority, "priority", "", "Priority (Low|Medium|High)")
	cmd.Flags().StringVar(&f.assignee, "assignee", "", "Assignee member id (see: taskboard roster)")
	cmd.Flags().StringVar(&f.due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.status, "status", "", "Status (todo|in-progress|review|done)")
}

func newTasksAddCmd(app *App) *cobra.Command {
	var f taskFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task",
		Long: strings.TrimSpace(`
Add a task to the board.

Unset fields default to: priority Medium, status todo, assignee JD, due today.
`),
		Example: strings.TrimSpace(`
taskboard tasks add --title "Write release notes" --priority High --due 2025-08-01
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(f.title) == "" {
				return writeErr(cmd, errors.New("missing --title"))
			}
			d := model.Draft{Title: f.title, Description: f.description, Assignee: f.assignee}
			if strings.TrimSpace(f.priority) != "" {
				p, err := statusutil.ParsePriority(f.priority)
				if err != nil {
					return writeErr(cmd, err)
				}
				d.Priority = p
			}
			if strings.TrimSpace(f.status) != "" {
				s, err := statusutil.ParseStatus(f.status)
				if err != nil {
					return writeErr(cmd, err)
				}
				d.Status = s
			}
			if strings.TrimSpace(f.due) != "" {
				due, err := model.ParseDate(f.due)
				if err != nil {
					return writeErr(cmd, err)
				}
				d.DueDate = due
			}

			st, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			t, err := st.Add(d.WithDefaults(st.Today()))
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := saveSession(cmd, app, st); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope(taskItem{task: t, roster: st.Roster()}, sessionMeta(app)))
		},
	}
	f.register(cmd)
	return cmd
}

func newTasksUpdateCmd(app *App) *cobra.Command {
	var f taskFlags

	cmd := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Update fields of a task (only the flags you pass change)",
		Example: strings.TrimSpace(`
taskboard tasks update task-3 --status review
taskboard tasks update task-3 --title "API integration v2" --due 2025-08-10
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := patchFromFlags(cmd, f)
			if err != nil {
				return writeErr(cmd, err)
			}
			if p.Empty() {
				return writeErr(cmd, errors.New("nothing to update (pass at least one of --title --description --priority --assignee --due --status)"))
			}

			st, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			t, err := st.Update(args[0], p)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := saveSession(cmd, app, st); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope(taskItem{task: t, roster: st.Roster()}, sessionMeta(app)))
		},
	}
	f.register(cmd)
	return cmd
}

// patchFromFlags only sets fields whose flags were passed, so an explicit
// empty --description clears it.
func patchFromFlags(cmd *cobra.Command, f taskFlags) (model.Patch, error) {
	var p model.Patch
	changed := cmd.Flags().Changed
	if changed("title") {
		p.Title = &f.title
	}
	if changed("description") {
		p.Description = &f.description
	}
	if changed("assignee") {
		p.Assignee = &f.assignee
	}
	if changed("priority") {
		pr, err := statusutil.ParsePriority(f.priority)
		if err != nil {
			return model.Patch{}, err
		}
		p.Priority = &pr
	}
	if changed("status") {
		s, err := statusutil.ParseStatus(f.status)
		if err != nil {
			return model.Patch{}, err
		}
		p.Status = &s
	}
	if changed("due") {
		d, err := model.ParseDate(f.due)
		if err != nil {
			return model.Patch{}, err
		}
		p.DueDate = &d
	}
	return p, nil
}

func newTasksDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <task-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			removed, err := st.Delete(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := saveSession(cmd, app, st); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope(taskItem{task: removed, roster: st.Roster()}, map[string]any{
				"deleted":   removed.ID,
				"remaining": st.Len(),
				"saved":     app.Save,
			}))
		},
	}
}

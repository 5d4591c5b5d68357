package cli

import (
	"encoding/json"
	"strings"

	"taskboard/internal/format"
	"taskboard/internal/model"
	"taskboard/internal/store"
)

func envelope(data any, meta any) format.Envelope {
	return format.Envelope{Data: data, Meta: meta}
}

func sessionMeta(app *App) map[string]any {
	m := map[string]any{"saved": app.Save}
	if seed := strings.TrimSpace(app.Seed); seed != "" {
		m["seed"] = seed
	}
	return m
}

func marshalJSON(v any) ([]byte, error) { return json.Marshal(v) }

func errNotFound(kind, id string) error {
	return store.NotFoundError{Kind: kind, ID: strings.TrimSpace(id)}
}

var taskHeaders = []string{"ID", "TITLE", "STATUS", "PRIORITY", "ASSIGNEE", "DUE"}

func taskRow(t model.Task, roster model.Roster) []string {
	return []string{t.ID, t.Title, t.Status.Label(), string(t.Priority), roster.Label(t.Assignee), t.DueDate.String()}
}

// taskList encodes as a JSON array of tasks and prints as a table.
type taskList struct {
	tasks  []model.Task
	roster model.Roster
}

func (l taskList) MarshalJSON() ([]byte, error) {
	if l.tasks == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.tasks)
}

func (l taskList) Headers() []string { return taskHeaders }

func (l taskList) Rows() [][]string {
	rows := make([][]string, 0, len(l.tasks))
	for _, t := range l.tasks {
		rows = append(rows, taskRow(t, l.roster))
	}
	return rows
}

// taskItem encodes as a single task object.
type taskItem struct {
	task   model.Task
	roster model.Roster
}

func (i taskItem) MarshalJSON() ([]byte, error) { return json.Marshal(i.task) }

func (i taskItem) Headers() []string { return taskHeaders }

func (i taskItem) Rows() [][]string { return [][]string{taskRow(i.task, i.roster)} }

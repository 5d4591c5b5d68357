package view

import (
	"strings"

	"taskboard/internal/model"
)

type Column struct {
	Status model.Status `json:"status"`
	Tasks  []model.Task `json:"tasks"`
}

// Columns holds one bucket per status in workflow order.
type Columns []Column

// ByStatus partitions tasks into the four status buckets, keeping list order
// inside each bucket.
func ByStatus(tasks []model.Task) Columns {
	statuses := model.Statuses()
	cols := make(Columns, len(statuses))
	idx := make(map[model.Status]int, len(statuses))
	for i, st := range statuses {
		cols[i] = Column{Status: st, Tasks: []model.Task{}}
		idx[st] = i
	}
	for _, t := range tasks {
		if i, ok := idx[t.Status]; ok {
			cols[i].Tasks = append(cols[i].Tasks, t)
		}
	}
	return cols
}

func (c Columns) Column(st model.Status) []model.Task {
	for _, col := range c {
		if col.Status == st {
			return col.Tasks
		}
	}
	return nil
}

// IndexOf returns the column holding task id and its position there.
func (c Columns) IndexOf(id string) (col int, row int, ok bool) {
	for ci, column := range c {
		for ri, t := range column.Tasks {
			if t.ID == id {
				return ci, ri, true
			}
		}
	}
	return 0, 0, false
}

func (c Columns) Total() int {
	n := 0
	for _, col := range c {
		n += len(col.Tasks)
	}
	return n
}

// OnDate returns the tasks due exactly on d.
func OnDate(tasks []model.Task, d model.Date) []model.Task {
	out := []model.Task{}
	for _, t := range tasks {
		if t.DueDate.Equal(d) {
			out = append(out, t)
		}
	}
	return out
}

func IsOverdue(t model.Task, today model.Date) bool {
	return t.Status != model.StatusDone && t.DueDate.Before(today)
}

type AssigneeOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Assignees lists the distinct assignees of tasks in first-seen order,
// labelled from roster when known.
func Assignees(tasks []model.Task, roster model.Roster) []AssigneeOption {
	seen := map[string]bool{}
	out := []AssigneeOption{}
	for _, t := range tasks {
		a := strings.TrimSpace(t.Assignee)
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, AssigneeOption{Value: a, Label: roster.Label(a)})
	}
	return out
}

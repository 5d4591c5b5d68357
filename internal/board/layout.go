package board

import (
	"taskboard/internal/model"
	"taskboard/internal/view"
)

// Layout is the on-screen card order of a board. Reordering inside a column
// only changes the layout; Refresh rebuilds it from the tasks and drops any
// manual order.
type Layout struct {
	cols view.Columns
}

func NewLayout(tasks []model.Task) *Layout {
	return &Layout{cols: view.ByStatus(tasks)}
}

func (l *Layout) Refresh(tasks []model.Task) {
	l.cols = view.ByStatus(tasks)
}

func (l *Layout) Columns() view.Columns {
	out := make(view.Columns, len(l.cols))
	for i, c := range l.cols {
		out[i] = view.Column{Status: c.Status, Tasks: append([]model.Task(nil), c.Tasks...)}
	}
	return out
}

// Reorder moves the card at index from to index to within one column.
// It reports false when either index is out of range.
func (l *Layout) Reorder(status model.Status, from, to int) bool {
	for i := range l.cols {
		if l.cols[i].Status != status {
			continue
		}
		tasks := l.cols[i].Tasks
		if from < 0 || from >= len(tasks) || to < 0 || to >= len(tasks) {
			return false
		}
		if from == to {
			return true
		}
		t := tasks[from]
		tasks = append(tasks[:from], tasks[from+1:]...)
		tasks = append(tasks[:to], append([]model.Task{t}, tasks[to:]...)...)
		l.cols[i].Tasks = tasks
		return true
	}
	return false
}

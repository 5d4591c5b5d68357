package board

import (
	"errors"
	"strings"

	"taskboard/internal/model"
	"taskboard/internal/statusutil"
	"taskboard/internal/store"
)

// Tasks is the part of the session store the board mutates.
type Tasks interface {
	Get(id string) (model.Task, bool)
	Update(id string, p model.Patch) (model.Task, error)
}

var ErrInvalidStatus = errors.New("invalid status")

const (
	ReasonTaskNotFound  = "task not found"
	ReasonInvalidTarget = "invalid drop target"
	ReasonSameColumn    = "same column"
)

type MoveResult struct {
	Task    model.Task   `json:"task"`
	Changed bool         `json:"changed"`
	From    model.Status `json:"from"`
	To      model.Status `json:"to"`
	Reason  string       `json:"reason,omitempty"`
}

// ResolveTarget maps a drop target to a column. A target is either an exact
// column id (todo, in-progress, review, done) or the id of a task, in which
// case the task's column is used.
func ResolveTarget(st Tasks, target string) (model.Status, bool) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", false
	}
	if status := model.Status(target); status.Valid() {
		return status, true
	}
	if t, ok := st.Get(target); ok {
		return t.Status, true
	}
	return "", false
}

// Move handles a card dropped on target. Drops on an unknown target, on the
// card's own column or of an unknown card change nothing and report why in
// Reason. Order within a column is not stored, see Layout.
func Move(st Tasks, taskID, target string) (MoveResult, error) {
	taskID = strings.TrimSpace(taskID)
	t, ok := st.Get(taskID)
	if !ok {
		return MoveResult{Reason: ReasonTaskNotFound}, nil
	}
	res := MoveResult{Task: t, From: t.Status, To: t.Status}

	to, ok := ResolveTarget(st, target)
	if !ok {
		res.Reason = ReasonInvalidTarget
		return res, nil
	}
	if to == t.Status {
		res.Reason = ReasonSameColumn
		return res, nil
	}

	updated, err := st.Update(taskID, model.Patch{Status: &to})
	if err != nil {
		// Deleted between Get and Update.
		if store.IsNotFound(err) {
			return MoveResult{Reason: ReasonTaskNotFound}, nil
		}
		return MoveResult{}, err
	}
	res.Task = updated
	res.To = updated.Status
	res.Changed = true
	return res, nil
}

// SetStatus is the explicit status selection: any status may follow any other.
func SetStatus(st Tasks, taskID string, status model.Status) (MoveResult, error) {
	taskID = strings.TrimSpace(taskID)
	if !status.Valid() {
		return MoveResult{}, ErrInvalidStatus
	}
	t, ok := st.Get(taskID)
	if !ok {
		return MoveResult{}, store.NotFoundError{Kind: "task", ID: taskID}
	}
	if t.Status == status {
		return MoveResult{Task: t, From: t.Status, To: t.Status, Reason: ReasonSameColumn}, nil
	}
	updated, err := st.Update(taskID, model.Patch{Status: &status})
	if err != nil {
		return MoveResult{}, err
	}
	return MoveResult{Task: updated, Changed: true, From: t.Status, To: updated.Status}, nil
}

// Shift moves a task one column left (delta<0) or right (delta>0), stopping at the edges.
func Shift(st Tasks, taskID string, delta int) (MoveResult, error) {
	t, ok := st.Get(strings.TrimSpace(taskID))
	if !ok {
		return MoveResult{Reason: ReasonTaskNotFound}, nil
	}
	to := t.Status
	switch {
	case delta > 0:
		to = statusutil.Next(t.Status)
	case delta < 0:
		to = statusutil.Prev(t.Status)
	}
	return Move(st, t.ID, string(to))
}

package view

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"taskboard/internal/model"
)

// All disables a filter.
const All = "all"

type SortKey string

const (
	SortNone     SortKey = ""
	SortTitle    SortKey = "title"
	SortDueDate  SortKey = "dueDate"
	SortPriority SortKey = "priority"
	SortStatus   SortKey = "status"
)

func SortKeys() []SortKey {
	return []SortKey{SortTitle, SortDueDate, SortPriority, SortStatus}
}

func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return SortNone, nil
	case "title":
		return SortTitle, nil
	case "duedate", "due", "due-date", "due_date":
		return SortDueDate, nil
	case "priority":
		return SortPriority, nil
	case "status":
		return SortStatus, nil
	}
	return "", fmt.Errorf("invalid sort key %q (expected title|dueDate|priority|status)", s)
}

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Asc, nil
	case "desc", "descending":
		return Desc, nil
	}
	return "", fmt.Errorf("invalid sort direction %q (expected asc|desc)", s)
}

func (d Direction) Toggle() Direction {
	if d == Desc {
		return Asc
	}
	return Desc
}

// Query configures the task list view. Empty filter values behave like All.
type Query struct {
	Search    string    `json:"search"`
	Status    string    `json:"status"`
	Priority  string    `json:"priority"`
	Assignee  string    `json:"assignee"`
	SortKey   SortKey   `json:"sortKey"`
	Direction Direction `json:"direction"`
}

// DefaultQuery is the list view's initial state: everything, soonest due first.
func DefaultQuery() Query {
	return Query{Status: All, Priority: All, Assignee: All, SortKey: SortDueDate, Direction: Asc}
}

// Unsorted is q with sorting turned off. Board columns use it so cards stay
// in list order.
func (q Query) Unsorted() Query {
	q.SortKey = SortNone
	q.Direction = Asc
	return q
}

// Apply returns the tasks matching q, sorted by q.SortKey.
// Search is a plain substring match; whitespace in it is significant.
// The input slice is not modified.
func Apply(tasks []model.Task, q Query) []model.Task {
	// A Caser keeps state and is not safe for concurrent use.
	fold := cases.Fold()
	needle := fold.String(q.Search)

	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if needle != "" &&
			!strings.Contains(fold.String(t.Title), needle) &&
			!strings.Contains(fold.String(t.Description), needle) {
			continue
		}
		if !matches(q.Status, string(t.Status)) ||
			!matches(q.Priority, string(t.Priority)) ||
			!matches(q.Assignee, t.Assignee) {
			continue
		}
		out = append(out, t)
	}

	less := compareBy(q.SortKey, fold)
	if less == nil {
		return out
	}
	if q.Direction == Desc {
		slices.SortStableFunc(out, func(a, b model.Task) int { return less(b, a) })
	} else {
		slices.SortStableFunc(out, less)
	}
	return out
}

func matches(filter, value string) bool {
	filter = strings.TrimSpace(filter)
	return filter == "" || filter == All || filter == value
}

func compareBy(key SortKey, fold cases.Caser) func(a, b model.Task) int {
	switch key {
	case SortTitle:
		return func(a, b model.Task) int {
			return strings.Compare(fold.String(a.Title), fold.String(b.Title))
		}
	case SortDueDate:
		return func(a, b model.Task) int { return a.DueDate.Compare(b.DueDate) }
	case SortPriority:
		return func(a, b model.Task) int { return cmp.Compare(a.Priority.Severity(), b.Priority.Severity()) }
	case SortStatus:
		return func(a, b model.Task) int { return cmp.Compare(a.Status.Rank(), b.Status.Rank()) }
	}
	return nil
}

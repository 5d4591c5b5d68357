package statusutil

import (
	"fmt"
	"strings"

	"taskboard/internal/model"
)

// ParseStatus accepts the canonical ids plus the spellings people type:
// "TODO", "to do", "in progress", "doing", "in_progress", "Review", "DONE".
func ParseStatus(s string) (model.Status, error) {
	key := normalizeKey(s)
	switch key {
	case "todo", "to-do":
		return model.StatusTodo, nil
	case "in-progress", "inprogress", "doing", "wip":
		return model.StatusInProgress, nil
	case "review", "in-review":
		return model.StatusReview, nil
	case "done", "complete", "completed":
		return model.StatusDone, nil
	case "":
		return "", fmt.Errorf("invalid status: empty")
	default:
		return "", fmt.Errorf("invalid status: %q (expected todo|in-progress|review|done)", strings.TrimSpace(s))
	}
}

// ParsePriority accepts Low/Medium/High in any case, plus l/m/h and "med".
func ParsePriority(s string) (model.Priority, error) {
	switch normalizeKey(s) {
	case "low", "l":
		return model.PriorityLow, nil
	case "medium", "med", "m":
		return model.PriorityMedium, nil
	case "high", "h":
		return model.PriorityHigh, nil
	case "":
		return "", fmt.Errorf("invalid priority: empty")
	default:
		return "", fmt.Errorf("invalid priority: %q (expected Low|Medium|High)", strings.TrimSpace(s))
	}
}

// IsStatus reports whether s names one of the board columns.
func IsStatus(s string) bool {
	_, err := ParseStatus(s)
	return err == nil
}

func IsEndState(st model.Status) bool {
	return st == model.StatusDone
}

// Next returns the column to the right of st (or st itself at the end).
func Next(st model.Status) model.Status {
	return shift(st, 1)
}

// Prev returns the column to the left of st (or st itself at the start).
func Prev(st model.Status) model.Status {
	return shift(st, -1)
}

func shift(st model.Status, delta int) model.Status {
	all := model.Statuses()
	r := st.Rank()
	if r == 0 {
		return st
	}
	i := r - 1 + delta
	if i < 0 || i >= len(all) {
		return st
	}
	return all[i]
}

func normalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", "-")
	s = strings.Join(strings.Fields(s), "-")
	return s
}

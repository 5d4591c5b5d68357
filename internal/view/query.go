package view

import (
	"strings"

	"taskboard/internal/statusutil"
)

// ParseQuery builds a Query from user input (flags, URL parameters).
// Search text is kept as typed, surrounding spaces included.
// Empty or "all" filters match everything; status and priority accept the
// usual spellings ("in progress", "high").
func ParseQuery(search, status, priority, assignee, sortKey, direction string) (Query, error) {
	q := Query{Search: search, Status: All, Priority: All, Assignee: All}
	if s := strings.TrimSpace(status); s != "" && !strings.EqualFold(s, All) {
		parsed, err := statusutil.ParseStatus(s)
		if err != nil {
			return Query{}, err
		}
		q.Status = string(parsed)
	}
	if p := strings.TrimSpace(priority); p != "" && !strings.EqualFold(p, All) {
		parsed, err := statusutil.ParsePriority(p)
		if err != nil {
			return Query{}, err
		}
		q.Priority = string(parsed)
	}
	if a := strings.TrimSpace(assignee); a != "" && !strings.EqualFold(a, All) {
		q.Assignee = a
	}
	key, err := ParseSortKey(sortKey)
	if err != nil {
		return Query{}, err
	}
	q.SortKey = key
	dir, err := ParseDirection(direction)
	if err != nil {
		return Query{}, err
	}
	q.Direction = dir
	return q, nil
}

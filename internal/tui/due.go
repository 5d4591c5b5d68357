package tui

import (
	"strings"

	"github.com/dustin/go-humanize"

	"taskboard/internal/model"
)

// dueLabel renders a due date relative to today: "due today", "due 3 days from now",
// "overdue 2 days". Done tasks just show the date.
func dueLabel(t model.Task, today model.Date) string {
	if t.DueDate.IsZero() {
		return "no due date"
	}
	if t.Status == model.StatusDone {
		return t.DueDate.String()
	}
	switch c := t.DueDate.Compare(today); {
	case c == 0:
		return "due today"
	case c < 0:
		return "overdue " + strings.TrimSpace(humanize.CustomRelTime(t.DueDate.Time(), today.Time(), "", "", dayMagnitudes))
	default:
		return "due " + humanize.CustomRelTime(t.DueDate.Time(), today.Time(), "ago", "from now", dayMagnitudes)
	}
}

// Dates have no time of day, so the smallest unit is a day.
var dayMagnitudes = []humanize.RelTimeMagnitude{
	{D: 2 * humanize.Day, Format: "1 day %s", DivBy: 1},
	{D: humanize.Week, Format: "%d days %s", DivBy: humanize.Day},
	{D: 2 * humanize.Week, Format: "1 week %s", DivBy: 1},
	{D: humanize.Month, Format: "%d weeks %s", DivBy: humanize.Week},
	{D: 2 * humanize.Month, Format: "1 month %s", DivBy: 1},
	{D: humanize.Year, Format: "%d months %s", DivBy: humanize.Month},
	{D: 2 * humanize.Year, Format: "1 year %s", DivBy: 1},
	{D: humanize.LongTime, Format: "%d years %s", DivBy: humanize.Year},
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"taskboard/internal/view"
)

func (m appModel) renderStats(height int) string {
	s := view.Summarize(m.tasks, m.today, m.st.Roster())

	tile := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorCardBorder).Padding(0, 2).Width(18)
	tiles := lipgloss.JoinHorizontal(lipgloss.Top,
		tile.Render(statTile("Total", fmt.Sprint(s.Total))),
		tile.Render(statTile("Completed", fmt.Sprint(s.Completed))),
		tile.Render(statTile("In progress", fmt.Sprint(s.InProgress))),
		tile.Render(statTile("Overdue", lipgloss.NewStyle().Foreground(colorOverdue).Render(fmt.Sprint(s.Overdue)))),
		tile.Render(statTile("Completion", fmt.Sprintf("%d%%", s.CompletionRate))),
	)

	barW := max(min(m.width/3, 40), 10)
	var left strings.Builder
	left.WriteString(lipgloss.NewStyle().Bold(true).Render("By status") + "\n")
	for _, c := range s.ByStatus {
		left.WriteString(barLine(c.Name, c.Value, s.Total, barW, colorAccent) + "\n")
	}
	left.WriteString("\n" + lipgloss.NewStyle().Bold(true).Render("By priority") + "\n")
	for _, c := range s.ByPriority {
		left.WriteString(barLine(c.Name, c.Value, s.Total, barW, colorAccent) + "\n")
	}

	var right strings.Builder
	right.WriteString(lipgloss.NewStyle().Bold(true).Render("Team") + "\n")
	if len(s.Team) == 0 {
		right.WriteString(styleMuted().Render("No assignees."))
	}
	for _, w := range s.Team {
		right.WriteString(fmt.Sprintf("%-14s %2d/%-2d ", truncate(w.Name, 14), w.Completed, w.Assigned))
		right.WriteString(barLine("", w.Efficiency, 100, barW/2, colorStatusDone) + "\n")
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, left.String(), "    ", right.String())
	return normalizePane(tiles+"\n\n"+body, m.width, height)
}

func statTile(label, value string) string {
	return styleMuted().Render(label) + "\n" + lipgloss.NewStyle().Bold(true).Render(value)
}

// barLine renders "label ████░░░░ n" scaled to value/total.
func barLine(label string, value, total, width int, color lipgloss.TerminalColor) string {
	filled := 0
	if total > 0 {
		filled = value * width / total
	}
	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		styleMuted().Render(strings.Repeat("░", width-filled))
	if label == "" {
		return fmt.Sprintf("%s %d%%", bar, value)
	}
	return fmt.Sprintf("%-12s %s %d", truncate(label, 12), bar, value)
}

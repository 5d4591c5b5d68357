package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"taskboard/internal/view"
)

func (m appModel) renderDetail() string {
	t, ok := m.taskByID(m.targetID)
	if !ok {
		return overlayBox("Task", styleMuted().Render("This task no longer exists."), m.overlayWidth())
	}
	w := m.overlayWidth() - 4
	label := styleMuted().Width(10)

	due := t.DueDate.String() + "  " + styleMuted().Render(dueLabel(t, m.today))
	if view.IsOverdue(t, m.today) {
		due = t.DueDate.String() + "  " + lipgloss.NewStyle().Foreground(colorOverdue).Render(dueLabel(t, m.today))
	}
	rows := []string{
		label.Render("Status") + statusBadge(t.Status),
		label.Render("Priority") + priorityBadge(t.Priority),
		label.Render("Assignee") + fmt.Sprintf("%s (%s)", m.st.Roster().Label(t.Assignee), t.Assignee),
		label.Render("Due") + due,
		label.Render("ID") + styleMuted().Render(t.ID),
	}

	desc := renderMarkdown(t.Description, w)
	if desc == "" {
		desc = styleMuted().Render("No description.")
	}

	hint := styleMuted().Render("H/L move · m move to… · y copy id · D delete · esc close")
	body := strings.Join(rows, "\n") + "\n\n" + desc + "\n\n" + hint
	return overlayBox(t.Title, body, m.overlayWidth())
}

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskboard/internal/model"
	"taskboard/internal/view"
)

func (m appModel) updateCalendar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Left):
		m.calDay = m.calDay.AddDays(-1)
	case key.Matches(msg, k.Right):
		m.calDay = m.calDay.AddDays(1)
	case key.Matches(msg, k.Up):
		m.calDay = m.calDay.AddDays(-7)
	case key.Matches(msg, k.Down):
		m.calDay = m.calDay.AddDays(7)
	case key.Matches(msg, k.PrevMonth):
		m.calDay = addMonths(m.calDay, -1)
	case key.Matches(msg, k.NextMonth):
		m.calDay = addMonths(m.calDay, 1)
	case key.Matches(msg, k.Today):
		m.calDay = m.today
	case key.Matches(msg, k.Add):
		return m.openForm(model.StatusTodo, m.calDay)
	case key.Matches(msg, k.Detail):
		if day := view.OnDate(m.visible(), m.calDay); len(day) > 0 {
			return m.openDetail(day[0].ID)
		}
	case key.Matches(msg, k.Search):
		return m.startSearch()
	}
	return m, nil
}

// addMonths moves d by n months, clamping the day to the target month's length.
func addMonths(d model.Date, n int) model.Date {
	first := model.NewDate(d.Year(), d.Month()+time.Month(n), 1)
	last := model.NewDate(first.Year(), first.Month()+1, 0)
	return model.NewDate(first.Year(), first.Month(), min(d.Day(), last.Day()))
}

func (m appModel) renderCalendar(height int) string {
	tasks := m.visible()
	grid := view.MonthGrid(m.calDay.Year(), m.calDay.Month(), tasks)

	sideW := min(max(m.width/3, 24), 48)
	gridW := max(m.width-sideW-2, 7*6)
	cellW := gridW / 7

	title := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%s %d", grid.Month, grid.Year))
	var b strings.Builder
	b.WriteString(title + "\n")
	for _, wd := range []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"} {
		b.WriteString(styleMuted().Render(padRight(wd, cellW)))
	}
	b.WriteString("\n")

	// Each week row: day numbers, then up to two task titles per day.
	const perDay = 2
	for _, w := range grid.Weeks {
		for line := 0; line <= perDay; line++ {
			for _, d := range w {
				b.WriteString(m.calendarCell(d, line, perDay, cellW))
			}
			b.WriteString("\n")
		}
	}

	side := m.renderDayPanel(view.OnDate(tasks, m.calDay), sideW)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		normalizePane(strings.TrimRight(b.String(), "\n"), gridW, height),
		"  ",
		normalizePane(side, sideW, height),
	)
}

func (m appModel) calendarCell(d *view.Day, line, perDay, width int) string {
	if d == nil {
		return strings.Repeat(" ", width)
	}
	if line == 0 {
		label := fmt.Sprintf("%2d", d.Date.Day())
		st := lipgloss.NewStyle()
		switch {
		case d.Date.Equal(m.calDay):
			st = styleSelected()
		case d.Date.Equal(m.today):
			st = st.Foreground(colorAccent).Bold(true)
		}
		return padRight(st.Render(label), width)
	}
	i := line - 1
	switch {
	case i < perDay-1 && i < len(d.Tasks),
		i == perDay-1 && len(d.Tasks) == perDay:
		t := d.Tasks[i]
		dot := lipgloss.NewStyle().Foreground(priorityColor(t.Priority)).Render("•")
		return padRight(dot+truncate(t.Title, width-2), width)
	case i == perDay-1 && len(d.Tasks) > perDay:
		return padRight(styleMuted().Render(fmt.Sprintf("+%d more", len(d.Tasks)-i)), width)
	}
	return strings.Repeat(" ", width)
}

func (m appModel) renderDayPanel(tasks []model.Task, width int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(m.calDay.Time().Format("Monday, January 2")) + "\n\n")
	if len(tasks) == 0 {
		b.WriteString(styleMuted().Render("No tasks due."))
		return b.String()
	}
	roster := m.st.Roster()
	for _, t := range tasks {
		b.WriteString(truncate(t.Title, width) + "\n")
		b.WriteString(truncate(fmt.Sprintf("%s · %s · %s", priorityBadge(t.Priority), statusBadge(t.Status), roster.Label(t.Assignee)), width) + "\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func padRight(s string, width int) string {
	s = truncate(s, width)
	if w := lipgloss.Width(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskboard/internal/model"
	"taskboard/internal/view"
)

// boardSelection tracks the focused card. TaskID wins over Col/Row when the
// card still exists, so selection follows a card across refreshes.
type boardSelection struct {
	Col    int
	Row    int
	TaskID string
}

func clampSelection(cols view.Columns, sel boardSelection) boardSelection {
	if len(cols) == 0 {
		return boardSelection{Row: -1}
	}
	if ci, ri, ok := cols.IndexOf(sel.TaskID); ok && sel.TaskID != "" {
		sel.Col, sel.Row = ci, ri
	} else {
		sel.TaskID = ""
	}
	sel.Col = min(max(sel.Col, 0), len(cols)-1)

	n := len(cols[sel.Col].Tasks)
	if n == 0 {
		sel.Row = -1
		return sel
	}
	sel.Row = min(max(sel.Row, 0), n-1)
	sel.TaskID = cols[sel.Col].Tasks[sel.Row].ID
	return sel
}

func (m appModel) selectedBoardTask() (model.Task, bool) {
	cols := m.layout.Columns()
	sel := clampSelection(cols, m.sel)
	if sel.Row < 0 {
		return model.Task{}, false
	}
	return cols[sel.Col].Tasks[sel.Row], true
}

func (m appModel) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	cols := m.layout.Columns()
	sel := clampSelection(cols, m.sel)
	selected, hasSel := m.selectedBoardTask()

	switch {
	case key.Matches(msg, k.Up):
		sel.TaskID = ""
		sel.Row--
	case key.Matches(msg, k.Down):
		sel.TaskID = ""
		sel.Row++
	case key.Matches(msg, k.Left):
		sel.TaskID = ""
		sel.Col--
	case key.Matches(msg, k.Right):
		sel.TaskID = ""
		sel.Col++
	case key.Matches(msg, k.MoveLeft):
		if hasSel {
			return m.shift(selected.ID, -1)
		}
	case key.Matches(msg, k.MoveRight):
		if hasSel {
			return m.shift(selected.ID, +1)
		}
	case key.Matches(msg, k.MoveTo):
		if hasSel {
			m.targetID = selected.ID
			m.overlay = overlayMoveTo
		}
		return m, nil
	case key.Matches(msg, k.ReorderUp), key.Matches(msg, k.ReorderDown):
		if !hasSel {
			return m, nil
		}
		to := sel.Row - 1
		if key.Matches(msg, k.ReorderDown) {
			to = sel.Row + 1
		}
		if m.layout.Reorder(cols[sel.Col].Status, sel.Row, to) {
			// Selection keeps its TaskID and follows the card.
			m.sel = clampSelection(m.layout.Columns(), sel)
		}
		return m, nil
	case key.Matches(msg, k.Refresh):
		m.layout.Refresh(m.boardTasks())
		m.sel = clampSelection(m.layout.Columns(), sel)
		return m, m.setStatus("card order reset", false)
	case key.Matches(msg, k.Add):
		return m.openForm(cols[sel.Col].Status, m.today)
	case key.Matches(msg, k.Detail):
		if hasSel {
			return m.openDetail(selected.ID)
		}
	case key.Matches(msg, k.Delete):
		if hasSel {
			return m.confirmDelete(selected.ID)
		}
	case key.Matches(msg, k.Copy):
		if hasSel {
			return m.copyID(selected.ID)
		}
	case key.Matches(msg, k.Search):
		return m.startSearch()
	}
	m.sel = clampSelection(cols, sel)
	return m, nil
}

func (m appModel) startSearch() (tea.Model, tea.Cmd) {
	m.searching = true
	m.search.SetValue(m.query.Search)
	m.search.CursorEnd()
	return m, m.search.Focus()
}

func renderBoard(cols view.Columns, sel boardSelection, roster model.Roster, today model.Date, width, height int) string {
	width, height = max(width, 0), max(height, 0)
	n := len(cols)
	if n == 0 {
		return normalizePane("", width, height)
	}
	sel = clampSelection(cols, sel)

	gap := 1
	colW := max((width-gap*(n-1))/n, 14)
	innerW := colW - 4

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg).Background(colorControlBg).Width(colW).Padding(0, 1)
	headerSelectedStyle := headerStyle.Foreground(colorSelectedFg).Background(colorSelectedBg)
	card := lipgloss.NewStyle().Width(colW-2).Border(lipgloss.RoundedBorder()).BorderForeground(colorCardBorder).Padding(0, 1)
	cardSelected := card.BorderForeground(colorSelectedBorder).Bold(true)
	muted := styleMuted()

	rendered := make([]string, 0, n)
	for ci, col := range cols {
		hs := headerStyle
		if ci == sel.Col {
			hs = headerSelectedStyle
		}
		head := hs.Render(truncate(fmt.Sprintf("%s  %d", col.Status.Label(), len(col.Tasks)), colW-2))
		head = lipgloss.NewStyle().Foreground(statusColor(col.Status)).Render("▍") + head

		lines := []string{head}
		used := 1
		for ri, t := range col.Tasks {
			st := card
			if ci == sel.Col && ri == sel.Row {
				st = cardSelected
			}
			c := st.Render(cardBody(t, roster, today, innerW))
			h := lipgloss.Height(c)
			if used+h > height && ri > 0 {
				more := len(col.Tasks) - ri
				lines = append(lines, muted.Render(fmt.Sprintf("  +%d more", more)))
				break
			}
			lines = append(lines, c)
			used += h
		}
		if len(col.Tasks) == 0 {
			lines = append(lines, muted.Render("  (empty)"))
		}
		rendered = append(rendered, normalizePane(strings.Join(lines, "\n"), colW, height))
	}

	parts := make([]string, 0, 2*n-1)
	for i, r := range rendered {
		if i > 0 {
			parts = append(parts, strings.Repeat(" ", gap))
		}
		parts = append(parts, r)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func cardBody(t model.Task, roster model.Roster, today model.Date, width int) string {
	title := truncate(t.Title, width)
	assignee := t.Assignee
	if width >= 24 {
		assignee = roster.Label(t.Assignee)
	}
	meta := fmt.Sprintf("%s · %s", priorityBadge(t.Priority), assignee)
	due := dueLabel(t, today)
	if view.IsOverdue(t, today) {
		due = lipgloss.NewStyle().Foreground(colorOverdue).Render(due)
	} else {
		due = styleMuted().Render(due)
	}
	return title + "\n" + truncate(meta, width) + "\n" + truncate(due, width)
}

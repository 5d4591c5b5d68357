package tui

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"taskboard/internal/model"
	"taskboard/internal/view"
)

// taskListItem is one row of the list view.
type taskListItem struct {
	task     model.Task
	assignee string
	due      string
	overdue  bool
}

func (i taskListItem) FilterValue() string { return i.task.Title }
func (i taskListItem) Title() string       { return i.task.Title }
func (i taskListItem) Description() string { return i.task.Description }

// Widths of the priority, status, assignee, due and due-label columns; the
// title takes the rest.
var listColWidths = [...]int{10, 14, 16, 12, 20}

type taskRowDelegate struct{}

func (d taskRowDelegate) Height() int                             { return 1 }
func (d taskRowDelegate) Spacing() int                            { return 0 }
func (d taskRowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d taskRowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(taskListItem)
	if !ok || m.Width() < 4 {
		return
	}
	t := it.task
	if index == m.Index() {
		line := listLine(m.Width(), t.Title, string(t.Priority), t.Status.Label(), it.assignee, t.DueDate.String(), it.due)
		fmt.Fprint(w, styleSelected().Render(line))
		return
	}
	due := it.due
	if it.overdue {
		due = lipgloss.NewStyle().Foreground(colorOverdue).Render(due)
	}
	fmt.Fprint(w, listLine(m.Width(), t.Title, priorityBadge(t.Priority), statusBadge(t.Status), it.assignee, t.DueDate.String(), due))
}

// listLine lays cells out in the list columns, one cell of padding each.
func listLine(width int, title string, rest ...string) string {
	fixed := 0
	for _, cw := range listColWidths {
		fixed += cw
	}
	var b strings.Builder
	b.WriteString(listCell(title, max(width-fixed, 12)))
	for i, c := range rest {
		if i < len(listColWidths) {
			b.WriteString(listCell(c, listColWidths[i]))
		}
	}
	return truncate(b.String(), width)
}

func listCell(s string, width int) string {
	s = " " + truncate(s, width-2)
	if w := xansi.StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

func newTaskList() list.Model {
	l := list.New(nil, taskRowDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	// Search and filters are ours; the list only moves the cursor.
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.KeyMap.ShowFullHelp.SetEnabled(false)
	l.KeyMap.CloseFullHelp.SetEnabled(false)
	l.SetStatusBarItemName("task", "tasks")
	return l
}

// syncList reloads the list rows, keeping the cursor on the same task when
// it is still visible.
func (m *appModel) syncList() {
	cur := m.listSelectedID()
	idx := m.tasksList.Index()
	roster := m.st.Roster()
	tasks := m.visible()
	items := make([]list.Item, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, taskListItem{
			task:     t,
			assignee: roster.Label(t.Assignee),
			due:      dueLabel(t, m.today),
			overdue:  view.IsOverdue(t, m.today),
		})
	}
	_ = m.tasksList.SetItems(items)
	if len(items) == 0 {
		return
	}
	if cur != "" && m.selectListTask(cur) {
		return
	}
	m.tasksList.Select(min(max(idx, 0), len(items)-1))
}

func (m *appModel) selectListTask(id string) bool {
	for i, item := range m.tasksList.Items() {
		if it, ok := item.(taskListItem); ok && it.task.ID == id {
			m.tasksList.Select(i)
			return true
		}
	}
	return false
}

func (m appModel) listSelectedID() string {
	if it, ok := m.tasksList.SelectedItem().(taskListItem); ok {
		return it.task.ID
	}
	return ""
}

func (m appModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	id := m.listSelectedID()
	switch {
	case key.Matches(msg, k.Search):
		return m.startSearch()
	case key.Matches(msg, k.Status):
		m.query.Status = cycle(statusFilterOptions(), m.query.Status)
		m.refreshViews()
	case key.Matches(msg, k.Priority):
		m.query.Priority = cycle(priorityFilterOptions(), m.query.Priority)
		m.refreshViews()
	case key.Matches(msg, k.Assignee):
		m.query.Assignee = cycle(assigneeFilterOptions(m.tasks, m.st.Roster()), m.query.Assignee)
		m.refreshViews()
	case key.Matches(msg, k.Sort):
		m.query.SortKey = cycleSortKey(m.query.SortKey)
		m.refreshViews()
	case key.Matches(msg, k.Direction):
		m.query.Direction = m.query.Direction.Toggle()
		m.refreshViews()
	case key.Matches(msg, k.Clear):
		m.query = view.DefaultQuery()
		m.search.SetValue("")
		m.refreshViews()
		return m, m.setStatus("filters cleared", false)
	case key.Matches(msg, k.Add):
		return m.openForm(model.StatusTodo, m.today)
	case key.Matches(msg, k.Detail):
		return m.openDetail(id)
	case key.Matches(msg, k.Delete):
		return m.confirmDelete(id)
	case key.Matches(msg, k.Copy):
		return m.copyID(id)
	case key.Matches(msg, k.MoveLeft):
		return m.shift(id, -1)
	case key.Matches(msg, k.MoveRight):
		return m.shift(id, +1)
	case key.Matches(msg, k.MoveTo):
		if id != "" {
			m.targetID = id
			m.overlay = overlayMoveTo
		}
	default:
		// Cursor and paging keys.
		var cmd tea.Cmd
		m.tasksList, cmd = m.tasksList.Update(msg)
		return m, cmd
	}
	return m, nil
}

func statusFilterOptions() []string {
	out := []string{view.All}
	for _, s := range model.Statuses() {
		out = append(out, string(s))
	}
	return out
}

func priorityFilterOptions() []string {
	out := []string{view.All}
	for _, p := range model.Priorities() {
		out = append(out, string(p))
	}
	return out
}

func assigneeFilterOptions(tasks []model.Task, roster model.Roster) []string {
	out := []string{view.All}
	for _, a := range view.Assignees(tasks, roster) {
		out = append(out, a.Value)
	}
	return out
}

// cycle returns the option after cur, wrapping to the first.
func cycle(opts []string, cur string) string {
	if len(opts) == 0 {
		return cur
	}
	i := slices.Index(opts, cur)
	return opts[(i+1)%len(opts)]
}

func cycleSortKey(cur view.SortKey) view.SortKey {
	keys := append([]view.SortKey{view.SortNone}, view.SortKeys()...)
	i := slices.Index(keys, cur)
	return keys[(i+1)%len(keys)]
}

func (m appModel) renderList(height int) string {
	if len(m.tasksList.Items()) == 0 {
		msg := "No tasks."
		if len(m.tasks) > 0 {
			msg = "No tasks match the current search and filters (c clears them)."
		}
		return styleMuted().Render(msg)
	}

	// One line for the column headings, one for the pager.
	l := m.tasksList
	l.SetSize(m.width, max(height-2, 1))
	header := lipgloss.NewStyle().Bold(true).Foreground(colorMuted).
		Render(listLine(m.width, "TITLE", "PRIORITY", "STATUS", "ASSIGNEE", "DUE", ""))
	out := header + "\n" + l.View()
	if l.Paginator.TotalPages > 1 {
		out += "\n" + styleMuted().Render(fmt.Sprintf("%d of %d · page %d/%d", l.Index()+1, len(l.Items()), l.Paginator.Page+1, l.Paginator.TotalPages))
	}
	return out
}

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskboard/internal/board"
	"taskboard/internal/model"
	"taskboard/internal/store"
	"taskboard/internal/view"
)

type viewMode int

const (
	viewBoard viewMode = iota
	viewList
	viewCalendar
	viewStats
	viewCount
)

func (v viewMode) title() string {
	switch v {
	case viewBoard:
		return "Board"
	case viewList:
		return "List"
	case viewCalendar:
		return "Calendar"
	case viewStats:
		return "Analytics"
	}
	return ""
}

type overlay int

const (
	overlayNone overlay = iota
	overlayForm
	overlayDetail
	overlayMoveTo
	overlayConfirmDelete
)

// storeChangedMsg carries the task list after a store mutation.
type storeChangedMsg struct {
	version uint64
	tasks   []model.Task
}

type clearStatusMsg struct{ seq int }

const statusTTL = 4 * time.Second

type appModel struct {
	st   *store.Store
	keys keyMap
	help help.Model

	width  int
	height int

	view    viewMode
	overlay overlay

	version uint64
	tasks   []model.Task
	today   model.Date

	query     view.Query
	search    textinput.Model
	searching bool

	layout *board.Layout
	sel    boardSelection

	tasksList list.Model

	calDay model.Date

	form     taskForm
	targetID string

	statusMsg string
	statusErr bool
	statusSeq int
}

func newAppModel(st *store.Store) appModel {
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search title or description"
	search.CharLimit = 200

	m := appModel{
		st:     st,
		keys:   defaultKeyMap(),
		help:   help.New(),
		query:  view.DefaultQuery(),
		search: search,
		layout: board.NewLayout(nil),
		today:  st.Today(),
		sel:    boardSelection{Row: -1},

		tasksList: newTaskList(),
	}
	m.calDay = m.today
	m.reload()
	return m
}

func (m appModel) Init() tea.Cmd { return nil }

// reload pulls the current state after one of our own mutations, so the view
// does not wait for the change notification.
func (m *appModel) reload() {
	m.setTasks(m.st.Snapshot())
}

func (m *appModel) setTasks(version uint64, tasks []model.Task) {
	m.version = version
	m.tasks = tasks
	m.today = m.st.Today()
	m.refreshViews()
}

// refreshViews recomputes derived state after tasks or the query changed.
// Manual card order on the board is dropped.
func (m *appModel) refreshViews() {
	m.layout.Refresh(m.boardTasks())
	m.sel = clampSelection(m.layout.Columns(), m.sel)
	m.syncList()
}

// visible is the task list after search, filters and sort.
func (m appModel) visible() []model.Task {
	return view.Apply(m.tasks, m.query)
}

// boardTasks is filtered like visible but keeps list order.
func (m appModel) boardTasks() []model.Task {
	return view.Apply(m.tasks, m.query.Unsorted())
}

func (m *appModel) setStatus(msg string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.statusMsg = msg
	m.statusErr = isErr
	seq := m.statusSeq
	return tea.Tick(statusTTL, func(time.Time) tea.Msg { return clearStatusMsg{seq: seq} })
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.form.setWidth(m.overlayWidth())
		m.tasksList.SetSize(m.width, max(m.height-6, 1))
		return m, nil

	case storeChangedMsg:
		if msg.version <= m.version {
			return m, nil
		}
		m.setTasks(msg.version, msg.tasks)
		if m.targetID != "" && m.overlay != overlayNone && m.overlay != overlayForm {
			if _, ok := m.taskByID(m.targetID); !ok {
				m.overlay = overlayNone
				return m, m.setStatus(fmt.Sprintf("%s was deleted", m.targetID), true)
			}
		}
		return m, nil

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.statusMsg = ""
			m.statusErr = false
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	// Cursor blink and similar input plumbing.
	var cmd tea.Cmd
	switch {
	case m.overlay == overlayForm:
		m.form, cmd = m.form.update(msg)
	case m.searching:
		m.search, cmd = m.search.Update(msg)
	}
	return m, cmd
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.overlay {
	case overlayForm:
		return m.updateForm(msg)
	case overlayDetail:
		return m.updateDetail(msg)
	case overlayMoveTo:
		return m.updateMoveTo(msg)
	case overlayConfirmDelete:
		return m.updateConfirmDelete(msg)
	}
	if m.searching {
		return m.updateSearch(msg)
	}

	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, k.NextView):
		m.view = (m.view + 1) % viewCount
		return m, nil
	case key.Matches(msg, k.PrevView):
		m.view = (m.view + viewCount - 1) % viewCount
		return m, nil
	case key.Matches(msg, k.Board):
		m.view = viewBoard
		return m, nil
	case key.Matches(msg, k.List):
		m.view = viewList
		return m, nil
	case key.Matches(msg, k.Calendar):
		m.view = viewCalendar
		return m, nil
	case key.Matches(msg, k.Stats):
		m.view = viewStats
		return m, nil
	}

	switch m.view {
	case viewBoard:
		return m.updateBoard(msg)
	case viewList:
		return m.updateList(msg)
	case viewCalendar:
		return m.updateCalendar(msg)
	}
	return m, nil
}

func (m appModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.query.Search = ""
		m.refreshViews()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != m.query.Search {
		m.query.Search = v
		m.refreshViews()
	}
	return m, cmd
}

func (m appModel) taskByID(id string) (model.Task, bool) {
	for _, t := range m.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// Actions shared by the views. Each one mutates the store and reloads.

func (m appModel) openForm(status model.Status, due model.Date) (tea.Model, tea.Cmd) {
	m.form = newTaskForm(m.st.Roster(), status, due)
	m.form.setWidth(m.overlayWidth())
	m.overlay = overlayForm
	return m, textinput.Blink
}

func (m appModel) openDetail(id string) (tea.Model, tea.Cmd) {
	if id == "" {
		return m, nil
	}
	m.targetID = id
	m.overlay = overlayDetail
	return m, nil
}

func (m appModel) confirmDelete(id string) (tea.Model, tea.Cmd) {
	if id == "" {
		return m, nil
	}
	m.targetID = id
	m.overlay = overlayConfirmDelete
	return m, nil
}

func (m appModel) copyID(id string) (tea.Model, tea.Cmd) {
	if id == "" {
		return m, nil
	}
	if err := copyToClipboard(id); err != nil {
		return m, m.setStatus("copy failed: "+err.Error(), true)
	}
	return m, m.setStatus("copied "+id, false)
}

func (m appModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Copy):
		return m.copyID(m.targetID)
	case key.Matches(msg, k.MoveTo):
		m.overlay = overlayMoveTo
		return m, nil
	case key.Matches(msg, k.Delete):
		m.overlay = overlayConfirmDelete
		return m, nil
	case key.Matches(msg, k.MoveLeft):
		return m.shift(m.targetID, -1)
	case key.Matches(msg, k.MoveRight):
		return m.shift(m.targetID, +1)
	}
	switch msg.String() {
	case "esc", "enter", "q":
		m.overlay = overlayNone
	}
	return m, nil
}

func (m appModel) updateMoveTo(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := msg.String()
	if s == "esc" || s == "q" {
		m.overlay = overlayNone
		return m, nil
	}
	statuses := model.Statuses()
	if len(s) == 1 && s[0] >= '1' && int(s[0]-'1') < len(statuses) {
		m.overlay = overlayNone
		res, err := board.SetStatus(m.st, m.targetID, statuses[s[0]-'1'])
		return m.afterMove(res, err)
	}
	return m, nil
}

func (m appModel) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.overlay = overlayNone
	if s := msg.String(); s != "y" && s != "Y" {
		return m, m.setStatus("delete cancelled", false)
	}
	removed, err := m.st.Delete(m.targetID)
	if err != nil {
		return m, m.setStatus(err.Error(), true)
	}
	m.reload()
	return m, m.setStatus(fmt.Sprintf("deleted %s (%s)", removed.ID, removed.Title), false)
}

func (m appModel) shift(id string, delta int) (tea.Model, tea.Cmd) {
	if id == "" {
		return m, nil
	}
	res, err := board.Shift(m.st, id, delta)
	return m.afterMove(res, err)
}

func (m appModel) afterMove(res board.MoveResult, err error) (tea.Model, tea.Cmd) {
	if err != nil {
		return m, m.setStatus(err.Error(), true)
	}
	if !res.Changed {
		if res.Reason == "" {
			return m, nil
		}
		return m, m.setStatus(res.Reason, false)
	}
	m.sel.TaskID = res.Task.ID
	m.reload()
	m.selectListTask(res.Task.ID)
	return m, m.setStatus(fmt.Sprintf("%s → %s", res.Task.ID, res.To.Label()), false)
}

func (m appModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.overlay = overlayNone
		return m, nil
	case "ctrl+s":
		return m.submitForm()
	case "enter":
		if m.form.onLastField() {
			return m.submitForm()
		}
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m appModel) submitForm() (tea.Model, tea.Cmd) {
	d, err := m.form.draft()
	if err != nil {
		m.form.err = err.Error()
		return m, nil
	}
	t, err := m.st.Add(d.WithDefaults(m.st.Today()))
	if err != nil {
		m.form.err = err.Error()
		return m, nil
	}
	m.overlay = overlayNone
	m.sel.TaskID = t.ID
	m.reload()
	m.selectListTask(t.ID)
	return m, m.setStatus(fmt.Sprintf("added %s", t.ID), false)
}

func (m appModel) overlayWidth() int {
	w := m.width - 8
	if w > 72 {
		w = 72
	}
	return max(w, 30)
}

func (m appModel) View() string {
	if m.width == 0 {
		return "loading…"
	}
	header := m.renderHeader()
	footer := m.renderFooter()
	bodyH := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 3)

	var body string
	switch m.overlay {
	case overlayForm:
		body = m.centered(m.form.view(), bodyH)
	case overlayDetail:
		body = m.centered(m.renderDetail(), bodyH)
	case overlayMoveTo:
		body = m.centered(m.renderMoveTo(), bodyH)
	case overlayConfirmDelete:
		body = m.centered(m.renderConfirmDelete(), bodyH)
	default:
		switch m.view {
		case viewBoard:
			body = renderBoard(m.layout.Columns(), m.sel, m.st.Roster(), m.today, m.width, bodyH)
		case viewList:
			body = m.renderList(bodyH)
		case viewCalendar:
			body = m.renderCalendar(bodyH)
		case viewStats:
			body = m.renderStats(bodyH)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, normalizePane(body, m.width, bodyH), footer)
}

func (m appModel) centered(s string, height int) string {
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, s)
}

func (m appModel) renderHeader() string {
	tabs := make([]string, 0, viewCount)
	for v := viewBoard; v < viewCount; v++ {
		label := fmt.Sprintf("%d %s", v+1, v.title())
		if v == m.view {
			tabs = append(tabs, styleSelected().Padding(0, 1).Render(label))
		} else {
			tabs = append(tabs, styleMuted().Padding(0, 1).Render(label))
		}
	}
	title := styleHeader().Render("Task Board")
	left := lipgloss.JoinHorizontal(lipgloss.Top, title, " ", strings.Join(tabs, ""))

	visible := len(m.visible())
	info := fmt.Sprintf("%d of %d tasks", visible, len(m.tasks))
	if f := m.filterSummary(); f != "" {
		info = f + "  " + info
	}
	right := styleMuted().Render(info)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return truncate(left, m.width)
	}
	line := left + strings.Repeat(" ", gap) + right
	if m.searching || m.query.Search != "" {
		line += "\n" + m.search.View()
	}
	return line
}

func (m appModel) filterSummary() string {
	var parts []string
	q := m.query
	if q.Status != "" && q.Status != view.All {
		parts = append(parts, "status:"+q.Status)
	}
	if q.Priority != "" && q.Priority != view.All {
		parts = append(parts, "priority:"+q.Priority)
	}
	if q.Assignee != "" && q.Assignee != view.All {
		parts = append(parts, "assignee:"+q.Assignee)
	}
	if q.SortKey != view.SortNone {
		parts = append(parts, fmt.Sprintf("sort:%s %s", q.SortKey, q.Direction))
	}
	return strings.Join(parts, " ")
}

func (m appModel) renderFooter() string {
	var status string
	if m.statusMsg != "" {
		st := styleMuted()
		if m.statusErr {
			st = lipgloss.NewStyle().Foreground(colorError)
		}
		status = st.Render(truncate(m.statusMsg, m.width)) + "\n"
	}
	return status + m.help.View(contextKeys{km: m.keys, view: m.view})
}

// overlayBox frames overlay content.
func overlayBox(title, content string, width int) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(0, 1).
		Width(width)
	return box.Render(lipgloss.NewStyle().Bold(true).Render(title) + "\n\n" + content)
}

func (m appModel) renderMoveTo() string {
	t, _ := m.taskByID(m.targetID)
	var b strings.Builder
	for i, s := range model.Statuses() {
		line := fmt.Sprintf("%d  %s", i+1, statusBadge(s))
		if s == t.Status {
			line += styleMuted().Render("  (current)")
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + styleMuted().Render("esc cancel"))
	return overlayBox("Move "+truncate(t.Title, m.overlayWidth()-10)+" to…", b.String(), m.overlayWidth())
}

func (m appModel) renderConfirmDelete() string {
	t, _ := m.taskByID(m.targetID)
	body := fmt.Sprintf("Delete %q?\n\n%s", t.Title, styleMuted().Render("y confirm · any other key cancels"))
	return overlayBox("Delete task", body, m.overlayWidth())
}

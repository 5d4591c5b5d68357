package tui

import (
	"errors"
	"os"
	"slices"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"taskboard/internal/model"
	"taskboard/internal/store"
	"taskboard/internal/view"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	lipgloss.SetHasDarkBackground(true)
	os.Exit(m.Run())
}

var testToday = time.Date(2025, time.July, 29, 9, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T) (appModel, *store.Store) {
	t.Helper()
	st, err := store.New(
		store.WithTasks(store.SampleTasks()),
		store.WithClock(func() time.Time { return testToday }),
	)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	m := newAppModel(st)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	return next.(appModel), st
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(m appModel, keys ...string) appModel {
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		m = next.(appModel)
	}
	return m
}

func mustGet(t *testing.T, st *store.Store, id string) model.Task {
	t.Helper()
	task, ok := st.Get(id)
	if !ok {
		t.Fatalf("expected %s in store", id)
	}
	return task
}

func columnIDs(m appModel, status model.Status) []string {
	var out []string
	for _, task := range m.layout.Columns().Column(status) {
		out = append(out, task.ID)
	}
	return out
}

func TestBoard_InitialSelectionIsFirstCard(t *testing.T) {
	m, _ := newTestModel(t)
	got, ok := m.selectedBoardTask()
	if !ok || got.ID != "task-1" {
		t.Fatalf("expected task-1 selected, got %+v (ok=%v)", got, ok)
	}
	if want := []string{"task-1", "task-2", "task-7"}; !slices.Equal(columnIDs(m, model.StatusTodo), want) {
		t.Fatalf("expected todo column %v, got %v", want, columnIDs(m, model.StatusTodo))
	}
}

func TestBoard_ColumnsKeepListOrder(t *testing.T) {
	st, err := store.New(
		store.WithTasks([]model.Task{
			{ID: "late", Title: "Late", Priority: model.PriorityLow, Assignee: "JD", DueDate: model.MustDate("2025-09-01"), Status: model.StatusTodo},
			{ID: "early", Title: "Early", Priority: model.PriorityLow, Assignee: "JD", DueDate: model.MustDate("2025-07-01"), Status: model.StatusTodo},
		}),
		store.WithClock(func() time.Time { return testToday }),
	)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	m := newAppModel(st)
	if want := []string{"late", "early"}; !slices.Equal(columnIDs(m, model.StatusTodo), want) {
		t.Fatalf("expected board column in list order %v, got %v", want, columnIDs(m, model.StatusTodo))
	}
	if got := m.visible(); len(got) != 2 || got[0].ID != "early" {
		t.Fatalf("expected the list view to stay sorted by due date, got %v", got)
	}
}

func TestBoard_ShiftMovesCardAndSelectionFollows(t *testing.T) {
	m, st := newTestModel(t)
	m = press(m, "L")

	if got := mustGet(t, st, "task-1").Status; got != model.StatusInProgress {
		t.Fatalf("expected in-progress, got %s", got)
	}
	if m.sel.TaskID != "task-1" || m.sel.Col != 1 || m.sel.Row != 0 {
		t.Fatalf("expected selection to follow task-1 into column 1 row 0, got %+v", m.sel)
	}

	// Shifting left from todo is a no-op.
	m = press(m, "H", "H")
	if got := mustGet(t, st, "task-1").Status; got != model.StatusTodo {
		t.Fatalf("expected todo, got %s", got)
	}
	if !strings.Contains(m.statusMsg, "same column") {
		t.Fatalf("expected no-op reason in status line, got %q", m.statusMsg)
	}
}

func TestBoard_MoveToPicker(t *testing.T) {
	m, st := newTestModel(t)
	m = press(m, "m")
	if m.overlay != overlayMoveTo {
		t.Fatalf("expected move-to overlay")
	}
	m = press(m, "4")
	if m.overlay != overlayNone {
		t.Fatalf("expected overlay to close")
	}
	if got := mustGet(t, st, "task-1").Status; got != model.StatusDone {
		t.Fatalf("expected done, got %s", got)
	}
}

func TestBoard_ReorderIsVisualOnly(t *testing.T) {
	m, st := newTestModel(t)
	before := st.Version()

	m = press(m, "j", "K")
	if want := []string{"task-2", "task-1", "task-7"}; !slices.Equal(columnIDs(m, model.StatusTodo), want) {
		t.Fatalf("expected %v, got %v", want, columnIDs(m, model.StatusTodo))
	}
	if m.sel.TaskID != "task-2" || m.sel.Row != 0 {
		t.Fatalf("expected selection to follow task-2, got %+v", m.sel)
	}
	if st.Version() != before {
		t.Fatalf("reorder must not touch the store")
	}

	m = press(m, "R")
	if want := []string{"task-1", "task-2", "task-7"}; !slices.Equal(columnIDs(m, model.StatusTodo), want) {
		t.Fatalf("expected reset order %v, got %v", want, columnIDs(m, model.StatusTodo))
	}
}

func TestStoreChangedMsg_IgnoresStaleVersions(t *testing.T) {
	m, st := newTestModel(t)
	done := model.StatusDone
	if _, err := st.Update("task-2", model.Patch{Status: &done}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	next, _ := m.Update(storeChangedMsg{version: st.Version(), tasks: st.Tasks()})
	m = next.(appModel)
	if !slices.Contains(columnIDs(m, model.StatusDone), "task-2") {
		t.Fatalf("expected task-2 in done column after change, got %v", columnIDs(m, model.StatusDone))
	}

	next, _ = m.Update(storeChangedMsg{version: 0, tasks: nil})
	m = next.(appModel)
	if len(m.tasks) != 7 {
		t.Fatalf("expected stale message to be ignored, got %d tasks", len(m.tasks))
	}
}

func TestAddForm_DefaultsToColumnStatus(t *testing.T) {
	m, st := newTestModel(t)
	m = press(m, "l", "a")
	if m.overlay != overlayForm {
		t.Fatalf("expected form overlay")
	}

	m = press(m, "ctrl+s")
	if m.overlay != overlayForm || m.form.err != errTitleRequired.Error() {
		t.Fatalf("expected empty title to be rejected, overlay=%v err=%q", m.overlay, m.form.err)
	}
	if st.Len() != 7 {
		t.Fatalf("expected no task to be added")
	}

	m = press(m, "Write tests", "ctrl+s")
	if m.overlay != overlayNone {
		t.Fatalf("expected form to close, err=%q", m.form.err)
	}
	if st.Len() != 8 {
		t.Fatalf("expected 8 tasks, got %d", st.Len())
	}
	added := st.Tasks()[7]
	if added.Title != "Write tests" || added.Status != model.StatusInProgress || added.Priority != model.PriorityMedium ||
		added.Assignee != model.DefaultAssignee || added.DueDate.String() != "2025-07-29" {
		t.Fatalf("unexpected task: %+v", added)
	}
	if m.sel.TaskID != added.ID {
		t.Fatalf("expected new task to be selected, got %+v", m.sel)
	}
}

func TestAddForm_BadDueDateKeepsFormOpen(t *testing.T) {
	m, st := newTestModel(t)
	m = press(m, "a", "x", "tab", "tab")
	m.form.inputs[fieldDue].SetValue("07/29/2025")
	m = press(m, "ctrl+s")
	if m.overlay != overlayForm || !strings.Contains(m.form.err, "malformed date") {
		t.Fatalf("expected malformed date error, got %q", m.form.err)
	}
	if st.Len() != 7 {
		t.Fatalf("expected no task to be added")
	}
	m = press(m, "esc")
	if m.overlay != overlayNone {
		t.Fatalf("expected esc to close the form")
	}
}

func TestDelete_ConfirmAndCancel(t *testing.T) {
	m, st := newTestModel(t)
	m = press(m, "D", "n")
	if st.Len() != 7 || m.overlay != overlayNone {
		t.Fatalf("expected cancel to keep the task")
	}
	m = press(m, "D", "y")
	if st.Len() != 6 {
		t.Fatalf("expected 6 tasks, got %d", st.Len())
	}
	if _, ok := st.Get("task-1"); ok {
		t.Fatalf("expected task-1 to be deleted")
	}
	if got, _ := m.selectedBoardTask(); got.ID != "task-2" {
		t.Fatalf("expected selection to move to task-2, got %q", got.ID)
	}
}

func TestDetail_CopyID(t *testing.T) {
	var copied string
	orig := copyToClipboard
	copyToClipboard = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { copyToClipboard = orig })

	m, _ := newTestModel(t)
	m = press(m, "enter")
	if m.overlay != overlayDetail || m.targetID != "task-1" {
		t.Fatalf("expected detail of task-1, got overlay=%v target=%q", m.overlay, m.targetID)
	}
	if out := m.View(); !strings.Contains(out, "Design new homepage") || !strings.Contains(out, "John Doe") {
		t.Fatalf("expected detail to show title and assignee:\n%s", out)
	}
	m = press(m, "y")
	if copied != "task-1" {
		t.Fatalf("expected task-1 copied, got %q", copied)
	}

	copyToClipboard = func(string) error { return errors.New("no clipboard") }
	m = press(m, "y")
	if !m.statusErr || !strings.Contains(m.statusMsg, "no clipboard") {
		t.Fatalf("expected copy error in status line, got %q", m.statusMsg)
	}
}

func TestList_FiltersSearchAndClear(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(m, "2")
	if m.view != viewList {
		t.Fatalf("expected list view")
	}

	m = press(m, "s")
	if m.query.Status != string(model.StatusTodo) || len(m.visible()) != 3 {
		t.Fatalf("expected todo filter with 3 tasks, got %q/%d", m.query.Status, len(m.visible()))
	}
	m = press(m, "c")
	if m.query != view.DefaultQuery() {
		t.Fatalf("expected default query, got %+v", m.query)
	}

	m = press(m, "/", "api", "enter")
	if m.searching || m.query.Search != "api" {
		t.Fatalf("expected search to be applied, got searching=%v query=%q", m.searching, m.query.Search)
	}
	var got []string
	for _, task := range m.visible() {
		got = append(got, task.ID)
	}
	if want := []string{"task-4", "task-3"}; !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got := m.listSelectedID(); got != "task-4" {
		t.Fatalf("expected cursor on first match, got %q", got)
	}
}

func TestList_CursorFollowsTask(t *testing.T) {
	m, st := newTestModel(t)
	m = press(m, "2")
	// Sorted by due date: task-5, task-4, task-3, task-1, ...
	if got := m.listSelectedID(); got != "task-5" {
		t.Fatalf("expected first row selected, got %q", got)
	}
	m = press(m, "j", "j")
	if got := m.listSelectedID(); got != "task-3" {
		t.Fatalf("expected cursor on third row, got %q", got)
	}

	// Re-sorting keeps the cursor on the same task.
	m = press(m, "o")
	if got := m.listSelectedID(); got != "task-3" {
		t.Fatalf("expected cursor to stay on task-3 after sort, got %q", got)
	}

	m = press(m, "L")
	if got := mustGet(t, st, "task-3").Status; got != model.StatusReview {
		t.Fatalf("expected L to move the selected row, got %s", got)
	}
	if got := m.listSelectedID(); got != "task-3" {
		t.Fatalf("expected cursor to follow the moved task, got %q", got)
	}
	if out := m.View(); !strings.Contains(out, "TITLE") || !strings.Contains(out, "API Integration") {
		t.Fatalf("expected list header and rows in view:\n%s", out)
	}
}

func TestList_SortCycle(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(m, "2", "o")
	if m.query.SortKey != view.SortPriority {
		t.Fatalf("expected priority after dueDate, got %q", m.query.SortKey)
	}
	m = press(m, "r")
	if m.query.Direction != view.Desc {
		t.Fatalf("expected desc")
	}
	if first := m.visible()[0]; first.Priority != model.PriorityHigh {
		t.Fatalf("expected High first, got %+v", first)
	}
}

func TestViews_Render(t *testing.T) {
	m, _ := newTestModel(t)
	cases := []struct {
		key  string
		want string
	}{
		{"1", "Design new homepage"},
		{"2", "TITLE"},
		{"4", "Completion"},
	}
	for _, tc := range cases {
		m = press(m, tc.key)
		out := m.View()
		if !strings.Contains(out, tc.want) {
			t.Fatalf("view %s: expected %q in:\n%s", tc.key, tc.want, out)
		}
		if h := lipgloss.Height(out); h > 40 {
			t.Fatalf("view %s: expected at most 40 lines, got %d", tc.key, h)
		}
	}

	m = press(m, "3")
	out := m.View()
	if !strings.Contains(out, "July 2025") || !strings.Contains(out, "Tuesday, July 29") {
		t.Fatalf("expected July 2025 calendar on today:\n%s", out)
	}
	m = press(m, "l")
	if out := m.View(); !strings.Contains(out, "Design new homepage") {
		t.Fatalf("expected 2025-07-30 to list task-1:\n%s", out)
	}
}

func TestCalendar_Navigation(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(m, "3", "]")
	if m.calDay.String() != "2025-08-29" {
		t.Fatalf("expected 2025-08-29, got %s", m.calDay)
	}
	m = press(m, "j", "t")
	if m.calDay.String() != "2025-07-29" {
		t.Fatalf("expected today, got %s", m.calDay)
	}
}

func TestAddMonths_ClampsDay(t *testing.T) {
	cases := []struct {
		from string
		n    int
		want string
	}{
		{"2025-01-31", 1, "2025-02-28"},
		{"2025-03-31", -1, "2025-02-28"},
		{"2025-12-15", 1, "2026-01-15"},
		{"2024-01-31", 1, "2024-02-29"},
	}
	for _, tc := range cases {
		if got := addMonths(model.MustDate(tc.from), tc.n).String(); got != tc.want {
			t.Fatalf("addMonths(%s, %d): expected %s, got %s", tc.from, tc.n, tc.want, got)
		}
	}
}

func TestDueLabel(t *testing.T) {
	today := model.MustDate("2025-07-29")
	cases := []struct {
		due    string
		status model.Status
		want   string
	}{
		{"2025-07-29", model.StatusTodo, "due today"},
		{"2025-07-30", model.StatusTodo, "due 1 day from now"},
		{"2025-08-12", model.StatusReview, "due 2 weeks from now"},
		{"2025-07-26", model.StatusInProgress, "overdue 3 days"},
		{"2025-07-26", model.StatusDone, "2025-07-26"},
	}
	for _, tc := range cases {
		task := model.Task{DueDate: model.MustDate(tc.due), Status: tc.status}
		if got := dueLabel(task, today); got != tc.want {
			t.Fatalf("dueLabel(%s, %s): expected %q, got %q", tc.due, tc.status, tc.want, got)
		}
	}
}

func TestClampSelection_EmptyColumns(t *testing.T) {
	cols := view.ByStatus(nil)
	sel := clampSelection(cols, boardSelection{Col: 9, Row: 3, TaskID: "gone"})
	if sel.Col != 3 || sel.Row != -1 || sel.TaskID != "" {
		t.Fatalf("unexpected selection: %+v", sel)
	}
}

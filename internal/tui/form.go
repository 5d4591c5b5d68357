package tui

import (
	"errors"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskboard/internal/model"
)

type formField int

const (
	fieldTitle formField = iota
	fieldDescription
	fieldDue
	fieldPriority
	fieldAssignee
	fieldStatus
	fieldCount
)

var errTitleRequired = errors.New("title is required")

// taskForm is the "new task" dialog. Text fields use textinput; priority,
// assignee and status cycle through their allowed values with ←/→.
type taskForm struct {
	inputs [3]textinput.Model
	focus  formField

	roster   model.Roster
	priority model.Priority
	assignee string
	status   model.Status

	width int
	err   string
}

func newTaskForm(roster model.Roster, status model.Status, due model.Date) taskForm {
	title := textinput.New()
	title.Placeholder = "What needs doing?"
	title.CharLimit = 200
	title.Focus()

	desc := textinput.New()
	desc.Placeholder = "optional, markdown"
	desc.CharLimit = 2000

	dueIn := textinput.New()
	dueIn.Placeholder = model.DateLayout
	dueIn.CharLimit = len(model.DateLayout)
	dueIn.SetValue(due.String())

	if !status.Valid() {
		status = model.StatusTodo
	}
	assignee := model.DefaultAssignee
	if _, ok := roster.Find(assignee); !ok && len(roster) > 0 {
		assignee = roster[0].ID
	}
	return taskForm{
		inputs:   [3]textinput.Model{title, desc, dueIn},
		roster:   roster,
		priority: model.PriorityMedium,
		assignee: assignee,
		status:   status,
	}
}

func (f *taskForm) setWidth(w int) {
	f.width = w
	for i := range f.inputs {
		f.inputs[i].Width = max(w-18, 10)
	}
}

func (f taskForm) onLastField() bool { return f.focus == fieldCount-1 }

func (f taskForm) canSubmit() bool {
	return strings.TrimSpace(f.inputs[fieldTitle].Value()) != ""
}

func (f *taskForm) setFocus(ff formField) tea.Cmd {
	f.focus = (ff + fieldCount) % fieldCount
	var cmd tea.Cmd
	for i := range f.inputs {
		if formField(i) == f.focus {
			cmd = f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	return cmd
}

func (f taskForm) update(msg tea.Msg) (taskForm, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "tab", "down", "enter":
			return f, f.setFocus(f.focus + 1)
		case "shift+tab", "up":
			return f, f.setFocus(f.focus - 1)
		case "left", "right":
			if f.focus >= fieldPriority {
				delta := 1
				if km.String() == "left" {
					delta = -1
				}
				f.cycle(delta)
				return f, nil
			}
		}
		f.err = ""
	}
	if f.focus < formField(len(f.inputs)) {
		var cmd tea.Cmd
		f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
		return f, cmd
	}
	return f, nil
}

func (f *taskForm) cycle(delta int) {
	switch f.focus {
	case fieldPriority:
		f.priority = step(model.Priorities(), f.priority, delta)
	case fieldStatus:
		f.status = step(model.Statuses(), f.status, delta)
	case fieldAssignee:
		ids := make([]string, 0, len(f.roster))
		for _, mbr := range f.roster {
			ids = append(ids, mbr.ID)
		}
		f.assignee = step(ids, f.assignee, delta)
	}
}

func step[T comparable](opts []T, cur T, delta int) T {
	if len(opts) == 0 {
		return cur
	}
	i := max(slices.Index(opts, cur), 0)
	return opts[((i+delta)%len(opts)+len(opts))%len(opts)]
}

// draft returns the entered task; the store applies the remaining defaults.
func (f taskForm) draft() (model.Draft, error) {
	if !f.canSubmit() {
		return model.Draft{}, errTitleRequired
	}
	d := model.Draft{
		Title:       strings.TrimSpace(f.inputs[fieldTitle].Value()),
		Description: strings.TrimSpace(f.inputs[fieldDescription].Value()),
		Priority:    f.priority,
		Assignee:    f.assignee,
		Status:      f.status,
	}
	if s := strings.TrimSpace(f.inputs[fieldDue].Value()); s != "" {
		due, err := model.ParseDate(s)
		if err != nil {
			return model.Draft{}, err
		}
		d.DueDate = due
	}
	return d, nil
}

func (f taskForm) view() string {
	label := lipgloss.NewStyle().Width(12)
	focused := label.Foreground(colorAccent).Bold(true)
	row := func(ff formField, name, value string) string {
		l := label
		if f.focus == ff {
			l = focused
		}
		return l.Render(name) + value
	}
	chooser := func(ff formField, value string) string {
		if f.focus == ff {
			return "‹ " + value + " ›"
		}
		return "  " + value
	}

	lines := []string{
		row(fieldTitle, "Title", f.inputs[fieldTitle].View()),
		row(fieldDescription, "Description", f.inputs[fieldDescription].View()),
		row(fieldDue, "Due", f.inputs[fieldDue].View()),
		row(fieldPriority, "Priority", chooser(fieldPriority, priorityBadge(f.priority))),
		row(fieldAssignee, "Assignee", chooser(fieldAssignee, f.roster.Label(f.assignee))),
		row(fieldStatus, "Status", chooser(fieldStatus, statusBadge(f.status))),
	}
	body := strings.Join(lines, "\n")
	if f.err != "" {
		body += "\n\n" + lipgloss.NewStyle().Foreground(colorError).Render(f.err)
	}

	submit := "ctrl+s create"
	if !f.canSubmit() {
		submit = styleMuted().Strikethrough(true).Render(submit)
	}
	body += "\n\n" + submit + styleMuted().Render(" · tab next field · ←/→ change · esc cancel")
	return overlayBox("New task", body, max(f.width, 30))
}

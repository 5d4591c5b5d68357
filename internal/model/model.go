package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusReview     Status = "review"
	StatusDone       Status = "done"
)

// Statuses returns the workflow statuses in board order.
func Statuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusReview, StatusDone}
}

func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusReview, StatusDone:
		return true
	}
	return false
}

// Rank is the position of s in the workflow (todo=1 .. done=4), 0 if invalid.
func (s Status) Rank() int {
	for i, st := range Statuses() {
		if st == s {
			return i + 1
		}
	}
	return 0
}

func (s Status) Label() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusReview:
		return "Review"
	case StatusDone:
		return "Done"
	}
	return string(s)
}

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Priorities returns priorities from most to least severe.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Severity orders priorities: High=3, Medium=2, Low=1, 0 if invalid.
func (p Priority) Severity() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

type Member struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Roster []Member

func DefaultRoster() Roster {
	return Roster{
		{ID: "JD", Name: "John Doe"},
		{ID: "AS", Name: "Alice Smith"},
		{ID: "MK", Name: "Mike Johnson"},
		{ID: "TR", Name: "Tom Robinson"},
	}
}

func (r Roster) Find(id string) (Member, bool) {
	id = strings.TrimSpace(id)
	for _, m := range r {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}

// Label returns the member name for id, or id itself for unknown members.
func (r Roster) Label(id string) string {
	if m, ok := r.Find(id); ok && m.Name != "" {
		return m.Name
	}
	return id
}

type Task struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Assignee    string   `json:"assignee"`
	DueDate     Date     `json:"dueDate"`
	Status      Status   `json:"status"`
}

// Draft is a task that has not been assigned an id yet.
type Draft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Assignee    string   `json:"assignee"`
	DueDate     Date     `json:"dueDate"`
	Status      Status   `json:"status"`
}

// Task returns the draft as a task with the given id.
func (d Draft) Task(id string) Task {
	return Task{
		ID:          id,
		Title:       strings.TrimSpace(d.Title),
		Description: d.Description,
		Priority:    d.Priority,
		Assignee:    strings.TrimSpace(d.Assignee),
		DueDate:     d.DueDate,
		Status:      d.Status,
	}
}

// DefaultAssignee is preselected for new tasks.
const DefaultAssignee = "JD"

// WithDefaults fills the fields the create form preselects: Medium priority,
// todo status, the default assignee and today's date.
func (d Draft) WithDefaults(today Date) Draft {
	if strings.TrimSpace(d.Assignee) == "" {
		d.Assignee = DefaultAssignee
	}
	if d.Priority == "" {
		d.Priority = PriorityMedium
	}
	if d.Status == "" {
		d.Status = StatusTodo
	}
	if d.DueDate.IsZero() {
		d.DueDate = today
	}
	return d
}

func (d Draft) Validate(roster Roster) error {
	return validateFields(d.Title, d.Priority, d.Assignee, d.DueDate, d.Status, roster)
}

// Patch carries a partial update; nil fields are left untouched.
type Patch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	Assignee    *string   `json:"assignee,omitempty"`
	DueDate     *Date     `json:"dueDate,omitempty"`
	Status      *Status   `json:"status,omitempty"`
}

func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Priority == nil &&
		p.Assignee == nil && p.DueDate == nil && p.Status == nil
}

func (p Patch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Assignee != nil {
		t.Assignee = strings.TrimSpace(*p.Assignee)
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	return t
}

// Validate checks the result of applying p to t.
func (p Patch) Validate(t Task, roster Roster) error {
	next := p.Apply(t)
	return validateFields(next.Title, next.Priority, next.Assignee, next.DueDate, next.Status, roster)
}

// Validate checks a stored task (e.g. one loaded from a snapshot).
func (t Task) Validate(roster Roster) error {
	if strings.TrimSpace(t.ID) == "" {
		return ValidationError{Field: "id", Reason: "required"}
	}
	return validateFields(t.Title, t.Priority, t.Assignee, t.DueDate, t.Status, roster)
}

// DueTime returns the due date at midnight UTC.
func (t Task) DueTime() time.Time {
	return t.DueDate.Time()
}

type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

var ErrEmptyTitle = errors.New("title required")

func validateFields(title string, pr Priority, assignee string, due Date, st Status, roster Roster) error {
	if strings.TrimSpace(title) == "" {
		return ValidationError{Field: "title", Reason: ErrEmptyTitle.Error()}
	}
	if !pr.Valid() {
		return ValidationError{Field: "priority", Reason: fmt.Sprintf("%q (expected Low|Medium|High)", pr)}
	}
	if !st.Valid() {
		return ValidationError{Field: "status", Reason: fmt.Sprintf("%q (expected todo|in-progress|review|done)", st)}
	}
	if due.IsZero() {
		return ValidationError{Field: "dueDate", Reason: "required"}
	}
	if len(roster) > 0 {
		if _, ok := roster.Find(assignee); !ok {
			return ValidationError{Field: "assignee", Reason: fmt.Sprintf("%q is not on the roster", assignee)}
		}
	}
	return nil
}

package statusutil

import (
	"testing"

	"taskboard/internal/model"
)

func TestParseStatus(t *testing.T) {
	cases := []struct {
		in      string
		want    model.Status
		wantErr bool
	}{
		{"todo", model.StatusTodo, false},
		{"TODO", model.StatusTodo, false},
		{"To Do", model.StatusTodo, false},
		{"in-progress", model.StatusInProgress, false},
		{"In Progress", model.StatusInProgress, false},
		{"in_progress", model.StatusInProgress, false},
		{"doing", model.StatusInProgress, false},
		{" Review ", model.StatusReview, false},
		{"DONE", model.StatusDone, false},
		{"", "", true},
		{"   ", "", true},
		{"backlog", "", true},
	}
	for _, tc := range cases {
		got, err := ParseStatus(tc.in)
		if tc.wantErr && err == nil {
			t.Fatalf("ParseStatus(%q): expected error", tc.in)
		}
		if !tc.wantErr && err != nil {
			t.Fatalf("ParseStatus(%q): unexpected error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseStatus(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestParsePriority(t *testing.T) {
	cases := []struct {
		in      string
		want    model.Priority
		wantErr bool
	}{
		{"High", model.PriorityHigh, false},
		{"high", model.PriorityHigh, false},
		{"h", model.PriorityHigh, false},
		{"MEDIUM", model.PriorityMedium, false},
		{"med", model.PriorityMedium, false},
		{"Low", model.PriorityLow, false},
		{"urgent", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := ParsePriority(tc.in)
		if tc.wantErr && err == nil {
			t.Fatalf("ParsePriority(%q): expected error", tc.in)
		}
		if !tc.wantErr && err != nil {
			t.Fatalf("ParsePriority(%q): unexpected error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParsePriority(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestNextPrev(t *testing.T) {
	if got := Next(model.StatusTodo); got != model.StatusInProgress {
		t.Fatalf("Next(todo): got %q", got)
	}
	if got := Next(model.StatusDone); got != model.StatusDone {
		t.Fatalf("Next(done): expected to stay at done, got %q", got)
	}
	if got := Prev(model.StatusReview); got != model.StatusInProgress {
		t.Fatalf("Prev(review): got %q", got)
	}
	if got := Prev(model.StatusTodo); got != model.StatusTodo {
		t.Fatalf("Prev(todo): expected to stay at todo, got %q", got)
	}
}

func TestIsEndState(t *testing.T) {
	if !IsEndState(model.StatusDone) {
		t.Fatalf("expected done to be an end state")
	}
	for _, st := range []model.Status{model.StatusTodo, model.StatusInProgress, model.StatusReview} {
		if IsEndState(st) {
			t.Fatalf("expected %q not to be an end state", st)
		}
	}
}

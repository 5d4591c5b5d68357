package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestParseDate(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"2025-07-30", "2025-07-30", false},
		{" 2025-01-02 ", "2025-01-02", false},
		{"2025-02-30", "", true},
		{"2025-7-3", "", true},
		{"30/07/2025", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseDate(%q): expected error", tc.in)
			}
			if !errors.Is(err, ErrMalformedDate) {
				t.Fatalf("ParseDate(%q): expected ErrMalformedDate, got %v", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseDate(%q): unexpected error: %v", tc.in, err)
		}
		if got.String() != tc.want {
			t.Fatalf("ParseDate(%q): expected %q, got %q", tc.in, tc.want, got.String())
		}
	}
}

func TestDate_JSONRoundTripAndReject(t *testing.T) {
	var task Task
	if err := json.Unmarshal([]byte(`{"id":"t1","dueDate":"2025-08-05"}`), &task); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !task.DueDate.Equal(NewDate(2025, time.August, 5)) {
		t.Fatalf("expected 2025-08-05, got %s", task.DueDate)
	}
	b, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if want := `"dueDate":"2025-08-05"`; !strings.Contains(string(b), want) {
		t.Fatalf("expected %s in %s", want, b)
	}

	err = json.Unmarshal([]byte(`{"id":"t1","dueDate":"not-a-date"}`), &task)
	if !errors.Is(err, ErrMalformedDate) {
		t.Fatalf("expected ErrMalformedDate, got %v", err)
	}
}

func TestStatusAndPriorityOrdering(t *testing.T) {
	if StatusTodo.Rank() >= StatusInProgress.Rank() || StatusInProgress.Rank() >= StatusReview.Rank() || StatusReview.Rank() >= StatusDone.Rank() {
		t.Fatalf("expected workflow order todo<in-progress<review<done")
	}
	if Status("blocked").Valid() || Status("blocked").Rank() != 0 {
		t.Fatalf("expected unknown status to be invalid")
	}
	if !(PriorityHigh.Severity() > PriorityMedium.Severity() && PriorityMedium.Severity() > PriorityLow.Severity()) {
		t.Fatalf("expected severity High>Medium>Low")
	}
	if Priority("Urgent").Valid() {
		t.Fatalf("expected unknown priority to be invalid")
	}
}

func TestDraftValidate(t *testing.T) {
	roster := DefaultRoster()
	base := Draft{Title: "Ship it", Priority: PriorityHigh, Assignee: "JD", DueDate: MustDate("2025-07-30"), Status: StatusTodo}
	if err := base.Validate(roster); err != nil {
		t.Fatalf("expected valid draft, got %v", err)
	}

	cases := []struct {
		name  string
		mut   func(d *Draft)
		field string
	}{
		{"empty title", func(d *Draft) { d.Title = "   " }, "title"},
		{"bad priority", func(d *Draft) { d.Priority = "Urgent" }, "priority"},
		{"bad status", func(d *Draft) { d.Status = "blocked" }, "status"},
		{"missing due", func(d *Draft) { d.DueDate = Date{} }, "dueDate"},
		{"unknown assignee", func(d *Draft) { d.Assignee = "ZZ" }, "assignee"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := base
			tc.mut(&d)
			err := d.Validate(roster)
			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, verr.Field)
			}
		})
	}

	// Without a roster any assignee is accepted.
	d := base
	d.Assignee = "ZZ"
	if err := d.Validate(nil); err != nil {
		t.Fatalf("expected nil roster to skip assignee validation, got %v", err)
	}
}

func TestDraftWithDefaults(t *testing.T) {
	today := MustDate("2025-07-20")
	d := Draft{Title: "x"}.WithDefaults(today)
	if d.Priority != PriorityMedium || d.Status != StatusTodo || !d.DueDate.Equal(today) || d.Assignee != DefaultAssignee {
		t.Fatalf("unexpected defaults: %+v", d)
	}
	kept := Draft{Title: "x", Priority: PriorityLow, Status: StatusReview, DueDate: MustDate("2025-01-01")}.WithDefaults(today)
	if kept.Priority != PriorityLow || kept.Status != StatusReview || kept.DueDate.String() != "2025-01-01" {
		t.Fatalf("expected explicit fields to be kept, got %+v", kept)
	}
}

func TestPatchApply_OnlySuppliedFields(t *testing.T) {
	orig := Task{ID: "t1", Title: "A", Description: "desc", Priority: PriorityLow, Assignee: "JD", DueDate: MustDate("2025-07-30"), Status: StatusTodo}
	st := StatusDone
	got := Patch{Title: strPtr("  B "), Status: &st}.Apply(orig)
	if got.ID != "t1" || got.Title != "B" || got.Status != StatusDone {
		t.Fatalf("unexpected patched task: %+v", got)
	}
	if got.Description != "desc" || got.Priority != PriorityLow || got.Assignee != "JD" || got.DueDate.String() != "2025-07-30" {
		t.Fatalf("expected untouched fields to be preserved: %+v", got)
	}
	if !(Patch{}).Empty() {
		t.Fatalf("expected zero patch to be empty")
	}
}

func TestRosterLabel(t *testing.T) {
	r := DefaultRoster()
	if got := r.Label("AS"); got != "Alice Smith" {
		t.Fatalf("expected Alice Smith, got %q", got)
	}
	if got := r.Label("XX"); got != "XX" {
		t.Fatalf("expected fallback to id, got %q", got)
	}
}

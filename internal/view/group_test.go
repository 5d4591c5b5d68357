package view

import (
	"testing"

	"taskboard/internal/model"
)

func TestByStatus_PartitionsWithoutOverlap(t *testing.T) {
	tasks := sample()
	cols := ByStatus(tasks)
	if len(cols) != 4 {
		t.Fatalf("expected 4 columns, got %d", len(cols))
	}
	for i, st := range model.Statuses() {
		if cols[i].Status != st {
			t.Fatalf("column %d: expected %s, got %s", i, st, cols[i].Status)
		}
		for _, task := range cols[i].Tasks {
			if task.Status != st {
				t.Fatalf("task %s in wrong column %s", task.ID, st)
			}
		}
	}
	if cols.Total() != len(tasks) {
		t.Fatalf("expected union to cover all %d tasks, got %d", len(tasks), cols.Total())
	}
	if !equalIDs(ids(cols.Column(model.StatusTodo)), []string{"1", "2"}) {
		t.Fatalf("expected todo bucket in list order, got %v", ids(cols.Column(model.StatusTodo)))
	}
	if c, r, ok := cols.IndexOf("4"); !ok || c != 2 || r != 0 {
		t.Fatalf("expected task 4 at review[0], got %d,%d,%v", c, r, ok)
	}
}

func TestByStatus_EmptyInputHasFourEmptyBuckets(t *testing.T) {
	cols := ByStatus(nil)
	if len(cols) != 4 || cols.Total() != 0 {
		t.Fatalf("expected four empty columns, got %+v", cols)
	}
	if cols.Column(model.StatusDone) == nil {
		t.Fatalf("expected non-nil empty bucket")
	}
}

func TestOnDate_ExactDay(t *testing.T) {
	tasks := sample()
	got := ids(OnDate(tasks, model.MustDate("2025-07-28")))
	if !equalIDs(got, []string{"3"}) {
		t.Fatalf("expected [3], got %v", got)
	}
	if got := OnDate(tasks, model.MustDate("2025-07-29")); len(got) != 0 {
		t.Fatalf("expected no tasks on 2025-07-29, got %v", ids(got))
	}
}

func TestAssignees_FirstSeenOrder(t *testing.T) {
	tasks := append(sample(), model.Task{ID: "6", Assignee: "ZZ"})
	got := Assignees(tasks, model.DefaultRoster())
	want := []AssigneeOption{{"JD", "John Doe"}, {"AS", "Alice Smith"}, {"MK", "Mike Johnson"}, {"TR", "Tom Robinson"}, {"ZZ", "ZZ"}}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

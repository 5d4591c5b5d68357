package view

import (
	"testing"

	"taskboard/internal/model"
)

func task(id, title string, st model.Status, due string, pr model.Priority) model.Task {
	return model.Task{ID: id, Title: title, Status: st, DueDate: model.MustDate(due), Priority: pr, Assignee: "JD"}
}

func ids(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sample() []model.Task {
	return []model.Task{
		{ID: "1", Title: "Design new homepage", Description: "Create wireframes and mockups", Priority: model.PriorityHigh, Assignee: "JD", DueDate: model.MustDate("2025-07-30"), Status: model.StatusTodo},
		{ID: "2", Title: "Setup CI/CD pipeline", Description: "Configure automated testing", Priority: model.PriorityMedium, Assignee: "AS", DueDate: model.MustDate("2025-08-05"), Status: model.StatusTodo},
		{ID: "3", Title: "API Integration", Description: "Integrate with third-party payment API", Priority: model.PriorityHigh, Assignee: "MK", DueDate: model.MustDate("2025-07-28"), Status: model.StatusInProgress},
		{ID: "4", Title: "Update documentation", Description: "Review and update API documentation", Priority: model.PriorityLow, Assignee: "TR", DueDate: model.MustDate("2025-07-26"), Status: model.StatusReview},
		{ID: "5", Title: "Database optimization", Description: "Optimize queries", Priority: model.PriorityMedium, Assignee: "JD", DueDate: model.MustDate("2025-07-25"), Status: model.StatusDone},
	}
}

func TestApply_DueDateExample(t *testing.T) {
	a := task("A", "Design new homepage", model.StatusTodo, "2025-07-30", model.PriorityHigh)
	b := task("B", "API Integration", model.StatusInProgress, "2025-07-28", model.PriorityHigh)

	got := ids(Apply([]model.Task{a, b}, Query{SortKey: SortDueDate, Direction: Asc}))
	if !equalIDs(got, []string{"B", "A"}) {
		t.Fatalf("expected [B A], got %v", got)
	}

	cols := ByStatus([]model.Task{a, b})
	if !equalIDs(ids(cols.Column(model.StatusTodo)), []string{"A"}) || !equalIDs(ids(cols.Column(model.StatusInProgress)), []string{"B"}) {
		t.Fatalf("unexpected grouping: %+v", cols)
	}
	if len(cols.Column(model.StatusReview)) != 0 || len(cols.Column(model.StatusDone)) != 0 {
		t.Fatalf("expected empty review/done buckets")
	}
}

func TestApply_Search(t *testing.T) {
	tasks := sample()
	cases := []struct {
		search string
		want   []string
	}{
		{"", []string{"1", "2", "3", "4", "5"}},
		{"   ", []string{}},
		{" payment", []string{"3"}},
		{"payment api ", []string{}},
		{"api", []string{"3", "4"}},
		{"WIREFRAMES", []string{"1"}},
		{"xyz-unmatched", []string{}},
	}
	for _, tc := range cases {
		got := ids(Apply(tasks, Query{Search: tc.search}))
		if !equalIDs(got, tc.want) {
			t.Fatalf("search %q: expected %v, got %v", tc.search, tc.want, got)
		}
	}
}

func TestApply_SearchFoldsCase(t *testing.T) {
	tasks := []model.Task{task("1", "STRASSE bauen", model.StatusTodo, "2025-01-01", model.PriorityLow)}
	if got := Apply(tasks, Query{Search: "straße"}); len(got) != 1 {
		t.Fatalf("expected case-folded match, got %v", ids(got))
	}
}

func TestApply_Filters(t *testing.T) {
	tasks := sample()
	cases := []struct {
		name string
		q    Query
		want []string
	}{
		{"all sentinel", Query{Status: All, Priority: All, Assignee: All}, []string{"1", "2", "3", "4", "5"}},
		{"status done", Query{Status: "done"}, []string{"5"}},
		{"priority high", Query{Priority: "High"}, []string{"1", "3"}},
		{"assignee", Query{Assignee: "JD"}, []string{"1", "5"}},
		{"combined", Query{Assignee: "JD", Status: "todo", Search: "design"}, []string{"1"}},
		{"no match", Query{Priority: "Low", Assignee: "JD"}, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ids(Apply(tasks, tc.q))
			if !equalIDs(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestApply_Sorts(t *testing.T) {
	tasks := sample()
	cases := []struct {
		key  SortKey
		dir  Direction
		want []string
	}{
		{SortTitle, Asc, []string{"3", "5", "1", "2", "4"}},
		{SortDueDate, Asc, []string{"5", "4", "3", "1", "2"}},
		{SortDueDate, Desc, []string{"2", "1", "3", "4", "5"}},
		// Ties keep list order in both directions.
		{SortPriority, Asc, []string{"4", "2", "5", "1", "3"}},
		{SortPriority, Desc, []string{"1", "3", "2", "5", "4"}},
		{SortStatus, Asc, []string{"1", "2", "3", "4", "5"}},
		{SortStatus, Desc, []string{"5", "4", "3", "1", "2"}},
		{SortNone, Desc, []string{"1", "2", "3", "4", "5"}},
	}
	for _, tc := range cases {
		got := ids(Apply(tasks, Query{SortKey: tc.key, Direction: tc.dir}))
		if !equalIDs(got, tc.want) {
			t.Fatalf("sort %s %s: expected %v, got %v", tc.key, tc.dir, tc.want, got)
		}
	}
}

func TestApply_DoesNotModifyInput(t *testing.T) {
	tasks := sample()
	_ = Apply(tasks, Query{SortKey: SortTitle, Direction: Desc})
	if !equalIDs(ids(tasks), []string{"1", "2", "3", "4", "5"}) {
		t.Fatalf("expected input order untouched, got %v", ids(tasks))
	}
}

func TestParseSortKeyAndDirection(t *testing.T) {
	for in, want := range map[string]SortKey{"title": SortTitle, "DueDate": SortDueDate, "due": SortDueDate, "priority": SortPriority, "status": SortStatus, "": SortNone} {
		got, err := ParseSortKey(in)
		if err != nil || got != want {
			t.Fatalf("ParseSortKey(%q): expected %q, got %q (%v)", in, want, got, err)
		}
	}
	if _, err := ParseSortKey("assignee"); err == nil {
		t.Fatalf("expected unknown sort key to be rejected")
	}
	if d, err := ParseDirection("DESC"); err != nil || d != Desc {
		t.Fatalf("expected desc, got %q (%v)", d, err)
	}
	if _, err := ParseDirection("sideways"); err == nil {
		t.Fatalf("expected invalid direction to be rejected")
	}
	if Asc.Toggle() != Desc || Desc.Toggle() != Asc {
		t.Fatalf("expected toggle to flip direction")
	}
}

func TestParseQuery(t *testing.T) {
	q, err := ParseQuery("api", "In Progress", "high", "MK", "due", "desc")
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	want := Query{Search: "api", Status: "in-progress", Priority: "High", Assignee: "MK", SortKey: SortDueDate, Direction: Desc}
	if q != want {
		t.Fatalf("expected %+v, got %+v", want, q)
	}

	if q, _ := ParseQuery("api ", "", "", "", "", ""); q.Search != "api " {
		t.Fatalf("expected search text to be kept as typed, got %q", q.Search)
	}

	q, err = ParseQuery("", "", "ALL", "all", "", "")
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	if q.Status != All || q.Priority != All || q.Assignee != All || q.SortKey != SortNone || q.Direction != Asc {
		t.Fatalf("expected match-all query, got %+v", q)
	}

	for _, bad := range [][6]string{
		{"", "blocked", "", "", "", ""},
		{"", "", "urgent", "", "", ""},
		{"", "", "", "", "assignee", ""},
		{"", "", "", "", "", "up"},
	} {
		if _, err := ParseQuery(bad[0], bad[1], bad[2], bad[3], bad[4], bad[5]); err == nil {
			t.Fatalf("expected %v to be rejected", bad)
		}
	}
}

package store

import (
	"errors"
	"sync"
	"testing"

	"taskboard/internal/model"
)

func newSampleStore(t *testing.T) *Store {
	t.Helper()
	st, err := New(WithTasks(SampleTasks()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return st
}

func draft(title string) model.Draft {
	return model.Draft{
		Title:    title,
		Priority: model.PriorityMedium,
		Assignee: "AS",
		DueDate:  model.MustDate("2025-08-10"),
		Status:   model.StatusTodo,
	}
}

func TestNew_RejectsInvalidSeeds(t *testing.T) {
	dup := SampleTasks()
	dup[1].ID = dup[0].ID
	if _, err := New(WithTasks(dup)); err == nil {
		t.Fatalf("expected duplicate seed ids to be rejected")
	}

	bad := SampleTasks()
	bad[2].Status = "blocked"
	_, err := New(WithTasks(bad))
	var verr model.ValidationError
	if !errors.As(err, &verr) || verr.Field != "status" {
		t.Fatalf("expected status ValidationError, got %v", err)
	}
}

func TestAdd_AssignsUniqueIDsAndAppends(t *testing.T) {
	st := newSampleStore(t)
	seen := map[string]bool{}
	for _, task := range st.Tasks() {
		seen[task.ID] = true
	}
	for i := 0; i < 50; i++ {
		got, err := st.Add(draft("new"))
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
		if seen[got.ID] {
			t.Fatalf("duplicate id %q", got.ID)
		}
		seen[got.ID] = true
	}
	tasks := st.Tasks()
	if got, want := len(tasks), 57; got != want {
		t.Fatalf("expected %d tasks, got %d", want, got)
	}
	if tasks[0].ID != "task-1" || tasks[7].Title != "new" {
		t.Fatalf("expected seed order kept and new tasks appended")
	}
}

func TestAdd_RejectsInvalidDraft(t *testing.T) {
	st := newSampleStore(t)
	d := draft("   ")
	_, err := st.Add(d)
	var verr model.ValidationError
	if !errors.As(err, &verr) || verr.Field != "title" {
		t.Fatalf("expected title ValidationError, got %v", err)
	}
	if st.Len() != 7 || st.Version() != 0 {
		t.Fatalf("expected no state change after rejected add")
	}
}

func TestUpdate_MergesOnlySuppliedFields(t *testing.T) {
	st := newSampleStore(t)
	done := model.StatusDone
	got, err := st.Update("task-1", model.Patch{Status: &done})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Status != model.StatusDone || got.Title != "Design new homepage" || got.Priority != model.PriorityHigh {
		t.Fatalf("unexpected task after update: %+v", got)
	}
	stored, ok := st.Get("task-1")
	if !ok || stored.Status != model.StatusDone {
		t.Fatalf("expected stored status done, got %+v", stored)
	}
}

func TestUpdateDelete_UnknownIDIsNotFoundNoOp(t *testing.T) {
	st := newSampleStore(t)
	notified := 0
	st.Subscribe(func(Change) { notified++ })
	before := st.Tasks()

	title := "x"
	_, err := st.Update("nope", model.Patch{Title: &title})
	var nf NotFoundError
	if !errors.As(err, &nf) || nf.ID != "nope" || nf.Kind != "task" {
		t.Fatalf("expected NotFoundError for update, got %v", err)
	}
	if _, err := st.Delete("nope"); !IsNotFound(err) {
		t.Fatalf("expected NotFoundError for delete, got %v", err)
	}
	if notified != 0 || st.Version() != 0 {
		t.Fatalf("expected no notification or version bump, got %d notifications", notified)
	}
	after := st.Tasks()
	if len(after) != len(before) {
		t.Fatalf("expected collection unchanged")
	}
}

func TestUpdate_ValidationAndNoOpPatch(t *testing.T) {
	st := newSampleStore(t)
	notified := 0
	st.Subscribe(func(Change) { notified++ })

	bad := model.Priority("Urgent")
	if _, err := st.Update("task-2", model.Patch{Priority: &bad}); err == nil {
		t.Fatalf("expected invalid priority to be rejected")
	}
	same := model.StatusTodo
	if _, err := st.Update("task-2", model.Patch{Status: &same}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if _, err := st.Update("task-2", model.Patch{}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if notified != 0 {
		t.Fatalf("expected unchanged task not to notify, got %d", notified)
	}
}

func TestDelete_RemovesAndPreservesOrder(t *testing.T) {
	st := newSampleStore(t)
	removed, err := st.Delete("task-3")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if removed.Title != "API Integration" {
		t.Fatalf("unexpected removed task: %+v", removed)
	}
	var ids []string
	for _, task := range st.Tasks() {
		ids = append(ids, task.ID)
	}
	want := []string{"task-1", "task-2", "task-4", "task-5", "task-6", "task-7"}
	if len(ids) != len(want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, ids)
		}
	}
}

func TestSubscribe_NotifiesInOrderWithSnapshot(t *testing.T) {
	st := newSampleStore(t)
	var changes []Change
	cancel := st.Subscribe(func(c Change) { changes = append(changes, c) })

	added, _ := st.Add(draft("first"))
	review := model.StatusReview
	_, _ = st.Update(added.ID, model.Patch{Status: &review})
	_, _ = st.Delete(added.ID)

	if len(changes) != 3 {
		t.Fatalf("expected 3 changes, got %d", len(changes))
	}
	kinds := []ChangeKind{ChangeAdded, ChangeUpdated, ChangeDeleted}
	for i, c := range changes {
		if c.Kind != kinds[i] {
			t.Fatalf("change %d: expected %s, got %s", i, kinds[i], c.Kind)
		}
		if c.Version != uint64(i+1) {
			t.Fatalf("change %d: expected version %d, got %d", i, i+1, c.Version)
		}
	}
	if len(changes[0].Snapshot) != 8 || len(changes[2].Snapshot) != 7 {
		t.Fatalf("expected snapshots to reflect the post-mutation collection")
	}
	if changes[1].Previous == nil || changes[1].Previous.Status != model.StatusTodo || changes[1].Task.Status != model.StatusReview {
		t.Fatalf("expected update change to carry previous and next task")
	}

	cancel()
	cancel()
	_, _ = st.Add(draft("second"))
	if len(changes) != 3 {
		t.Fatalf("expected no notification after cancel")
	}
}

func TestSubscribe_ListenerCanReadStore(t *testing.T) {
	st := newSampleStore(t)
	var seen int
	st.Subscribe(func(Change) { seen = st.Len() })
	if _, err := st.Add(draft("x")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if seen != 8 {
		t.Fatalf("expected listener to observe 8 tasks, got %d", seen)
	}
}

func TestConcurrentWriters_SerializedNotifications(t *testing.T) {
	st := newSampleStore(t)
	var (
		mu       sync.Mutex
		versions []uint64
	)
	st.Subscribe(func(c Change) {
		mu.Lock()
		versions = append(versions, c.Version)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = st.Add(draft("concurrent"))
		}()
	}
	wg.Wait()

	if len(versions) != 20 {
		t.Fatalf("expected 20 notifications, got %d", len(versions))
	}
	for i, v := range versions {
		if v != uint64(i+1) {
			t.Fatalf("expected notifications in version order, got %v", versions)
		}
	}
}

func TestSnapshot_VersionMatchesTasks(t *testing.T) {
	st := newSampleStore(t)
	base := st.Len()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_, _ = st.Add(draft("racing"))
		}
	}()
	for i := 0; i < 200; i++ {
		// Every Add bumps the version by one and appends one task.
		v, tasks := st.Snapshot()
		if len(tasks) != base+int(v) {
			t.Fatalf("snapshot at version %d has %d tasks, expected %d", v, len(tasks), base+int(v))
		}
	}
	wg.Wait()

	if v, tasks := st.Snapshot(); v != 200 || len(tasks) != base+200 {
		t.Fatalf("expected version 200 with %d tasks, got %d with %d", base+200, v, len(tasks))
	}
}

func TestClose_RejectsMutations(t *testing.T) {
	st := newSampleStore(t)
	notified := 0
	st.Subscribe(func(Change) { notified++ })
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := st.Add(draft("late")); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if _, err := st.Delete("task-1"); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if st.Len() != 7 || notified != 0 {
		t.Fatalf("expected reads to keep working and no notifications")
	}
}

package store

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"taskboard/internal/model"
)

type ChangeKind string

const (
	ChangeAdded   ChangeKind = "added"
	ChangeUpdated ChangeKind = "updated"
	ChangeDeleted ChangeKind = "deleted"
)

// Change describes one applied mutation.
// Snapshot is the full task list after the mutation; it is shared between
// listeners and must be treated as read-only.
type Change struct {
	Kind     ChangeKind   `json:"kind"`
	Task     model.Task   `json:"task"`
	Previous *model.Task  `json:"previous,omitempty"`
	Version  uint64       `json:"version"`
	Snapshot []model.Task `json:"-"`
}

// Listener is called synchronously after each mutation, in mutation order.
// Listeners must not mutate the store they are subscribed to.
type Listener func(Change)

// Store owns the task collection of one session.
type Store struct {
	mu sync.RWMutex
	// dispatchMu is held by writers from mutation through notification; always taken before mu.
	dispatchMu sync.Mutex

	sessionID string
	roster    model.Roster
	log       zerolog.Logger
	now       func() time.Time
	newID     func() (string, error)

	tasks       []model.Task
	issued      map[string]struct{}
	fallbackSeq int
	version     uint64
	closed      bool

	listeners    map[uint64]Listener
	nextListener uint64
}

type Option func(*Store)

// WithTasks seeds the store. Seed tasks are validated by New.
func WithTasks(tasks []model.Task) Option {
	return func(s *Store) {
		s.tasks = append([]model.Task(nil), tasks...)
	}
}

// WithRoster restricts assignees to the given members. A nil roster accepts any assignee.
func WithRoster(r model.Roster) Option {
	return func(s *Store) { s.roster = r }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

func WithIDGenerator(gen func() (string, error)) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func New(opts ...Option) (*Store, error) {
	s := &Store{
		sessionID: uuid.NewString(),
		roster:    model.DefaultRoster(),
		log:       zerolog.Nop(),
		now:       time.Now,
		newID:     func() (string, error) { return newRandomID(taskIDPrefix) },
		issued:    map[string]struct{}{},
		listeners: map[uint64]Listener{},
	}
	for _, opt := range opts {
		opt(s)
	}
	for i, t := range s.tasks {
		t.Title = strings.TrimSpace(t.Title)
		t.Assignee = strings.TrimSpace(t.Assignee)
		if err := t.Validate(s.roster); err != nil {
			return nil, fmt.Errorf("seed task %d (%s): %w", i, t.ID, err)
		}
		if _, dup := s.issued[t.ID]; dup {
			return nil, fmt.Errorf("seed task %d: duplicate id %q", i, t.ID)
		}
		s.issued[t.ID] = struct{}{}
		s.tasks[i] = t
	}
	s.log = s.log.With().Str("session", s.sessionID).Logger()
	s.log.Debug().Int("tasks", len(s.tasks)).Msg("session store opened")
	return s, nil
}

func (s *Store) SessionID() string { return s.sessionID }

func (s *Store) Roster() model.Roster {
	return append(model.Roster(nil), s.roster...)
}

// Today is the current calendar day according to the store's clock.
func (s *Store) Today() model.Date {
	return model.DateOf(s.now())
}

// Tasks returns a copy of the collection in list order.
func (s *Store) Tasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) Get(id string) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.tasks[i], true
	}
	return model.Task{}, false
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Version increases by one with every applied mutation.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Snapshot returns the version and a copy of the tasks read under one lock,
// so the tasks are exactly the state at that version.
func (s *Store) Snapshot() (version uint64, tasks []model.Task) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version, s.snapshotLocked()
}

func (s *Store) Add(d model.Draft) (model.Task, error) {
	if err := d.Validate(s.roster); err != nil {
		return model.Task{}, err
	}
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return model.Task{}, ErrClosed
	}
	id := s.nextIDLocked()
	s.issued[id] = struct{}{}
	t := d.Task(id)
	s.tasks = append(s.tasks, t)
	s.publishLocked(Change{Kind: ChangeAdded, Task: t})

	s.log.Debug().Str("task", id).Str("status", string(t.Status)).Msg("task added")
	return t, nil
}

// Update merges the supplied fields into task id.
// An unknown id returns NotFoundError and leaves the store untouched.
func (s *Store) Update(id string, p model.Patch) (model.Task, error) {
	id = strings.TrimSpace(id)
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return model.Task{}, ErrClosed
	}
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return model.Task{}, errTaskNotFound(id)
	}
	prev := s.tasks[i]
	if err := p.Validate(prev, s.roster); err != nil {
		s.mu.Unlock()
		return model.Task{}, err
	}
	next := p.Apply(prev)
	if sameTask(next, prev) {
		s.mu.Unlock()
		return next, nil
	}
	s.tasks[i] = next
	s.publishLocked(Change{Kind: ChangeUpdated, Task: next, Previous: &prev})

	s.log.Debug().Str("task", id).Msg("task updated")
	return next, nil
}

// Delete removes task id and returns it.
// An unknown id returns NotFoundError and leaves the store untouched.
func (s *Store) Delete(id string) (model.Task, error) {
	id = strings.TrimSpace(id)
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return model.Task{}, ErrClosed
	}
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return model.Task{}, errTaskNotFound(id)
	}
	removed := s.tasks[i]
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	s.publishLocked(Change{Kind: ChangeDeleted, Task: removed, Previous: &removed})

	s.log.Debug().Str("task", id).Msg("task deleted")
	return removed, nil
}

// Subscribe registers l and returns a func that removes it.
func (s *Store) Subscribe(l Listener) (cancel func()) {
	if l == nil {
		return func() {}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return func() {}
	}
	s.nextListener++
	key := s.nextListener
	s.listeners[key] = l
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, key)
			s.mu.Unlock()
		})
	}
}

// Close ends the session: listeners are dropped and further mutations fail with ErrClosed.
// Reads keep working on the last state.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.listeners = map[uint64]Listener{}
	s.log.Debug().Uint64("version", s.version).Msg("session store closed")
	return nil
}

// publishLocked bumps the version and notifies listeners. It is entered with
// s.mu and s.dispatchMu held and returns with s.mu released, so listeners can
// read the store while later writers wait on dispatchMu.
func (s *Store) publishLocked(c Change) {
	s.version++
	c.Version = s.version
	c.Snapshot = s.snapshotLocked()
	ls := make([]Listener, 0, len(s.listeners))
	for _, k := range slices.Sorted(maps.Keys(s.listeners)) {
		ls = append(ls, s.listeners[k])
	}
	s.mu.Unlock()
	for _, l := range ls {
		l(c)
	}
}

func (s *Store) snapshotLocked() []model.Task {
	return append([]model.Task(nil), s.tasks...)
}

func (s *Store) indexLocked(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func sameTask(a, b model.Task) bool {
	return a.ID == b.ID && a.Title == b.Title && a.Description == b.Description &&
		a.Priority == b.Priority && a.Assignee == b.Assignee &&
		a.DueDate.Equal(b.DueDate) && a.Status == b.Status
}

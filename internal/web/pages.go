package web

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/starfederation/datastar-go/datastar"

	"taskboard/internal/board"
	"taskboard/internal/model"
	"taskboard/internal/statusutil"
	"taskboard/internal/view"
)

type taskVM struct {
	model.Task
	AssigneeName string
	Overdue      bool
}

type columnVM struct {
	Status model.Status
	Label  string
	Tasks  []taskVM
}

type boardVM struct {
	Query    view.Query
	Columns  []columnVM
	List     []taskVM
	Stats    view.Summary
	Total    int
	Version  uint64
	Today    string
	ReadOnly bool
}

type pageVM struct {
	Board      boardVM
	EventsURL  string
	Roster     model.Roster
	Statuses   []model.Status
	Priorities []model.Priority
	SortKeys   []view.SortKey
	Error      string
}

func queryFromValues(v url.Values) (view.Query, error) {
	return view.ParseQuery(v.Get("search"), v.Get("status"), v.Get("priority"), v.Get("assignee"), v.Get("sort"), v.Get("dir"))
}

func (s *Server) boardVM(q view.Query) boardVM {
	version, all := s.st.Snapshot()
	today := s.st.Today()
	roster := s.st.Roster()

	toVM := func(t model.Task) taskVM {
		return taskVM{Task: t, AssigneeName: roster.Label(t.Assignee), Overdue: view.IsOverdue(t, today)}
	}

	visible := view.Apply(all, q)
	vm := boardVM{
		Query:    q,
		Stats:    view.Summarize(all, today, roster),
		Total:    len(all),
		Version:  version,
		Today:    today.String(),
		ReadOnly: s.cfg.ReadOnly,
	}
	for _, col := range view.ByStatus(view.Apply(all, q.Unsorted())) {
		c := columnVM{Status: col.Status, Label: col.Status.Label(), Tasks: make([]taskVM, 0, len(col.Tasks))}
		for _, t := range col.Tasks {
			c.Tasks = append(c.Tasks, toVM(t))
		}
		vm.Columns = append(vm.Columns, c)
	}
	for _, t := range visible {
		vm.List = append(vm.List, toVM(t))
	}
	return vm
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	vals := r.URL.Query()
	q, err := queryFromValues(vals)
	errMsg := strings.TrimSpace(vals.Get("error"))
	if err != nil {
		q = view.DefaultQuery()
		errMsg = err.Error()
	} else if !vals.Has("sort") {
		q.SortKey = view.SortDueDate
	}

	vm := pageVM{
		Board:      s.boardVM(q),
		EventsURL:  "/events?" + eventsQuery(q).Encode(),
		Roster:     s.st.Roster(),
		Statuses:   model.Statuses(),
		Priorities: model.Priorities(),
		SortKeys:   view.SortKeys(),
		Error:      errMsg,
	}
	s.writeHTMLTemplate(w, "index.html", vm)
}

func eventsQuery(q view.Query) url.Values {
	v := url.Values{}
	v.Set("search", q.Search)
	v.Set("status", q.Status)
	v.Set("priority", q.Priority)
	v.Set("assignee", q.Assignee)
	v.Set("sort", string(q.SortKey))
	v.Set("dir", string(q.Direction))
	return v
}

// handleBoardEvents streams the board fragment: once on connect, then after
// every store change.
func (s *Server) handleBoardEvents(w http.ResponseWriter, r *http.Request) {
	q, err := queryFromValues(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ch, cancel := s.hub.subscribe()
	defer cancel()

	sse := datastar.NewSSE(w, r)
	render := func() error {
		vm := s.boardVM(q)
		html, err := s.renderTemplate("board", vm)
		if err != nil {
			return err
		}
		if err := sse.PatchElements(html, datastar.WithSelector("#board"), datastar.WithMode(datastar.ElementPatchModeOuter)); err != nil {
			return err
		}
		return sse.MarshalAndPatchSignals(map[string]any{"version": vm.Version})
	}
	if err := render(); err != nil {
		s.log.Debug().Err(err).Msg("board stream")
		return
	}

	keepAlive := time.NewTicker(25 * time.Second)
	defer keepAlive.Stop()

	for {
		select {
		case <-sse.Context().Done():
			return
		case <-keepAlive.C:
			_ = sse.PatchSignals([]byte(`{}`))
		case _, ok := <-ch:
			if !ok {
				return
			}
			if err := render(); err != nil {
				_ = sse.ExecuteScript(fmt.Sprintf(`console.error(%q)`, err.Error()))
			}
		}
	}
}

func (s *Server) handleTaskCreateForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	d, err := draftFromForm(r.PostForm)
	if err == nil {
		var t model.Task
		t, err = s.st.Add(d.WithDefaults(s.st.Today()))
		if err == nil {
			s.log.Info().Str("task", t.ID).Msg("task created")
		}
	}
	if err != nil {
		http.Redirect(w, r, "/?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
		return
	}
	redirectBack(w, r, "/")
}

func draftFromForm(v url.Values) (model.Draft, error) {
	d := model.Draft{
		Title:       strings.TrimSpace(v.Get("title")),
		Description: strings.TrimSpace(v.Get("description")),
		Assignee:    strings.TrimSpace(v.Get("assignee")),
	}
	if p := strings.TrimSpace(v.Get("priority")); p != "" {
		pr, err := statusutil.ParsePriority(p)
		if err != nil {
			return model.Draft{}, err
		}
		d.Priority = pr
	}
	if st := strings.TrimSpace(v.Get("status")); st != "" {
		status, err := statusutil.ParseStatus(st)
		if err != nil {
			return model.Draft{}, err
		}
		d.Status = status
	}
	if due := strings.TrimSpace(v.Get("dueDate")); due != "" {
		parsed, err := model.ParseDate(due)
		if err != nil {
			return model.Draft{}, err
		}
		d.DueDate = parsed
	}
	return d, nil
}

func (s *Server) handleTaskMoveForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := board.Move(s.st, r.PathValue("taskId"), r.PostForm.Get("target"))
	if err != nil {
		http.Redirect(w, r, "/?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
		return
	}
	if res.Changed {
		s.log.Info().Str("task", res.Task.ID).Str("from", string(res.From)).Str("to", string(res.To)).Msg("task moved")
	}
	redirectBack(w, r, "/")
}

func (s *Server) handleTaskDeleteForm(w http.ResponseWriter, r *http.Request) {
	removed, err := s.st.Delete(r.PathValue("taskId"))
	if err != nil {
		http.Redirect(w, r, "/?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
		return
	}
	s.log.Info().Str("task", removed.ID).Msg("task deleted")
	redirectBack(w, r, "/")
}

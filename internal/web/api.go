package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"taskboard/internal/board"
	"taskboard/internal/format"
	"taskboard/internal/model"
	"taskboard/internal/store"
	"taskboard/internal/view"
)

func (s *Server) handleAPITasks(w http.ResponseWriter, r *http.Request) {
	q, err := queryFromValues(r.URL.Query())
	if err != nil {
		writeAPIError(w, err)
		return
	}
	version, all := s.st.Snapshot()
	tasks := view.Apply(all, q)
	writeJSON(w, http.StatusOK, format.Envelope{Data: tasks, Meta: map[string]any{
		"count":   len(tasks),
		"total":   len(all),
		"query":   q,
		"version": version,
	}})
}

func (s *Server) handleAPITask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("taskId")
	t, ok := s.st.Get(id)
	if !ok {
		writeAPIError(w, store.NotFoundError{Kind: "task", ID: id})
		return
	}
	writeJSON(w, http.StatusOK, format.Envelope{Data: t, Meta: map[string]any{
		"assigneeName": s.st.Roster().Label(t.Assignee),
		"overdue":      view.IsOverdue(t, s.st.Today()),
	}})
}

func (s *Server) handleAPITaskCreate(w http.ResponseWriter, r *http.Request) {
	var d model.Draft
	if err := decodeJSON(r, &d); err != nil {
		writeAPIError(w, err)
		return
	}
	t, err := s.st.Add(d.WithDefaults(s.st.Today()))
	if err != nil {
		writeAPIError(w, err)
		return
	}
	s.log.Info().Str("task", t.ID).Msg("task created")
	w.Header().Set("Location", "/api/tasks/"+t.ID)
	writeJSON(w, http.StatusCreated, format.Envelope{Data: t})
}

func (s *Server) handleAPITaskUpdate(w http.ResponseWriter, r *http.Request) {
	var p model.Patch
	if err := decodeJSON(r, &p); err != nil {
		writeAPIError(w, err)
		return
	}
	if p.Empty() {
		writeAPIError(w, errors.New("empty patch"))
		return
	}
	t, err := s.st.Update(r.PathValue("taskId"), p)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, format.Envelope{Data: t})
}

func (s *Server) handleAPITaskDelete(w http.ResponseWriter, r *http.Request) {
	removed, err := s.st.Delete(r.PathValue("taskId"))
	if err != nil {
		writeAPIError(w, err)
		return
	}
	s.log.Info().Str("task", removed.ID).Msg("task deleted")
	writeJSON(w, http.StatusOK, format.Envelope{Data: removed, Meta: map[string]any{"remaining": s.st.Len()}})
}

type moveReq struct {
	// Target is a status column id or the id of the card dropped on.
	Target string `json:"target"`
}

func (s *Server) handleAPITaskMove(w http.ResponseWriter, r *http.Request) {
	var req moveReq
	if err := decodeJSON(r, &req); err != nil {
		writeAPIError(w, err)
		return
	}
	res, err := board.Move(s.st, r.PathValue("taskId"), req.Target)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	if res.Reason == board.ReasonTaskNotFound {
		writeAPIError(w, store.NotFoundError{Kind: "task", ID: r.PathValue("taskId")})
		return
	}
	writeJSON(w, http.StatusOK, format.Envelope{Data: res})
}

func (s *Server) handleAPIBoard(w http.ResponseWriter, r *http.Request) {
	q, err := queryFromValues(r.URL.Query())
	if err != nil {
		writeAPIError(w, err)
		return
	}
	cols := view.ByStatus(view.Apply(s.st.Tasks(), q))
	writeJSON(w, http.StatusOK, format.Envelope{Data: cols, Meta: map[string]any{"count": cols.Total()}})
}

// handleAPICalendar serves ?month=YYYY-MM (default: the current month) or ?date=YYYY-MM-DD.
func (s *Server) handleAPICalendar(w http.ResponseWriter, r *http.Request) {
	tasks := s.st.Tasks()
	if d := strings.TrimSpace(r.URL.Query().Get("date")); d != "" {
		day, err := model.ParseDate(d)
		if err != nil {
			writeAPIError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, format.Envelope{Data: view.OnDate(tasks, day)})
		return
	}
	today := s.st.Today()
	year, month := today.Year(), today.Month()
	if m := strings.TrimSpace(r.URL.Query().Get("month")); m != "" {
		t, err := time.Parse("2006-01", m)
		if err != nil {
			writeAPIError(w, fmt.Errorf("invalid month %q (expected YYYY-MM)", m))
			return
		}
		year, month = t.Year(), t.Month()
	}
	writeJSON(w, http.StatusOK, format.Envelope{Data: view.MonthGrid(year, month, tasks)})
}

func (s *Server) handleAPIStats(w http.ResponseWriter, r *http.Request) {
	today := s.st.Today()
	writeJSON(w, http.StatusOK, format.Envelope{
		Data: view.Summarize(s.st.Tasks(), today, s.st.Roster()),
		Meta: map[string]any{"today": today.String()},
	})
}

func (s *Server) handleAPIRoster(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, format.Envelope{Data: s.st.Roster()})
}

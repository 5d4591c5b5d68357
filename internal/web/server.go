package web

import (
	"bufio"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"taskboard/internal/format"
	"taskboard/internal/model"
	"taskboard/internal/store"
)

//go:embed templates/*.html static
var assetsFS embed.FS

// datastarCDN is the bundle matching the datastar-go SDK version in go.mod.
// It is used when static/datastar.js is not vendored into the binary.
const datastarCDN = "https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"

type ServerConfig struct {
	Addr  string
	Store *store.Store
	Log   zerolog.Logger
	// ReadOnly rejects every mutating request with 403.
	ReadOnly bool
}

type Server struct {
	cfg  ServerConfig
	st   *store.Store
	log  zerolog.Logger
	tmpl *template.Template
	hub  *changeHub

	unsubscribe func()
}

func NewServer(cfg ServerConfig) (*Server, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	if cfg.Addr == "" {
		return nil, errors.New("web: addr is empty")
	}
	if cfg.Store == nil {
		return nil, errors.New("web: store is nil")
	}

	tmpl, err := template.New("base").Funcs(template.FuncMap{
		"markdown":      renderMarkdownHTML,
		"statusLabel":   func(s model.Status) string { return s.Label() },
		"priorityClass": func(p model.Priority) string { return "prio-" + strings.ToLower(string(p)) },
	}).ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:  cfg,
		st:   cfg.Store,
		log:  cfg.Log.With().Str("component", "web").Logger(),
		tmpl: tmpl,
		hub:  newChangeHub(),
	}
	// broadcast never blocks, so it is safe to run inside the store's notification.
	s.unsubscribe = s.st.Subscribe(s.hub.broadcast)
	return s, nil
}

func (s *Server) Addr() string { return s.cfg.Addr }

// Close detaches the server from the store and ends open event streams.
func (s *Server) Close() {
	s.unsubscribe()
	s.hub.close()
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /static/app.css", s.handleAppCSS)
	mux.HandleFunc("GET /static/datastar.js", s.handleDatastarJS)

	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /events", s.handleBoardEvents)
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("POST /tasks", s.mutating(s.handleTaskCreateForm))
	mux.HandleFunc("POST /tasks/{taskId}/move", s.mutating(s.handleTaskMoveForm))
	mux.HandleFunc("POST /tasks/{taskId}/delete", s.mutating(s.handleTaskDeleteForm))

	mux.HandleFunc("GET /api/tasks", s.handleAPITasks)
	mux.HandleFunc("GET /api/tasks/{taskId}", s.handleAPITask)
	mux.HandleFunc("POST /api/tasks", s.mutating(s.handleAPITaskCreate))
	mux.HandleFunc("PATCH /api/tasks/{taskId}", s.mutating(s.handleAPITaskUpdate))
	mux.HandleFunc("DELETE /api/tasks/{taskId}", s.mutating(s.handleAPITaskDelete))
	mux.HandleFunc("POST /api/tasks/{taskId}/move", s.mutating(s.handleAPITaskMove))
	mux.HandleFunc("GET /api/board", s.handleAPIBoard)
	mux.HandleFunc("GET /api/calendar", s.handleAPICalendar)
	mux.HandleFunc("GET /api/stats", s.handleAPIStats)
	mux.HandleFunc("GET /api/roster", s.handleAPIRoster)
	return s.logRequests(mux)
}

func (s *Server) mutating(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.ReadOnly {
			http.Error(w, "read-only", http.StatusForbidden)
			return
		}
		h(w, r)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps SSE streaming working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack lets the websocket upgrade through the recorder.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("web: response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := strings.TrimSpace(r.Header.Get("X-Request-Id"))
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", reqID)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		s.log.Debug().
			Str("request_id", reqID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleAppCSS(w http.ResponseWriter, r *http.Request) {
	b, err := assetsFS.ReadFile("static/app.css")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write(b)
}

func (s *Server) handleDatastarJS(w http.ResponseWriter, r *http.Request) {
	b, err := assetsFS.ReadFile("static/datastar.js")
	if err != nil || len(b) == 0 {
		http.Redirect(w, r, datastarCDN, http.StatusFound)
		return
	}
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	_, _ = w.Write(b)
}

func (s *Server) renderTemplate(name string, data any) (string, error) {
	var b strings.Builder
	if err := s.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Server) writeHTMLTemplate(w http.ResponseWriter, name string, data any) {
	html, err := s.renderTemplate(name, data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = format.WriteJSON(w, v, false)
}

type apiError struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// writeAPIError maps store and validation errors to HTTP statuses.
func writeAPIError(w http.ResponseWriter, err error) {
	var verr model.ValidationError
	switch {
	case store.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, apiError{Error: err.Error()})
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, apiError{Error: err.Error(), Field: verr.Field})
	case errors.Is(err, model.ErrMalformedDate):
		writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error(), Field: "dueDate"})
	case errors.Is(err, store.ErrClosed):
		writeJSON(w, http.StatusServiceUnavailable, apiError{Error: err.Error()})
	default:
		writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error()})
	}
}

func redirectBack(w http.ResponseWriter, r *http.Request, fallback string) {
	ref := strings.TrimSpace(r.Header.Get("Referer"))
	if ref != "" {
		http.Redirect(w, r, ref, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, fallback, http.StatusSeeOther)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// changeHub fans store changes out to event streams. Slow subscribers miss
// changes; the Version gap tells them to resync.
type changeHub struct {
	mu     sync.Mutex
	subs   map[chan store.Change]struct{}
	closed bool
}

func newChangeHub() *changeHub {
	return &changeHub{subs: map[chan store.Change]struct{}{}}
}

func (h *changeHub) subscribe() (ch chan store.Change, cancel func()) {
	ch = make(chan store.Change, 16)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	h.subs[ch] = struct{}{}
	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
	}
}

func (h *changeHub) broadcast(c store.Change) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- c:
		default:
		}
	}
}

func (h *changeHub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
}

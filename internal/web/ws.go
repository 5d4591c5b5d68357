package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"taskboard/internal/board"
	"taskboard/internal/model"
	"taskboard/internal/store"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  4 * 1024,
	WriteBufferSize: 32 * 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin == "" {
			return true
		}
		host := strings.TrimSpace(r.Host)
		return strings.Contains(origin, "://"+host)
	},
}

// wsEvent is one server-to-client frame.
//
//	snapshot: Tasks holds the full list at Version
//	change:   Change holds one mutation
//	move:     Move answers a client move request
//	error:    Error explains a rejected request
//
// A change whose Version is not above the last snapshot's is already in it.
type wsEvent struct {
	Type    string            `json:"type"`
	Version uint64            `json:"version,omitempty"`
	Tasks   []model.Task      `json:"tasks,omitempty"`
	Change  *store.Change     `json:"change,omitempty"`
	Move    *board.MoveResult `json:"move,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// wsRequest is a client-to-server frame. Only "move" and "resync" are understood.
type wsRequest struct {
	Type   string `json:"type"`
	TaskID string `json:"taskId"`
	Target string `json:"target"`
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		s.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Subscribe before the snapshot so no change falls in between.
	ch, unsubscribe := s.hub.subscribe()
	defer unsubscribe()

	out := make(chan wsEvent, 16)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer cancel()
		s.wsReadLoop(ctx, conn, out)
	}()

	s.wsWriteLoop(ctx, conn, ch, out)
	cancel()
	_ = conn.Close()
	wg.Wait()
}

func (s *Server) snapshotEvent() wsEvent {
	v, tasks := s.st.Snapshot()
	return wsEvent{Type: "snapshot", Version: v, Tasks: tasks}
}

func (s *Server) wsWriteLoop(ctx context.Context, conn *websocket.Conn, changes <-chan store.Change, replies <-chan wsEvent) {
	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	write := func(ev wsEvent) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		return conn.WriteJSON(ev) == nil
	}
	if !write(s.snapshotEvent()) {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case c, ok := <-changes:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
					time.Now().Add(wsWriteWait))
				return
			}
			c.Snapshot = nil
			if !write(wsEvent{Type: "change", Version: c.Version, Change: &c}) {
				return
			}
		case ev := <-replies:
			if !write(ev) {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}

func (s *Server) wsReadLoop(ctx context.Context, conn *websocket.Conn, replies chan<- wsEvent) {
	conn.SetReadLimit(64 * 1024)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	reply := func(ev wsEvent) {
		select {
		case replies <- ev:
		case <-ctx.Done():
		}
	}
	for {
		var req wsRequest
		if err := conn.ReadJSON(&req); err != nil {
			if _, ok := err.(*json.SyntaxError); ok {
				reply(wsEvent{Type: "error", Error: "invalid json"})
				continue
			}
			return
		}
		switch strings.ToLower(strings.TrimSpace(req.Type)) {
		case "move":
			if s.cfg.ReadOnly {
				reply(wsEvent{Type: "error", Error: "read-only"})
				continue
			}
			res, err := board.Move(s.st, req.TaskID, req.Target)
			if err != nil {
				reply(wsEvent{Type: "error", Error: err.Error()})
				continue
			}
			reply(wsEvent{Type: "move", Move: &res})
		case "resync":
			reply(s.snapshotEvent())
		default:
			reply(wsEvent{Type: "error", Error: "unknown request type: " + req.Type})
		}
	}
}

package viewer

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/notesview/notesview/internal/notes"
)

const wsWriteTimeout = 10 * time.Second

// selectRequest is the incoming WebSocket message format.
type selectRequest struct {
	Type string `json:"type"` // "select"
	ID   string `json:"id"`
}

// stateMessage is sent whenever the connection's selection state changes.
type stateMessage struct {
	Type string `json:"type"` // "state"
	noteResponse
	Generation uint64 `json:"generation"`
}

// errorMessage reports a message the server could not act on.
type errorMessage struct {
	Type  string `json:"type"` // "error"
	Error string `json:"error"`
}

// handleWebSocket gives every connection its own selection controller.
// Incoming select messages drive it; every published state is pushed back.
// Only the writer goroutine writes to the connection.
func (v *Viewer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := v.upgrader.Upgrade(w, r, nil)
	if err != nil {
		v.logger.Warnw("websocket upgrade", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	ctrl := notes.NewController(ctx, v.loader, v.resolver, v.logger)
	states, unsubscribe := ctrl.Subscribe()
	defer unsubscribe()

	errs := make(chan string, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		v.writeLoop(conn, states, errs)
	}()

	v.readLoop(conn, ctrl, errs)

	// Closing the controller closes states, which ends the writer.
	ctrl.Close()
	<-done
}

func (v *Viewer) readLoop(conn *websocket.Conn, ctrl *notes.Controller, errs chan<- string) {
	report := func(msg string) {
		select {
		case errs <- msg:
		default:
		}
	}
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				v.logger.Debugw("websocket read", "error", err)
			}
			return
		}

		var req selectRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			report("invalid message format")
			continue
		}
		if req.Type != "select" {
			report("unknown message type: " + req.Type)
			continue
		}
		ctrl.Select(req.ID)
	}
}

func (v *Viewer) writeLoop(conn *websocket.Conn, states <-chan notes.State, errs <-chan string) {
	for {
		var out interface{}
		select {
		case st, ok := <-states:
			if !ok {
				return
			}
			// Generation 0 is the initial state, before any select.
			if st.Generation == 0 {
				continue
			}
			out = stateMessage{
				Type:         "state",
				noteResponse: v.noteResponse(st.Selection, st.Result, v.renderResult(st.Selection, st.Result)),
				Generation:   st.Generation,
			}
		case msg := <-errs:
			out = errorMessage{Type: "error", Error: msg}
		}

		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(out); err != nil {
			v.logger.Debugw("websocket write", "error", err)
			return
		}
	}
}

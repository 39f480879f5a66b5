package edit

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/LegacyCodeHQ/unfurl/cmd/watch/protocol"
	"github.com/LegacyCodeHQ/unfurl/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// editServer owns the session being edited. Sessions are not safe for
// concurrent use, so every connection funnels through the mutex.
type editServer struct {
	mu     sync.Mutex
	s      *session.Session
	nextID int64
}

func newEditServer(s *session.Session) *editServer {
	return &editServer{s: s}
}

func newServer(es *editServer, port int) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc(routeIndex, handleIndex)
	mux.HandleFunc(routeWS, es.handleWS)

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
}

func handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(editorHTML)); err != nil {
		http.Error(w, "failed to render page", http.StatusInternalServerError)
	}
}

// handleWS upgrades the connection, sends the current view, and then
// answers each client message in order.
func (es *editServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	if err := conn.WriteJSON(es.snapshot()); err != nil {
		return
	}

	ctx := r.Context()
	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if err := conn.WriteJSON(es.handleMessage(ctx, msg)); err != nil {
			return
		}
	}
}

func (es *editServer) handleMessage(ctx context.Context, msg clientMessage) any {
	switch msg.Type {
	case "edit":
		return es.applyEdit(msg.Index, msg.Text)
	case "save":
		return es.save(ctx)
	default:
		return errorMessage{Type: messageError, Message: fmt.Sprintf("unsupported type: %s", msg.Type)}
	}
}

func (es *editServer) snapshot() snapshotMessage {
	es.mu.Lock()
	defer es.mu.Unlock()

	es.nextID++
	return snapshotMessage{
		Type:         messageSnapshot,
		ViewSnapshot: protocol.SnapshotFrom(es.s, es.nextID, time.Now()),
	}
}

func (es *editServer) applyEdit(index int, text string) editResultMessage {
	es.mu.Lock()
	defer es.mu.Unlock()

	outcome := es.s.ApplyEdit(index, text)
	canonical, _ := es.s.LineAt(index)
	return editResultMessage{
		Type:     messageEditResult,
		Index:    index,
		Accepted: outcome.Accepted,
		Text:     canonical,
		Reason:   outcome.Reason,
	}
}

func (es *editServer) save(ctx context.Context) saveResultMessage {
	es.mu.Lock()
	defer es.mu.Unlock()

	results := es.s.Save(ctx)
	files := make([]saveFileOutcome, len(results))
	for i, result := range results {
		files[i] = saveFileOutcome{Path: result.Path, OK: result.OK}
		if result.Err != nil {
			files[i].Error = result.Err.Error()
		}
	}
	return saveResultMessage{Type: messageSaveResult, Files: files}
}

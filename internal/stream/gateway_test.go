package stream

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
)

// gateway is an in-process stream gateway. script runs after the handshake
// of every accepted connection; returning true closes the socket normally.
type gateway struct {
	srv      *httptest.Server
	upgrader websocket.Upgrader
	script   func(id string, ws *websocket.Conn) bool
	refuse   func(id string) bool

	mu         sync.Mutex
	handshakes []handshake
	attempts   map[string]int
	closed     map[string]int
}

func newGateway(t *testing.T, script func(id string, ws *websocket.Conn) bool) *gateway {
	t.Helper()

	g := &gateway{
		script:   script,
		attempts: make(map[string]int),
		closed:   make(map[string]int),
	}
	g.srv = httptest.NewServer(http.HandlerFunc(g.serve))
	t.Cleanup(g.srv.Close)

	return g
}

func (g *gateway) baseURL() string {
	return "ws" + strings.TrimPrefix(g.srv.URL, "http") + "/stream"
}

func (g *gateway) serve(w http.ResponseWriter, r *http.Request) {
	id := path.Base(r.URL.Path)

	g.mu.Lock()
	g.attempts[id]++
	refuse := g.refuse != nil && g.refuse(id)
	g.mu.Unlock()

	if refuse {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)

		return
	}

	ws, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer func() {
		ws.Close()

		g.mu.Lock()
		g.closed[id]++
		g.mu.Unlock()
	}()

	var hs handshake
	if err := ws.ReadJSON(&hs); err != nil {
		return
	}

	g.mu.Lock()
	g.handshakes = append(g.handshakes, hs)
	g.mu.Unlock()

	if g.script != nil && g.script(id, ws) {
		_ = ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))

		return
	}

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return
		}
	}
}

func (g *gateway) handshakeCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.handshakes)
}

func (g *gateway) closedCount(id string) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.closed[id]
}

func (g *gateway) attemptCount(id string) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.attempts[id]
}

func send(ws *websocket.Conn, v any) {
	data, _ := json.Marshal(v)
	_ = ws.WriteMessage(websocket.TextMessage, data)
}

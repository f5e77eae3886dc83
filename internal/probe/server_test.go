package probe

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// testServer is an in-process WebSocket endpoint whose per-connection
// behaviour is supplied by the test.
type testServer struct {
	*httptest.Server
	conns    atomic.Int32
	mu       sync.Mutex
	received []string
}

func newTestServer(t *testing.T, handle func(ts *testServer, conn *websocket.Conn)) *testServer {
	t.Helper()
	ts := &testServer{}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		ts.conns.Add(1)
		handle(ts, conn)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func (ts *testServer) wsURL() string {
	return "ws" + strings.TrimPrefix(ts.URL, "http")
}

func (ts *testServer) record(msg []byte) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.received = append(ts.received, string(msg))
}

func (ts *testServer) messages() []string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return append([]string(nil), ts.received...)
}

// echoOnce mirrors the first message back, then reports how the client left.
func echoOnce(closed chan<- error) func(*testServer, *websocket.Conn) {
	return func(ts *testServer, conn *websocket.Conn) {
		mt, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		ts.record(msg)
		if err := conn.WriteMessage(mt, msg); err != nil {
			return
		}
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if closed != nil {
					closed <- err
				}
				return
			}
			ts.record(msg)
		}
	}
}

package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViewerServer(t *testing.T, m *Manager) string {
	t.Helper()
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		id := m.Register(conn)
		defer m.Unregister(id)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestBroadcastReachesEveryViewer(t *testing.T) {
	m := NewManager()
	url := newViewerServer(t, m)

	a := dial(t, url)
	b := dial(t, url)
	require.Eventually(t, func() bool { return m.Count() == 2 }, time.Second, 5*time.Millisecond)

	sent := m.Broadcast("activity", map[string]int{"field_id": 3})
	assert.Equal(t, 2, sent)

	for _, conn := range []*websocket.Conn{a, b} {
		_ = conn.SetReadDeadline(time.Now().Add(time.Second))
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err)

		var msg struct {
			Type string         `json:"type"`
			Data map[string]int `json:"data"`
		}
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, "activity", msg.Type)
		assert.Equal(t, 3, msg.Data["field_id"])
	}
}

func TestViewerDisconnectUnregisters(t *testing.T) {
	m := NewManager()
	url := newViewerServer(t, m)

	conn := dial(t, url)
	require.Eventually(t, func() bool { return m.Count() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return m.Count() == 0 }, time.Second, 5*time.Millisecond)
}

func TestSendToUnknownViewer(t *testing.T) {
	assert.Error(t, NewManager().Send("nope", []byte("x")))
	assert.Empty(t, NewManager().List())
}

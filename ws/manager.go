package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Message is the envelope pushed to dashboard viewers.
type Message struct {
	Type string      `json:"type"` // fields | activity | watering
	Data interface{} `json:"data"`
	At   string      `json:"at"`
}

type viewer struct {
	mu   sync.Mutex // gorilla allows one concurrent writer
	conn *websocket.Conn
}

func (v *viewer) write(payload []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	_ = v.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return v.conn.WriteMessage(websocket.TextMessage, payload)
}

// Manager keeps track of connected dashboard viewers.
type Manager struct {
	mu      sync.RWMutex
	viewers map[string]*viewer // viewerID -> conn
}

func NewManager() *Manager {
	return &Manager{viewers: make(map[string]*viewer)}
}

// Register adds a viewer connection and returns its id.
func (m *Manager) Register(conn *websocket.Conn) string {
	id := uuid.NewString()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.viewers[id] = &viewer{conn: conn}
	return id
}

// Unregister removes a viewer connection.
func (m *Manager) Unregister(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.viewers[id]; ok {
		_ = v.conn.Close()
		delete(m.viewers, id)
	}
}

// Send sends a text message to one viewer if connected.
func (m *Manager) Send(id string, payload []byte) error {
	m.mu.RLock()
	v, ok := m.viewers[id]
	m.mu.RUnlock()
	if !ok {
		return errors.New("viewer not connected")
	}
	return v.write(payload)
}

// Ping sends a websocket ping control frame to one viewer.
func (m *Manager) Ping(id string) error {
	m.mu.RLock()
	v, ok := m.viewers[id]
	m.mu.RUnlock()
	if !ok {
		return errors.New("viewer not connected")
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second))
}

// Broadcast pushes msg to every viewer and drops the ones that fail.
// It returns the number of viewers reached.
func (m *Manager) Broadcast(msgType string, data interface{}) int {
	payload, err := json.Marshal(Message{Type: msgType, Data: data, At: time.Now().UTC().Format(time.RFC3339)})
	if err != nil {
		return 0
	}

	m.mu.RLock()
	targets := make(map[string]*viewer, len(m.viewers))
	for id, v := range m.viewers {
		targets[id] = v
	}
	m.mu.RUnlock()

	sent := 0
	for id, v := range targets {
		if err := v.write(payload); err != nil {
			m.Unregister(id)
			continue
		}
		sent++
	}
	return sent
}

// Count returns the number of connected viewers.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.viewers)
}

// List returns a copy of current connected viewer IDs.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.viewers))
	for id := range m.viewers {
		ids = append(ids, id)
	}
	return ids
}

// CloseAll disconnects every viewer, e.g. on shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, v := range m.viewers {
		_ = v.conn.Close()
		delete(m.viewers, id)
	}
}

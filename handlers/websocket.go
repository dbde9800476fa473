package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"aquasmart/usecases"
	"aquasmart/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Messages a viewer may send
type incomingMessage struct {
	Type string `json:"type"` // ping | hello
}

// WSHandler streams live dashboard updates to browser viewers.
type WSHandler struct {
	mgr      *ws.Manager
	watering *usecases.WateringUseCase
	log      *zap.SugaredLogger
}

func NewWSHandler(mgr *ws.Manager, watering *usecases.WateringUseCase, log *zap.SugaredLogger) *WSHandler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &WSHandler{mgr: mgr, watering: watering, log: log}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// HandleViewerWS upgrades to websocket and keeps the viewer registered until it leaves.
// GET /ws
func (h *WSHandler) HandleViewerWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warnf("websocket upgrade failed: %v", err)
		return
	}
	id := h.mgr.Register(conn)
	h.log.Debugf("viewer connected: %s", id)

	done := make(chan struct{})
	defer func() {
		close(done)
		h.mgr.Unregister(id)
		h.log.Debugf("viewer disconnected: %s", id)
	}()

	// A fresh viewer sees the running watering straight away.
	if h.watering != nil {
		if run, ok := h.watering.Active(); ok {
			h.send(id, "watering", run)
		}
	}

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go h.ping(id, done)

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debugf("read error from %s: %v", id, err)
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}

		var base incomingMessage
		if err := json.Unmarshal(message, &base); err != nil {
			h.log.Debugf("invalid json from %s: %v", id, err)
			continue
		}
		switch base.Type {
		case "ping":
			h.send(id, "pong", nil)
		case "hello":
			// no-op
		default:
			h.log.Debugf("unknown message type from %s: %s", id, base.Type)
		}
	}
}

func (h *WSHandler) ping(id string, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := h.mgr.Ping(id); err != nil {
				return
			}
		}
	}
}

func (h *WSHandler) send(id, msgType string, data interface{}) {
	b, _ := json.Marshal(ws.Message{Type: msgType, Data: data, At: time.Now().UTC().Format(time.RFC3339)})
	if err := h.mgr.Send(id, b); err != nil {
		h.log.Debugf("send to %s failed: %v", id, err)
	}
}

// GetViewers GET /api/v1/viewers
func (h *WSHandler) GetViewers(c *gin.Context) {
	viewers := h.mgr.List()
	c.JSON(http.StatusOK, gin.H{"viewers": viewers, "count": len(viewers)})
}

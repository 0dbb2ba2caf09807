package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// Analysis pipeline stages published to connected clients.
const (
	StageReading   = "reading"
	StageAnalyzing = "analyzing"
	StagePlotting  = "plotting"
	StageInsights  = "insights"
	StageComplete  = "complete"
)

// ProgressMessage is one progress update on the analysis socket.
type ProgressMessage struct {
	Type      string  `json:"type"`
	Stage     string  `json:"stage"`
	Dataset   string  `json:"dataset,omitempty"`
	Progress  float64 `json:"progress"`
	Timestamp int64   `json:"timestamp"`
}

// ProgressHub broadcasts analysis progress to websocket subscribers.
type ProgressHub struct {
	upgrader websocket.Upgrader
	mu       sync.Mutex
	conns    map[*websocket.Conn]bool
}

// NewProgressHub creates an empty hub.
func NewProgressHub() *ProgressHub {
	return &ProgressHub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 4 * 1024,
		},
		conns: make(map[*websocket.Conn]bool),
	}
}

// HandleWebSocket upgrades the connection and keeps it subscribed until
// the client disconnects.
func (hub *ProgressHub) HandleWebSocket(c echo.Context) error {
	ws, err := hub.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	hub.mu.Lock()
	hub.conns[ws] = true
	hub.mu.Unlock()

	defer func() {
		hub.mu.Lock()
		delete(hub.conns, ws)
		hub.mu.Unlock()
		ws.Close()
	}()

	ws.WriteJSON(ProgressMessage{
		Type:      "connected",
		Timestamp: time.Now().UnixMilli(),
	})

	// Drain client messages until close; the socket is broadcast-only.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return nil
		}
	}
}

// Publish sends a progress update to every subscriber. Dead connections
// are dropped.
func (hub *ProgressHub) Publish(stage, dataset string, progress float64) {
	msg := ProgressMessage{
		Type:      "progress",
		Stage:     stage,
		Dataset:   dataset,
		Progress:  progress,
		Timestamp: time.Now().UnixMilli(),
	}

	hub.mu.Lock()
	defer hub.mu.Unlock()
	for ws := range hub.conns {
		if err := ws.WriteJSON(msg); err != nil {
			delete(hub.conns, ws)
			ws.Close()
		}
	}
}

// Subscribers returns the number of connected clients.
func (hub *ProgressHub) Subscribers() int {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	return len(hub.conns)
}

package api

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

func TestProgressHub_PublishToSubscriber(t *testing.T) {
	hub := NewProgressHub()

	e := echo.New()
	e.GET("/ws", hub.HandleWebSocket)
	srv := httptest.NewServer(e)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dialing: %v", err)
	}
	defer ws.Close()

	var hello ProgressMessage
	if err := ws.ReadJSON(&hello); err != nil {
		t.Fatalf("reading hello: %v", err)
	}
	if hello.Type != "connected" {
		t.Errorf("expected connected message, got %+v", hello)
	}

	// The connection is registered before the hello message is written.
	if got := hub.Subscribers(); got != 1 {
		t.Errorf("expected 1 subscriber, got %d", got)
	}

	hub.Publish(StageAnalyzing, "sales", 30)

	var msg ProgressMessage
	if err := ws.ReadJSON(&msg); err != nil {
		t.Fatalf("reading progress: %v", err)
	}
	if msg.Type != "progress" || msg.Stage != StageAnalyzing || msg.Dataset != "sales" {
		t.Errorf("unexpected message: %+v", msg)
	}
	if msg.Progress != 30 {
		t.Errorf("expected progress 30, got %v", msg.Progress)
	}
}

func TestProgressHub_PublishWithoutSubscribers(t *testing.T) {
	hub := NewProgressHub()
	// No connections registered; publishing is a no-op.
	hub.Publish(StageReading, "sales", 10)
	if got := hub.Subscribers(); got != 0 {
		t.Errorf("expected 0 subscribers, got %d", got)
	}
}

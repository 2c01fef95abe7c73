package iris

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

func newGateway(t *testing.T, frames []string) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		for _, frame := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
				return
			}
		}
		// Hold the connection open until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestWebSocketDeliversMessages(t *testing.T) {
	server := newGateway(t, []string{
		`not json`,
		`{"msg":"sin sala"}`,
		`{"msg":"Envía 5 TIA","room":"room-1","sender":"alice"}`,
	})

	ws := NewWebSocket(wsURL(server), 1, 10*time.Millisecond, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- ws.Run(ctx) }()

	select {
	case msg := <-ws.Messages():
		if msg.Room != "room-1" || msg.Text() != "Envía 5 TIA" || msg.SenderName() != "alice" {
			t.Fatalf("unexpected message %+v", msg)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for message")
	}
	if !ws.IsConnected() {
		t.Fatalf("expected connected state")
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}

	if _, open := <-ws.Messages(); open {
		t.Fatalf("expected messages channel to be closed")
	}
	if ws.GetState() != WSStateDisconnected {
		t.Fatalf("expected disconnected state, got %s", ws.GetState())
	}
}

func TestWebSocketGivesUpAfterMaxAttempts(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := wsURL(server)
	server.Close()

	ws := NewWebSocket(url, 2, time.Millisecond, zap.NewNop())
	var states []WebSocketState
	ws.OnStateChange(func(s WebSocketState) { states = append(states, s) })

	err := ws.Run(context.Background())
	if !stderrors.Is(err, ErrMaxReconnectAttempts) {
		t.Fatalf("expected max reconnect error, got %v", err)
	}

	reconnects := 0
	for _, s := range states {
		if s == WSStateReconnecting {
			reconnects++
		}
	}
	if reconnects != 2 {
		t.Fatalf("expected 2 reconnect rounds, got %d (%v)", reconnects, states)
	}
}

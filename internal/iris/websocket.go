package iris

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var ErrMaxReconnectAttempts = stderrors.New("websocket: max reconnect attempts reached")

type StateCallback func(state WebSocketState)

// WebSocket reads gateway messages and delivers them on Messages(). Run owns the
// connection and reconnects after read or dial failures.
type WebSocket struct {
	wsURL                string
	dialer               *websocket.Dialer
	maxReconnectAttempts int
	reconnectDelay       time.Duration
	logger               *zap.Logger

	state    WebSocketState
	stateMu  sync.RWMutex
	onState  []StateCallback
	messages chan *Message
}

func NewWebSocket(wsURL string, maxReconnectAttempts int, reconnectDelay time.Duration, logger *zap.Logger) *WebSocket {
	return &WebSocket{
		wsURL: wsURL,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
		maxReconnectAttempts: maxReconnectAttempts,
		reconnectDelay:       reconnectDelay,
		logger:               logger,
		state:                WSStateDisconnected,
		messages:             make(chan *Message, 64),
	}
}

// Messages is closed when Run returns.
func (ws *WebSocket) Messages() <-chan *Message {
	return ws.messages
}

// OnStateChange registers a callback. Register before calling Run.
func (ws *WebSocket) OnStateChange(callback StateCallback) {
	ws.stateMu.Lock()
	ws.onState = append(ws.onState, callback)
	ws.stateMu.Unlock()
}

// Run connects and reads until ctx is cancelled or reconnecting gives up.
// It returns nil on cancellation.
func (ws *WebSocket) Run(ctx context.Context) error {
	defer close(ws.messages)
	defer ws.setState(WSStateDisconnected)

	attempts := 0
	for {
		ws.setState(WSStateConnecting)
		conn, _, err := ws.dialer.DialContext(ctx, ws.wsURL, nil)
		if err == nil {
			attempts = 0
			ws.setState(WSStateConnected)
			ws.logger.Info("WebSocket connected", zap.String("url", ws.wsURL))
			err = ws.readLoop(ctx, conn)
		}

		if ctx.Err() != nil {
			return nil
		}

		attempts++
		ws.logger.Warn("WebSocket connection lost",
			zap.Error(err),
			zap.Int("attempt", attempts),
			zap.Int("max", ws.maxReconnectAttempts),
		)
		if attempts > ws.maxReconnectAttempts {
			ws.setState(WSStateFailed)
			return fmt.Errorf("%w: %v", ErrMaxReconnectAttempts, err)
		}

		ws.setState(WSStateReconnecting)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(ws.reconnectDelay):
		}
	}
}

func (ws *WebSocket) readLoop(ctx context.Context, conn *websocket.Conn) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			_ = conn.Close()
		case <-done:
			_ = conn.Close()
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		message, ok := ws.decode(data)
		if !ok {
			continue
		}

		select {
		case ws.messages <- message:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (ws *WebSocket) decode(data []byte) (*Message, bool) {
	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		preview := string(data)
		if len(preview) > 200 {
			preview = preview[:200]
		}
		ws.logger.Error("Failed to parse message",
			zap.Error(err),
			zap.String("data", preview),
		)
		return nil, false
	}
	if message.Room == "" {
		ws.logger.Debug("Dropping message without room")
		return nil, false
	}
	return &message, true
}

func (ws *WebSocket) setState(newState WebSocketState) {
	ws.stateMu.Lock()
	oldState := ws.state
	ws.state = newState
	callbacks := append([]StateCallback(nil), ws.onState...)
	ws.stateMu.Unlock()

	if oldState == newState {
		return
	}
	ws.logger.Debug("WebSocket state changed",
		zap.String("from", oldState.String()),
		zap.String("to", newState.String()),
	)
	for _, callback := range callbacks {
		callback(newState)
	}
}

func (ws *WebSocket) GetState() WebSocketState {
	ws.stateMu.RLock()
	defer ws.stateMu.RUnlock()
	return ws.state
}

func (ws *WebSocket) IsConnected() bool {
	return ws.GetState() == WSStateConnected
}

package iris

import "strings"

type Config struct {
	Port              int    `json:"port"`
	PollingSpeed      int    `json:"pollingSpeed"`
	MessageRate       int    `json:"messageRate"`
	WebserverEndpoint string `json:"webserverEndpoint"`
}

type ReplyRequest struct {
	Type string `json:"type"`
	Room string `json:"room"`
	Data string `json:"data"`
}

// Message is one inbound chat message pushed over the websocket.
type Message struct {
	Msg    string       `json:"msg"`
	Room   string       `json:"room"`
	Sender *string      `json:"sender,omitempty"`
	JSON   *MessageJSON `json:"json,omitempty"`
}

type MessageJSON struct {
	UserID    string `json:"user_id,omitempty"`
	Message   string `json:"message,omitempty"`
	ChatID    string `json:"chat_id,omitempty"`
	Type      string `json:"type,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

func (m *Message) SenderName() string {
	if m.Sender == nil {
		return ""
	}
	return *m.Sender
}

// SessionKey identifies one conversation: a user inside a room. Messages
// without a user id or sender share the room's conversation.
func (m *Message) SessionKey() string {
	user := ""
	if m.JSON != nil {
		user = m.JSON.UserID
	}
	if user == "" {
		user = m.SenderName()
	}
	if user == "" {
		return m.Room
	}
	return m.Room + ":" + user
}

// Text returns the trimmed message body.
func (m *Message) Text() string {
	return strings.TrimSpace(m.Msg)
}

type WebSocketState string

const (
	WSStateConnecting   WebSocketState = "CONNECTING"
	WSStateConnected    WebSocketState = "CONNECTED"
	WSStateDisconnected WebSocketState = "DISCONNECTED"
	WSStateReconnecting WebSocketState = "RECONNECTING"
	WSStateFailed       WebSocketState = "FAILED"
)

func (s WebSocketState) String() string {
	return string(s)
}

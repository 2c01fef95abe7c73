package domain

import "time"

// CommandContext carries where a message came from and which conversation it belongs to.
type CommandContext struct {
	Room       string
	Sender     string
	SessionKey string
	Message    string
	Timestamp  time.Time
}

func NewCommandContext(room, sender, sessionKey, message string) *CommandContext {
	return &CommandContext{
		Room:       room,
		Sender:     sender,
		SessionKey: sessionKey,
		Message:    message,
		Timestamp:  time.Now(),
	}
}

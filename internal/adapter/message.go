package adapter

import (
	"strings"

	"github.com/kapu/tia-transfer-bot-go/internal/constants"
	"github.com/kapu/tia-transfer-bot-go/internal/domain"
	"github.com/kapu/tia-transfer-bot-go/internal/iris"
	"github.com/kapu/tia-transfer-bot-go/internal/util"
)

// MessageAdapter converts chat messages to bot commands. With an empty prefix
// every message that is not a command is treated as a transfer turn.
type MessageAdapter struct {
	prefix string
}

func NewMessageAdapter(prefix string) *MessageAdapter {
	return &MessageAdapter{prefix: strings.TrimSpace(prefix)}
}

type ParsedCommand struct {
	Type       domain.CommandType
	Text       string
	RawMessage string
}

func (ma *MessageAdapter) ParseMessage(message *iris.Message) *ParsedCommand {
	if message == nil {
		return ma.createUnknownCommand("")
	}

	text := message.Text()
	if text == "" {
		return ma.createUnknownCommand(text)
	}

	body := text
	if ma.prefix != "" {
		if !strings.HasPrefix(text, ma.prefix) {
			return ma.createUnknownCommand(text)
		}
		body = strings.TrimSpace(text[len(ma.prefix):])
	}

	fields := strings.Fields(body)
	if len(fields) == 1 {
		word := strings.ToLower(fields[0])
		switch {
		case ma.isHelpCommand(word):
			return &ParsedCommand{Type: domain.CommandHelp, RawMessage: text}
		case ma.isResetCommand(word):
			return &ParsedCommand{Type: domain.CommandReset, RawMessage: text}
		case ma.isGreetingCommand(word):
			return &ParsedCommand{Type: domain.CommandGreeting, RawMessage: text}
		}
	}

	sanitized := util.SanitizeInput(body, constants.AIInputLimits.MaxQueryLength)
	if sanitized == "" {
		return ma.createUnknownCommand(text)
	}

	return &ParsedCommand{
		Type:       domain.CommandTransfer,
		Text:       sanitized,
		RawMessage: text,
	}
}

func (ma *MessageAdapter) isHelpCommand(cmd string) bool {
	return util.Contains([]string{"ayuda", "help", "comandos", "commands"}, cmd)
}

func (ma *MessageAdapter) isResetCommand(cmd string) bool {
	return util.Contains([]string{"reiniciar", "reset", "cancelar", "cancel"}, cmd)
}

func (ma *MessageAdapter) isGreetingCommand(cmd string) bool {
	return util.Contains([]string{"hola", "start", "inicio", "hello"}, cmd)
}

func (ma *MessageAdapter) createUnknownCommand(text string) *ParsedCommand {
	return &ParsedCommand{
		Type:       domain.CommandUnknown,
		RawMessage: text,
	}
}

package adapter

import (
	"strings"

	"github.com/kapu/tia-transfer-bot-go/internal/chatbot"
	"github.com/kapu/tia-transfer-bot-go/internal/domain"
	"github.com/kapu/tia-transfer-bot-go/internal/wallet"
)

// ResponseFormatter turns bot output into single chat messages.
type ResponseFormatter struct {
	prefix string
}

func NewResponseFormatter(prefix string) *ResponseFormatter {
	return &ResponseFormatter{prefix: strings.TrimSpace(prefix)}
}

// FormatReply joins the reply lines into one message.
func (f *ResponseFormatter) FormatReply(reply *domain.Reply) string {
	if reply == nil {
		return ""
	}
	return strings.Join(reply.Responses, "\n")
}

func (f *ResponseFormatter) FormatHelp() string {
	text, err := executeFormatterTemplate("help", linesTemplateData{Prefix: f.prefix, Lines: chatbot.Help()})
	if err != nil {
		return strings.Join(chatbot.Help(), "\n")
	}
	return text
}

func (f *ResponseFormatter) FormatGreeting() string {
	return strings.Join(chatbot.Greeting(), "\n")
}

func (f *ResponseFormatter) FormatReceipt(intent domain.TransferIntent, receipt *domain.Receipt) string {
	lines := wallet.FormatReceipt(intent, receipt)
	text, err := executeFormatterTemplate("receipt", linesTemplateData{Prefix: f.prefix, Lines: lines})
	if err != nil {
		return strings.Join(lines, "\n")
	}
	return text
}

func (f *ResponseFormatter) FormatTransferError(err error) string {
	return wallet.FormatError(err)
}

func (f *ResponseFormatter) FormatReset() string {
	return "🔄 Listo, empecemos de nuevo. ¿Qué transacción quieres hacer?"
}

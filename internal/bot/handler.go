package bot

import (
	"context"

	"github.com/kapu/tia-transfer-bot-go/internal/domain"
	"github.com/kapu/tia-transfer-bot-go/internal/iris"
	"github.com/kapu/tia-transfer-bot-go/internal/util"
	"go.uber.org/zap"
)

func (b *Bot) handleMessage(ctx context.Context, msg *iris.Message) {
	if len(b.deps.Rooms) > 0 && !util.Contains(b.deps.Rooms, msg.Room) {
		return
	}

	cmd := b.deps.MessageAdapter.ParseMessage(msg)
	cmdCtx := domain.NewCommandContext(msg.Room, msg.SenderName(), msg.SessionKey(), cmd.RawMessage)

	switch cmd.Type {
	case domain.CommandUnknown:
		return
	case domain.CommandHelp:
		b.send(ctx, cmdCtx, b.deps.Formatter.FormatHelp())
	case domain.CommandGreeting:
		b.send(ctx, cmdCtx, b.deps.Formatter.FormatGreeting())
	case domain.CommandReset:
		b.deps.Sessions.Reset(ctx, cmdCtx.SessionKey)
		b.send(ctx, cmdCtx, b.deps.Formatter.FormatReset())
	case domain.CommandTransfer:
		b.handleTransferTurn(ctx, cmdCtx, cmd.Text)
	}
}

func (b *Bot) handleTransferTurn(ctx context.Context, cmdCtx *domain.CommandContext, text string) {
	reply := b.deps.Sessions.ProcessMessage(ctx, cmdCtx.SessionKey, text)

	b.logger.Debug("Turn processed",
		zap.String("session", cmdCtx.SessionKey),
		zap.String("state", reply.State.String()),
		zap.Bool("transaction_ready", reply.TransactionReady),
	)

	b.send(ctx, cmdCtx, b.deps.Formatter.FormatReply(reply))

	if !reply.TransactionReady || reply.TransactionData == nil || b.deps.Wallet == nil {
		return
	}

	intent := *reply.TransactionData
	receipt, err := b.deps.Wallet.Execute(ctx, intent)
	if err != nil {
		b.logger.Warn("Transfer failed",
			zap.String("session", cmdCtx.SessionKey),
			zap.Error(err),
		)
		b.send(ctx, cmdCtx, b.deps.Formatter.FormatTransferError(err))
		return
	}
	b.send(ctx, cmdCtx, b.deps.Formatter.FormatReceipt(intent, receipt))
}

func (b *Bot) send(ctx context.Context, cmdCtx *domain.CommandContext, message string) {
	if message == "" {
		return
	}
	if err := b.deps.Replier.SendMessage(ctx, cmdCtx.Room, message); err != nil {
		b.logger.Error("Failed to deliver reply",
			zap.String("room", cmdCtx.Room),
			zap.String("sender", cmdCtx.Sender),
			zap.Error(err),
		)
	}
}

// Package bot connects the chat gateway to the conversation manager and the
// wallet hand-off.
package bot

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/kapu/tia-transfer-bot-go/internal/adapter"
	"github.com/kapu/tia-transfer-bot-go/internal/domain"
	"github.com/kapu/tia-transfer-bot-go/internal/iris"
	"github.com/kapu/tia-transfer-bot-go/internal/wallet"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

type MessageSource interface {
	Run(ctx context.Context) error
	Messages() <-chan *iris.Message
}

type Replier interface {
	SendMessage(ctx context.Context, room, message string) error
}

type Conversations interface {
	ProcessMessage(ctx context.Context, key, text string) *domain.Reply
	Reset(ctx context.Context, key string)
}

// BackgroundService runs alongside the bot until the context is cancelled.
type BackgroundService interface {
	Run(ctx context.Context) error
}

type Dependencies struct {
	Logger         *zap.Logger
	Source         MessageSource
	Replier        Replier
	MessageAdapter *adapter.MessageAdapter
	Formatter      *adapter.ResponseFormatter
	Sessions       Conversations
	// Wallet is optional; without it ready transfers are only confirmed.
	Wallet      wallet.Executor
	Background  []BackgroundService
	Concurrency int
	// Rooms limits the bot to these rooms; empty means every room.
	Rooms []string
	// Closers run in reverse order on Shutdown.
	Closers []func() error
}

type Bot struct {
	deps   Dependencies
	logger *zap.Logger
}

func NewBot(deps *Dependencies) (*Bot, error) {
	if deps == nil {
		return nil, fmt.Errorf("dependencies must not be nil")
	}
	if deps.Source == nil || deps.Replier == nil || deps.Sessions == nil {
		return nil, fmt.Errorf("source, replier and sessions are required")
	}
	d := *deps
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.MessageAdapter == nil {
		d.MessageAdapter = adapter.NewMessageAdapter("")
	}
	if d.Formatter == nil {
		d.Formatter = adapter.NewResponseFormatter("")
	}
	if d.Concurrency <= 0 {
		d.Concurrency = 1
	}
	return &Bot{deps: d, logger: d.Logger}, nil
}

// Start blocks until ctx is cancelled or the message source gives up. Messages of
// the same conversation are always handled in arrival order by the same worker.
func (b *Bot) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var background conc.WaitGroup
	for _, svc := range b.deps.Background {
		svc := svc
		background.Go(func() {
			if err := svc.Run(ctx); err != nil {
				b.logger.Error("Background service stopped", zap.Error(err))
			}
		})
	}

	sourceErr := make(chan error, 1)
	background.Go(func() {
		sourceErr <- b.deps.Source.Run(ctx)
	})

	shards := make([]chan *iris.Message, b.deps.Concurrency)
	workers := pool.New().WithMaxGoroutines(b.deps.Concurrency)
	for i := range shards {
		shard := make(chan *iris.Message, 16)
		shards[i] = shard
		workers.Go(func() {
			for msg := range shard {
				b.handleMessage(ctx, msg)
			}
		})
	}

	b.logger.Info("Bot started", zap.Int("workers", b.deps.Concurrency))

	for msg := range b.deps.Source.Messages() {
		shards[shardFor(msg.SessionKey(), len(shards))] <- msg
	}

	for _, shard := range shards {
		close(shard)
	}
	workers.Wait()
	cancel()
	background.Wait()

	err := <-sourceErr
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Shutdown releases infrastructure handed to the bot.
func (b *Bot) Shutdown(_ context.Context) error {
	var errs []error
	for i := len(b.deps.Closers) - 1; i >= 0; i-- {
		if err := b.deps.Closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func shardFor(key string, n int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(n))
}

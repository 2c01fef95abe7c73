// Package wallet hands finished transfer intents to the external wallet runtime
// and waits for its receipt.
package wallet

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/kapu/tia-transfer-bot-go/internal/constants"
	"github.com/kapu/tia-transfer-bot-go/internal/domain"
	"github.com/kapu/tia-transfer-bot-go/internal/metrics"
	"github.com/kapu/tia-transfer-bot-go/internal/service/cache"
	"github.com/kapu/tia-transfer-bot-go/pkg/errors"
	"go.uber.org/zap"
)

type Executor interface {
	Execute(ctx context.Context, intent domain.TransferIntent) (*domain.Receipt, error)
}

// Request is the queue message read by the wallet runtime. The receipt is
// expected as JSON on the ReplyTo list.
type Request struct {
	ID        string                `json:"id"`
	Intent    domain.TransferIntent `json:"intent"`
	ReplyTo   string                `json:"reply_to"`
	CreatedAt time.Time             `json:"created_at"`
}

type RedisExecutorConfig struct {
	QueueKey     string
	ResultPrefix string
	ReplyTimeout time.Duration
}

func DefaultRedisExecutorConfig() RedisExecutorConfig {
	return RedisExecutorConfig{
		QueueKey:     constants.WalletConfig.QueueKey,
		ResultPrefix: constants.WalletConfig.ResultPrefix,
		ReplyTimeout: constants.WalletConfig.ReplyTimeout,
	}
}

// RedisExecutor pushes requests onto a Redis list and blocks on a per-request
// result list.
type RedisExecutor struct {
	cache  *cache.CacheService
	cfg    RedisExecutorConfig
	logger *zap.Logger
	newID  func() string
}

func NewRedisExecutor(cacheSvc *cache.CacheService, cfg RedisExecutorConfig, logger *zap.Logger) *RedisExecutor {
	defaults := DefaultRedisExecutorConfig()
	if cfg.QueueKey == "" {
		cfg.QueueKey = defaults.QueueKey
	}
	if cfg.ResultPrefix == "" {
		cfg.ResultPrefix = defaults.ResultPrefix
	}
	if cfg.ReplyTimeout <= 0 {
		cfg.ReplyTimeout = defaults.ReplyTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisExecutor{
		cache:  cacheSvc,
		cfg:    cfg,
		logger: logger,
		newID:  uuid.NewString,
	}
}

func (e *RedisExecutor) Execute(ctx context.Context, intent domain.TransferIntent) (*domain.Receipt, error) {
	req := Request{
		ID:        e.newID(),
		Intent:    intent,
		CreatedAt: time.Now().UTC(),
	}
	req.ReplyTo = e.cfg.ResultPrefix + req.ID

	if err := e.cache.Push(ctx, e.cfg.QueueKey, req); err != nil {
		metrics.ObserveHandoff(metrics.HandoffError)
		return nil, errors.NewWalletError("failed to queue transfer", req.ID, err)
	}

	e.logger.Info("Transfer queued for wallet",
		zap.String("request_id", req.ID),
		zap.String("chain", intent.Chain.String()),
		zap.Float64("amount", intent.Amount),
		zap.String("unit", intent.Unit),
	)

	var receipt domain.Receipt
	found, err := e.cache.BlockingPop(ctx, req.ReplyTo, e.cfg.ReplyTimeout, &receipt)
	if err != nil {
		metrics.ObserveHandoff(metrics.HandoffError)
		return nil, errors.NewWalletError("failed to read wallet reply", req.ID, err)
	}
	if !found {
		metrics.ObserveHandoff(metrics.HandoffTimeout)
		e.logger.Warn("Wallet reply timed out",
			zap.String("request_id", req.ID),
			zap.Duration("timeout", e.cfg.ReplyTimeout),
		)
		return nil, errors.NewWalletError("wallet did not reply in time", req.ID, nil)
	}

	if receipt.Error != "" {
		metrics.ObserveHandoff(metrics.HandoffRejected)
		return &receipt, errors.NewWalletError(receipt.Error, req.ID, nil)
	}

	metrics.ObserveHandoff(metrics.HandoffSuccess)
	e.logger.Info("Wallet receipt received",
		zap.String("request_id", req.ID),
		zap.String("tx_hash", receipt.TxHash),
		zap.Int64("gas_used", receipt.GasUsed),
		zap.Bool("simulated", receipt.Simulated),
	)
	return &receipt, nil
}

// IsWalletError reports whether err came from the wallet hand-off.
func IsWalletError(err error) bool {
	var walletErr *errors.WalletError
	return stderrors.As(err, &walletErr)
}

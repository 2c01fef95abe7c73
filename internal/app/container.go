package app

import (
	"context"
	"fmt"

	"github.com/kapu/tia-transfer-bot-go/internal/adapter"
	"github.com/kapu/tia-transfer-bot-go/internal/bot"
	"github.com/kapu/tia-transfer-bot-go/internal/chatbot"
	"github.com/kapu/tia-transfer-bot-go/internal/config"
	"github.com/kapu/tia-transfer-bot-go/internal/constants"
	"github.com/kapu/tia-transfer-bot-go/internal/iris"
	"github.com/kapu/tia-transfer-bot-go/internal/metrics"
	"github.com/kapu/tia-transfer-bot-go/internal/prompt"
	"github.com/kapu/tia-transfer-bot-go/internal/service/ai"
	"github.com/kapu/tia-transfer-bot-go/internal/service/audit"
	"github.com/kapu/tia-transfer-bot-go/internal/service/cache"
	"github.com/kapu/tia-transfer-bot-go/internal/service/database"
	"github.com/kapu/tia-transfer-bot-go/internal/service/parser"
	"github.com/kapu/tia-transfer-bot-go/internal/wallet"
	"go.uber.org/zap"
)

// Container bundles assembled services for constructing runtime components like Bot.
type Container struct {
	Config   *config.Config
	Logger   *zap.Logger
	Sessions *chatbot.Manager

	botDeps *bot.Dependencies
}

// NewBot instantiates a bot using the pre-built dependency graph.
func (c *Container) NewBot() (*bot.Bot, error) {
	if c == nil || c.botDeps == nil {
		return nil, fmt.Errorf("bot dependencies not initialized")
	}
	return bot.NewBot(c.botDeps)
}

// Build assembles all infrastructure services and returns a container capable of
// creating fully-wired bots. Redis is required; Postgres, the remote enhancer and
// the wallet hand-off follow the configuration.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var closers []func() error
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				_ = closers[i]()
			}
		}
	}()

	// Messaging primitives
	irisClient := iris.NewClient(cfg.Iris.BaseURL, logger)
	irisWS := iris.NewWebSocket(cfg.Iris.WSURL, constants.WebSocketConfig.MaxReconnectAttempts, constants.WebSocketConfig.ReconnectDelay, logger)
	if !irisClient.Ping(ctx) {
		logger.Warn("Iris gateway not reachable yet, websocket will keep retrying", zap.String("url", cfg.Iris.BaseURL))
	}
	messageAdapter := adapter.NewMessageAdapter(cfg.Bot.Prefix)
	formatter := adapter.NewResponseFormatter(cfg.Bot.Prefix)

	// Cache and database
	cacheSvc, err := cache.NewCacheService(cache.CacheConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache service: %w", err)
	}
	closers = append(closers, cacheSvc.Close)

	var auditRecorder chatbot.AuditRecorder
	if cfg.Postgres.Enabled {
		repo, closeDB, auditErr := OpenAudit(ctx, cfg, logger)
		if auditErr != nil {
			return nil, auditErr
		}
		closers = append(closers, closeDB)
		auditRecorder = repo
	}

	// Conversation stack
	enhancer, err := BuildEnhancer(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	sessions := chatbot.NewManager(chatbot.ManagerDeps{
		Extractor: parser.NewExtractor(),
		Enhancer:  enhancer,
		Snapshots: chatbot.NewRedisSnapshotStore(cacheSvc),
		Audit:     auditRecorder,
		Logger:    logger,
	})

	var executor wallet.Executor
	if cfg.Wallet.Enabled {
		executor = wallet.NewRedisExecutor(cacheSvc, wallet.RedisExecutorConfig{
			QueueKey:     cfg.Wallet.QueueKey,
			ResultPrefix: cfg.Wallet.ResultPrefix,
			ReplyTimeout: cfg.Wallet.ReplyTimeout,
		}, logger)
		logger.Info("Wallet hand-off enabled",
			zap.String("queue", cfg.Wallet.QueueKey),
			zap.Duration("reply_timeout", cfg.Wallet.ReplyTimeout))
	}

	var background []bot.BackgroundService
	if cfg.Metrics.Addr != "" {
		background = append(background, metrics.NewServer(cfg.Metrics.Addr, logger))
	}

	deps := &bot.Dependencies{
		Logger:         logger,
		Source:         irisWS,
		Replier:        irisClient,
		MessageAdapter: messageAdapter,
		Formatter:      formatter,
		Sessions:       sessions,
		Wallet:         executor,
		Background:     background,
		Concurrency:    cfg.Bot.Concurrency,
		Rooms:          cfg.Bot.Rooms,
		Closers:        closers,
	}

	return &Container{
		Config:   cfg,
		Logger:   logger,
		Sessions: sessions,
		botDeps:  deps,
	}, nil
}

// BuildEnhancer returns the remote enhancer, or nil when it is disabled.
func BuildEnhancer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (chatbot.Enhancer, error) {
	if !cfg.Enhancer.Enabled {
		logger.Info("Remote enhancer disabled, using local extraction only")
		return nil, nil
	}

	modelManager, err := ai.NewModelManager(ctx, ai.ModelManagerConfig{
		GeminiAPIKey:       cfg.Gemini.APIKey,
		OpenAIAPIKey:       cfg.OpenAI.APIKey,
		OpenAIBaseURL:      cfg.OpenAI.BaseURL,
		DefaultGeminiModel: cfg.Gemini.Model,
		DefaultOpenAIModel: cfg.OpenAI.Model,
		EnableFallback:     cfg.OpenAI.EnableFallback,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create model manager: %w", err)
	}

	promptBuilder := prompt.NewPromptBuilder()
	if err := promptBuilder.Preload(); err != nil {
		return nil, fmt.Errorf("failed to load prompt templates: %w", err)
	}

	remote := ai.NewTransferParser(modelManager, promptBuilder, ai.NewParseCache(constants.CacheTTL.RemoteParse), logger)
	return ai.NewEnhancer(remote, logger), nil
}

// OpenAudit connects to Postgres and prepares the audit table.
func OpenAudit(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*audit.Repository, func() error, error) {
	postgresSvc, err := database.NewPostgresService(database.PostgresConfig{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		Database: cfg.Postgres.Database,
		SSLMode:  cfg.Postgres.SSLMode,
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create postgres service: %w", err)
	}

	repo := audit.NewRepository(postgresSvc, logger)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = postgresSvc.Close()
		return nil, nil, fmt.Errorf("failed to prepare audit schema: %w", err)
	}
	return repo, postgresSvc.Close, nil
}

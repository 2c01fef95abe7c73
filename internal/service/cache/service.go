package cache

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/kapu/tia-transfer-bot-go/internal/constants"
	"github.com/kapu/tia-transfer-bot-go/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CacheService is the shared Redis access layer for session snapshots and the
// wallet hand-off queue. Values are stored as JSON.
type CacheService struct {
	client *redis.Client
	logger *zap.Logger
}

type CacheConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func (c CacheConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func NewCacheService(cfg CacheConfig, logger *zap.Logger) (*CacheService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), constants.RedisConfig.ReadyTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.NewCacheError("failed to connect to Redis", "ping", "", err)
	}

	logger.Info("Redis connected",
		zap.String("addr", cfg.Addr()),
		zap.Int("db", cfg.DB),
	)

	return NewCacheServiceWithClient(client, logger), nil
}

func NewCacheServiceWithClient(client *redis.Client, logger *zap.Logger) *CacheService {
	return &CacheService{
		client: client,
		logger: logger,
	}
}

// Get decodes the JSON value at key into dest. It reports false when the key does not exist.
func (c *CacheService) Get(ctx context.Context, key string, dest any) (bool, error) {
	value, err := c.client.Get(ctx, key).Result()
	if stderrors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		c.logger.Error("Cache get failed", zap.String("key", key), zap.Error(err))
		return false, errors.NewCacheError("get failed", "get", key, err)
	}

	if dest != nil {
		if err := json.Unmarshal([]byte(value), dest); err != nil {
			c.logger.Error("Cache unmarshal failed", zap.String("key", key), zap.Error(err))
			return false, errors.NewCacheError("unmarshal failed", "get", key, err)
		}
	}

	return true, nil
}

// Set stores value as JSON. A non-positive ttl keeps the key without expiry.
func (c *CacheService) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return errors.NewCacheError("marshal failed", "set", key, err)
	}

	if ttl < 0 {
		ttl = 0
	}
	if err := c.client.Set(ctx, key, jsonData, ttl).Err(); err != nil {
		c.logger.Error("Cache set failed", zap.String("key", key), zap.Error(err))
		return errors.NewCacheError("set failed", "set", key, err)
	}

	return nil
}

func (c *CacheService) Del(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Error("Cache delete failed", zap.String("key", key), zap.Error(err))
		return errors.NewCacheError("delete failed", "del", key, err)
	}
	return nil
}

func (c *CacheService) Exists(ctx context.Context, key string) (bool, error) {
	count, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, errors.NewCacheError("exists failed", "exists", key, err)
	}
	return count > 0, nil
}

// Push appends a JSON-encoded value to the head of a list.
func (c *CacheService) Push(ctx context.Context, key string, value any) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return errors.NewCacheError("marshal failed", "lpush", key, err)
	}
	if err := c.client.LPush(ctx, key, jsonData).Err(); err != nil {
		c.logger.Error("Cache push failed", zap.String("key", key), zap.Error(err))
		return errors.NewCacheError("push failed", "lpush", key, err)
	}
	return nil
}

// BlockingPop waits up to timeout for an element on key and decodes it into dest.
// It reports false when the timeout elapsed without an element.
func (c *CacheService) BlockingPop(ctx context.Context, key string, timeout time.Duration, dest any) (bool, error) {
	values, err := c.client.BLPop(ctx, timeout, key).Result()
	if stderrors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, errors.NewCacheError("blocking pop failed", "blpop", key, err)
	}
	if len(values) < 2 {
		return false, errors.NewCacheError("unexpected blpop reply", "blpop", key, nil)
	}

	if err := json.Unmarshal([]byte(values[1]), dest); err != nil {
		return false, errors.NewCacheError("unmarshal failed", "blpop", key, err)
	}
	return true, nil
}

func (c *CacheService) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

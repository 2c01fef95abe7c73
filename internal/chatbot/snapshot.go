package chatbot

import (
	"context"
	"time"

	"github.com/kapu/tia-transfer-bot-go/internal/constants"
	"github.com/kapu/tia-transfer-bot-go/internal/domain"
	"github.com/kapu/tia-transfer-bot-go/internal/service/cache"
)

type SnapshotStore interface {
	Load(ctx context.Context, key string) (*domain.Session, bool, error)
	Save(ctx context.Context, key string, session *domain.Session) error
	Delete(ctx context.Context, key string) error
}

// RedisSnapshotStore keeps one JSON session document per conversation key.
type RedisSnapshotStore struct {
	cache  *cache.CacheService
	prefix string
	ttl    time.Duration
}

func NewRedisSnapshotStore(cacheSvc *cache.CacheService) *RedisSnapshotStore {
	return &RedisSnapshotStore{
		cache:  cacheSvc,
		prefix: constants.SessionConfig.SnapshotPrefix,
		ttl:    constants.CacheTTL.SessionSnapshot,
	}
}

func (r *RedisSnapshotStore) Load(ctx context.Context, key string) (*domain.Session, bool, error) {
	var session domain.Session
	found, err := r.cache.Get(ctx, r.prefix+key, &session)
	if err != nil || !found {
		return nil, false, err
	}
	return &session, true, nil
}

func (r *RedisSnapshotStore) Save(ctx context.Context, key string, session *domain.Session) error {
	return r.cache.Set(ctx, r.prefix+key, session, r.ttl)
}

func (r *RedisSnapshotStore) Delete(ctx context.Context, key string) error {
	return r.cache.Del(ctx, r.prefix+key)
}

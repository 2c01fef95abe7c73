package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func newTestCache(t *testing.T) (*CacheService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCacheServiceWithClient(client, zap.NewNop()), mr
}

type sample struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

func TestSetGetRoundTripWithTTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k", sample{Name: "tia", Value: 5}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got sample
	found, err := c.Get(ctx, "k", &got)
	if err != nil || !found {
		t.Fatalf("get: found=%v err=%v", found, err)
	}
	if got.Name != "tia" || got.Value != 5 {
		t.Fatalf("unexpected value %+v", got)
	}

	mr.FastForward(2 * time.Minute)
	found, err = c.Get(ctx, "k", &got)
	if err != nil || found {
		t.Fatalf("expected key to expire, found=%v err=%v", found, err)
	}
}

func TestGetMissingKey(t *testing.T) {
	c, _ := newTestCache(t)

	var got sample
	found, err := c.Get(context.Background(), "missing", &got)
	if err != nil || found {
		t.Fatalf("expected miss without error, found=%v err=%v", found, err)
	}
}

func TestDelAndExists(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	_ = c.Set(ctx, "k", 1, 0)
	if ok, _ := c.Exists(ctx, "k"); !ok {
		t.Fatalf("expected key to exist")
	}
	if err := c.Del(ctx, "k"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if ok, _ := c.Exists(ctx, "k"); ok {
		t.Fatalf("expected key to be deleted")
	}
}

func TestPushAndBlockingPop(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	if err := c.Push(ctx, "queue", sample{Name: "a"}); err != nil {
		t.Fatalf("push: %v", err)
	}

	var got sample
	found, err := c.BlockingPop(ctx, "queue", time.Second, &got)
	if err != nil || !found {
		t.Fatalf("pop: found=%v err=%v", found, err)
	}
	if got.Name != "a" {
		t.Fatalf("unexpected element %+v", got)
	}
}

func TestGetDecodeError(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Set("bad", "{not json")

	var got sample
	if _, err := c.Get(context.Background(), "bad", &got); err == nil {
		t.Fatalf("expected decode error")
	}
}

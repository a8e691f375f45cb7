package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/medleaf/healthlens-backend/internal/logger"
	"github.com/medleaf/healthlens-backend/internal/types"
)

// ContextCache stores assembled per-topic contexts keyed by user, topic and
// the profile/preferences versions that produced them. It is strictly
// best-effort: a cache failure degrades to recomputation, never to an error.
type ContextCache interface {
	Get(ctx context.Context, key string) (*types.PersonalizedContentContext, bool)
	Set(ctx context.Context, key string, value *types.PersonalizedContentContext)
	InvalidateUser(ctx context.Context, userID string)
	Close() error
}

type contextCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewContextCache(log *logger.Logger, addr, password string, ttlSeconds int) (ContextCache, error) {
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
	})
	return &contextCache{
		log: log.With("client", "ContextCache"),
		rdb: rdb,
		ttl: time.Duration(ttlSeconds) * time.Second,
	}, nil
}

// CacheKey builds the versioned key for one (user, topic, profile, prefs)
// combination. Version bumps on either side make stale entries unreachable.
func CacheKey(userID, topicID string, profileUpdated, prefsUpdated time.Time) string {
	return fmt.Sprintf("personalize:%s:%s:%d:%d", userID, topicID, profileUpdated.UnixNano(), prefsUpdated.UnixNano())
}

func (cc *contextCache) Get(ctx context.Context, key string) (*types.PersonalizedContentContext, bool) {
	raw, err := cc.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != goredis.Nil {
			cc.log.Warn("Cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	var value types.PersonalizedContentContext
	if err := json.Unmarshal(raw, &value); err != nil {
		cc.log.Warn("Cache entry corrupt, dropping", "key", key, "error", err)
		_ = cc.rdb.Del(ctx, key).Err()
		return nil, false
	}
	return &value, true
}

func (cc *contextCache) Set(ctx context.Context, key string, value *types.PersonalizedContentContext) {
	raw, err := json.Marshal(value)
	if err != nil {
		cc.log.Warn("Cache encode failed", "key", key, "error", err)
		return
	}
	if err := cc.rdb.Set(ctx, key, raw, cc.ttl).Err(); err != nil {
		cc.log.Warn("Cache write failed", "key", key, "error", err)
	}
}

func (cc *contextCache) InvalidateUser(ctx context.Context, userID string) {
	pattern := fmt.Sprintf("personalize:%s:*", userID)
	iter := cc.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := cc.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			cc.log.Warn("Cache invalidation failed", "key", iter.Val(), "error", err)
		}
	}
	if err := iter.Err(); err != nil {
		cc.log.Warn("Cache invalidation scan failed", "user_id", userID, "error", err)
	}
}

func (cc *contextCache) Close() error {
	return cc.rdb.Close()
}

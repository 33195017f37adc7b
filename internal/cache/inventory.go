package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"skillswap/internal/middleware"

	"github.com/redis/go-redis/v9"
)

const (
	ActorKeyPrefix = "actor:%d"
	StatsKey       = "admin:stats"
)

const (
	ActorTTL = 2 * time.Minute
	StatsTTL = 30 * time.Second
)

func ActorKey(userID uint) string {
	return fmt.Sprintf(ActorKeyPrefix, userID)
}

// Aside implements cache-aside: it fills dest from key when cached, otherwise
// calls load (which must populate dest) and stores the result for ttl.
// Without a Redis client it simply calls load.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, load func() error) error {
	if client == nil {
		return load()
	}

	raw, err := client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal(raw, dest); jsonErr == nil {
			return nil
		}
		// Corrupt entry; fall through and reload.
	case !errors.Is(err, redis.Nil):
		middleware.Logger.WarnContext(ctx, "cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	if err := load(); err != nil {
		return err
	}

	encoded, err := json.Marshal(dest)
	if err != nil {
		return nil
	}
	if err := client.Set(ctx, key, encoded, ttl).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return nil
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateActor drops the cached auth view of a user after any account change.
func InvalidateActor(ctx context.Context, userID uint) {
	Invalidate(ctx, ActorKey(userID))
}

// InvalidateStats drops the admin counters after a write that changes a count.
func InvalidateStats(ctx context.Context) {
	Invalidate(ctx, StatsKey)
}

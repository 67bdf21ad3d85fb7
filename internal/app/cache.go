package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"hotel_backoffice/internal/domain"
)

// genKey holds the cache generation. Every write bumps it, which orphans all cached
// reads at once; orphaned entries age out through their TTL.
const genKey = "cache:gen"

// NopCache is used when Redis is not configured.
type NopCache struct{}

func (NopCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (NopCache) Set(context.Context, string, any, int) error    { return nil }
func (NopCache) Del(context.Context, string) error              { return nil }
func (NopCache) Incr(context.Context, string) (int64, error)    { return 0, nil }

func orNop(c domain.Cache) domain.Cache {
	if c == nil {
		return NopCache{}
	}
	return c
}

func generation(ctx context.Context, c domain.Cache) int64 {
	var gen int64
	if _, err := c.Get(ctx, genKey, &gen); err != nil {
		log.Warn().Err(err).Msg("cache generation read failed")
	}
	return gen
}

func versionedKey(ctx context.Context, c domain.Cache, key string) string {
	return fmt.Sprintf("v%d:%s", generation(ctx, c), key)
}

// invalidate drops every cached read. Failures are logged, never returned.
func invalidate(ctx context.Context, c domain.Cache) {
	if _, err := c.Incr(ctx, genKey); err != nil {
		log.Warn().Err(err).Msg("cache invalidation failed")
	}
}

// readThrough serves key from c, or loads and stores it. Cache errors degrade to a load.
func readThrough[T any](ctx context.Context, c domain.Cache, ttlSec int, key string, load func(context.Context) (T, error)) (T, error) {
	k := versionedKey(ctx, c, key)
	var cached T
	ok, err := c.Get(ctx, k, &cached)
	if err != nil {
		log.Warn().Err(err).Str("key", k).Msg("cache read failed")
	} else if ok {
		return cached, nil
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if err := c.Set(ctx, k, v, ttlSec); err != nil {
		log.Warn().Err(err).Str("key", k).Msg("cache write failed")
	}
	return v, nil
}

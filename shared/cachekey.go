package shared

import (
	"context"
	"crypto/sha1" //nolint:gosec
	"encoding/hex"
	"encoding/json"
	"strings"

	"meetingbook/shared/cache"
	"meetingbook/shared/constant"
	"meetingbook/shared/dto"

	"github.com/rs/zerolog/log"
)

// BuildCacheKey joins prefix and parts with ":".
func BuildCacheKey(prefix string, parts ...string) string {
	return strings.Join(append([]string{prefix}, parts...), constant.CacheKeySeparator)
}

// BuildCacheKeyWithQuery suffixes prefix with a digest of the list query so equal
// queries share a key.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup) string {
	where, args := filter.GetWhereClause()

	payload, err := json.Marshal(struct {
		Params dto.QueryParams `json:"params"`
		Where  string          `json:"where"`
		Args   map[string]any  `json:"args"`
	}{params, where, args})
	if err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to marshal cache key payload")

		return BuildCacheKey(prefix, where)
	}

	sum := sha1.Sum(payload) //nolint:gosec

	return BuildCacheKey(prefix, hex.EncodeToString(sum[:]))
}

// InvalidateCaches removes every key under prefix.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	if err := redisCache.Clear(ctx, BuildCacheKey(prefix, constant.Asterix)); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}

// SaveCacheAsync stores value in the background. Failures are only logged since
// the caller already has the value.
func SaveCacheAsync(ctx context.Context, redisCache cache.RedisCache, key string, value any, ttl int) {
	ctx = context.WithoutCancel(ctx)

	go func() {
		if err := redisCache.Save(ctx, key, value, ttl); err != nil {
			log.Error().Err(err).Str("cacheKey", key).Msg("failed to save cache")
		}
	}()
}

// EvictAsync drops the given keys and every key under the given prefixes in the background.
func EvictAsync(ctx context.Context, redisCache cache.RedisCache, keys []string, prefixes ...string) {
	ctx = context.WithoutCancel(ctx)

	go func() {
		for _, key := range keys {
			if err := redisCache.Delete(ctx, key); err != nil {
				log.Error().Err(err).Str("cacheKey", key).Msg("failed to evict cache")
			}
		}

		for _, prefix := range prefixes {
			InvalidateCaches(ctx, redisCache, prefix)
		}
	}()
}

package worker

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/styllobarber/styllobarber-api/pkg/cache"
)

// CacheInvalidator bridges cross-process invalidation messages into the
// local day cache. When another instance books or cancels an appointment
// it publishes the barber|date key; this worker drops our copy so the
// next availability query re-fetches.
type CacheInvalidator struct {
	redis    *cache.RedisCache
	dayCache *cache.DayCache
	logger   *zerolog.Logger
}

func NewCacheInvalidator(redis *cache.RedisCache, dayCache *cache.DayCache, logger *zerolog.Logger) *CacheInvalidator {
	return &CacheInvalidator{
		redis:    redis,
		dayCache: dayCache,
		logger:   logger,
	}
}

// Start blocks until ctx is cancelled or the subscription fails. Messages
// that do not parse as barberID|date are dropped; entries fall back to
// TTL expiry, so a bad message never poisons the cache.
func (w *CacheInvalidator) Start(ctx context.Context) error {
	keys, err := w.redis.SubscribeInvalidations(ctx)
	if err != nil {
		return err
	}

	for key := range keys {
		barberID, date, ok := parseDayKey(key)
		if !ok {
			w.logger.Warn().Str("key", key).Msg("ignoring malformed invalidation key")
			continue
		}
		w.dayCache.Invalidate(barberID, date)
		w.logger.Debug().Str("key", key).Msg("invalidated day cache entry")
	}
	return nil
}

func parseDayKey(key string) (uuid.UUID, string, bool) {
	parts := strings.SplitN(key, "|", 2)
	if len(parts) != 2 {
		return uuid.Nil, "", false
	}
	barberID, err := uuid.Parse(parts[0])
	if err != nil {
		return uuid.Nil, "", false
	}
	return barberID, parts[1], true
}

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"freshmart/api/recommend"
)

// TrendingCache is a read-through Redis cache in front of the trending
// aggregate. The aggregate is cross-user, so one short-lived entry serves
// every request. Cache failures are invisible to callers: reads fall
// through to the inner provider and write failures are dropped.
type TrendingCache struct {
	client *redis.Client
	inner  recommend.TrendingProvider
	ttl    time.Duration
}

func NewTrendingCache(client *redis.Client, inner recommend.TrendingProvider, ttl time.Duration) *TrendingCache {
	return &TrendingCache{client: client, inner: inner, ttl: ttl}
}

// FetchAggregate returns the cached aggregate when present, otherwise
// reads through and caches the result.
func (c *TrendingCache) FetchAggregate(ctx context.Context, windowDays int) (map[int64]int64, error) {
	key := fmt.Sprintf("trending:aggregate:%dd", windowDays)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var aggregate map[int64]int64
		if err := json.Unmarshal(data, &aggregate); err == nil {
			return aggregate, nil
		}
		log.Debug().Str("key", key).Msg("Dropping undecodable trending cache entry")
	} else if err != redis.Nil {
		log.Debug().Err(err).Str("key", key).Msg("Trending cache read failed, falling through")
	}

	aggregate, err := c.inner.FetchAggregate(ctx, windowDays)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(aggregate); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			log.Debug().Err(err).Str("key", key).Msg("Trending cache write failed, dropping")
		}
	}

	return aggregate, nil
}

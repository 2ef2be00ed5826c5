// File: internal/infra/adapters/search/cache.go
package search

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/suryansh00001/AI-Search/internal/domain/ports/adapter"
)

var _ adapter.SearchAdapter = (*CachedSearch)(nil)

// CachedSearch memoizes search responses in Redis. Cache failures are
// logged and fall through to the inner adapter; the cache never makes
// a search fail.
type CachedSearch struct {
	inner  adapter.SearchAdapter
	client *redis.Client
	ttl    time.Duration
	log    *zerolog.Logger
}

func NewCachedSearch(inner adapter.SearchAdapter, client *redis.Client, ttl time.Duration, log *zerolog.Logger) *CachedSearch {
	return &CachedSearch{inner: inner, client: client, ttl: ttl, log: log}
}

func (c *CachedSearch) cacheKey(query string, maxResults int) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%d:%s", maxResults, query)))
	return fmt.Sprintf("search:%x", sum)
}

func (c *CachedSearch) Search(ctx context.Context, query string, maxResults int) (*adapter.SearchResponse, error) {
	key := c.cacheKey(query, maxResults)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var cached adapter.SearchResponse
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	} else if err != redis.Nil {
		c.log.Warn().Err(err).Msg("search cache read failed")
	}

	resp, err := c.inner.Search(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(resp); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.log.Warn().Err(err).Msg("search cache write failed")
		}
	}
	return resp, nil
}

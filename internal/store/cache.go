package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bloomiox/resusbih/internal/domain"
	"github.com/bloomiox/resusbih/internal/logger"
)

// notFoundSentinel is the cached payload marking an id with no article, so a
// burst of crawler hits on a dead link does not re-query the database.
const notFoundSentinel = "__not_found__"

// CachedStore is a read-through Redis cache in front of another ArticleStore.
// A Redis failure is never surfaced; the lookup falls through to the inner
// store so the cache can only speed things up, not break them.
type CachedStore struct {
	inner       ArticleStore
	client      *redis.Client
	log         logger.Logger
	ttl         time.Duration
	notFoundTTL time.Duration
}

// NewCachedStore wraps inner with a Redis cache. Found articles live for ttl,
// not-found markers for notFoundTTL.
func NewCachedStore(
	inner ArticleStore,
	client *redis.Client,
	log logger.Logger,
	ttl time.Duration,
	notFoundTTL time.Duration,
) *CachedStore {
	return &CachedStore{
		inner:       inner,
		client:      client,
		log:         log,
		ttl:         ttl,
		notFoundTTL: notFoundTTL,
	}
}

func cacheKey(id int64) string {
	return fmt.Sprintf("preview:article:%d", id)
}

// GetArticle returns the cached article when present, otherwise delegates to
// the inner store and stores the result.
func (s *CachedStore) GetArticle(ctx context.Context, id int64) (*domain.ArticleSummary, error) {
	key := cacheKey(id)

	cached, err := s.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		if cached == notFoundSentinel {
			return nil, ErrNotFound
		}
		var a domain.ArticleSummary
		if unmarshalErr := json.Unmarshal([]byte(cached), &a); unmarshalErr == nil {
			return &a, nil
		}
		// Corrupt entry: fall through to the inner store and overwrite below.
		s.log.Warn("Dropping unreadable cache entry", logger.String("key", key))
	case !errors.Is(err, redis.Nil):
		s.log.Warn("Article cache read failed", logger.Error(err), logger.Int64("article_id", id))
	}

	article, err := s.inner.GetArticle(ctx, id)
	if errors.Is(err, ErrNotFound) {
		s.set(ctx, key, notFoundSentinel, s.notFoundTTL)
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if payload, marshalErr := json.Marshal(article); marshalErr == nil {
		s.set(ctx, key, string(payload), s.ttl)
	}
	return article, nil
}

func (s *CachedStore) set(ctx context.Context, key, value string, ttl time.Duration) {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		s.log.Warn("Article cache write failed", logger.Error(err), logger.String("key", key))
	}
}

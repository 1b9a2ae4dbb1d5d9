package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/bloomiox/resusbih/internal/domain"
	"github.com/bloomiox/resusbih/internal/logger"
	"github.com/bloomiox/resusbih/internal/store"
)

// countingStore records lookups so tests can assert cache hits.
type countingStore struct {
	article *domain.ArticleSummary
	err     error
	calls   int
}

func (s *countingStore) GetArticle(_ context.Context, _ int64) (*domain.ArticleSummary, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.article, nil
}

func newCacheFixture(t *testing.T, inner store.ArticleStore) (*store.CachedStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cached := store.NewCachedStore(inner, client, logger.NewNop(), time.Hour, 5*time.Minute)
	return cached, mr
}

func TestCachedStore_ReadThrough(t *testing.T) {
	inner := &countingStore{article: &domain.ArticleSummary{
		ID:          9,
		Title:       "Važna obavijest",
		PublishedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}}
	cached, _ := newCacheFixture(t, inner)

	ctx := context.Background()
	for range 3 {
		a, err := cached.GetArticle(ctx, 9)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.Title != "Važna obavijest" {
			t.Fatalf("title: got %q", a.Title)
		}
	}

	if inner.calls != 1 {
		t.Fatalf("inner store called %d times, want 1 (cache hit)", inner.calls)
	}
}

func TestCachedStore_NegativeCaching(t *testing.T) {
	inner := &countingStore{err: store.ErrNotFound}
	cached, _ := newCacheFixture(t, inner)

	ctx := context.Background()
	for range 2 {
		_, err := cached.GetArticle(ctx, 404)
		if !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("got %v, want ErrNotFound", err)
		}
	}

	if inner.calls != 1 {
		t.Fatalf("inner store called %d times, want 1 (not-found cached)", inner.calls)
	}
}

func TestCachedStore_ExpiryRefetches(t *testing.T) {
	inner := &countingStore{article: &domain.ArticleSummary{ID: 9, Title: "Novost"}}
	cached, mr := newCacheFixture(t, inner)

	ctx := context.Background()
	if _, err := cached.GetArticle(ctx, 9); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mr.FastForward(2 * time.Hour)

	if _, err := cached.GetArticle(ctx, 9); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("inner store called %d times, want 2 after TTL expiry", inner.calls)
	}
}

func TestCachedStore_RedisDownFallsThrough(t *testing.T) {
	inner := &countingStore{article: &domain.ArticleSummary{ID: 9, Title: "Novost"}}
	cached, mr := newCacheFixture(t, inner)
	mr.Close()

	a, err := cached.GetArticle(context.Background(), 9)
	if err != nil {
		t.Fatalf("redis outage must not fail the lookup: %v", err)
	}
	if a.Title != "Novost" {
		t.Fatalf("title: got %q", a.Title)
	}
	if inner.calls != 1 {
		t.Fatalf("inner store called %d times, want 1", inner.calls)
	}
}

func TestCachedStore_InnerErrorPropagates(t *testing.T) {
	inner := &countingStore{err: errors.New("backend outage")}
	cached, _ := newCacheFixture(t, inner)

	_, err := cached.GetArticle(context.Background(), 9)
	if err == nil || errors.Is(err, store.ErrNotFound) {
		t.Fatalf("got %v, want transport error", err)
	}
}

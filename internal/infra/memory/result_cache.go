package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"lesson-quiz-service/internal/app"
	"lesson-quiz-service/internal/domain"
)

// ResultCache caches results listings per user and lesson filter. Every
// successful Create drops the owner's cached listings and bumps the owner's
// generation, so a listing loaded before the write is never stored.
type ResultCache struct {
	next  app.ResultRepository
	ttl   time.Duration
	clock func() time.Time

	mu    sync.Mutex
	cache map[string]cachedListing
	gens  map[string]uint64
}

type cachedListing struct {
	results   []domain.UserResult
	expiresAt time.Time
}

func NewResultCache(next app.ResultRepository, ttl time.Duration) *ResultCache {
	return &ResultCache{
		next:  next,
		ttl:   ttl,
		clock: time.Now,
		cache: make(map[string]cachedListing),
		gens:  make(map[string]uint64),
	}
}

func (c *ResultCache) Create(ctx context.Context, result domain.UserResult) (domain.UserResult, error) {
	saved, err := c.next.Create(ctx, result)
	if err != nil {
		return saved, err
	}
	_ = c.Invalidate(ctx, saved.UserID)
	return saved, nil
}

func (c *ResultCache) List(ctx context.Context, filter domain.ResultFilter) ([]domain.UserResult, error) {
	key := listingKey(filter)
	c.mu.Lock()
	if entry, ok := c.cache[key]; ok && entry.expiresAt.After(c.clock()) {
		c.mu.Unlock()
		return entry.results, nil
	}
	gen := c.gens[filter.UserID]
	c.mu.Unlock()

	results, err := c.next.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if c.ttl > 0 {
		c.mu.Lock()
		if c.gens[filter.UserID] == gen {
			c.cache[key] = cachedListing{results: results, expiresAt: c.clock().Add(c.ttl)}
		}
		c.mu.Unlock()
	}
	return results, nil
}

// Invalidate drops every cached listing of userID.
func (c *ResultCache) Invalidate(_ context.Context, userID string) error {
	prefix := userID + "|"
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[userID]++
	for key := range c.cache {
		if strings.HasPrefix(key, prefix) {
			delete(c.cache, key)
		}
	}
	return nil
}

func listingKey(f domain.ResultFilter) string {
	lesson := f.LessonID
	if lesson == "" {
		lesson = "*"
	}
	return f.UserID + "|" + lesson
}

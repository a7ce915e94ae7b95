package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"lesson-quiz-service/internal/domain"
)

type countingResults struct {
	*ResultStore
	lists int
}

func (c *countingResults) List(ctx context.Context, f domain.ResultFilter) ([]domain.UserResult, error) {
	c.lists++
	return c.ResultStore.List(ctx, f)
}

func TestResultCacheInvalidatesOwnerOnCreate(t *testing.T) {
	ctx := context.Background()
	backing := &countingResults{ResultStore: NewResultStore()}
	cache := NewResultCache(backing, time.Minute)

	u1 := domain.ResultFilter{UserID: "u1", Limit: 20}
	u2 := domain.ResultFilter{UserID: "u2", Limit: 20}
	_, _ = cache.List(ctx, u1)
	_, _ = cache.List(ctx, u1)
	_, _ = cache.List(ctx, u2)
	if backing.lists != 2 {
		t.Fatalf("expected cached second listing, backing lists=%d", backing.lists)
	}

	if _, err := cache.Create(ctx, domain.UserResult{ID: domain.NewID(), UserID: "u1", CompletedAt: time.Now()}); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, _ := cache.List(ctx, u1)
	if len(got) != 1 {
		t.Fatalf("expected fresh listing after create, got %d results", len(got))
	}
	_, _ = cache.List(ctx, u2)
	if backing.lists != 3 {
		t.Fatalf("other users' listings must stay cached, backing lists=%d", backing.lists)
	}
}

func TestResultCacheExpires(t *testing.T) {
	ctx := context.Background()
	backing := &countingResults{ResultStore: NewResultStore()}
	cache := NewResultCache(backing, time.Minute)
	now := time.Now()
	cache.clock = func() time.Time { return now }

	f := domain.ResultFilter{UserID: "u1", LessonID: domain.NewID(), Limit: 20}
	_, _ = cache.List(ctx, f)
	now = now.Add(2 * time.Minute)
	_, _ = cache.List(ctx, f)
	if backing.lists != 2 {
		t.Fatalf("expected expired entry to be reloaded, backing lists=%d", backing.lists)
	}
}

// gatedResults pauses the first List after it has read from the store.
type gatedResults struct {
	*ResultStore
	once    sync.Once
	read    chan struct{}
	release chan struct{}
}

func (g *gatedResults) List(ctx context.Context, f domain.ResultFilter) ([]domain.UserResult, error) {
	results, err := g.ResultStore.List(ctx, f)
	g.once.Do(func() {
		close(g.read)
		<-g.release
	})
	return results, err
}

func TestResultCacheDiscardsListingReadBeforeCreate(t *testing.T) {
	ctx := context.Background()
	backing := &gatedResults{ResultStore: NewResultStore(), read: make(chan struct{}), release: make(chan struct{})}
	cache := NewResultCache(backing, time.Minute)
	filter := domain.ResultFilter{UserID: "u1", Limit: 20}

	done := make(chan int)
	go func() {
		results, _ := cache.List(ctx, filter)
		done <- len(results)
	}()

	<-backing.read
	if _, err := cache.Create(ctx, domain.UserResult{ID: domain.NewID(), UserID: "u1", CompletedAt: time.Now()}); err != nil {
		t.Fatalf("create: %v", err)
	}
	close(backing.release)
	if n := <-done; n != 0 {
		t.Fatalf("in-flight listing should reflect its read, got %d", n)
	}

	got, err := cache.List(ctx, filter)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("listing after Create is stale: got %d results, want 1", len(got))
	}
}

package redis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"lesson-quiz-service/internal/app"
	"lesson-quiz-service/internal/domain"
	"lesson-quiz-service/internal/infra/memory"
)

func TestQuizRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingSource{QuizRepository: memory.NewQuizStore(domain.FixtureQuiz())}
	repo := NewQuizRepository(client, loader, time.Minute)

	first, err := repo.FindByLesson(context.Background(), domain.FixtureLessonID)
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("quiz:lesson:" + domain.FixtureLessonID) {
		t.Fatalf("expected quiz cached in redis")
	}

	// Second call should hit cache, loader not incremented.
	second, _ := repo.FindByLesson(context.Background(), domain.FixtureLessonID)
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if second.ID != first.ID || len(second.Questions) != 3 || second.Questions[2].CorrectAnswerIndex != 3 {
		t.Fatalf("cached quiz differs: %+v", second)
	}

	if err := repo.Forget(context.Background(), domain.FixtureLessonID); err != nil {
		t.Fatalf("forget: %v", err)
	}
	if mr.Exists("quiz:lesson:" + domain.FixtureLessonID) {
		t.Fatalf("expected cache entry removed")
	}
}

func TestQuizRepositoryPassesThroughNotFound(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	repo := NewQuizRepository(newClient(mr), memory.NewQuizStore(), time.Minute)
	_, err = repo.FindByLesson(context.Background(), domain.NewID())
	if !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(mr.Keys()) != 0 {
		t.Fatalf("expected nothing cached, got %v", mr.Keys())
	}
}

type countingSource struct {
	app.QuizRepository
	calls int
}

func (l *countingSource) FindByLesson(ctx context.Context, lessonID string) (domain.Quiz, error) {
	l.calls++
	return l.QuizRepository.FindByLesson(ctx, lessonID)
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}

// gatedSource pauses the first FindByLesson after it has read from the store.
type gatedSource struct {
	app.QuizRepository
	once    sync.Once
	read    chan struct{}
	release chan struct{}
}

func (g *gatedSource) FindByLesson(ctx context.Context, lessonID string) (domain.Quiz, error) {
	quiz, err := g.QuizRepository.FindByLesson(ctx, lessonID)
	g.once.Do(func() {
		close(g.read)
		<-g.release
	})
	return quiz, err
}

func TestQuizRepositoryDiscardsLoadOverlappingForget(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := memory.NewQuizStore(domain.FixtureQuiz())
	source := &gatedSource{QuizRepository: store, read: make(chan struct{}), release: make(chan struct{})}
	repo := NewQuizRepository(newClient(mr), source, time.Minute)

	done := make(chan struct{})
	go func() {
		_, _ = repo.FindByLesson(ctx, domain.FixtureLessonID)
		close(done)
	}()

	<-source.read
	replaced, err := store.ReplaceForLesson(ctx, domain.FixtureQuiz())
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := repo.Forget(ctx, domain.FixtureLessonID); err != nil {
		t.Fatalf("forget: %v", err)
	}
	close(source.release)
	<-done

	if mr.Exists("quiz:lesson:" + domain.FixtureLessonID) {
		t.Fatalf("quiz loaded before Forget was written back to redis")
	}
	got, err := repo.FindByLesson(ctx, domain.FixtureLessonID)
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if got.ID != replaced.ID {
		t.Fatalf("got quiz %s, want %s", got.ID, replaced.ID)
	}
}

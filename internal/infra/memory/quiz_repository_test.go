package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"lesson-quiz-service/internal/app"
	"lesson-quiz-service/internal/domain"
)

func TestQuizRepositoryCaches(t *testing.T) {
	loader := &countingSource{QuizRepository: NewQuizStore(domain.FixtureQuiz())}
	repo := NewQuizRepository(loader, time.Minute)

	if _, err := repo.FindByLesson(context.Background(), domain.FixtureLessonID); err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.FindByLesson(context.Background(), domain.FixtureLessonID); err != nil {
		t.Fatalf("get quiz 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}

	_ = repo.Forget(context.Background(), domain.FixtureLessonID)
	if _, err := repo.FindByLesson(context.Background(), domain.FixtureLessonID); err != nil {
		t.Fatalf("get quiz 3: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected reload after forget, loader calls %d", loader.calls)
	}
}

func TestQuizRepositoryDoesNotCacheMisses(t *testing.T) {
	loader := &countingSource{QuizRepository: NewQuizStore()}
	repo := NewQuizRepository(loader, time.Minute)
	missing := domain.NewID()

	for i := 0; i < 2; i++ {
		_, err := repo.FindByLesson(context.Background(), missing)
		if !errors.Is(err, domain.ErrQuizNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	}
	if loader.calls != 2 {
		t.Fatalf("expected misses to reach the loader, got %d calls", loader.calls)
	}
}

func TestQuizStoreReplaceForLesson(t *testing.T) {
	store := NewQuizStore(domain.FixtureQuiz())
	before, _ := store.FindByLesson(context.Background(), domain.FixtureLessonID)

	after, err := store.ReplaceForLesson(context.Background(), domain.FixtureQuiz())
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if after.ID == before.ID {
		t.Fatalf("expected a new quiz id")
	}
	if n, _ := store.SampleCount(context.Background(), 5); n != 1 {
		t.Fatalf("expected exactly one quiz after replace, got %d", n)
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
	ctx := context.Background()
	store := NewQuizStore(domain.FixtureQuiz())
	source := &gatedSource{QuizRepository: store, read: make(chan struct{}), release: make(chan struct{})}
	repo := NewQuizRepository(source, time.Minute)

	done := make(chan string)
	go func() {
		quiz, _ := repo.FindByLesson(ctx, domain.FixtureLessonID)
		done <- quiz.ID
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
	if old := <-done; old == replaced.ID {
		t.Fatalf("in-flight load should return the quiz it read")
	}

	got, err := repo.FindByLesson(ctx, domain.FixtureLessonID)
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if got.ID != replaced.ID {
		t.Fatalf("cache kept the quiz loaded before Forget: got %s, want %s", got.ID, replaced.ID)
	}
}

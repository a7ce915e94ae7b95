package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"lesson-quiz-service/internal/app"
	"lesson-quiz-service/internal/domain"
)

// QuizRepository caches quizzes by lesson with TTL to avoid repeated DB hits.
// Misses are never cached. A load that overlaps a Forget of its lesson is
// returned but not cached.
type QuizRepository struct {
	source app.QuizRepository
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedQuiz
	gens  map[string]uint64
}

type cachedQuiz struct {
	quiz      domain.Quiz
	expiresAt time.Time
}

func NewQuizRepository(source app.QuizRepository, ttl time.Duration) *QuizRepository {
	return &QuizRepository{
		source: source,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedQuiz),
		gens:   make(map[string]uint64),
	}
}

func (r *QuizRepository) FindByLesson(ctx context.Context, lessonID string) (domain.Quiz, error) {
	if quiz, ok := r.lookup(lessonID); ok {
		return quiz, nil
	}

	result, err, _ := r.sf.Do(lessonID, func() (interface{}, error) {
		if quiz, ok := r.lookup(lessonID); ok {
			return quiz, nil
		}

		r.mu.RLock()
		gen := r.gens[lessonID]
		r.mu.RUnlock()

		quiz, err := r.source.FindByLesson(ctx, lessonID)
		if err != nil {
			return domain.Quiz{}, err
		}

		r.mu.Lock()
		if r.gens[lessonID] == gen {
			r.cache[lessonID] = cachedQuiz{
				quiz:      quiz,
				expiresAt: r.clock().Add(r.ttlWithJitter()),
			}
		}
		r.mu.Unlock()
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

// SampleCount is not cached.
func (r *QuizRepository) SampleCount(ctx context.Context, limit int) (int, error) {
	return r.source.SampleCount(ctx, limit)
}

// Forget drops the cached quiz for lessonID. Callers arriving afterwards do
// not join a load that was already in flight.
func (r *QuizRepository) Forget(_ context.Context, lessonID string) error {
	r.mu.Lock()
	delete(r.cache, lessonID)
	r.gens[lessonID]++
	r.mu.Unlock()
	r.sf.Forget(lessonID)
	return nil
}

func (r *QuizRepository) lookup(lessonID string) (domain.Quiz, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[lessonID]
	if !ok || !entry.expiresAt.After(r.clock()) {
		return domain.Quiz{}, false
	}
	return entry.quiz, true
}

func (r *QuizRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

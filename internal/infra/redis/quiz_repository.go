package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"lesson-quiz-service/internal/app"
	"lesson-quiz-service/internal/domain"
)

// QuizRepository caches quiz documents in Redis and falls back to the backing
// store on cache miss or Redis failure. Quizzes are stored as JSON under
// quiz:lesson:{lessonID}; quiz:lesson:{lessonID}:gen counts Forget calls and
// guards fills against writing back a quiz loaded before the last Forget.
type QuizRepository struct {
	client *redis.Client
	source app.QuizRepository
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex
}

func NewQuizRepository(client *redis.Client, source app.QuizRepository, ttl time.Duration) *QuizRepository {
	return &QuizRepository{
		client: client,
		source: source,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuizRepository) FindByLesson(ctx context.Context, lessonID string) (domain.Quiz, error) {
	if quiz, ok := r.cached(ctx, lessonID); ok {
		return quiz, nil
	}

	result, err, _ := r.sf.Do(lessonID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if quiz, ok := r.cached(ctx, lessonID); ok {
			return quiz, nil
		}

		gen, genErr := generation(ctx, r.client, r.genKey(lessonID))

		quiz, err := r.source.FindByLesson(ctx, lessonID)
		if err != nil {
			return domain.Quiz{}, err
		}

		if raw, err := json.Marshal(quiz); err == nil && genErr == nil {
			_ = storeIfCurrent(ctx, r.client, r.genKey(lessonID), gen, func(pipe redis.Pipeliner) {
				pipe.Set(ctx, r.key(lessonID), raw, r.ttlWithJitter())
			})
		}
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

func (r *QuizRepository) SampleCount(ctx context.Context, limit int) (int, error) {
	return r.source.SampleCount(ctx, limit)
}

// Forget drops the cached quiz for lessonID and bumps its generation.
func (r *QuizRepository) Forget(ctx context.Context, lessonID string) error {
	r.sf.Forget(lessonID)
	pipe := r.client.TxPipeline()
	pipe.Incr(ctx, r.genKey(lessonID))
	pipe.Del(ctx, r.key(lessonID))
	_, err := pipe.Exec(ctx)
	return err
}

func (r *QuizRepository) cached(ctx context.Context, lessonID string) (domain.Quiz, bool) {
	raw, err := r.client.Get(ctx, r.key(lessonID)).Bytes()
	if err != nil {
		return domain.Quiz{}, false
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return domain.Quiz{}, false
	}
	return quiz, true
}

func (r *QuizRepository) key(lessonID string) string {
	return "quiz:lesson:" + lessonID
}

func (r *QuizRepository) genKey(lessonID string) string {
	return r.key(lessonID) + ":gen"
}

// ttlWithJitter returns 0 (no expiry) when ttl is unset.
func (r *QuizRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

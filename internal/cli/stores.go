package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"lesson-quiz-service/internal/app"
	"lesson-quiz-service/internal/config"
	"lesson-quiz-service/internal/domain"
	"lesson-quiz-service/internal/infra/memory"
	mongostore "lesson-quiz-service/internal/infra/mongo"
	pgstore "lesson-quiz-service/internal/infra/postgres"
	rediscache "lesson-quiz-service/internal/infra/redis"
)

type quizStore interface {
	app.QuizRepository
	app.QuizWriter
}

// backends holds the configured stores, already wrapped in their caches.
type backends struct {
	quizzes app.QuizRepository
	writer  app.QuizWriter
	results app.ResultRepository
	close   func()
}

func openBackends(ctx context.Context, cfg config.Config, log *zap.Logger) (*backends, error) {
	var (
		store   quizStore
		results app.ResultRepository
		closers []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch {
	case cfg.Mongo.URI != "":
		client, err := mongostore.Connect(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, err
		}
		closers = append(closers, func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(shutdownCtx)
		})
		db := client.Database(cfg.Mongo.Database)
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			closeAll()
			return nil, err
		}
		store = mongostore.NewQuizStore(db)
		results = mongostore.NewResultStore(db)
		log.Info("using mongo stores", zap.String("database", cfg.Mongo.Database))
	case cfg.Postgres.URL != "":
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		closers = append(closers, pool.Close)
		db := pgstore.OpenBun(cfg.Postgres.URL)
		closers = append(closers, func() { _ = db.Close() })
		store = pgstore.NewQuizStore(pool)
		results = pgstore.NewResultStore(db)
		log.Info("using postgres stores")
	default:
		store = memory.NewQuizStore(domain.FixtureQuiz())
		results = memory.NewResultStore()
		log.Info("using in-memory stores", zap.String("fixtureLessonId", domain.FixtureLessonID))
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	resultTTL := config.TTLDuration(cfg.Results.TTL, time.Minute)

	b := &backends{writer: store}
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		closers = append(closers, func() { _ = client.Close() })
		if err := client.Ping(ctx).Err(); err != nil {
			closeAll()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		b.quizzes = rediscache.NewQuizRepository(client, store, quizTTL)
		b.results = rediscache.NewResultCache(client, results, resultTTL, log)
	} else {
		b.quizzes = memory.NewQuizRepository(store, quizTTL)
		b.results = memory.NewResultCache(results, resultTTL)
	}
	b.close = closeAll
	return b, nil
}

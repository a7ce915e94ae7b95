package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"lesson-quiz-service/internal/app"
	"lesson-quiz-service/internal/domain"
)

// ResultCache caches results listings in Redis.
// Listings are stored as: SET results:{userID}:{lessonID|*} <json>
// Keys of one user are tracked in: SADD results:{userID}:keys <key>
// Invalidations of one user are counted in: INCR results:{userID}:gen
// A successful Create bumps the owner's generation and deletes every tracked
// listing. A listing is only written while the generation it was read under
// is still current.
type ResultCache struct {
	client *redis.Client
	next   app.ResultRepository
	ttl    time.Duration
	log    *zap.Logger
}

func NewResultCache(client *redis.Client, next app.ResultRepository, ttl time.Duration, log *zap.Logger) *ResultCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &ResultCache{client: client, next: next, ttl: ttl, log: log}
}

func (c *ResultCache) Create(ctx context.Context, result domain.UserResult) (domain.UserResult, error) {
	saved, err := c.next.Create(ctx, result)
	if err != nil {
		return saved, err
	}
	// The record is stored; a failed invalidation only delays it until the TTL.
	if err := c.Invalidate(ctx, saved.UserID); err != nil {
		c.log.Warn("invalidate results listing failed",
			zap.String("userId", saved.UserID), zap.Duration("staleFor", c.ttl), zap.Error(err))
	}
	return saved, nil
}

func (c *ResultCache) List(ctx context.Context, filter domain.ResultFilter) ([]domain.UserResult, error) {
	key := c.listingKey(filter)
	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var results []domain.UserResult
		if err := json.Unmarshal(raw, &results); err == nil {
			return results, nil
		}
	}

	gen, genErr := generation(ctx, c.client, c.genKey(filter.UserID))

	results, err := c.next.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if c.ttl <= 0 || genErr != nil {
		return results, nil
	}
	raw, err := json.Marshal(results)
	if err != nil {
		return results, nil
	}
	keysKey := c.keysKey(filter.UserID)
	_ = storeIfCurrent(ctx, c.client, c.genKey(filter.UserID), gen, func(pipe redis.Pipeliner) {
		pipe.Set(ctx, key, raw, c.ttl)
		pipe.SAdd(ctx, keysKey, key)
		pipe.Expire(ctx, keysKey, c.ttl)
	})
	return results, nil
}

// Invalidate drops every cached listing of userID and bumps its generation so
// in-flight fills are discarded.
func (c *ResultCache) Invalidate(ctx context.Context, userID string) error {
	if err := c.client.Incr(ctx, c.genKey(userID)).Err(); err != nil {
		return err
	}
	keysKey := c.keysKey(userID)
	keys, err := c.client.SMembers(ctx, keysKey).Result()
	if err != nil {
		return err
	}
	return c.client.Del(ctx, append(keys, keysKey)...).Err()
}

func (c *ResultCache) listingKey(f domain.ResultFilter) string {
	lesson := f.LessonID
	if lesson == "" {
		lesson = "*"
	}
	return "results:" + f.UserID + ":" + lesson
}

func (c *ResultCache) keysKey(userID string) string {
	return "results:" + userID + ":keys"
}

func (c *ResultCache) genKey(userID string) string {
	return "results:" + userID + ":gen"
}

package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// errStaleGeneration aborts a cache fill whose source read overlapped an
// invalidation.
var errStaleGeneration = errors.New("cache generation changed")

// generation reads the invalidation counter stored at key; a missing key is 0.
func generation(ctx context.Context, client redis.Cmdable, key string) (int64, error) {
	n, err := client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// storeIfCurrent applies write in a MULTI/EXEC only while genKey still holds
// gen. The WATCH covers increments that land between the check and EXEC.
func storeIfCurrent(ctx context.Context, client *redis.Client, genKey string, gen int64, write func(redis.Pipeliner)) error {
	return client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := generation(ctx, tx, genKey)
		if err != nil {
			return err
		}
		if cur != gen {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			write(pipe)
			return nil
		})
		return err
	}, genKey)
}

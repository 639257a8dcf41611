package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/NumberChiffre/SimpleLOBStream/internal/application/port"
)

// Repo publishes book bundles into Redis hashes keyed by symbol, so a
// consumer can HGET the latest bundle for any pair on its own timer.
type Repo struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// New creates a repo. prefix is prepended to every hash key; ttl <= 0
// disables expiry.
func New(rdb *redis.Client, prefix string, ttl time.Duration) *Repo {
	return &Repo{
		rdb:    rdb,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Publish stores the bundle: HSET <prefix><symbol> <symbol>:book payload.
func (r *Repo) Publish(ctx context.Context, symbol string, payload []byte) error {
	key := r.prefix + symbol
	pipe := r.rdb.Pipeline()
	pipe.HSet(ctx, key, symbol+":book", payload)
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

var _ port.Sink = (*Repo)(nil)

package federation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// OutboxKey is the Redis list the delivery worker pops jobs from.
const OutboxKey = "federation:outbox"

// OutboxClient is the part of *redis.Client the dispatcher uses.
type OutboxClient interface {
	RPush(ctx context.Context, key string, values ...any) *redis.IntCmd
	Close() error
}

// RedisDispatcher pushes jobs onto a Redis list.
type RedisDispatcher struct {
	cli OutboxClient
}

// Connect connects to the Redis server and pings it to ensure the
// connection is working.
func Connect(ctx context.Context, addr string) (*RedisDispatcher, error) {
	cli := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := cli.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisDispatcher{cli: cli}, nil
}

// NewRedisDispatcher wraps an existing client.
func NewRedisDispatcher(cli OutboxClient) *RedisDispatcher {
	return &RedisDispatcher{cli: cli}
}

// Dispatch appends the job to the outbox.
func (d *RedisDispatcher) Dispatch(ctx context.Context, job Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := d.cli.RPush(ctx, OutboxKey, payload).Err(); err != nil {
		return fmt.Errorf("rpush: %w", err)
	}
	return nil
}

// Close closes the Redis client.
func (d *RedisDispatcher) Close() error {
	return d.cli.Close()
}

package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"paperqa/internal/contextutil"
)

// DefaultPollTimeout bounds a single blocking pop so shutdown is noticed promptly.
const DefaultPollTimeout = 5 * time.Second

var (
	// ErrMalformedJob is returned for payloads that are not a usable ingestion job.
	ErrMalformedJob = errors.New("malformed job")
	// ErrUnavailable is returned when the queue backend cannot be reached.
	ErrUnavailable = errors.New("queue unavailable")
)

// RedisQueue is a FIFO list of ingestion jobs in Redis. Producers RPUSH and
// consumers BLPOP.
type RedisQueue struct {
	client      *redis.Client
	name        string
	pollTimeout time.Duration
}

// Option configures a RedisQueue.
type Option func(*RedisQueue)

// WithPollTimeout sets how long one Dequeue blocks waiting for a job.
func WithPollTimeout(d time.Duration) Option {
	return func(q *RedisQueue) {
		if d > 0 {
			q.pollTimeout = d
		}
	}
}

// NewRedisQueue creates a queue backed by the Redis list name.
func NewRedisQueue(client *redis.Client, name string, opts ...Option) *RedisQueue {
	q := &RedisQueue{
		client:      client,
		name:        name,
		pollTimeout: DefaultPollTimeout,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Name returns the Redis key of the list.
func (q *RedisQueue) Name() string {
	return q.name
}

// Ping checks connectivity.
func (q *RedisQueue) Ping(ctx context.Context) error {
	if err := q.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

// Len returns the number of waiting jobs.
func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	n, err := q.client.LLen(ctx, q.name).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return n, nil
}

// Enqueue appends job to the tail of the queue.
func (q *RedisQueue) Enqueue(ctx context.Context, job Job) error {
	if err := job.Validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode job: %w", err)
	}
	if err := q.client.RPush(ctx, q.name, payload).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "job enqueued", "queue", q.name, "document_id", job.DocumentID)
	return nil
}

// Dequeue blocks for up to the poll timeout and returns the next job, or nil
// when none arrived. A payload that cannot be used fails with ErrMalformedJob;
// the returned job is then non-nil whenever the payload decoded, so the caller
// can still clean up its file. Connectivity failures wrap ErrUnavailable.
func (q *RedisQueue) Dequeue(ctx context.Context) (*Job, error) {
	res, err := q.client.BLPop(ctx, q.pollTimeout, q.name).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if len(res) != 2 {
		return nil, fmt.Errorf("%w: unexpected BLPOP reply of %d elements", ErrUnavailable, len(res))
	}

	var job Job
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return nil, fmt.Errorf("%w: %w: %q", ErrMalformedJob, err, truncatePayload(res[1]))
	}
	if err := job.Validate(); err != nil {
		return &job, err
	}
	return &job, nil
}

func truncatePayload(s string) string {
	const maxLen = 200
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

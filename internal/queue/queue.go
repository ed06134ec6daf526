// Package queue carries resume compile jobs from the API to the worker over a Redis list.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultKey is the Redis list compile jobs are pushed onto.
const DefaultKey = "job_assistant:compile"

// CompileJob asks the worker to typeset one resume variant.
type CompileJob struct {
	VariantID  uuid.UUID `json:"variant_id"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// Queue is a FIFO of compile jobs backed by a Redis list.
type Queue struct {
	rdb *redis.Client
	key string
}

// Connect parses redisURL, connects and verifies the server is reachable.
func Connect(ctx context.Context, redisURL string) (*Queue, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", opts.Addr, err)
	}
	return New(rdb, DefaultKey), nil
}

// New wraps an existing client.
func New(rdb *redis.Client, key string) *Queue {
	if key == "" {
		key = DefaultKey
	}
	return &Queue{rdb: rdb, key: key}
}

// Close closes the Redis client.
func (q *Queue) Close() error {
	return q.rdb.Close()
}

// Ping checks that Redis is reachable.
func (q *Queue) Ping(ctx context.Context) error {
	return q.rdb.Ping(ctx).Err()
}

// EnqueueCompile pushes a compile job for variantID.
func (q *Queue) EnqueueCompile(ctx context.Context, variantID uuid.UUID) error {
	payload, err := encode(CompileJob{VariantID: variantID, EnqueuedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	if err := q.rdb.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue compile job: %w", err)
	}
	return nil
}

// Dequeue blocks for up to timeout waiting for the oldest job.
// It returns nil, nil when the timeout passes with nothing queued.
// Timeouts below one second are raised to one second; zero would block forever.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (*CompileJob, error) {
	timeout = max(timeout, time.Second)
	res, err := q.rdb.BRPop(ctx, timeout, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to dequeue compile job: %w", err)
	}
	// BRPOP replies with [key, value].
	if len(res) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP reply of length %d", len(res))
	}
	return decode(res[1])
}

// Len returns the number of queued jobs.
func (q *Queue) Len(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, q.key).Result()
}

func encode(job CompileJob) (string, error) {
	data, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("failed to encode compile job: %w", err)
	}
	return string(data), nil
}

// MalformedJobError is returned for queue entries that cannot be decoded.
type MalformedJobError struct {
	Payload string
	Cause   error
}

func (e *MalformedJobError) Error() string {
	return fmt.Sprintf("malformed compile job %q: %v", e.Payload, e.Cause)
}

func (e *MalformedJobError) Unwrap() error {
	return e.Cause
}

func decode(payload string) (*CompileJob, error) {
	var job CompileJob
	if err := json.Unmarshal([]byte(payload), &job); err != nil {
		return nil, &MalformedJobError{Payload: payload, Cause: err}
	}
	if job.VariantID == uuid.Nil {
		return nil, &MalformedJobError{Payload: payload, Cause: errors.New("missing variant_id")}
	}
	return &job, nil
}

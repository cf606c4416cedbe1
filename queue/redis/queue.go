// Package redis provides a Redis-backed work-item queue: one list per
// participant, plus a processing set used to track in-flight deliveries.
// GetQueueDepth backs the shortest-queue distribution strategy.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Queue handles per-participant work-item queue operations using Redis.
type Queue struct {
	client *redis.Client
	ctx    context.Context
	prefix string
}

// Job is one queued assignment: a work item offered to a participant.
type Job struct {
	WorkItemURI   string    `json:"workItemURI"`
	ParticipantURI string   `json:"participantURI"`
	EnqueuedAt    time.Time `json:"enqueuedAt"`
	RetryCount    int       `json:"retryCount"`
}

// Config configures the Redis queue.
type Config struct {
	RedisURL  string // defaults to KGCL_REDIS_URL or redis://localhost:6379/0
	KeyPrefix string // defaults to "kgcl:queue:"
}

// NewQueue creates a new Redis queue client.
func NewQueue(ctx context.Context, config Config) (*Queue, error) {
	redisURL := config.RedisURL
	if redisURL == "" {
		redisURL = os.Getenv("KGCL_REDIS_URL")
	}
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	prefix := config.KeyPrefix
	if prefix == "" {
		prefix = "kgcl:queue:"
	}
	return &Queue{client: client, ctx: ctx, prefix: prefix}, nil
}

func (q *Queue) Close() error {
	return q.client.Close()
}

func (q *Queue) queueKey(participantURI string) string {
	return q.prefix + participantURI
}

// Enqueue offers a work item to a participant's queue.
func (q *Queue) Enqueue(job Job) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	return q.client.RPush(q.ctx, q.queueKey(job.ParticipantURI), string(body)).Err()
}

// Dequeue blocks up to timeout for the next offer in a participant's queue.
// A nil Job and nil error together mean the wait timed out.
func (q *Queue) Dequeue(participantURI string, timeout time.Duration) (*Job, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	result, err := q.client.BLPop(ctx, timeout, q.queueKey(participantURI)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("dequeue: %w", err)
	}
	if len(result) < 2 {
		return nil, nil
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		return nil, fmt.Errorf("unmarshal job: %w", err)
	}
	return &job, nil
}

// MarkProcessing records that a work item is in flight for a participant,
// with a deadline used to detect stalled deliveries.
func (q *Queue) MarkProcessing(workItemURI string, deadline time.Time) error {
	return q.client.ZAdd(q.ctx, q.prefix+"processing", redis.Z{
		Score:  float64(deadline.Unix()),
		Member: workItemURI,
	}).Err()
}

// CompleteJob clears a work item's in-flight marker.
func (q *Queue) CompleteJob(workItemURI string) error {
	return q.client.ZRem(q.ctx, q.prefix+"processing", workItemURI).Err()
}

// FailJob clears the in-flight marker and, if requeue is set, re-offers the
// work item to the same participant with an incremented retry count.
func (q *Queue) FailJob(job Job, requeue bool) error {
	if err := q.CompleteJob(job.WorkItemURI); err != nil {
		return err
	}
	if !requeue {
		return nil
	}
	return q.Enqueue(Job{
		WorkItemURI:    job.WorkItemURI,
		ParticipantURI: job.ParticipantURI,
		EnqueuedAt:     time.Now(),
		RetryCount:     job.RetryCount + 1,
	})
}

// GetQueueDepth returns a participant's pending offer count, the input the
// shortest-queue distribution strategy ranks participants by.
func (q *Queue) GetQueueDepth(participantURI string) (int, error) {
	depth, err := q.client.LLen(q.ctx, q.queueKey(participantURI)).Result()
	if err != nil {
		return 0, err
	}
	return int(depth), nil
}

// IsProcessing reports whether a work item currently has an in-flight marker.
func (q *Queue) IsProcessing(workItemURI string) (bool, error) {
	score, err := q.client.ZScore(q.ctx, q.prefix+"processing", workItemURI).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return score > 0, nil
}

package queuepolicy

import (
	"context"
	"time"

	"github.com/seanchatmangpt/kgcl/queue"
	redisqueue "github.com/seanchatmangpt/kgcl/queue/redis"
)

// Publisher delivers a distribution Assignment to whatever transport a
// deployment runs: durable AMQP queues, a Redis list per participant, or
// both side by side for redundant delivery.
type Publisher interface {
	Publish(assignment Assignment, caseID string) error
}

// AMQPPublisher offers an assignment to each participant by publishing a
// message per participant to a durable RabbitMQ queue.
type AMQPPublisher struct {
	service queue.MessagePublisher
}

// NewAMQPPublisher wraps an already-connected RabbitMQ service.
func NewAMQPPublisher(service queue.MessagePublisher) *AMQPPublisher {
	return &AMQPPublisher{service: service}
}

func (p *AMQPPublisher) Publish(assignment Assignment, caseID string) error {
	for _, participantURI := range assignment.Participants {
		msg := queue.AssignmentMessage{
			WorkItemURI:    assignment.WorkItemURI,
			ParticipantURI: participantURI,
			CaseID:         caseID,
		}
		if err := p.service.PublishAssignment(msg); err != nil {
			return err
		}
	}
	return nil
}

// RedisPublisher offers an assignment by enqueuing a job onto each
// participant's Redis list, and doubles as the queueDepth source the
// shortest-queue strategy ranks participants by.
type RedisPublisher struct {
	queue *redisqueue.Queue
}

// NewRedisPublisher wraps an already-connected Redis queue.
func NewRedisPublisher(q *redisqueue.Queue) *RedisPublisher {
	return &RedisPublisher{queue: q}
}

func (p *RedisPublisher) Publish(assignment Assignment, caseID string) error {
	for _, participantURI := range assignment.Participants {
		job := redisqueue.Job{
			WorkItemURI:    assignment.WorkItemURI,
			ParticipantURI: participantURI,
			EnqueuedAt:     time.Now(),
		}
		if err := p.queue.Enqueue(job); err != nil {
			return err
		}
	}
	return nil
}

// QueueDepth reports a participant's pending offer count, for the
// shortest-queue strategy's Distribute call.
func (p *RedisPublisher) QueueDepth(participantURI string) int {
	depth, err := p.queue.GetQueueDepth(participantURI)
	if err != nil {
		return 0
	}
	return depth
}

// Dequeue blocks up to timeout for a participant's next offer, for worker
// processes pulling assignments off the Redis transport.
func (p *RedisPublisher) Dequeue(participantURI string, timeout time.Duration) (*redisqueue.Job, error) {
	return p.queue.Dequeue(participantURI, timeout)
}

// OpenRedisPublisher connects to Redis and returns a ready RedisPublisher.
func OpenRedisPublisher(ctx context.Context, cfg redisqueue.Config) (*RedisPublisher, error) {
	q, err := redisqueue.NewQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewRedisPublisher(q), nil
}

var (
	_ Publisher = (*AMQPPublisher)(nil)
	_ Publisher = (*RedisPublisher)(nil)
)

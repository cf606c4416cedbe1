// Package queue provides utilities for working with message queues using
// RabbitMQ: connection management, message publishing to durable queues,
// JSON message serialization, and clean resource cleanup.
package queue

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/streadway/amqp"
)

// AssignmentMessage is the wire payload published when a work item is
// distributed to a participant: enough for a remote worker to pick the
// item up and start acting on it without a second round trip to the graph.
type AssignmentMessage struct {
	WorkItemURI    string `json:"workItemURI"`
	ParticipantURI string `json:"participantURI"`
	CaseID         string `json:"caseID"`
}

// MessagePublisher publishes assignment messages to a queue.
type MessagePublisher interface {
	PublishAssignment(message AssignmentMessage) error
	Close() error
}

// Config configures a RabbitMQ connection and the queue assignments are
// published to.
type Config struct {
	RabbitMQURL string
	QueueName   string
}

// RabbitMQService manages a connection and channel to a RabbitMQ server and
// publishes assignment messages to a durable queue.
type RabbitMQService struct {
	connection AMQPConnection
	channel    AMQPChannel
	config     Config
}

// NewRabbitMQService connects to RabbitMQ, opens a channel, and declares
// the configured queue as durable.
func NewRabbitMQService(config Config) (*RabbitMQService, error) {
	return NewRabbitMQServiceWithDialer(config, &RealAMQPDialer{})
}

// NewRabbitMQServiceWithDialer is NewRabbitMQService with an injectable
// dialer, for testing against a fake AMQP connection.
func NewRabbitMQServiceWithDialer(config Config, dialer AMQPDialer) (*RabbitMQService, error) {
	conn, err := dialer.Dial(config.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		config.QueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	return &RabbitMQService{connection: conn, channel: ch, config: config}, nil
}

// PublishAssignment marshals message to JSON and publishes it to the
// default exchange with the configured queue name as routing key.
func (r *RabbitMQService) PublishAssignment(message AssignmentMessage) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal assignment: %w", err)
	}

	err = r.channel.Publish(
		"",                 // default exchange
		r.config.QueueName, // routing key
		false,              // mandatory
		false,              // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish assignment: %w", err)
	}

	log.Printf("published assignment for work item %s to %s", message.WorkItemURI, message.ParticipantURI)
	return nil
}

// Close releases the channel and connection. Safe to call on a partially
// initialized service.
func (r *RabbitMQService) Close() error {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.connection != nil {
		r.connection.Close()
	}
	return nil
}

var _ MessagePublisher = (*RabbitMQService)(nil)

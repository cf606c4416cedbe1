package queue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewRabbitMQServiceWithDialer_Success exercises the full connect,
// channel, declare sequence against a mock dialer.
func TestNewRabbitMQServiceWithDialer_Success(t *testing.T) {
	dialer, channel, _ := SetupMockDialerForTest()

	service, err := NewRabbitMQServiceWithDialer(Config{
		RabbitMQURL: "amqp://localhost:5672",
		QueueName:   "assignments",
	}, dialer)

	require.NoError(t, err)
	require.NotNil(t, service)
	assert.True(t, dialer.DialCalled)
	assert.True(t, channel.QueueDeclareCalled)
	assert.Equal(t, "assignments", channel.LastQueueName)
}

func TestNewRabbitMQServiceWithDialer_DialError(t *testing.T) {
	dialer := NewMockAMQPDialerWithError(assert.AnError)

	service, err := NewRabbitMQServiceWithDialer(Config{RabbitMQURL: "amqp://bad", QueueName: "q"}, dialer)

	assert.Error(t, err)
	assert.Nil(t, service)
}

func TestNewRabbitMQServiceWithDialer_ChannelError(t *testing.T) {
	dialer := SetupMockDialerWithChannelError()

	service, err := NewRabbitMQServiceWithDialer(Config{RabbitMQURL: "amqp://localhost", QueueName: "q"}, dialer)

	assert.Error(t, err)
	assert.Nil(t, service)
	assert.Contains(t, err.Error(), "open channel")
}

func TestNewRabbitMQServiceWithDialer_QueueDeclareError(t *testing.T) {
	dialer, _ := SetupMockDialerWithQueueError()

	service, err := NewRabbitMQServiceWithDialer(Config{RabbitMQURL: "amqp://localhost", QueueName: "q"}, dialer)

	assert.Error(t, err)
	assert.Nil(t, service)
	assert.Contains(t, err.Error(), "declare queue")
}

func TestRabbitMQService_PublishAssignment(t *testing.T) {
	dialer, channel, _ := SetupMockDialerForTest()
	service, err := NewRabbitMQServiceWithDialer(Config{
		RabbitMQURL: "amqp://localhost:5672",
		QueueName:   "assignments",
	}, dialer)
	require.NoError(t, err)

	msg := AssignmentMessage{WorkItemURI: "kgc:item1", ParticipantURI: "kgc:alice", CaseID: "case-1"}
	require.NoError(t, service.PublishAssignment(msg))

	require.Len(t, channel.PublishedMessages, 1)
	assert.Equal(t, "assignments", channel.LastKey)
	assert.Equal(t, "", channel.LastExchange)

	var decoded AssignmentMessage
	require.NoError(t, json.Unmarshal(channel.PublishedMessages[0].Body, &decoded))
	assert.Equal(t, msg, decoded)
}

func TestRabbitMQService_PublishAssignment_Error(t *testing.T) {
	dialer, channel, _ := SetupMockDialerForTest()
	service, err := NewRabbitMQServiceWithDialer(Config{RabbitMQURL: "amqp://localhost", QueueName: "q"}, dialer)
	require.NoError(t, err)

	channel.PublishErr = assert.AnError
	err = service.PublishAssignment(AssignmentMessage{WorkItemURI: "kgc:item1"})
	assert.Error(t, err)
}

func TestRabbitMQService_Close_NilSafe(t *testing.T) {
	service := &RabbitMQService{}
	assert.NotPanics(t, func() {
		assert.NoError(t, service.Close())
	})
}

func TestAssignmentMessage_JSONRoundTrip(t *testing.T) {
	msg := AssignmentMessage{WorkItemURI: "kgc:item1", ParticipantURI: "kgc:bob", CaseID: "case-2"}

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded AssignmentMessage
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, msg, decoded)
}

func BenchmarkAssignmentMessageMarshal(b *testing.B) {
	msg := AssignmentMessage{WorkItemURI: "kgc:item1", ParticipantURI: "kgc:alice", CaseID: "case-1"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = json.Marshal(msg)
	}
}

package queuepolicy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seanchatmangpt/kgcl/queue"
)

type recordingPublisher struct {
	published []queue.AssignmentMessage
	err       error
}

func (r *recordingPublisher) PublishAssignment(msg queue.AssignmentMessage) error {
	if r.err != nil {
		return r.err
	}
	r.published = append(r.published, msg)
	return nil
}

func (r *recordingPublisher) Close() error { return nil }

func TestAMQPPublisher_PublishesOnePerParticipant(t *testing.T) {
	rec := &recordingPublisher{}
	pub := NewAMQPPublisher(rec)

	assignment := Assignment{WorkItemURI: "kgc:item1", Participants: []string{"kgc:alice", "kgc:bob"}}
	require.NoError(t, pub.Publish(assignment, "case-1"))

	require.Len(t, rec.published, 2)
	assert.Equal(t, queue.AssignmentMessage{WorkItemURI: "kgc:item1", ParticipantURI: "kgc:alice", CaseID: "case-1"}, rec.published[0])
	assert.Equal(t, queue.AssignmentMessage{WorkItemURI: "kgc:item1", ParticipantURI: "kgc:bob", CaseID: "case-1"}, rec.published[1])
}

func TestAMQPPublisher_StopsOnFirstError(t *testing.T) {
	rec := &recordingPublisher{err: assert.AnError}
	pub := NewAMQPPublisher(rec)

	err := pub.Publish(Assignment{WorkItemURI: "kgc:item1", Participants: []string{"kgc:alice"}}, "case-1")

	assert.Error(t, err)
}

func TestAMQPPublisher_NoParticipantsIsNoop(t *testing.T) {
	rec := &recordingPublisher{}
	pub := NewAMQPPublisher(rec)

	require.NoError(t, pub.Publish(Assignment{WorkItemURI: "kgc:item1"}, "case-1"))
	assert.Empty(t, rec.published)
}

var _ queue.MessagePublisher = (*recordingPublisher)(nil)

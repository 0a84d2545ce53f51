package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	ctx := context.Background()
	rec := &Recorder{}

	assert.NoError(t, rec.Publish(ctx, TopicTransactionRecorded, "a", 1))
	assert.NoError(t, rec.Publish(ctx, TopicInconsistency, "a", 2))
	assert.NoError(t, rec.Publish(ctx, TopicTransactionRecorded, "b", 3))

	recorded := rec.Messages(TopicTransactionRecorded)
	assert.Len(t, recorded, 2)
	assert.Equal(t, 3, recorded[1].Event)
	assert.Len(t, rec.Messages(TopicInconsistency), 1)

	rec.Err = assert.AnError
	assert.ErrorIs(t, rec.Publish(ctx, TopicInconsistency, "a", 4), assert.AnError)
	assert.Len(t, rec.Messages(TopicInconsistency), 1)
}

func TestNoopPublisher(t *testing.T) {
	var pub Publisher = NoopPublisher{}
	assert.NoError(t, pub.Publish(context.Background(), TopicInconsistency, "k", nil))
	assert.NoError(t, pub.Close())
}

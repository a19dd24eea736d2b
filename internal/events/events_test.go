package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	require.NoError(t, r.Publish(context.Background(), PostCreated, map[string]string{"id": "1"}))
	require.NoError(t, r.Publish(context.Background(), PostLiked, nil))

	assert.Equal(t, []string{PostCreated, PostLiked}, r.Subjects())
	assert.False(t, r.Events[0].OccurredAt.IsZero())
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.Publish(context.Background(), UserRegistered, nil))
	assert.NoError(t, p.Close())
}

package eventsourcing

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keyedEvent carries an alternate key mid-payload, the way offers carry
// pre-authorized codes.
type keyedEvent struct {
	Key    string `json:"key,omitempty"`
	Amount int    `json:"amount"`
}

func (*keyedEvent) EventType() string    { return "Incremented" }
func (*keyedEvent) EventVersion() string { return "1" }

func keyedEnvelope(t *testing.T, aggregateID string, sequence int, key string) Envelope {
	t.Helper()
	env, err := NewEnvelope("counter", aggregateID, sequence, &keyedEvent{Key: key, Amount: 1}, nil, time.Now().UTC())
	require.NoError(t, err)
	return env
}

func payloadKey(env Envelope) (string, bool) {
	var event keyedEvent
	if err := json.Unmarshal(env.Payload, &event); err != nil || event.Key == "" {
		return "", false
	}
	return event.Key, true
}

func Test_SecondaryIndexProjector_ReKeysByPayloadValue(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryViewRepository(newCounterView)
	projector := NewSecondaryIndexProjector(repo, payloadKey)

	envelopes := []Envelope{
		keyedEnvelope(t, "agg-1", 1, "code-abc"),
		keyedEnvelope(t, "agg-1", 2, "code-abc"),
	}
	require.NoError(t, projector.Project(ctx, "agg-1", envelopes))

	// The view is reachable by the payload key, not the aggregate id.
	view, found, err := repo.Load(ctx, "code-abc")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 2, view.Total)

	_, found, err = repo.Load(ctx, "agg-1")
	require.NoError(t, err)
	assert.False(t, found)
}

func Test_SecondaryIndexProjector_SkipsEventsWithoutKey(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryViewRepository(newCounterView)
	projector := NewSecondaryIndexProjector(repo, payloadKey)

	envelopes := []Envelope{
		keyedEnvelope(t, "agg-1", 1, ""),
		keyedEnvelope(t, "agg-1", 2, "code-abc"),
	}
	require.NoError(t, projector.Project(ctx, "agg-1", envelopes))

	view, found, err := repo.Load(ctx, "code-abc")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 1, view.Total, "unkeyed envelope is a no-op, not an error")
}

func Test_SecondaryIndexProjector_IndependentIndexesAgree(t *testing.T) {
	ctx := context.Background()
	primary := NewMemoryViewRepository(newCounterView)
	index := NewMemoryViewRepository(newCounterView)

	viewProjector := NewViewProjector(primary, newCounterView)
	indexProjector := NewSecondaryIndexProjector(index, payloadKey)

	envelopes := []Envelope{
		keyedEnvelope(t, "agg-1", 1, "code-abc"),
		keyedEnvelope(t, "agg-1", 2, "code-abc"),
	}
	require.NoError(t, viewProjector.Project(ctx, "agg-1", envelopes))
	require.NoError(t, indexProjector.Project(ctx, "agg-1", envelopes))

	byID, _, err := primary.Load(ctx, "agg-1")
	require.NoError(t, err)
	byKey, _, err := index.Load(ctx, "code-abc")
	require.NoError(t, err)
	assert.Equal(t, byID.Total, byKey.Total)
	assert.Equal(t, byID.LastSequence, byKey.LastSequence)
}

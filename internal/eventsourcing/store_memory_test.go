package eventsourcing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnvelope(t *testing.T, aggregateID string, sequence int) Envelope {
	t.Helper()
	env, err := NewEnvelope("counter", aggregateID, sequence, &incremented{Amount: 1}, nil, time.Now().UTC())
	require.NoError(t, err)
	return env
}

func Test_MemoryEventStore_AppendAndLoad(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryEventStore()

	require.NoError(t, store.Append(ctx, "counter", "a", 0, []Envelope{
		testEnvelope(t, "a", 1),
		testEnvelope(t, "a", 2),
	}))

	envelopes, err := store.Load(ctx, "counter", "a")
	require.NoError(t, err)
	require.Len(t, envelopes, 2)
	assert.Equal(t, 1, envelopes[0].Sequence)
	assert.Equal(t, 2, envelopes[1].Sequence)
}

func Test_MemoryEventStore_SequenceConflict(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryEventStore()

	require.NoError(t, store.Append(ctx, "counter", "a", 0, []Envelope{testEnvelope(t, "a", 1)}))

	// A stale writer that also observed an empty log must be rejected.
	err := store.Append(ctx, "counter", "a", 0, []Envelope{testEnvelope(t, "a", 1)})
	require.ErrorIs(t, err, ErrSequenceConflict)

	envelopes, err := store.Load(ctx, "counter", "a")
	require.NoError(t, err)
	assert.Len(t, envelopes, 1, "conflicting append must write nothing")
}

func Test_MemoryEventStore_StreamsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryEventStore()

	require.NoError(t, store.Append(ctx, "counter", "a", 0, []Envelope{testEnvelope(t, "a", 1)}))
	require.NoError(t, store.Append(ctx, "counter", "b", 0, []Envelope{testEnvelope(t, "b", 1)}))

	a, err := store.Load(ctx, "counter", "a")
	require.NoError(t, err)
	b, err := store.Load(ctx, "counter", "b")
	require.NoError(t, err)
	assert.Len(t, a, 1)
	assert.Len(t, b, 1)
	assert.Equal(t, "a", a[0].AggregateID)
	assert.Equal(t, "b", b[0].AggregateID)
}

func Test_MemoryEventStore_LoadReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryEventStore()

	require.NoError(t, store.Append(ctx, "counter", "a", 0, []Envelope{testEnvelope(t, "a", 1)}))

	envelopes, err := store.Load(ctx, "counter", "a")
	require.NoError(t, err)
	envelopes[0].EventType = "Mutated"

	reloaded, err := store.Load(ctx, "counter", "a")
	require.NoError(t, err)
	assert.Equal(t, "Incremented", reloaded[0].EventType)
}

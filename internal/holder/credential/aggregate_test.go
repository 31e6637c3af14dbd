package credential

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	es "github.com/impierce/ssi-agent-sub000/internal/eventsourcing"
)

func Test_AddReceivedCredential(t *testing.T) {
	c := New()
	events, err := c.Handle(context.Background(), AddReceivedCredential{
		OfferID:          "offer-1",
		SignedCredential: "signed.jwt.vc",
	})
	require.NoError(t, err)
	require.Len(t, events, 1)

	added := events[0].(*ReceivedCredentialAdded)
	assert.Equal(t, "offer-1", added.OfferID)
	assert.Equal(t, "signed.jwt.vc", added.SignedCredential)
}

func Test_AddReceivedCredential_RequiresCredential(t *testing.T) {
	c := New()
	_, err := c.Handle(context.Background(), AddReceivedCredential{OfferID: "offer-1"})
	require.ErrorIs(t, err, ErrMissingCredential)
}

func Test_AddReceivedCredential_OnlyOnce(t *testing.T) {
	c := New()
	events, err := c.Handle(context.Background(), AddReceivedCredential{
		OfferID:          "offer-1",
		SignedCredential: "signed.jwt.vc",
	})
	require.NoError(t, err)
	for _, event := range events {
		require.NoError(t, c.Apply(event))
	}

	_, err = c.Handle(context.Background(), AddReceivedCredential{
		OfferID:          "offer-1",
		SignedCredential: "signed.jwt.vc",
	})
	require.ErrorIs(t, err, ErrAlreadyStored)
}

func Test_ByOfferView_GroupsHeldCredentials(t *testing.T) {
	view := NewByOfferView()
	for i, id := range []string{"held-1", "held-2"} {
		env, err := es.NewEnvelope(AggregateType, id, 1, &ReceivedCredentialAdded{
			OfferID:          "offer-1",
			SignedCredential: "signed.jwt.vc",
		}, nil, time.Now().UTC())
		require.NoError(t, err)
		require.NoError(t, view.Update(env))
		require.Len(t, view.CredentialIDs, i+1)
	}

	assert.Equal(t, "offer-1", view.OfferID)
	assert.Equal(t, []string{"held-1", "held-2"}, view.CredentialIDs)

	key, ok := OfferIDKey(mustEnvelope(t))
	require.True(t, ok)
	assert.Equal(t, "offer-1", key)
}

func mustEnvelope(t *testing.T) es.Envelope {
	t.Helper()
	env, err := es.NewEnvelope(AggregateType, "held-1", 1, &ReceivedCredentialAdded{
		OfferID:          "offer-1",
		SignedCredential: "signed.jwt.vc",
	}, nil, time.Now().UTC())
	require.NoError(t, err)
	return env
}

package credential

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	es "github.com/impierce/ssi-agent-sub000/internal/eventsourcing"
)

func createdEnvelope(t *testing.T, credentialID string, sequence int, offerID string) es.Envelope {
	t.Helper()
	env, err := es.NewEnvelope(AggregateType, credentialID, sequence, &UnsignedCredentialCreated{
		OfferID: offerID,
		Subject: json.RawMessage(`{"first_name":"Ferris"}`),
	}, nil, time.Now().UTC())
	require.NoError(t, err)
	return env
}

func Test_ByOfferView_CollectsCredentialsAcrossAggregates(t *testing.T) {
	view := NewByOfferView()

	require.NoError(t, view.Update(createdEnvelope(t, "cred-1", 1, "offer-1")))
	require.NoError(t, view.Update(createdEnvelope(t, "cred-2", 1, "offer-1")))

	assert.Equal(t, "offer-1", view.OfferID)
	assert.Equal(t, []string{"cred-1", "cred-2"}, view.CredentialIDs)
}

func Test_ByOfferView_MembershipIsIdempotent(t *testing.T) {
	view := NewByOfferView()
	env := createdEnvelope(t, "cred-1", 1, "offer-1")

	require.NoError(t, view.Update(env))
	require.NoError(t, view.Update(env))

	assert.Equal(t, []string{"cred-1"}, view.CredentialIDs, "redelivery must not duplicate membership")
}

func Test_OfferIDKey(t *testing.T) {
	env := createdEnvelope(t, "cred-1", 1, "offer-1")
	key, ok := OfferIDKey(env)
	require.True(t, ok)
	assert.Equal(t, "offer-1", key)

	signedEnv, err := es.NewEnvelope(AggregateType, "cred-1", 2, &CredentialSigned{
		SubjectID:        "did:key:zHolder",
		SignedCredential: "signed.jwt.vc",
	}, nil, time.Now().UTC())
	require.NoError(t, err)

	_, ok = OfferIDKey(signedEnv)
	assert.False(t, ok, "only creation events carry the offer key")
}

package credential

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/impierce/ssi-agent-sub000/internal/openid4vc"
	"github.com/impierce/ssi-agent-sub000/internal/services/signer"
)

const testIssuer = "https://issuer.example.com"

func testServices(t *testing.T) *Services {
	t.Helper()
	subject, err := signer.New("test-secret", testIssuer)
	require.NoError(t, err)
	return &Services{
		Signer:           subject,
		CredentialIssuer: testIssuer,
		DIDMethod:        signer.MethodDIDKey,
	}
}

func handleAndApply(t *testing.T, c *Credential, cmd Command) []Event {
	t.Helper()
	events, err := c.Handle(context.Background(), cmd)
	require.NoError(t, err)
	for _, event := range events {
		require.NoError(t, c.Apply(event))
	}
	return events
}

func Test_CreateUnsignedCredential(t *testing.T) {
	c := New(testServices(t))
	events := handleAndApply(t, c, CreateUnsignedCredential{
		OfferID:                   "offer-1",
		CredentialConfigurationID: "badge",
		Subject:                   json.RawMessage(`{"first_name":"Ferris"}`),
	})

	require.Len(t, events, 1)
	created := events[0].(*UnsignedCredentialCreated)
	assert.Equal(t, "offer-1", created.OfferID)
	assert.Equal(t, "badge", created.CredentialConfigurationID)
}

func Test_CreateUnsignedCredential_RequiresSubject(t *testing.T) {
	c := New(testServices(t))

	_, err := c.Handle(context.Background(), CreateUnsignedCredential{OfferID: "offer-1"})
	require.ErrorIs(t, err, ErrMissingSubject)

	_, err = c.Handle(context.Background(), CreateUnsignedCredential{
		OfferID: "offer-1",
		Subject: json.RawMessage(`null`),
	})
	require.ErrorIs(t, err, ErrMissingSubject)
}

func Test_SignCredential_ProducesVerifiableJWT(t *testing.T) {
	svc := testServices(t)
	c := New(svc)
	handleAndApply(t, c, CreateUnsignedCredential{
		OfferID:                   "offer-1",
		CredentialConfigurationID: "badge",
		Subject:                   json.RawMessage(`{"first_name":"Ferris"}`),
	})

	holder := "did:key:z6MkpTHR8VNsBxYAAWHut2Geadd9jSwuBV8xRoAnwWsdvktH"
	events := handleAndApply(t, c, SignCredential{SubjectID: holder, Format: openid4vc.FormatJWTVCJSON})
	require.Len(t, events, 1)
	signed := events[0].(*CredentialSigned)
	assert.Equal(t, holder, signed.SubjectID)

	// The credential must verify against the agent's own key.
	issuerDID, err := svc.Signer.Identifier(signer.MethodDIDKey)
	require.NoError(t, err)
	publicKey, err := signer.VerificationKey(issuerDID)
	require.NoError(t, err)

	claims := &vcClaims{}
	parsed, err := jwt.ParseWithClaims(signed.SignedCredential, claims, func(token *jwt.Token) (any, error) {
		kid, _ := token.Header["kid"].(string)
		if kid != issuerDID+"#key-1" {
			return nil, fmt.Errorf("unexpected kid %q", kid)
		}
		return publicKey, nil
	}, jwt.WithValidMethods([]string{"EdDSA"}))
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	assert.Equal(t, testIssuer, claims.Issuer)
	assert.Equal(t, holder, claims.Subject)
	assert.Equal(t, []string{"VerifiableCredential", "badge"}, claims.VC.Type)
	assert.Equal(t, "Ferris", claims.VC.CredentialSubject["first_name"])
	assert.Equal(t, holder, claims.VC.CredentialSubject["id"])
}

func Test_SignCredential_IsIdempotent(t *testing.T) {
	c := New(testServices(t))
	handleAndApply(t, c, CreateUnsignedCredential{
		OfferID: "offer-1",
		Subject: json.RawMessage(`{"first_name":"Ferris"}`),
	})
	handleAndApply(t, c, SignCredential{SubjectID: "did:key:zHolder"})

	events, err := c.Handle(context.Background(), SignCredential{SubjectID: "did:key:zHolder"})
	require.NoError(t, err)
	assert.Empty(t, events, "re-signing an already signed credential emits nothing")
}

func Test_SignCredential_RequiresCreatedCredential(t *testing.T) {
	c := New(testServices(t))
	_, err := c.Handle(context.Background(), SignCredential{SubjectID: "did:key:zHolder"})
	require.ErrorIs(t, err, ErrCredentialNotCreated)
}

func Test_SignCredential_RejectsUnknownFormat(t *testing.T) {
	c := New(testServices(t))
	handleAndApply(t, c, CreateUnsignedCredential{
		OfferID: "offer-1",
		Subject: json.RawMessage(`{"first_name":"Ferris"}`),
	})

	_, err := c.Handle(context.Background(), SignCredential{Format: "ldp_vc"})
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

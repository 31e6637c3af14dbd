package presentation

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/impierce/ssi-agent-sub000/internal/services/signer"
)

func testPresentation(t *testing.T) (*Presentation, *signer.Subject) {
	t.Helper()
	subject, err := signer.New("test-secret", "https://agent.example.com")
	require.NoError(t, err)
	return New(Services{Signer: subject, DIDMethod: signer.MethodDIDKey}), subject
}

func handleAndApply(t *testing.T, p *Presentation, cmd Command) []Event {
	t.Helper()
	events, err := p.Handle(context.Background(), cmd)
	require.NoError(t, err)
	for _, event := range events {
		require.NoError(t, p.Apply(event))
	}
	return events
}

func Test_CreatePresentation(t *testing.T) {
	p, _ := testPresentation(t)
	events := handleAndApply(t, p, CreatePresentation{SignedCredentials: []string{"signed.jwt.vc"}})

	require.Len(t, events, 1)
	assert.Equal(t, []string{"signed.jwt.vc"}, events[0].(*PresentationCreated).SignedCredentials)
}

func Test_CreatePresentation_RequiresCredentials(t *testing.T) {
	p, _ := testPresentation(t)
	_, err := p.Handle(context.Background(), CreatePresentation{})
	require.ErrorIs(t, err, ErrNoCredentials)
}

func Test_CreatePresentation_OnlyOnce(t *testing.T) {
	p, _ := testPresentation(t)
	handleAndApply(t, p, CreatePresentation{SignedCredentials: []string{"signed.jwt.vc"}})

	_, err := p.Handle(context.Background(), CreatePresentation{SignedCredentials: []string{"signed.jwt.vc"}})
	require.ErrorIs(t, err, ErrPresentationExists)
}

func Test_SignPresentation(t *testing.T) {
	p, subject := testPresentation(t)
	handleAndApply(t, p, CreatePresentation{SignedCredentials: []string{"signed.jwt.vc"}})

	events := handleAndApply(t, p, SignPresentation{})
	require.Len(t, events, 1)
	signed := events[0].(*PresentationSigned).SignedPresentation

	did, err := subject.Identifier(signer.MethodDIDKey)
	require.NoError(t, err)
	publicKey, err := signer.VerificationKey(did)
	require.NoError(t, err)

	claims := &vpClaims{}
	_, err = jwt.NewParser(jwt.WithValidMethods([]string{"EdDSA"})).ParseWithClaims(
		signed, claims, func(*jwt.Token) (any, error) {
			return publicKey, nil
		})
	require.NoError(t, err)
	assert.Equal(t, did, claims.Issuer)
	assert.Contains(t, claims.VP.Type, "VerifiablePresentation")
	assert.Equal(t, []string{"signed.jwt.vc"}, claims.VP.VerifiableCredential)
}

func Test_SignPresentation_Idempotent(t *testing.T) {
	p, _ := testPresentation(t)
	handleAndApply(t, p, CreatePresentation{SignedCredentials: []string{"signed.jwt.vc"}})
	handleAndApply(t, p, SignPresentation{})

	events, err := p.Handle(context.Background(), SignPresentation{})
	require.NoError(t, err)
	assert.Empty(t, events, "re-signing emits nothing")
}

func Test_SignPresentation_RequiresPresentation(t *testing.T) {
	p, _ := testPresentation(t)
	_, err := p.Handle(context.Background(), SignPresentation{})
	require.ErrorIs(t, err, ErrPresentationNotCreated)
}

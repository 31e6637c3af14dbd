package connection

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/impierce/ssi-agent-sub000/internal/openid4vc"
	"github.com/impierce/ssi-agent-sub000/internal/services/signer"
)

const (
	verifierDID = "did:key:zVerifier"
	knownState  = "state-1"
	knownNonce  = "nonce-1"
)

type walletKey struct {
	priv ed25519.PrivateKey
	did  string
}

func newWalletKey(t *testing.T) walletKey {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return walletKey{priv: priv, did: signer.EncodeDIDKey(pub)}
}

func (k walletKey) sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(k.priv)
	require.NoError(t, err)
	return signed
}

func siopRequest() *openid4vc.AuthorizationRequestObject {
	return &openid4vc.AuthorizationRequestObject{
		Client:       verifierDID,
		ResponseType: openid4vc.ResponseTypeIDToken,
		Nonce:        knownNonce,
		State:        knownState,
	}
}

func vpRequest() *openid4vc.AuthorizationRequestObject {
	return &openid4vc.AuthorizationRequestObject{
		Client:       verifierDID,
		ResponseType: openid4vc.ResponseTypeVPToken,
		Nonce:        knownNonce,
		State:        knownState,
		PresentationDefinition: &openid4vc.PresentationDefinition{
			ID: "pd-1",
			InputDescriptors: []openid4vc.InputDescriptor{{
				ID: "badge",
				Constraints: openid4vc.Constraints{
					Fields: []openid4vc.FieldConstraint{{Path: []string{"$.vc.credentialSubject.first_name"}}},
				},
			}},
		},
	}
}

func testConnection(request *openid4vc.AuthorizationRequestObject) *Connection {
	return New(Services{
		RequestByState: func(_ context.Context, state string) (*openid4vc.AuthorizationRequestObject, bool, error) {
			if request != nil && state == request.State {
				return request, true, nil
			}
			return nil, false, nil
		},
		SupportedSigningAlgorithms: []string{"EdDSA"},
	})
}

func Test_VerifyAuthorizationResponse_SIOPv2(t *testing.T) {
	wallet := newWalletKey(t)
	c := testConnection(siopRequest())

	idToken := wallet.sign(t, jwt.MapClaims{
		"iss":   wallet.did,
		"sub":   wallet.did,
		"aud":   verifierDID,
		"nonce": knownNonce,
	})
	events, err := c.Handle(context.Background(), VerifyAuthorizationResponse{
		Response: openid4vc.AuthorizationResponse{IDToken: idToken, State: knownState},
	})
	require.NoError(t, err)
	require.Len(t, events, 1)

	verified := events[0].(*SIOPv2AuthorizationResponseVerified)
	assert.Equal(t, idToken, verified.IDToken)
	assert.Equal(t, knownState, verified.State)
}

func Test_VerifyAuthorizationResponse_OID4VP(t *testing.T) {
	wallet := newWalletKey(t)
	c := testConnection(vpRequest())

	credential := wallet.sign(t, jwt.MapClaims{
		"iss": "did:key:zIssuer",
		"vc": map[string]any{
			"credentialSubject": map[string]any{"first_name": "Ferris"},
		},
	})
	vpToken := wallet.sign(t, jwt.MapClaims{
		"iss":   wallet.did,
		"aud":   verifierDID,
		"nonce": knownNonce,
		"vp":    map[string]any{"verifiableCredential": []string{credential}},
	})

	events, err := c.Handle(context.Background(), VerifyAuthorizationResponse{
		Response: openid4vc.AuthorizationResponse{VPToken: vpToken, State: knownState},
	})
	require.NoError(t, err)
	require.Len(t, events, 1)

	verified := events[0].(*OID4VPAuthorizationResponseVerified)
	assert.Equal(t, vpToken, verified.VPToken)
	assert.Equal(t, knownState, verified.State)
}

func Test_VerifyAuthorizationResponse_UnknownStateIsCorrelationError(t *testing.T) {
	wallet := newWalletKey(t)
	c := testConnection(siopRequest())

	idToken := wallet.sign(t, jwt.MapClaims{"iss": wallet.did, "aud": verifierDID, "nonce": knownNonce})
	_, err := c.Handle(context.Background(), VerifyAuthorizationResponse{
		Response: openid4vc.AuthorizationResponse{IDToken: idToken, State: "never-issued"},
	})
	require.ErrorIs(t, err, ErrUnknownState)
}

func Test_VerifyAuthorizationResponse_MissingState(t *testing.T) {
	c := testConnection(siopRequest())
	_, err := c.Handle(context.Background(), VerifyAuthorizationResponse{
		Response: openid4vc.AuthorizationResponse{IDToken: "whatever"},
	})
	require.ErrorIs(t, err, ErrMissingState)
}

func Test_VerifyAuthorizationResponse_MissingToken(t *testing.T) {
	c := testConnection(siopRequest())
	_, err := c.Handle(context.Background(), VerifyAuthorizationResponse{
		Response: openid4vc.AuthorizationResponse{State: knownState},
	})
	require.ErrorIs(t, err, ErrMissingToken)
}

func Test_VerifyAuthorizationResponse_CombinedEncodingUnsupported(t *testing.T) {
	c := testConnection(siopRequest())
	_, err := c.Handle(context.Background(), VerifyAuthorizationResponse{
		Response: openid4vc.AuthorizationResponse{Response: "signed-object", State: knownState},
	})
	require.ErrorIs(t, err, ErrUnsupportedResponseType)
}

func Test_VerifyAuthorizationResponse_WrongNonceIsValidationError(t *testing.T) {
	wallet := newWalletKey(t)
	c := testConnection(siopRequest())

	idToken := wallet.sign(t, jwt.MapClaims{"iss": wallet.did, "aud": verifierDID, "nonce": "replayed"})
	_, err := c.Handle(context.Background(), VerifyAuthorizationResponse{
		Response: openid4vc.AuthorizationResponse{IDToken: idToken, State: knownState},
	})
	require.ErrorIs(t, err, ErrInvalidResponse)
}

func Test_VerifyAuthorizationResponse_ForgedSignature(t *testing.T) {
	honest := newWalletKey(t)
	forger := newWalletKey(t)
	c := testConnection(siopRequest())

	idToken := forger.sign(t, jwt.MapClaims{"iss": honest.did, "aud": verifierDID, "nonce": knownNonce})
	_, err := c.Handle(context.Background(), VerifyAuthorizationResponse{
		Response: openid4vc.AuthorizationResponse{IDToken: idToken, State: knownState},
	})
	require.ErrorIs(t, err, ErrInvalidResponse)
}

func Test_VerifyAuthorizationResponse_DefinitionNotSatisfied(t *testing.T) {
	wallet := newWalletKey(t)
	c := testConnection(vpRequest())

	// The presented credential lacks the required first_name claim.
	credential := wallet.sign(t, jwt.MapClaims{
		"iss": "did:key:zIssuer",
		"vc":  map[string]any{"credentialSubject": map[string]any{"last_name": "Crab"}},
	})
	vpToken := wallet.sign(t, jwt.MapClaims{
		"iss":   wallet.did,
		"aud":   verifierDID,
		"nonce": knownNonce,
		"vp":    map[string]any{"verifiableCredential": []string{credential}},
	})

	_, err := c.Handle(context.Background(), VerifyAuthorizationResponse{
		Response: openid4vc.AuthorizationResponse{VPToken: vpToken, State: knownState},
	})
	require.ErrorIs(t, err, ErrDefinitionNotSatisfied)
}

func Test_VerifyAuthorizationResponse_VPTokenWithoutPresentation(t *testing.T) {
	wallet := newWalletKey(t)
	c := testConnection(vpRequest())

	vpToken := wallet.sign(t, jwt.MapClaims{"iss": wallet.did, "aud": verifierDID, "nonce": knownNonce})
	_, err := c.Handle(context.Background(), VerifyAuthorizationResponse{
		Response: openid4vc.AuthorizationResponse{VPToken: vpToken, State: knownState},
	})
	require.ErrorIs(t, err, ErrInvalidResponse)
}

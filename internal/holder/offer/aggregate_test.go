package offer

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/impierce/ssi-agent-sub000/internal/openid4vc"
	"github.com/impierce/ssi-agent-sub000/internal/services/oid4vci/mock"
	"github.com/impierce/ssi-agent-sub000/internal/services/signer"
)

const remoteIssuer = "https://remote-issuer.example.com"

func testOffer() openid4vc.CredentialOffer {
	return openid4vc.CredentialOffer{
		CredentialIssuer:           remoteIssuer,
		CredentialConfigurationIDs: []string{"badge"},
		Grants: &openid4vc.Grants{
			PreAuthorizedCode: &openid4vc.PreAuthorizedCodeGrant{PreAuthorizedCode: "code-1"},
		},
	}
}

func testIssuerMetadata() openid4vc.CredentialIssuerMetadata {
	return openid4vc.CredentialIssuerMetadata{
		CredentialIssuer:   remoteIssuer,
		CredentialEndpoint: remoteIssuer + "/openid4vci/credential",
		CredentialConfigurationsSupported: map[string]openid4vc.CredentialConfiguration{
			"badge": {
				Format: openid4vc.FormatJWTVCJSON,
				CredentialDefinition: openid4vc.CredentialDefinition{
					Type: []string{"VerifiableCredential", "badge"},
				},
			},
		},
	}
}

func newTestServices(t *testing.T, client *mock.MockClient) Services {
	t.Helper()
	subject, err := signer.New("holder-secret", "https://holder.example.com")
	require.NoError(t, err)
	return Services{Client: client, Signer: subject, DIDMethod: signer.MethodDIDKey}
}

func handleAndApply(t *testing.T, o *Offer, cmd Command) []Event {
	t.Helper()
	events, err := o.Handle(context.Background(), cmd)
	require.NoError(t, err)
	for _, event := range events {
		require.NoError(t, o.Apply(event))
	}
	return events
}

func receivedOffer(t *testing.T, client *mock.MockClient) *Offer {
	t.Helper()
	o := New(newTestServices(t, client))
	client.EXPECT().GetIssuerMetadata(gomock.Any(), remoteIssuer).Return(testIssuerMetadata(), nil)
	offer := testOffer()
	handleAndApply(t, o, ReceiveCredentialOffer{Offer: &offer})
	return o
}

func acceptedOffer(t *testing.T, client *mock.MockClient) (*Offer, openid4vc.TokenResponse) {
	t.Helper()
	o := receivedOffer(t, client)
	token := openid4vc.TokenResponse{AccessToken: "token-1", TokenType: "bearer", CNonce: "nonce-1"}
	client.EXPECT().GetAuthServerMetadata(gomock.Any(), remoteIssuer).Return(openid4vc.AuthorizationServerMetadata{
		Issuer:        remoteIssuer,
		TokenEndpoint: remoteIssuer + "/auth/token",
	}, nil)
	client.EXPECT().GetToken(gomock.Any(), remoteIssuer+"/auth/token", openid4vc.TokenRequest{
		GrantType:         openid4vc.GrantTypePreAuthorizedCode,
		PreAuthorizedCode: "code-1",
	}).Return(token, nil)
	handleAndApply(t, o, AcceptCredentialOffer{})
	return o, token
}

func Test_ReceiveCredentialOffer_Inline(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockClient(ctrl)
	client.EXPECT().GetIssuerMetadata(gomock.Any(), remoteIssuer).Return(testIssuerMetadata(), nil)

	o := New(newTestServices(t, client))
	offer := testOffer()
	events := handleAndApply(t, o, ReceiveCredentialOffer{Offer: &offer})

	require.Len(t, events, 1)
	received := events[0].(*CredentialOfferReceived)
	assert.Equal(t, remoteIssuer, received.Offer.CredentialIssuer)
	assert.Equal(t, remoteIssuer+"/openid4vci/credential", received.CredentialEndpoint)
	assert.Contains(t, received.CredentialConfigurations, "badge")
}

func Test_ReceiveCredentialOffer_ByReference(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockClient(ctrl)
	client.EXPECT().GetOfferByReference(gomock.Any(), "https://issuer.example.com/offers/1").Return(testOffer(), nil)
	client.EXPECT().GetIssuerMetadata(gomock.Any(), remoteIssuer).Return(testIssuerMetadata(), nil)

	o := New(newTestServices(t, client))
	events := handleAndApply(t, o, ReceiveCredentialOffer{OfferURI: "https://issuer.example.com/offers/1"})

	require.Len(t, events, 1)
	assert.Equal(t, "code-1", events[0].(*CredentialOfferReceived).Offer.Grants.PreAuthorizedCode.PreAuthorizedCode)
}

func Test_ReceiveCredentialOffer_RequiresOfferOrURI(t *testing.T) {
	ctrl := gomock.NewController(t)
	o := New(newTestServices(t, mock.NewMockClient(ctrl)))

	_, err := o.Handle(context.Background(), ReceiveCredentialOffer{})
	require.ErrorIs(t, err, ErrMissingOffer)
}

func Test_ReceiveCredentialOffer_OnlyOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockClient(ctrl)
	o := receivedOffer(t, client)

	offer := testOffer()
	_, err := o.Handle(context.Background(), ReceiveCredentialOffer{Offer: &offer})
	require.ErrorIs(t, err, ErrOfferAlreadyReceived)
}

func Test_ReceiveCredentialOffer_UnknownConfiguration(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockClient(ctrl)
	metadata := testIssuerMetadata()
	delete(metadata.CredentialConfigurationsSupported, "badge")
	client.EXPECT().GetIssuerMetadata(gomock.Any(), remoteIssuer).Return(metadata, nil)

	o := New(newTestServices(t, client))
	offer := testOffer()
	_, err := o.Handle(context.Background(), ReceiveCredentialOffer{Offer: &offer})
	require.ErrorIs(t, err, ErrUnknownConfiguration)
}

func Test_AcceptCredentialOffer_ExchangesCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockClient(ctrl)
	o, token := acceptedOffer(t, client)

	assert.Equal(t, statusAccepted, o.status)
	require.NotNil(t, o.tokenResponse)
	assert.Equal(t, token.AccessToken, o.tokenResponse.AccessToken)
}

func Test_AcceptCredentialOffer_RequiresReceivedOffer(t *testing.T) {
	ctrl := gomock.NewController(t)
	o := New(newTestServices(t, mock.NewMockClient(ctrl)))

	_, err := o.Handle(context.Background(), AcceptCredentialOffer{})
	require.ErrorIs(t, err, ErrNoOfferReceived)
}

func Test_AcceptCredentialOffer_RequiresPreAuthorizedCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockClient(ctrl)
	client.EXPECT().GetIssuerMetadata(gomock.Any(), remoteIssuer).Return(testIssuerMetadata(), nil)

	o := New(newTestServices(t, client))
	offer := testOffer()
	offer.Grants = nil
	handleAndApply(t, o, ReceiveCredentialOffer{Offer: &offer})

	_, err := o.Handle(context.Background(), AcceptCredentialOffer{})
	require.ErrorIs(t, err, ErrMissingPreAuthorizedCode)
}

func Test_SendCredentialRequest_BindsProofToNonceAndIssuer(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockClient(ctrl)
	o, token := acceptedOffer(t, client)

	var sentRequest openid4vc.CredentialRequest
	client.EXPECT().
		GetCredential(gomock.Any(), gomock.Any(), token, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ openid4vc.CredentialIssuerMetadata, _ openid4vc.TokenResponse, req openid4vc.CredentialRequest) (openid4vc.CredentialResponse, error) {
			sentRequest = req
			return openid4vc.CredentialResponse{Format: openid4vc.FormatJWTVCJSON, Credential: "signed.jwt.vc"}, nil
		})

	events := handleAndApply(t, o, SendCredentialRequest{})
	require.Len(t, events, 2)
	assert.Equal(t, "badge", events[0].(*CredentialRequestSent).CredentialConfigurationID)
	assert.Equal(t, []string{"signed.jwt.vc"}, events[1].(*CredentialResponseReceived).Credentials)

	// The proof must verify against the holder's did and carry the c_nonce
	// and the issuer audience.
	require.NotNil(t, sentRequest.Proof)
	claims := struct {
		Nonce string `json:"nonce"`
		jwt.RegisteredClaims
	}{}
	_, err := jwt.NewParser(jwt.WithValidMethods([]string{"EdDSA"})).ParseWithClaims(
		sentRequest.Proof.JWT, &claims, func(*jwt.Token) (any, error) {
			// Claims are decoded before the keyfunc runs, so the issuer did
			// is available here.
			return signer.VerificationKey(claims.Issuer)
		})
	require.NoError(t, err)
	assert.Equal(t, "nonce-1", claims.Nonce)
	assert.Contains(t, claims.Audience, remoteIssuer)

	holderDID, err := o.svc.Signer.Identifier(signer.MethodDIDKey)
	require.NoError(t, err)
	assert.Equal(t, holderDID, claims.Issuer)
}

func Test_SendCredentialRequest_RequiresAcceptedOffer(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockClient(ctrl)
	o := receivedOffer(t, client)

	_, err := o.Handle(context.Background(), SendCredentialRequest{})
	require.ErrorIs(t, err, ErrOfferNotAccepted)
}

func Test_SendCredentialRequest_RejectsBatchOffers(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockClient(ctrl)

	metadata := testIssuerMetadata()
	metadata.CredentialConfigurationsSupported["certificate"] = metadata.CredentialConfigurationsSupported["badge"]
	client.EXPECT().GetIssuerMetadata(gomock.Any(), remoteIssuer).Return(metadata, nil)

	o := New(newTestServices(t, client))
	offer := testOffer()
	offer.CredentialConfigurationIDs = []string{"badge", "certificate"}
	handleAndApply(t, o, ReceiveCredentialOffer{Offer: &offer})

	client.EXPECT().GetAuthServerMetadata(gomock.Any(), remoteIssuer).Return(openid4vc.AuthorizationServerMetadata{
		TokenEndpoint: remoteIssuer + "/auth/token",
	}, nil)
	client.EXPECT().GetToken(gomock.Any(), gomock.Any(), gomock.Any()).Return(openid4vc.TokenResponse{
		AccessToken: "token-1", CNonce: "nonce-1",
	}, nil)
	handleAndApply(t, o, AcceptCredentialOffer{})

	_, err := o.Handle(context.Background(), SendCredentialRequest{})
	require.ErrorIs(t, err, ErrBatchUnsupported)
}

func Test_RejectCredentialOffer(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockClient(ctrl)
	o := receivedOffer(t, client)

	events := handleAndApply(t, o, RejectCredentialOffer{})
	require.Len(t, events, 1)
	assert.Equal(t, statusRejected, o.status)
}

func Test_RejectCredentialOffer_OnlyWhilePending(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockClient(ctrl)
	o, _ := acceptedOffer(t, client)

	_, err := o.Handle(context.Background(), RejectCredentialOffer{})
	require.ErrorIs(t, err, ErrOfferNotPending)
}

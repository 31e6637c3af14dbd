package offer

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/impierce/ssi-agent-sub000/internal/openid4vc"
	"github.com/impierce/ssi-agent-sub000/internal/services/oid4vci"
	"github.com/impierce/ssi-agent-sub000/internal/services/signer"
)

const AggregateType = "held_offer"

type status int

const (
	statusNone status = iota
	statusReceived
	statusAccepted
	statusRequestSent
	statusCredentialsReceived
	statusRejected
)

// Services are the collaborators a held offer needs to walk the wallet side
// of the issuance flow.
type Services struct {
	Client oid4vci.Client
	Signer *signer.Subject

	// DIDMethod selects the identifier the holder proves possession of.
	DIDMethod string
}

// Offer tracks one credential offer presented to this agent, from reception
// through token exchange to the received credentials.
type Offer struct {
	svc Services

	status             status
	offer              openid4vc.CredentialOffer
	credentialEndpoint string
	configurations     map[string]openid4vc.CredentialConfiguration
	tokenEndpoint      string
	tokenResponse      *openid4vc.TokenResponse
	credentials        []string
}

func New(svc Services) *Offer { return &Offer{svc: svc} }

func (*Offer) AggregateType() string { return AggregateType }

func (o *Offer) Handle(ctx context.Context, cmd Command) ([]Event, error) {
	switch cmd := cmd.(type) {
	case ReceiveCredentialOffer:
		return o.receive(ctx, cmd)
	case AcceptCredentialOffer:
		return o.accept(ctx)
	case SendCredentialRequest:
		return o.sendCredentialRequest(ctx)
	case RejectCredentialOffer:
		if o.status != statusReceived {
			return nil, ErrOfferNotPending
		}
		return []Event{&CredentialOfferRejected{}}, nil
	default:
		return nil, fmt.Errorf("unhandled held-offer command %T", cmd)
	}
}

func (o *Offer) receive(ctx context.Context, cmd ReceiveCredentialOffer) ([]Event, error) {
	if o.status != statusNone {
		return nil, ErrOfferAlreadyReceived
	}

	var resolved openid4vc.CredentialOffer
	switch {
	case cmd.Offer != nil:
		resolved = *cmd.Offer
	case cmd.OfferURI != "":
		offer, err := o.svc.Client.GetOfferByReference(ctx, cmd.OfferURI)
		if err != nil {
			return nil, err
		}
		resolved = offer
	default:
		return nil, ErrMissingOffer
	}

	metadata, err := o.svc.Client.GetIssuerMetadata(ctx, resolved.CredentialIssuer)
	if err != nil {
		return nil, err
	}

	// Keep only the configurations the offer names, and insist the issuer
	// actually advertises each of them.
	configurations := make(map[string]openid4vc.CredentialConfiguration, len(resolved.CredentialConfigurationIDs))
	for _, id := range resolved.CredentialConfigurationIDs {
		configuration, ok := metadata.CredentialConfigurationsSupported[id]
		if !ok {
			return nil, ErrUnknownConfiguration
		}
		configurations[id] = configuration
	}

	return []Event{&CredentialOfferReceived{
		Offer:                    resolved,
		CredentialEndpoint:       metadata.CredentialEndpoint,
		CredentialConfigurations: configurations,
	}}, nil
}

func (o *Offer) accept(ctx context.Context) ([]Event, error) {
	switch o.status {
	case statusNone:
		return nil, ErrNoOfferReceived
	case statusReceived:
	default:
		return nil, ErrOfferNotPending
	}

	if o.offer.Grants == nil || o.offer.Grants.PreAuthorizedCode == nil {
		return nil, ErrMissingPreAuthorizedCode
	}

	authServer, err := o.svc.Client.GetAuthServerMetadata(ctx, o.offer.CredentialIssuer)
	if err != nil {
		return nil, err
	}

	token, err := o.svc.Client.GetToken(ctx, authServer.TokenEndpoint, openid4vc.TokenRequest{
		GrantType:         openid4vc.GrantTypePreAuthorizedCode,
		PreAuthorizedCode: o.offer.Grants.PreAuthorizedCode.PreAuthorizedCode,
	})
	if err != nil {
		return nil, err
	}

	return []Event{
		&CredentialOfferAccepted{},
		&TokenResponseReceived{
			TokenEndpoint: authServer.TokenEndpoint,
			TokenResponse: token,
		},
	}, nil
}

func (o *Offer) sendCredentialRequest(ctx context.Context) ([]Event, error) {
	if o.status != statusAccepted {
		return nil, ErrOfferNotAccepted
	}
	if o.tokenResponse == nil {
		return nil, ErrNoTokenReceived
	}
	if len(o.offer.CredentialConfigurationIDs) != 1 {
		return nil, ErrBatchUnsupported
	}

	configurationID := o.offer.CredentialConfigurationIDs[0]
	configuration := o.configurations[configurationID]

	proof, err := o.proofOfPossession()
	if err != nil {
		return nil, err
	}

	metadata := openid4vc.CredentialIssuerMetadata{
		CredentialIssuer:                  o.offer.CredentialIssuer,
		CredentialEndpoint:                o.credentialEndpoint,
		CredentialConfigurationsSupported: o.configurations,
	}

	definition := configuration.CredentialDefinition
	response, err := o.svc.Client.GetCredential(ctx, metadata, *o.tokenResponse, openid4vc.CredentialRequest{
		Format:               configuration.Format,
		CredentialDefinition: &definition,
		Proof: &openid4vc.Proof{
			ProofType: "jwt",
			JWT:       proof,
		},
	})
	if err != nil {
		return nil, err
	}

	return []Event{
		&CredentialRequestSent{CredentialConfigurationID: configurationID},
		&CredentialResponseReceived{Credentials: []string{response.Credential}},
	}, nil
}

// proofOfPossession signs a proof JWT binding the holder's identifier to the
// issuer's audience and the c_nonce of the current token response.
func (o *Offer) proofOfPossession() (string, error) {
	did, err := o.svc.Signer.Identifier(o.svc.DIDMethod)
	if err != nil {
		return "", err
	}
	claims := struct {
		Nonce string `json:"nonce"`
		jwt.RegisteredClaims
	}{
		Nonce: o.tokenResponse.CNonce,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   did,
			Audience: jwt.ClaimStrings{o.offer.CredentialIssuer},
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	return o.svc.Signer.SignJWT(claims, o.svc.DIDMethod)
}

func (o *Offer) Apply(event Event) error {
	switch event := event.(type) {
	case *CredentialOfferReceived:
		o.status = statusReceived
		o.offer = event.Offer
		o.credentialEndpoint = event.CredentialEndpoint
		o.configurations = event.CredentialConfigurations
	case *CredentialOfferAccepted:
		o.status = statusAccepted
	case *TokenResponseReceived:
		token := event.TokenResponse
		o.tokenEndpoint = event.TokenEndpoint
		o.tokenResponse = &token
	case *CredentialRequestSent:
		o.status = statusRequestSent
	case *CredentialResponseReceived:
		o.status = statusCredentialsReceived
		o.credentials = append(o.credentials, event.Credentials...)
	case *CredentialOfferRejected:
		o.status = statusRejected
	default:
		return fmt.Errorf("unhandled held-offer event %T", event)
	}
	return nil
}

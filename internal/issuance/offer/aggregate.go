package offer

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/impierce/ssi-agent-sub000/internal/openid4vc"
)

// AggregateType identifies issuer-side offer streams in the event store.
const AggregateType = "credential_offer"

// Services are the shared collaborators the offer aggregate consults while
// deciding. They are read-only from the aggregate's point of view.
type Services struct {
	// CredentialIssuer is this agent's external issuer URL, used as the
	// audience a proof of possession must be bound to.
	CredentialIssuer string

	// SupportedDIDMethods lists the identifier methods accepted in proofs.
	SupportedDIDMethods []string

	// SupportedSigningAlgorithms lists the JWT algs accepted in proofs.
	SupportedSigningAlgorithms []string
}

// Offer is the issuer-side credential offer state machine:
// Created -> CredentialsAttached -> Published -> TokenIssued ->
// RequestVerified -> ResponseIssued, where Published (the wallet deep link)
// may happen before or after TokenIssued.
type Offer struct {
	svc *Services

	created                   bool
	credentialConfigurationID string
	preAuthorizedCode         string
	credentialIDs             []string
	formURLEncodedOffer       string
	tokenResponse             *openid4vc.TokenResponse
	subjectID                 string
	credentialResponse        *openid4vc.CredentialResponse
}

// New returns the zero offer state bound to the given services.
func New(svc *Services) *Offer {
	return &Offer{svc: svc}
}

func (*Offer) AggregateType() string { return AggregateType }

// Handle validates a command against current state and returns the resulting
// events. It never mutates the receiver.
func (o *Offer) Handle(ctx context.Context, cmd Command) ([]Event, error) {
	switch cmd := cmd.(type) {
	case CreateCredentialOffer:
		code := cmd.PreAuthorizedCode
		if code == "" {
			code = uuid.NewString()
		}
		return []Event{&CredentialOfferCreated{
			CredentialConfigurationID: cmd.CredentialConfigurationID,
			PreAuthorizedCode:         code,
		}}, nil

	case AddCredentials:
		if !o.created {
			return nil, ErrOfferNotCreated
		}
		return []Event{&CredentialsAdded{CredentialIDs: cmd.CredentialIDs}}, nil

	case CreateFormURLEncodedCredentialOffer:
		if !o.created {
			return nil, ErrOfferNotCreated
		}
		if cmd.CredentialIssuerMetadata == nil || cmd.CredentialIssuerMetadata.CredentialIssuer == "" {
			return nil, ErrMissingIssuerMetadata
		}
		credentialOffer := openid4vc.CredentialOffer{
			CredentialIssuer:           cmd.CredentialIssuerMetadata.CredentialIssuer,
			CredentialConfigurationIDs: []string{o.credentialConfigurationID},
			Grants: &openid4vc.Grants{
				PreAuthorizedCode: &openid4vc.PreAuthorizedCodeGrant{
					PreAuthorizedCode: o.preAuthorizedCode,
				},
			},
		}
		encoded, err := credentialOffer.FormURLEncoded()
		if err != nil {
			return nil, fmt.Errorf("render credential offer: %w", err)
		}
		return []Event{&FormURLEncodedCredentialOfferCreated{FormURLEncodedCredentialOffer: encoded}}, nil

	case CreateTokenResponse:
		if !o.created || cmd.TokenRequest.PreAuthorizedCode != o.preAuthorizedCode {
			return nil, ErrInvalidPreAuthorizedCode
		}
		return []Event{&TokenResponseCreated{
			TokenResponse: openid4vc.TokenResponse{
				AccessToken: uuid.NewString(),
				TokenType:   "bearer",
				ExpiresIn:   300,
				CNonce:      uuid.NewString(),
			},
		}}, nil

	case VerifyCredentialRequest:
		if o.tokenResponse == nil {
			return nil, ErrTokenNotIssued
		}
		subjectID, err := o.verifyProof(cmd.CredentialRequest.Proof)
		if err != nil {
			return nil, err
		}
		return []Event{&CredentialRequestVerified{SubjectID: subjectID}}, nil

	case CreateCredentialResponse:
		if o.subjectID == "" {
			return nil, ErrRequestNotVerified
		}
		if len(cmd.SignedCredentials) == 0 {
			return nil, ErrMissingSignedCredentials
		}
		if len(cmd.SignedCredentials) > 1 {
			return nil, ErrBatchResponseUnsupported
		}
		return []Event{&CredentialResponseCreated{
			CredentialResponse: openid4vc.CredentialResponse{
				Format:     openid4vc.FormatJWTVCJSON,
				Credential: cmd.SignedCredentials[0],
			},
		}}, nil

	default:
		return nil, fmt.Errorf("unhandled offer command %T", cmd)
	}
}

// Apply folds one event into state. It is a deterministic fold: replaying the
// same events from the zero value always yields the same state.
func (o *Offer) Apply(event Event) error {
	switch event := event.(type) {
	case *CredentialOfferCreated:
		o.created = true
		o.credentialConfigurationID = event.CredentialConfigurationID
		o.preAuthorizedCode = event.PreAuthorizedCode
	case *CredentialsAdded:
		o.credentialIDs = event.CredentialIDs
	case *FormURLEncodedCredentialOfferCreated:
		o.formURLEncodedOffer = event.FormURLEncodedCredentialOffer
	case *TokenResponseCreated:
		response := event.TokenResponse
		o.tokenResponse = &response
	case *CredentialRequestVerified:
		o.subjectID = event.SubjectID
	case *CredentialResponseCreated:
		response := event.CredentialResponse
		o.credentialResponse = &response
	default:
		return fmt.Errorf("unhandled offer event %T", event)
	}
	return nil
}

package offer

import (
	es "github.com/impierce/ssi-agent-sub000/internal/eventsourcing"
	"github.com/impierce/ssi-agent-sub000/internal/openid4vc"
)

// Status values exposed by the held-offer view.
const (
	StatusReceived            = "received"
	StatusAccepted            = "accepted"
	StatusRequestSent         = "request_sent"
	StatusCredentialsReceived = "credentials_received"
	StatusRejected            = "rejected"
)

// View is the wallet-facing projection of a held offer.
type View struct {
	Status                   string                                       `json:"status,omitempty"`
	Offer                    *openid4vc.CredentialOffer                   `json:"offer,omitempty"`
	CredentialConfigurations map[string]openid4vc.CredentialConfiguration `json:"credential_configurations,omitempty"`
	TokenResponse            *openid4vc.TokenResponse                     `json:"token_response,omitempty"`
	Credentials              []string                                     `json:"credentials,omitempty"`

	LastSequence int `json:"last_sequence"`
}

func NewView() *View { return &View{} }

func (v *View) Update(env es.Envelope) error {
	if env.Sequence <= v.LastSequence {
		return nil
	}

	event, err := UnmarshalEvent(env.EventType, env.Payload)
	if err != nil {
		return err
	}
	v.LastSequence = env.Sequence

	switch event := event.(type) {
	case *CredentialOfferReceived:
		v.Status = StatusReceived
		offer := event.Offer
		v.Offer = &offer
		v.CredentialConfigurations = event.CredentialConfigurations
	case *CredentialOfferAccepted:
		v.Status = StatusAccepted
	case *TokenResponseReceived:
		token := event.TokenResponse
		v.TokenResponse = &token
	case *CredentialRequestSent:
		v.Status = StatusRequestSent
	case *CredentialResponseReceived:
		v.Status = StatusCredentialsReceived
		v.Credentials = append(v.Credentials, event.Credentials...)
	case *CredentialOfferRejected:
		v.Status = StatusRejected
	}
	return nil
}

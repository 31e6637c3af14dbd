package offer

import (
	"encoding/json"
	"fmt"

	"github.com/impierce/ssi-agent-sub000/internal/openid4vc"
)

const (
	EventTypeOfferReceived         = "CredentialOfferReceived"
	EventTypeOfferAccepted         = "CredentialOfferAccepted"
	EventTypeTokenResponseReceived = "TokenResponseReceived"
	EventTypeCredentialRequestSent = "CredentialRequestSent"
	EventTypeCredentialsReceived   = "CredentialResponseReceived"
	EventTypeOfferRejected         = "CredentialOfferRejected"
)

// Event is the closed set of held-offer events.
type Event interface {
	EventType() string
	EventVersion() string
	isHeldOfferEvent()
}

type CredentialOfferReceived struct {
	Offer                    openid4vc.CredentialOffer                    `json:"offer"`
	CredentialEndpoint       string                                       `json:"credential_endpoint"`
	CredentialConfigurations map[string]openid4vc.CredentialConfiguration `json:"credential_configurations"`
}

type CredentialOfferAccepted struct{}

type TokenResponseReceived struct {
	TokenEndpoint string                  `json:"token_endpoint"`
	TokenResponse openid4vc.TokenResponse `json:"token_response"`
}

type CredentialRequestSent struct {
	CredentialConfigurationID string `json:"credential_configuration_id"`
}

type CredentialResponseReceived struct {
	Credentials []string `json:"credentials"`
}

type CredentialOfferRejected struct{}

func (CredentialOfferReceived) EventType() string    { return EventTypeOfferReceived }
func (CredentialOfferAccepted) EventType() string    { return EventTypeOfferAccepted }
func (TokenResponseReceived) EventType() string      { return EventTypeTokenResponseReceived }
func (CredentialRequestSent) EventType() string      { return EventTypeCredentialRequestSent }
func (CredentialResponseReceived) EventType() string { return EventTypeCredentialsReceived }
func (CredentialOfferRejected) EventType() string    { return EventTypeOfferRejected }

func (CredentialOfferReceived) EventVersion() string    { return "1" }
func (CredentialOfferAccepted) EventVersion() string    { return "1" }
func (TokenResponseReceived) EventVersion() string      { return "1" }
func (CredentialRequestSent) EventVersion() string      { return "1" }
func (CredentialResponseReceived) EventVersion() string { return "1" }
func (CredentialOfferRejected) EventVersion() string    { return "1" }

func (CredentialOfferReceived) isHeldOfferEvent()    {}
func (CredentialOfferAccepted) isHeldOfferEvent()    {}
func (TokenResponseReceived) isHeldOfferEvent()      {}
func (CredentialRequestSent) isHeldOfferEvent()      {}
func (CredentialResponseReceived) isHeldOfferEvent() {}
func (CredentialOfferRejected) isHeldOfferEvent()    {}

// UnmarshalEvent decodes a persisted payload back into a typed held-offer event.
func UnmarshalEvent(eventType string, payload []byte) (Event, error) {
	var event Event
	switch eventType {
	case EventTypeOfferReceived:
		event = &CredentialOfferReceived{}
	case EventTypeOfferAccepted:
		event = &CredentialOfferAccepted{}
	case EventTypeTokenResponseReceived:
		event = &TokenResponseReceived{}
	case EventTypeCredentialRequestSent:
		event = &CredentialRequestSent{}
	case EventTypeCredentialsReceived:
		event = &CredentialResponseReceived{}
	case EventTypeOfferRejected:
		event = &CredentialOfferRejected{}
	default:
		return nil, fmt.Errorf("unknown held-offer event type %q", eventType)
	}
	if err := json.Unmarshal(payload, event); err != nil {
		return nil, err
	}
	return event, nil
}

package offer

import (
	"encoding/json"
	"fmt"

	"github.com/impierce/ssi-agent-sub000/internal/openid4vc"
)

// Event types as persisted in the event log.
const (
	EventTypeOfferCreated               = "CredentialOfferCreated"
	EventTypeCredentialsAdded           = "CredentialsAdded"
	EventTypeFormURLEncodedOfferCreated = "FormUrlEncodedCredentialOfferCreated"
	EventTypeTokenResponseCreated       = "TokenResponseCreated"
	EventTypeCredentialRequestVerified  = "CredentialRequestVerified"
	EventTypeCredentialResponseCreated  = "CredentialResponseCreated"
)

// Event is the closed set of offer events.
type Event interface {
	EventType() string
	EventVersion() string
	isOfferEvent()
}

type CredentialOfferCreated struct {
	CredentialConfigurationID string `json:"credential_configuration_id"`
	PreAuthorizedCode         string `json:"pre_authorized_code"`
}

type CredentialsAdded struct {
	CredentialIDs []string `json:"credential_ids"`
}

type FormURLEncodedCredentialOfferCreated struct {
	FormURLEncodedCredentialOffer string `json:"form_url_encoded_credential_offer"`
}

type TokenResponseCreated struct {
	TokenResponse openid4vc.TokenResponse `json:"token_response"`
}

type CredentialRequestVerified struct {
	SubjectID string `json:"subject_id"`
}

type CredentialResponseCreated struct {
	CredentialResponse openid4vc.CredentialResponse `json:"credential_response"`
}

func (CredentialOfferCreated) EventType() string               { return EventTypeOfferCreated }
func (CredentialsAdded) EventType() string                     { return EventTypeCredentialsAdded }
func (FormURLEncodedCredentialOfferCreated) EventType() string { return EventTypeFormURLEncodedOfferCreated }
func (TokenResponseCreated) EventType() string                 { return EventTypeTokenResponseCreated }
func (CredentialRequestVerified) EventType() string            { return EventTypeCredentialRequestVerified }
func (CredentialResponseCreated) EventType() string            { return EventTypeCredentialResponseCreated }

func (CredentialOfferCreated) EventVersion() string               { return "1" }
func (CredentialsAdded) EventVersion() string                     { return "1" }
func (FormURLEncodedCredentialOfferCreated) EventVersion() string { return "1" }
func (TokenResponseCreated) EventVersion() string                 { return "1" }
func (CredentialRequestVerified) EventVersion() string            { return "1" }
func (CredentialResponseCreated) EventVersion() string            { return "1" }

func (CredentialOfferCreated) isOfferEvent()               {}
func (CredentialsAdded) isOfferEvent()                     {}
func (FormURLEncodedCredentialOfferCreated) isOfferEvent() {}
func (TokenResponseCreated) isOfferEvent()                 {}
func (CredentialRequestVerified) isOfferEvent()            {}
func (CredentialResponseCreated) isOfferEvent()            {}

// UnmarshalEvent decodes a persisted payload back into a typed offer event.
func UnmarshalEvent(eventType string, payload []byte) (Event, error) {
	var event Event
	switch eventType {
	case EventTypeOfferCreated:
		event = &CredentialOfferCreated{}
	case EventTypeCredentialsAdded:
		event = &CredentialsAdded{}
	case EventTypeFormURLEncodedOfferCreated:
		event = &FormURLEncodedCredentialOfferCreated{}
	case EventTypeTokenResponseCreated:
		event = &TokenResponseCreated{}
	case EventTypeCredentialRequestVerified:
		event = &CredentialRequestVerified{}
	case EventTypeCredentialResponseCreated:
		event = &CredentialResponseCreated{}
	default:
		return nil, fmt.Errorf("unknown offer event type %q", eventType)
	}
	if err := json.Unmarshal(payload, event); err != nil {
		return nil, err
	}
	return event, nil
}

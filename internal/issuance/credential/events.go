package credential

import (
	"encoding/json"
	"fmt"
)

const (
	EventTypeUnsignedCredentialCreated = "UnsignedCredentialCreated"
	EventTypeCredentialSigned          = "CredentialSigned"
)

// Event is the closed set of credential events.
type Event interface {
	EventType() string
	EventVersion() string
	isCredentialEvent()
}

type UnsignedCredentialCreated struct {
	OfferID                   string          `json:"offer_id"`
	CredentialConfigurationID string          `json:"credential_configuration_id"`
	Subject                   json.RawMessage `json:"subject"`
}

type CredentialSigned struct {
	SubjectID        string `json:"subject_id"`
	SignedCredential string `json:"signed_credential"`
}

func (UnsignedCredentialCreated) EventType() string { return EventTypeUnsignedCredentialCreated }
func (CredentialSigned) EventType() string          { return EventTypeCredentialSigned }

func (UnsignedCredentialCreated) EventVersion() string { return "1" }
func (CredentialSigned) EventVersion() string          { return "1" }

func (UnsignedCredentialCreated) isCredentialEvent() {}
func (CredentialSigned) isCredentialEvent()          {}

// UnmarshalEvent decodes a persisted payload back into a typed credential event.
func UnmarshalEvent(eventType string, payload []byte) (Event, error) {
	var event Event
	switch eventType {
	case EventTypeUnsignedCredentialCreated:
		event = &UnsignedCredentialCreated{}
	case EventTypeCredentialSigned:
		event = &CredentialSigned{}
	default:
		return nil, fmt.Errorf("unknown credential event type %q", eventType)
	}
	if err := json.Unmarshal(payload, event); err != nil {
		return nil, err
	}
	return event, nil
}

package credential

import (
	"encoding/json"
	"fmt"
)

const EventTypeReceivedCredentialAdded = "ReceivedCredentialAdded"

// Event is the closed set of held-credential events.
type Event interface {
	EventType() string
	EventVersion() string
	isHeldCredentialEvent()
}

type ReceivedCredentialAdded struct {
	OfferID          string `json:"offer_id"`
	SignedCredential string `json:"signed_credential"`
}

func (ReceivedCredentialAdded) EventType() string      { return EventTypeReceivedCredentialAdded }
func (ReceivedCredentialAdded) EventVersion() string   { return "1" }
func (ReceivedCredentialAdded) isHeldCredentialEvent() {}

// UnmarshalEvent decodes a persisted payload back into a typed event.
func UnmarshalEvent(eventType string, payload []byte) (Event, error) {
	var event Event
	switch eventType {
	case EventTypeReceivedCredentialAdded:
		event = &ReceivedCredentialAdded{}
	default:
		return nil, fmt.Errorf("unknown held-credential event type %q", eventType)
	}
	if err := json.Unmarshal(payload, event); err != nil {
		return nil, err
	}
	return event, nil
}

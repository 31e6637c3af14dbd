package presentation

import (
	"encoding/json"
	"fmt"
)

const (
	EventTypePresentationCreated = "PresentationCreated"
	EventTypePresentationSigned  = "PresentationSigned"
)

// Event is the closed set of presentation events.
type Event interface {
	EventType() string
	EventVersion() string
	isPresentationEvent()
}

type PresentationCreated struct {
	SignedCredentials []string `json:"signed_credentials"`
}

type PresentationSigned struct {
	SignedPresentation string `json:"signed_presentation"`
}

func (PresentationCreated) EventType() string { return EventTypePresentationCreated }
func (PresentationSigned) EventType() string  { return EventTypePresentationSigned }

func (PresentationCreated) EventVersion() string { return "1" }
func (PresentationSigned) EventVersion() string  { return "1" }

func (PresentationCreated) isPresentationEvent() {}
func (PresentationSigned) isPresentationEvent()  {}

// UnmarshalEvent decodes a persisted payload back into a typed event.
func UnmarshalEvent(eventType string, payload []byte) (Event, error) {
	var event Event
	switch eventType {
	case EventTypePresentationCreated:
		event = &PresentationCreated{}
	case EventTypePresentationSigned:
		event = &PresentationSigned{}
	default:
		return nil, fmt.Errorf("unknown presentation event type %q", eventType)
	}
	if err := json.Unmarshal(payload, event); err != nil {
		return nil, err
	}
	return event, nil
}

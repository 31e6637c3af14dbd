package document

import (
	"encoding/json"
	"fmt"
)

const (
	EventTypeDocumentCreated      = "DocumentCreated"
	EventTypeServiceEndpointAdded = "ServiceEndpointAdded"
)

// Event is the closed set of document events.
type Event interface {
	EventType() string
	EventVersion() string
	isDocumentEvent()
}

type DocumentCreated struct {
	Method string `json:"method"`
	DID    string `json:"did"`
}

type ServiceEndpointAdded struct {
	Service ServiceEndpoint `json:"service"`
}

func (DocumentCreated) EventType() string      { return EventTypeDocumentCreated }
func (ServiceEndpointAdded) EventType() string { return EventTypeServiceEndpointAdded }

func (DocumentCreated) EventVersion() string      { return "1" }
func (ServiceEndpointAdded) EventVersion() string { return "1" }

func (DocumentCreated) isDocumentEvent()      {}
func (ServiceEndpointAdded) isDocumentEvent() {}

// UnmarshalEvent decodes a persisted payload back into a typed event.
func UnmarshalEvent(eventType string, payload []byte) (Event, error) {
	var event Event
	switch eventType {
	case EventTypeDocumentCreated:
		event = &DocumentCreated{}
	case EventTypeServiceEndpointAdded:
		event = &ServiceEndpointAdded{}
	default:
		return nil, fmt.Errorf("unknown document event type %q", eventType)
	}
	if err := json.Unmarshal(payload, event); err != nil {
		return nil, err
	}
	return event, nil
}

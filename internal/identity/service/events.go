package service

import (
	"encoding/json"
	"fmt"

	"github.com/impierce/ssi-agent-sub000/internal/identity/document"
)

const (
	EventTypeDomainLinkageServiceCreated                = "DomainLinkageServiceCreated"
	EventTypeLinkedVerifiablePresentationServiceCreated = "LinkedVerifiablePresentationServiceCreated"
)

// Event is the closed set of service events.
type Event interface {
	EventType() string
	EventVersion() string
	isServiceEvent()
}

type DomainLinkageServiceCreated struct {
	Service          document.ServiceEndpoint `json:"service"`
	SignedCredential string                   `json:"signed_credential"`
}

type LinkedVerifiablePresentationServiceCreated struct {
	Service document.ServiceEndpoint `json:"service"`
}

func (DomainLinkageServiceCreated) EventType() string {
	return EventTypeDomainLinkageServiceCreated
}

func (LinkedVerifiablePresentationServiceCreated) EventType() string {
	return EventTypeLinkedVerifiablePresentationServiceCreated
}

func (DomainLinkageServiceCreated) EventVersion() string                { return "1" }
func (LinkedVerifiablePresentationServiceCreated) EventVersion() string { return "1" }

func (DomainLinkageServiceCreated) isServiceEvent()                {}
func (LinkedVerifiablePresentationServiceCreated) isServiceEvent() {}

// UnmarshalEvent decodes a persisted payload back into a typed event.
func UnmarshalEvent(eventType string, payload []byte) (Event, error) {
	var event Event
	switch eventType {
	case EventTypeDomainLinkageServiceCreated:
		event = &DomainLinkageServiceCreated{}
	case EventTypeLinkedVerifiablePresentationServiceCreated:
		event = &LinkedVerifiablePresentationServiceCreated{}
	default:
		return nil, fmt.Errorf("unknown service event type %q", eventType)
	}
	if err := json.Unmarshal(payload, event); err != nil {
		return nil, err
	}
	return event, nil
}

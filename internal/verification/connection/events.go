package connection

import (
	"encoding/json"
	"fmt"
)

const (
	EventTypeSIOPv2ResponseVerified = "SIOPv2AuthorizationResponseVerified"
	EventTypeOID4VPResponseVerified = "OID4VPAuthorizationResponseVerified"
)

// Event is the closed set of connection events.
type Event interface {
	EventType() string
	EventVersion() string
	isConnectionEvent()
}

// SIOPv2AuthorizationResponseVerified records a validated identity response.
type SIOPv2AuthorizationResponseVerified struct {
	IDToken string `json:"id_token"`
	State   string `json:"state"`
}

// OID4VPAuthorizationResponseVerified records a validated presentation
// response.
type OID4VPAuthorizationResponseVerified struct {
	VPToken string `json:"vp_token"`
	State   string `json:"state"`
}

func (SIOPv2AuthorizationResponseVerified) EventType() string { return EventTypeSIOPv2ResponseVerified }
func (OID4VPAuthorizationResponseVerified) EventType() string { return EventTypeOID4VPResponseVerified }

func (SIOPv2AuthorizationResponseVerified) EventVersion() string { return "1" }
func (OID4VPAuthorizationResponseVerified) EventVersion() string { return "1" }

func (SIOPv2AuthorizationResponseVerified) isConnectionEvent() {}
func (OID4VPAuthorizationResponseVerified) isConnectionEvent() {}

// UnmarshalEvent decodes a persisted payload back into a typed event.
func UnmarshalEvent(eventType string, payload []byte) (Event, error) {
	var event Event
	switch eventType {
	case EventTypeSIOPv2ResponseVerified:
		event = &SIOPv2AuthorizationResponseVerified{}
	case EventTypeOID4VPResponseVerified:
		event = &OID4VPAuthorizationResponseVerified{}
	default:
		return nil, fmt.Errorf("unknown connection event type %q", eventType)
	}
	if err := json.Unmarshal(payload, event); err != nil {
		return nil, err
	}
	return event, nil
}

package authrequest

import (
	"encoding/json"
	"fmt"

	"github.com/impierce/ssi-agent-sub000/internal/openid4vc"
)

const (
	EventTypeSIOPv2RequestCreated = "SIOPv2AuthorizationRequestCreated"
	EventTypeOID4VPRequestCreated = "OID4VPAuthorizationRequestCreated"
	EventTypeRequestObjectSigned  = "AuthorizationRequestObjectSigned"
)

// Event is the closed set of authorization request events.
type Event interface {
	EventType() string
	EventVersion() string
	isAuthRequestEvent()
}

// SIOPv2AuthorizationRequestCreated records an identity-only request object.
type SIOPv2AuthorizationRequestCreated struct {
	RequestObject openid4vc.AuthorizationRequestObject `json:"request_object"`
	RequestURI    string                               `json:"request_uri"`
}

// OID4VPAuthorizationRequestCreated records a presentation-bearing request
// object.
type OID4VPAuthorizationRequestCreated struct {
	RequestObject openid4vc.AuthorizationRequestObject `json:"request_object"`
	RequestURI    string                               `json:"request_uri"`
}

type AuthorizationRequestObjectSigned struct {
	SignedRequestObject string `json:"signed_request_object"`
}

func (SIOPv2AuthorizationRequestCreated) EventType() string { return EventTypeSIOPv2RequestCreated }
func (OID4VPAuthorizationRequestCreated) EventType() string { return EventTypeOID4VPRequestCreated }
func (AuthorizationRequestObjectSigned) EventType() string  { return EventTypeRequestObjectSigned }

func (SIOPv2AuthorizationRequestCreated) EventVersion() string { return "1" }
func (OID4VPAuthorizationRequestCreated) EventVersion() string { return "1" }
func (AuthorizationRequestObjectSigned) EventVersion() string  { return "1" }

func (SIOPv2AuthorizationRequestCreated) isAuthRequestEvent() {}
func (OID4VPAuthorizationRequestCreated) isAuthRequestEvent() {}
func (AuthorizationRequestObjectSigned) isAuthRequestEvent()  {}

// UnmarshalEvent decodes a persisted payload back into a typed event.
func UnmarshalEvent(eventType string, payload []byte) (Event, error) {
	var event Event
	switch eventType {
	case EventTypeSIOPv2RequestCreated:
		event = &SIOPv2AuthorizationRequestCreated{}
	case EventTypeOID4VPRequestCreated:
		event = &OID4VPAuthorizationRequestCreated{}
	case EventTypeRequestObjectSigned:
		event = &AuthorizationRequestObjectSigned{}
	default:
		return nil, fmt.Errorf("unknown authorization request event type %q", eventType)
	}
	if err := json.Unmarshal(payload, event); err != nil {
		return nil, err
	}
	return event, nil
}

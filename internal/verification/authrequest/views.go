package authrequest

import (
	"encoding/json"

	es "github.com/impierce/ssi-agent-sub000/internal/eventsourcing"
	"github.com/impierce/ssi-agent-sub000/internal/openid4vc"
)

const (
	StatusCreated = "created"
	StatusSigned  = "signed"
)

// View is the materialized read model of one authorization request. The
// transport serves SignedRequestObject from the reference URI.
type View struct {
	RequestID           string                                `json:"request_id"`
	Status              string                                `json:"status,omitempty"`
	RequestObject       *openid4vc.AuthorizationRequestObject `json:"request_object,omitempty"`
	RequestURI          string                                `json:"request_uri,omitempty"`
	SignedRequestObject string                                `json:"signed_request_object,omitempty"`

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

	v.RequestID = env.AggregateID
	v.LastSequence = env.Sequence

	switch event := event.(type) {
	case *SIOPv2AuthorizationRequestCreated:
		v.Status = StatusCreated
		object := event.RequestObject
		v.RequestObject = &object
		v.RequestURI = event.RequestURI
	case *OID4VPAuthorizationRequestCreated:
		v.Status = StatusCreated
		object := event.RequestObject
		v.RequestObject = &object
		v.RequestURI = event.RequestURI
	case *AuthorizationRequestObjectSigned:
		v.Status = StatusSigned
		v.SignedRequestObject = event.SignedRequestObject
	}
	return nil
}

// StateKey extracts the secondary-index key carried by either request-created
// event, so responses can be correlated back by their state value.
func StateKey(env es.Envelope) (string, bool) {
	if env.EventType != EventTypeSIOPv2RequestCreated && env.EventType != EventTypeOID4VPRequestCreated {
		return "", false
	}
	var event struct {
		RequestObject openid4vc.AuthorizationRequestObject `json:"request_object"`
	}
	if err := json.Unmarshal(env.Payload, &event); err != nil || event.RequestObject.State == "" {
		return "", false
	}
	return event.RequestObject.State, true
}

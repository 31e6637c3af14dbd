package connection

import (
	es "github.com/impierce/ssi-agent-sub000/internal/eventsourcing"
)

const (
	StatusVerified = "verified"
)

// KindSIOPv2 and KindOID4VP name which response shape established the
// connection.
const (
	KindSIOPv2 = "siopv2"
	KindOID4VP = "oid4vp"
)

// View is the materialized read model of one connection.
type View struct {
	ConnectionID string `json:"connection_id"`
	Status       string `json:"status,omitempty"`
	Kind         string `json:"kind,omitempty"`
	State        string `json:"state,omitempty"`
	IDToken      string `json:"id_token,omitempty"`
	VPToken      string `json:"vp_token,omitempty"`

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

	v.ConnectionID = env.AggregateID
	v.LastSequence = env.Sequence

	switch event := event.(type) {
	case *SIOPv2AuthorizationResponseVerified:
		v.Status = StatusVerified
		v.Kind = KindSIOPv2
		v.State = event.State
		v.IDToken = event.IDToken
	case *OID4VPAuthorizationResponseVerified:
		v.Status = StatusVerified
		v.Kind = KindOID4VP
		v.State = event.State
		v.VPToken = event.VPToken
	}
	return nil
}

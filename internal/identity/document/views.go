package document

import (
	es "github.com/impierce/ssi-agent-sub000/internal/eventsourcing"
)

// View is the materialized did document.
type View struct {
	DocumentID string            `json:"document_id"`
	Method     string            `json:"method,omitempty"`
	DID        string            `json:"did,omitempty"`
	Services   []ServiceEndpoint `json:"services,omitempty"`

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

	v.DocumentID = env.AggregateID
	v.LastSequence = env.Sequence

	switch event := event.(type) {
	case *DocumentCreated:
		v.Method = event.Method
		v.DID = event.DID
	case *ServiceEndpointAdded:
		v.Services = append(v.Services, event.Service)
	}
	return nil
}

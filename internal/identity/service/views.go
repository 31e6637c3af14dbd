package service

import (
	es "github.com/impierce/ssi-agent-sub000/internal/eventsourcing"
	"github.com/impierce/ssi-agent-sub000/internal/identity/document"
)

// View is the materialized read model of one service entry.
type View struct {
	ServiceID        string                    `json:"service_id"`
	Service          *document.ServiceEndpoint `json:"service,omitempty"`
	SignedCredential string                    `json:"signed_credential,omitempty"`

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

	v.ServiceID = env.AggregateID
	v.LastSequence = env.Sequence

	switch event := event.(type) {
	case *DomainLinkageServiceCreated:
		service := event.Service
		v.Service = &service
		v.SignedCredential = event.SignedCredential
	case *LinkedVerifiablePresentationServiceCreated:
		service := event.Service
		v.Service = &service
	}
	return nil
}

package presentation

import (
	es "github.com/impierce/ssi-agent-sub000/internal/eventsourcing"
)

const (
	StatusCreated = "created"
	StatusSigned  = "signed"
)

// View is the materialized read model of one presentation. The transport
// serves SignedPresentation from the linked-presentation endpoint.
type View struct {
	PresentationID     string   `json:"presentation_id"`
	Status             string   `json:"status,omitempty"`
	SignedCredentials  []string `json:"signed_credentials,omitempty"`
	SignedPresentation string   `json:"signed_presentation,omitempty"`

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

	v.PresentationID = env.AggregateID
	v.LastSequence = env.Sequence

	switch event := event.(type) {
	case *PresentationCreated:
		v.Status = StatusCreated
		v.SignedCredentials = event.SignedCredentials
	case *PresentationSigned:
		v.Status = StatusSigned
		v.SignedPresentation = event.SignedPresentation
	}
	return nil
}

package credential

import (
	"encoding/json"
	"slices"

	es "github.com/impierce/ssi-agent-sub000/internal/eventsourcing"
)

const (
	StatusUnsigned = "Unsigned"
	StatusSigned   = "Signed"
)

// View is the materialized read model of one credential.
type View struct {
	CredentialID              string          `json:"credential_id"`
	OfferID                   string          `json:"offer_id"`
	CredentialConfigurationID string          `json:"credential_configuration_id"`
	Status                    string          `json:"status"`
	Subject                   json.RawMessage `json:"subject,omitempty"`
	SubjectID                 string          `json:"subject_id,omitempty"`
	SignedCredential          string          `json:"signed_credential,omitempty"`

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

	v.CredentialID = env.AggregateID
	v.LastSequence = env.Sequence

	switch event := event.(type) {
	case *UnsignedCredentialCreated:
		v.Status = StatusUnsigned
		v.OfferID = event.OfferID
		v.CredentialConfigurationID = event.CredentialConfigurationID
		v.Subject = event.Subject
	case *CredentialSigned:
		v.Status = StatusSigned
		v.SubjectID = event.SubjectID
		v.SignedCredential = event.SignedCredential
	}
	return nil
}

// ByOfferView indexes credential ids under the offer they were created for,
// so the issuance flow can find all credentials belonging to one offer.
// It aggregates events from many credential instances, so idempotency is by
// membership rather than sequence.
type ByOfferView struct {
	OfferID       string   `json:"offer_id"`
	CredentialIDs []string `json:"credential_ids"`
}

func NewByOfferView() *ByOfferView { return &ByOfferView{} }

func (v *ByOfferView) Update(env es.Envelope) error {
	if env.EventType != EventTypeUnsignedCredentialCreated {
		return nil
	}
	var event UnsignedCredentialCreated
	if err := json.Unmarshal(env.Payload, &event); err != nil {
		return err
	}
	v.OfferID = event.OfferID
	if !slices.Contains(v.CredentialIDs, env.AggregateID) {
		v.CredentialIDs = append(v.CredentialIDs, env.AggregateID)
	}
	return nil
}

// OfferIDKey extracts the secondary-index key carried by
// UnsignedCredentialCreated.
func OfferIDKey(env es.Envelope) (string, bool) {
	if env.EventType != EventTypeUnsignedCredentialCreated {
		return "", false
	}
	var event UnsignedCredentialCreated
	if err := json.Unmarshal(env.Payload, &event); err != nil || event.OfferID == "" {
		return "", false
	}
	return event.OfferID, true
}

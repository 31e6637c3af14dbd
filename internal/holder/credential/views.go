package credential

import (
	"encoding/json"
	"slices"

	es "github.com/impierce/ssi-agent-sub000/internal/eventsourcing"
)

// View is the materialized read model of one held credential.
type View struct {
	CredentialID     string `json:"credential_id"`
	OfferID          string `json:"offer_id"`
	SignedCredential string `json:"signed_credential,omitempty"`

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

	if event, ok := event.(*ReceivedCredentialAdded); ok {
		v.OfferID = event.OfferID
		v.SignedCredential = event.SignedCredential
	}
	return nil
}

// ByOfferView indexes held credential ids under the offer that produced them.
// It aggregates events from many credential instances, so idempotency is by
// membership rather than sequence.
type ByOfferView struct {
	OfferID       string   `json:"offer_id"`
	CredentialIDs []string `json:"credential_ids"`
}

func NewByOfferView() *ByOfferView { return &ByOfferView{} }

func (v *ByOfferView) Update(env es.Envelope) error {
	if env.EventType != EventTypeReceivedCredentialAdded {
		return nil
	}
	var event ReceivedCredentialAdded
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
// ReceivedCredentialAdded.
func OfferIDKey(env es.Envelope) (string, bool) {
	if env.EventType != EventTypeReceivedCredentialAdded {
		return "", false
	}
	var event ReceivedCredentialAdded
	if err := json.Unmarshal(env.Payload, &event); err != nil || event.OfferID == "" {
		return "", false
	}
	return event.OfferID, true
}

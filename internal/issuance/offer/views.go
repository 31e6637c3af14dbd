package offer

import (
	"encoding/json"

	es "github.com/impierce/ssi-agent-sub000/internal/eventsourcing"
	"github.com/impierce/ssi-agent-sub000/internal/openid4vc"
)

// Offer lifecycle as exposed to readers.
const (
	StatusCreated             = "Created"
	StatusCredentialsAttached = "CredentialsAttached"
	StatusPublished           = "Published"
	StatusTokenIssued         = "TokenIssued"
	StatusRequestVerified     = "RequestVerified"
	StatusResponseIssued      = "ResponseIssued"
)

// View is the materialized read model of one offer. The same view type backs
// the primary projection (keyed by offer id) and the secondary indexes (keyed
// by pre-authorized code and by access token); once both have observed the
// same events they agree on content.
type View struct {
	OfferID                       string                        `json:"offer_id"`
	Status                        string                        `json:"status"`
	CredentialConfigurationID     string                        `json:"credential_configuration_id"`
	PreAuthorizedCode             string                        `json:"pre_authorized_code"`
	CredentialIDs                 []string                      `json:"credential_ids,omitempty"`
	FormURLEncodedCredentialOffer string                        `json:"form_url_encoded_credential_offer,omitempty"`
	TokenResponse                 *openid4vc.TokenResponse      `json:"token_response,omitempty"`
	SubjectID                     string                        `json:"subject_id,omitempty"`
	CredentialResponse            *openid4vc.CredentialResponse `json:"credential_response,omitempty"`

	LastSequence int `json:"last_sequence"`
}

func NewView() *View { return &View{} }

// Update folds one envelope into the view. Envelopes at or below the last
// observed sequence are skipped, which makes replays idempotent.
func (v *View) Update(env es.Envelope) error {
	if env.Sequence <= v.LastSequence {
		return nil
	}

	event, err := UnmarshalEvent(env.EventType, env.Payload)
	if err != nil {
		return err
	}

	v.OfferID = env.AggregateID
	v.LastSequence = env.Sequence

	switch event := event.(type) {
	case *CredentialOfferCreated:
		v.Status = StatusCreated
		v.CredentialConfigurationID = event.CredentialConfigurationID
		v.PreAuthorizedCode = event.PreAuthorizedCode
	case *CredentialsAdded:
		v.Status = StatusCredentialsAttached
		v.CredentialIDs = event.CredentialIDs
	case *FormURLEncodedCredentialOfferCreated:
		v.Status = StatusPublished
		v.FormURLEncodedCredentialOffer = event.FormURLEncodedCredentialOffer
	case *TokenResponseCreated:
		v.Status = StatusTokenIssued
		response := event.TokenResponse
		v.TokenResponse = &response
	case *CredentialRequestVerified:
		v.Status = StatusRequestVerified
		v.SubjectID = event.SubjectID
	case *CredentialResponseCreated:
		v.Status = StatusResponseIssued
		response := event.CredentialResponse
		v.CredentialResponse = &response
	}
	return nil
}

// PreAuthorizedCodeKey extracts the secondary-index key minted by
// CredentialOfferCreated, so offers resolve by the code a wallet presents.
func PreAuthorizedCodeKey(env es.Envelope) (string, bool) {
	if env.EventType != EventTypeOfferCreated {
		return "", false
	}
	var event CredentialOfferCreated
	if err := json.Unmarshal(env.Payload, &event); err != nil || event.PreAuthorizedCode == "" {
		return "", false
	}
	return event.PreAuthorizedCode, true
}

// AccessTokenKey extracts the secondary-index key minted by
// TokenResponseCreated, so offers resolve by bearer token.
func AccessTokenKey(env es.Envelope) (string, bool) {
	if env.EventType != EventTypeTokenResponseCreated {
		return "", false
	}
	var event TokenResponseCreated
	if err := json.Unmarshal(env.Payload, &event); err != nil || event.TokenResponse.AccessToken == "" {
		return "", false
	}
	return event.TokenResponse.AccessToken, true
}

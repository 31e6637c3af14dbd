package servermetadata

import (
	es "github.com/impierce/ssi-agent-sub000/internal/eventsourcing"
	"github.com/impierce/ssi-agent-sub000/internal/openid4vc"
)

// View is the materialized metadata the transport layer serves from the
// well-known endpoints and consults when publishing offers.
type View struct {
	CredentialIssuerMetadata    *openid4vc.CredentialIssuerMetadata    `json:"credential_issuer_metadata,omitempty"`
	AuthorizationServerMetadata *openid4vc.AuthorizationServerMetadata `json:"authorization_server_metadata,omitempty"`

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
	v.LastSequence = env.Sequence

	switch event := event.(type) {
	case *ServerMetadataInitialized:
		issuer := event.CredentialIssuerMetadata
		authServer := event.AuthorizationServerMetadata
		if issuer.CredentialConfigurationsSupported == nil {
			issuer.CredentialConfigurationsSupported = map[string]openid4vc.CredentialConfiguration{}
		}
		v.CredentialIssuerMetadata = &issuer
		v.AuthorizationServerMetadata = &authServer
	case *CredentialConfigurationAdded:
		if v.CredentialIssuerMetadata == nil {
			return nil
		}
		v.CredentialIssuerMetadata.CredentialConfigurationsSupported[event.CredentialConfigurationID] = event.Configuration
	}
	return nil
}

package servermetadata

import (
	"encoding/json"
	"fmt"

	"github.com/impierce/ssi-agent-sub000/internal/openid4vc"
)

const (
	EventTypeServerMetadataInitialized    = "ServerMetadataInitialized"
	EventTypeCredentialConfigurationAdded = "CredentialConfigurationAdded"
)

// Event is the closed set of server metadata events.
type Event interface {
	EventType() string
	EventVersion() string
	isServerMetadataEvent()
}

type ServerMetadataInitialized struct {
	CredentialIssuerMetadata    openid4vc.CredentialIssuerMetadata    `json:"credential_issuer_metadata"`
	AuthorizationServerMetadata openid4vc.AuthorizationServerMetadata `json:"authorization_server_metadata"`
}

type CredentialConfigurationAdded struct {
	CredentialConfigurationID string                            `json:"credential_configuration_id"`
	Configuration             openid4vc.CredentialConfiguration `json:"configuration"`
}

func (ServerMetadataInitialized) EventType() string    { return EventTypeServerMetadataInitialized }
func (CredentialConfigurationAdded) EventType() string { return EventTypeCredentialConfigurationAdded }

func (ServerMetadataInitialized) EventVersion() string    { return "1" }
func (CredentialConfigurationAdded) EventVersion() string { return "1" }

func (ServerMetadataInitialized) isServerMetadataEvent()    {}
func (CredentialConfigurationAdded) isServerMetadataEvent() {}

// UnmarshalEvent decodes a persisted payload back into a typed event.
func UnmarshalEvent(eventType string, payload []byte) (Event, error) {
	var event Event
	switch eventType {
	case EventTypeServerMetadataInitialized:
		event = &ServerMetadataInitialized{}
	case EventTypeCredentialConfigurationAdded:
		event = &CredentialConfigurationAdded{}
	default:
		return nil, fmt.Errorf("unknown server metadata event type %q", eventType)
	}
	if err := json.Unmarshal(payload, event); err != nil {
		return nil, err
	}
	return event, nil
}

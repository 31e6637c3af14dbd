package servermetadata

import (
	"context"
	"fmt"

	"github.com/impierce/ssi-agent-sub000/internal/openid4vc"
	dErrors "github.com/impierce/ssi-agent-sub000/pkg/domain-errors"
)

const AggregateType = "server_metadata"

var (
	ErrAlreadyInitialized = dErrors.New(dErrors.CodeConflict, "server metadata is already initialized")
	ErrNotInitialized     = dErrors.New(dErrors.CodeInvalidState, "server metadata is not initialized")
)

// Command is the closed set of server metadata commands.
type Command interface {
	CommandType() string
	isServerMetadataCommand()
}

// InitializeServerMetadata publishes the issuer and authorization server
// metadata documents. Updates are append-only: metadata is initialized once
// and extended by adding credential configurations.
type InitializeServerMetadata struct {
	CredentialIssuerMetadata    openid4vc.CredentialIssuerMetadata
	AuthorizationServerMetadata openid4vc.AuthorizationServerMetadata
}

// AddCredentialConfiguration registers one supported credential
// configuration, e.g. "badge".
type AddCredentialConfiguration struct {
	CredentialConfigurationID string
	Configuration             openid4vc.CredentialConfiguration
}

func (InitializeServerMetadata) CommandType() string   { return "InitializeServerMetadata" }
func (AddCredentialConfiguration) CommandType() string { return "AddCredentialConfiguration" }

func (InitializeServerMetadata) isServerMetadataCommand()   {}
func (AddCredentialConfiguration) isServerMetadataCommand() {}

// ServerMetadata holds what this issuer advertises to wallets.
type ServerMetadata struct {
	initialized bool
}

func New() *ServerMetadata { return &ServerMetadata{} }

func (*ServerMetadata) AggregateType() string { return AggregateType }

func (m *ServerMetadata) Handle(ctx context.Context, cmd Command) ([]Event, error) {
	switch cmd := cmd.(type) {
	case InitializeServerMetadata:
		if m.initialized {
			return nil, ErrAlreadyInitialized
		}
		return []Event{&ServerMetadataInitialized{
			CredentialIssuerMetadata:    cmd.CredentialIssuerMetadata,
			AuthorizationServerMetadata: cmd.AuthorizationServerMetadata,
		}}, nil

	case AddCredentialConfiguration:
		if !m.initialized {
			return nil, ErrNotInitialized
		}
		return []Event{&CredentialConfigurationAdded{
			CredentialConfigurationID: cmd.CredentialConfigurationID,
			Configuration:             cmd.Configuration,
		}}, nil

	default:
		return nil, fmt.Errorf("unhandled server metadata command %T", cmd)
	}
}

func (m *ServerMetadata) Apply(event Event) error {
	switch event.(type) {
	case *ServerMetadataInitialized:
		m.initialized = true
	case *CredentialConfigurationAdded:
	default:
		return fmt.Errorf("unhandled server metadata event %T", event)
	}
	return nil
}

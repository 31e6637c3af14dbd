package servermetadata

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	es "github.com/impierce/ssi-agent-sub000/internal/eventsourcing"
	"github.com/impierce/ssi-agent-sub000/internal/openid4vc"
)

func initCommand() InitializeServerMetadata {
	return InitializeServerMetadata{
		CredentialIssuerMetadata: openid4vc.CredentialIssuerMetadata{
			CredentialIssuer:                  "https://issuer.example.com",
			CredentialEndpoint:                "https://issuer.example.com/openid4vci/credential",
			CredentialConfigurationsSupported: map[string]openid4vc.CredentialConfiguration{},
		},
		AuthorizationServerMetadata: openid4vc.AuthorizationServerMetadata{
			Issuer:        "https://issuer.example.com",
			TokenEndpoint: "https://issuer.example.com/auth/token",
		},
	}
}

func handleAndApply(t *testing.T, m *ServerMetadata, cmd Command) []Event {
	t.Helper()
	events, err := m.Handle(context.Background(), cmd)
	require.NoError(t, err)
	for _, event := range events {
		require.NoError(t, m.Apply(event))
	}
	return events
}

func Test_InitializeServerMetadata(t *testing.T) {
	m := New()
	events := handleAndApply(t, m, initCommand())

	require.Len(t, events, 1)
	initialized := events[0].(*ServerMetadataInitialized)
	assert.Equal(t, "https://issuer.example.com", initialized.CredentialIssuerMetadata.CredentialIssuer)
	assert.Equal(t, "https://issuer.example.com/auth/token", initialized.AuthorizationServerMetadata.TokenEndpoint)
}

func Test_InitializeServerMetadata_Once(t *testing.T) {
	m := New()
	handleAndApply(t, m, initCommand())

	_, err := m.Handle(context.Background(), initCommand())
	require.ErrorIs(t, err, ErrAlreadyInitialized)
}

func Test_AddCredentialConfiguration_RequiresInitialization(t *testing.T) {
	m := New()
	_, err := m.Handle(context.Background(), AddCredentialConfiguration{
		CredentialConfigurationID: "badge",
	})
	require.ErrorIs(t, err, ErrNotInitialized)
}

func Test_View_AccumulatesConfigurations(t *testing.T) {
	m := New()
	view := NewView()
	sequence := 0
	project := func(events []Event) {
		for _, event := range events {
			sequence++
			env, err := es.NewEnvelope(AggregateType, "server_metadata", sequence, event, nil, time.Now().UTC())
			require.NoError(t, err)
			require.NoError(t, view.Update(env))
		}
	}

	project(handleAndApply(t, m, initCommand()))
	project(handleAndApply(t, m, AddCredentialConfiguration{
		CredentialConfigurationID: "badge",
		Configuration: openid4vc.CredentialConfiguration{
			Format: openid4vc.FormatJWTVCJSON,
			CredentialDefinition: openid4vc.CredentialDefinition{
				Type: []string{"VerifiableCredential", "badge"},
			},
		},
	}))

	require.NotNil(t, view.CredentialIssuerMetadata)
	configuration, ok := view.CredentialIssuerMetadata.CredentialConfigurationsSupported["badge"]
	require.True(t, ok)
	assert.Equal(t, openid4vc.FormatJWTVCJSON, configuration.Format)
	assert.Equal(t, "https://issuer.example.com/auth/token", view.AuthorizationServerMetadata.TokenEndpoint)
}

package document

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/impierce/ssi-agent-sub000/internal/services/signer"
)

func testDocument(t *testing.T) *Document {
	t.Helper()
	subject, err := signer.New("test-secret", "https://agent.example.com")
	require.NoError(t, err)
	return New(Services{Signer: subject})
}

func handleAndApply(t *testing.T, d *Document, cmd Command) []Event {
	t.Helper()
	events, err := d.Handle(context.Background(), cmd)
	require.NoError(t, err)
	for _, event := range events {
		require.NoError(t, d.Apply(event))
	}
	return events
}

func Test_CreateDocument(t *testing.T) {
	d := testDocument(t)
	events := handleAndApply(t, d, CreateDocument{Method: signer.MethodDIDKey})

	require.Len(t, events, 1)
	created := events[0].(*DocumentCreated)
	assert.Equal(t, signer.MethodDIDKey, created.Method)
	assert.True(t, strings.HasPrefix(created.DID, "did:key:z"))
}

func Test_CreateDocument_OncePerMethod(t *testing.T) {
	d := testDocument(t)
	handleAndApply(t, d, CreateDocument{Method: signer.MethodDIDKey})

	_, err := d.Handle(context.Background(), CreateDocument{Method: signer.MethodDIDKey})
	require.ErrorIs(t, err, ErrDocumentAlreadyExists)
}

func Test_AddServiceEndpoint(t *testing.T) {
	d := testDocument(t)
	handleAndApply(t, d, CreateDocument{Method: signer.MethodDIDKey})

	service := ServiceEndpoint{
		ID:              "#linked-domain",
		Type:            "LinkedDomains",
		ServiceEndpoint: "https://agent.example.com",
	}
	events := handleAndApply(t, d, AddServiceEndpoint{Service: service})

	require.Len(t, events, 1)
	assert.Equal(t, service, events[0].(*ServiceEndpointAdded).Service)
}

func Test_AddServiceEndpoint_RequiresDocument(t *testing.T) {
	d := testDocument(t)
	_, err := d.Handle(context.Background(), AddServiceEndpoint{Service: ServiceEndpoint{
		ID:              "#linked-domain",
		Type:            "LinkedDomains",
		ServiceEndpoint: "https://agent.example.com",
	}})
	require.ErrorIs(t, err, ErrDocumentNotCreated)
}

func Test_AddServiceEndpoint_Validation(t *testing.T) {
	d := testDocument(t)
	handleAndApply(t, d, CreateDocument{Method: signer.MethodDIDKey})

	_, err := d.Handle(context.Background(), AddServiceEndpoint{Service: ServiceEndpoint{ID: "#incomplete"}})
	require.ErrorIs(t, err, ErrMissingServiceEndpoint)
}

func Test_AddServiceEndpoint_DuplicateID(t *testing.T) {
	d := testDocument(t)
	handleAndApply(t, d, CreateDocument{Method: signer.MethodDIDKey})

	service := ServiceEndpoint{
		ID:              "#linked-domain",
		Type:            "LinkedDomains",
		ServiceEndpoint: "https://agent.example.com",
	}
	handleAndApply(t, d, AddServiceEndpoint{Service: service})

	_, err := d.Handle(context.Background(), AddServiceEndpoint{Service: service})
	require.ErrorIs(t, err, ErrServiceAlreadyAdded)
}

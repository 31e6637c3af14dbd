package httptransport

import (
	es "github.com/impierce/ssi-agent-sub000/internal/eventsourcing"
	heldcredential "github.com/impierce/ssi-agent-sub000/internal/holder/credential"
	heldoffer "github.com/impierce/ssi-agent-sub000/internal/holder/offer"
	"github.com/impierce/ssi-agent-sub000/internal/identity/document"
	"github.com/impierce/ssi-agent-sub000/internal/identity/presentation"
	"github.com/impierce/ssi-agent-sub000/internal/identity/service"
	issuercredential "github.com/impierce/ssi-agent-sub000/internal/issuance/credential"
	issueroffer "github.com/impierce/ssi-agent-sub000/internal/issuance/offer"
	"github.com/impierce/ssi-agent-sub000/internal/issuance/servermetadata"
	"github.com/impierce/ssi-agent-sub000/internal/verification/authrequest"
	"github.com/impierce/ssi-agent-sub000/internal/verification/connection"
)

// ServerMetadataID is the singleton aggregate id holding this issuer's
// published metadata.
const ServerMetadataID = "server_metadata"

// Dispatcher aliases for the aggregate families the transport drives.
type (
	OffersDispatcher           = es.CommandHandler[issueroffer.Event, issueroffer.Command, *issueroffer.Offer]
	CredentialsDispatcher      = es.CommandHandler[issuercredential.Event, issuercredential.Command, *issuercredential.Credential]
	ServerMetadataDispatcher   = es.CommandHandler[servermetadata.Event, servermetadata.Command, *servermetadata.ServerMetadata]
	HeldOffersDispatcher       = es.CommandHandler[heldoffer.Event, heldoffer.Command, *heldoffer.Offer]
	HeldCredentialsDispatcher  = es.CommandHandler[heldcredential.Event, heldcredential.Command, *heldcredential.Credential]
	AuthRequestsDispatcher     = es.CommandHandler[authrequest.Event, authrequest.Command, *authrequest.AuthorizationRequest]
	ConnectionsDispatcher      = es.CommandHandler[connection.Event, connection.Command, *connection.Connection]
	DocumentsDispatcher        = es.CommandHandler[document.Event, document.Command, *document.Document]
	IdentityServicesDispatcher = es.CommandHandler[service.Event, service.Command, *service.Service]
	PresentationsDispatcher    = es.CommandHandler[presentation.Event, presentation.Command, *presentation.Presentation]
)

// App bundles the dispatchers and view repositories the HTTP boundary
// exposes. Everything here is wired once in main and shared by all handlers.
type App struct {
	Offers              *OffersDispatcher
	OfferViews          es.ViewRepository[*issueroffer.View]
	OffersByPreAuthCode es.ViewRepository[*issueroffer.View]
	OffersByAccessToken es.ViewRepository[*issueroffer.View]

	Credentials        *CredentialsDispatcher
	CredentialViews    es.ViewRepository[*issuercredential.View]
	CredentialsByOffer es.ViewRepository[*issuercredential.ByOfferView]

	ServerMetadata      *ServerMetadataDispatcher
	ServerMetadataViews es.ViewRepository[*servermetadata.View]

	HeldOffers     *HeldOffersDispatcher
	HeldOfferViews es.ViewRepository[*heldoffer.View]

	HeldCredentials        *HeldCredentialsDispatcher
	HeldCredentialViews    es.ViewRepository[*heldcredential.View]
	HeldCredentialsByOffer es.ViewRepository[*heldcredential.ByOfferView]

	AuthRequests        *AuthRequestsDispatcher
	AuthRequestViews    es.ViewRepository[*authrequest.View]
	AuthRequestsByState es.ViewRepository[*authrequest.View]

	Connections     *ConnectionsDispatcher
	ConnectionViews es.ViewRepository[*connection.View]

	Documents     *DocumentsDispatcher
	DocumentViews es.ViewRepository[*document.View]

	IdentityServices *IdentityServicesDispatcher
	ServiceViews     es.ViewRepository[*service.View]

	Presentations     *PresentationsDispatcher
	PresentationViews es.ViewRepository[*presentation.View]
}

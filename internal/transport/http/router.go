package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/impierce/ssi-agent-sub000/pkg/platform/middleware/metadata"
)

// Handler is the thin HTTP layer over the command and query boundary. It
// translates requests into commands and view loads without embedding domain
// logic.
type Handler struct {
	app    *App
	logger *slog.Logger
}

func NewHandler(app *App, logger *slog.Logger) *Handler {
	return &Handler{app: app, logger: logger}
}

// NewRouter mounts all endpoints. Management endpoints live under /v0; the
// wallet-facing protocol endpoints live at the paths the standards expect.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(metadata.ClientMetadata)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Wallet-facing issuance endpoints.
	r.Get("/.well-known/openid-credential-issuer", h.HandleIssuerMetadata)
	r.Get("/.well-known/oauth-authorization-server", h.HandleAuthServerMetadata)
	r.Post("/auth/token", h.HandleToken)
	r.Post("/openid4vci/credential", h.HandleCredentialRequest)

	// Wallet-facing verification endpoints.
	r.Get("/request/{requestID}", h.HandleRequestObject)
	r.Post("/redirect", h.HandleAuthorizationResponse)

	// Published presentations, referenced by linked-presentation services.
	r.Get("/holder/presentations/{presentationID}", h.HandlePublishedPresentation)

	r.Route("/v0", func(r chi.Router) {
		r.Post("/configurations", h.HandleAddCredentialConfiguration)

		r.Post("/offers", h.HandleCreateOffer)
		r.Get("/offers/{offerID}", h.HandleGetOffer)
		r.Post("/offers/{offerID}/credentials", h.HandleAddCredentials)
		r.Post("/offers/{offerID}/publish", h.HandlePublishOffer)

		r.Post("/credentials", h.HandleCreateCredential)
		r.Get("/credentials/{credentialID}", h.HandleGetCredential)
		r.Post("/credentials/{credentialID}/sign", h.HandleSignCredential)

		r.Route("/holder", func(r chi.Router) {
			r.Post("/offers", h.HandleReceiveOffer)
			r.Get("/offers/{offerID}", h.HandleGetHeldOffer)
			r.Post("/offers/{offerID}/accept", h.HandleAcceptOffer)
			r.Post("/offers/{offerID}/reject", h.HandleRejectOffer)
			r.Post("/offers/{offerID}/request", h.HandleSendCredentialRequest)
			r.Get("/offers/{offerID}/credentials", h.HandleGetHeldCredentialsByOffer)
			r.Get("/credentials/{credentialID}", h.HandleGetHeldCredential)
		})

		r.Post("/authorization_requests", h.HandleCreateAuthorizationRequest)
		r.Get("/authorization_requests/{requestID}", h.HandleGetAuthorizationRequest)
		r.Post("/authorization_requests/{requestID}/sign", h.HandleSignAuthorizationRequest)
		r.Get("/connections/{connectionID}", h.HandleGetConnection)

		r.Post("/documents", h.HandleCreateDocument)
		r.Get("/documents/{method}", h.HandleGetDocument)
		r.Post("/documents/{method}/services", h.HandleAddServiceEndpoint)

		r.Post("/services/domain-linkage", h.HandleCreateDomainLinkageService)
		r.Post("/services/linked-presentation", h.HandleCreateLinkedPresentationService)
		r.Get("/services/{serviceID}", h.HandleGetService)

		r.Post("/presentations", h.HandleCreatePresentation)
		r.Get("/presentations/{presentationID}", h.HandleGetPresentation)
		r.Post("/presentations/{presentationID}/sign", h.HandleSignPresentation)
	})

	return r
}

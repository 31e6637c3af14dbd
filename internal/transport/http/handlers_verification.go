package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/impierce/ssi-agent-sub000/internal/openid4vc"
	"github.com/impierce/ssi-agent-sub000/internal/verification/authrequest"
	"github.com/impierce/ssi-agent-sub000/internal/verification/connection"
	dErrors "github.com/impierce/ssi-agent-sub000/pkg/domain-errors"
	"github.com/impierce/ssi-agent-sub000/pkg/platform/httputil"
	"github.com/impierce/ssi-agent-sub000/pkg/platform/middleware/metadata"
)

type createAuthorizationRequestRequest struct {
	RequestID              string                            `json:"request_id"`
	Nonce                  string                            `json:"nonce"`
	PresentationDefinition *openid4vc.PresentationDefinition `json:"presentation_definition,omitempty"`
}

func (h *Handler) HandleCreateAuthorizationRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Decode[createAuthorizationRequestRequest](w, r)
	if !ok {
		return
	}
	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}

	err := h.app.AuthRequests.Execute(ctx, requestID, authrequest.CreateAuthorizationRequest{
		RequestID:              requestID,
		Nonce:                  req.Nonce,
		PresentationDefinition: req.PresentationDefinition,
	}, metadata.CommandMetadata(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "authorization request created", "request_id", requestID)
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{"request_id": requestID})
}

func (h *Handler) HandleGetAuthorizationRequest(w http.ResponseWriter, r *http.Request) {
	view, found, err := h.app.AuthRequestViews.Load(r.Context(), chi.URLParam(r, "requestID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !found {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "authorization request not found"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) HandleSignAuthorizationRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := chi.URLParam(r, "requestID")

	err := h.app.AuthRequests.Execute(ctx, requestID, authrequest.SignAuthorizationRequestObject{}, metadata.CommandMetadata(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	view, found, err := h.app.AuthRequestViews.Load(ctx, requestID)
	if err != nil || !found {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "load signed authorization request"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"signed_request_object": view.SignedRequestObject,
	})
}

// HandleRequestObject serves the signed request object from its reference
// URI, the way wallets resolve request_uri.
func (h *Handler) HandleRequestObject(w http.ResponseWriter, r *http.Request) {
	view, found, err := h.app.AuthRequestViews.Load(r.Context(), chi.URLParam(r, "requestID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !found || view.SignedRequestObject == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "no signed request object at this uri"))
		return
	}
	w.Header().Set("Content-Type", "application/jwt")
	_, _ = w.Write([]byte(view.SignedRequestObject))
}

// HandleAuthorizationResponse receives the wallet's direct_post response.
// The state value doubles as the connection id, so retries land on the same
// aggregate.
func (h *Handler) HandleAuthorizationResponse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed authorization response"))
		return
	}
	response := openid4vc.AuthorizationResponse{
		IDToken:  r.PostFormValue("id_token"),
		VPToken:  r.PostFormValue("vp_token"),
		State:    r.PostFormValue("state"),
		Response: r.PostFormValue("response"),
	}

	connectionID := response.State
	if connectionID == "" {
		httputil.WriteError(w, connection.ErrMissingState)
		return
	}

	err := h.app.Connections.Execute(ctx, connectionID, connection.VerifyAuthorizationResponse{
		Response: response,
	}, metadata.CommandMetadata(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "authorization response verified", "state", response.State)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleGetConnection(w http.ResponseWriter, r *http.Request) {
	view, found, err := h.app.ConnectionViews.Load(r.Context(), chi.URLParam(r, "connectionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !found {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "connection not found"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

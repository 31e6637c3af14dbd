package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	heldcredential "github.com/impierce/ssi-agent-sub000/internal/holder/credential"
	heldoffer "github.com/impierce/ssi-agent-sub000/internal/holder/offer"
	"github.com/impierce/ssi-agent-sub000/internal/openid4vc"
	dErrors "github.com/impierce/ssi-agent-sub000/pkg/domain-errors"
	"github.com/impierce/ssi-agent-sub000/pkg/platform/httputil"
	"github.com/impierce/ssi-agent-sub000/pkg/platform/middleware/metadata"
)

type receiveOfferRequest struct {
	OfferID  string                     `json:"offer_id"`
	OfferURI string                     `json:"offer_uri"`
	Offer    *openid4vc.CredentialOffer `json:"offer"`
}

func (h *Handler) HandleReceiveOffer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Decode[receiveOfferRequest](w, r)
	if !ok {
		return
	}
	offerID := req.OfferID
	if offerID == "" {
		offerID = uuid.NewString()
	}

	err := h.app.HeldOffers.Execute(ctx, offerID, heldoffer.ReceiveCredentialOffer{
		OfferURI: req.OfferURI,
		Offer:    req.Offer,
	}, metadata.CommandMetadata(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "credential offer received", "offer_id", offerID)
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{"offer_id": offerID})
}

func (h *Handler) HandleGetHeldOffer(w http.ResponseWriter, r *http.Request) {
	view, found, err := h.app.HeldOfferViews.Load(r.Context(), chi.URLParam(r, "offerID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !found {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "held offer not found"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) HandleAcceptOffer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	offerID := chi.URLParam(r, "offerID")

	err := h.app.HeldOffers.Execute(ctx, offerID, heldoffer.AcceptCredentialOffer{}, metadata.CommandMetadata(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleRejectOffer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	offerID := chi.URLParam(r, "offerID")

	err := h.app.HeldOffers.Execute(ctx, offerID, heldoffer.RejectCredentialOffer{}, metadata.CommandMetadata(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSendCredentialRequest requests the offered credential from the
// issuer, then stores what came back as held credentials.
func (h *Handler) HandleSendCredentialRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	offerID := chi.URLParam(r, "offerID")
	meta := metadata.CommandMetadata(ctx)

	err := h.app.HeldOffers.Execute(ctx, offerID, heldoffer.SendCredentialRequest{}, meta)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	view, found, err := h.app.HeldOfferViews.Load(ctx, offerID)
	if err != nil || !found {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "load held offer"))
		return
	}

	credentialIDs := make([]string, 0, len(view.Credentials))
	for _, credential := range view.Credentials {
		credentialID := uuid.NewString()
		err := h.app.HeldCredentials.Execute(ctx, credentialID, heldcredential.AddReceivedCredential{
			OfferID:          offerID,
			SignedCredential: credential,
		}, meta)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		credentialIDs = append(credentialIDs, credentialID)
	}

	h.logger.InfoContext(ctx, "credentials received",
		"offer_id", offerID,
		"count", len(credentialIDs),
	)
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"credential_ids": credentialIDs})
}

func (h *Handler) HandleGetHeldCredential(w http.ResponseWriter, r *http.Request) {
	view, found, err := h.app.HeldCredentialViews.Load(r.Context(), chi.URLParam(r, "credentialID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !found {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "held credential not found"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) HandleGetHeldCredentialsByOffer(w http.ResponseWriter, r *http.Request) {
	view, found, err := h.app.HeldCredentialsByOffer.Load(r.Context(), chi.URLParam(r, "offerID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !found {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "no credentials for this offer"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

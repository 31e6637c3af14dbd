package httptransport

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	issuercredential "github.com/impierce/ssi-agent-sub000/internal/issuance/credential"
	issueroffer "github.com/impierce/ssi-agent-sub000/internal/issuance/offer"
	"github.com/impierce/ssi-agent-sub000/internal/issuance/servermetadata"
	"github.com/impierce/ssi-agent-sub000/internal/openid4vc"
	dErrors "github.com/impierce/ssi-agent-sub000/pkg/domain-errors"
	"github.com/impierce/ssi-agent-sub000/pkg/platform/httputil"
	"github.com/impierce/ssi-agent-sub000/pkg/platform/middleware/metadata"
)

type addConfigurationRequest struct {
	CredentialConfigurationID string                            `json:"credential_configuration_id"`
	Configuration             openid4vc.CredentialConfiguration `json:"configuration"`
}

// HandleAddCredentialConfiguration registers a credential configuration on
// the issuer's published metadata.
func (h *Handler) HandleAddCredentialConfiguration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Decode[addConfigurationRequest](w, r)
	if !ok {
		return
	}
	if req.CredentialConfigurationID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "credential_configuration_id is required"))
		return
	}

	err := h.app.ServerMetadata.Execute(ctx, ServerMetadataID, servermetadata.AddCredentialConfiguration{
		CredentialConfigurationID: req.CredentialConfigurationID,
		Configuration:             req.Configuration,
	}, metadata.CommandMetadata(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{
		"credential_configuration_id": req.CredentialConfigurationID,
	})
}

type createOfferRequest struct {
	OfferID                   string `json:"offer_id"`
	CredentialConfigurationID string `json:"credential_configuration_id"`
	PreAuthorizedCode         string `json:"pre_authorized_code"`
}

func (h *Handler) HandleCreateOffer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Decode[createOfferRequest](w, r)
	if !ok {
		return
	}
	if req.CredentialConfigurationID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "credential_configuration_id is required"))
		return
	}
	offerID := req.OfferID
	if offerID == "" {
		offerID = uuid.NewString()
	}

	err := h.app.Offers.Execute(ctx, offerID, issueroffer.CreateCredentialOffer{
		CredentialConfigurationID: req.CredentialConfigurationID,
		PreAuthorizedCode:         req.PreAuthorizedCode,
	}, metadata.CommandMetadata(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "credential offer created", "offer_id", offerID)
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{"offer_id": offerID})
}

func (h *Handler) HandleGetOffer(w http.ResponseWriter, r *http.Request) {
	view, found, err := h.app.OfferViews.Load(r.Context(), chi.URLParam(r, "offerID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !found {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "offer not found"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

type addCredentialsRequest struct {
	CredentialIDs []string `json:"credential_ids"`
}

func (h *Handler) HandleAddCredentials(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	offerID := chi.URLParam(r, "offerID")
	req, ok := httputil.Decode[addCredentialsRequest](w, r)
	if !ok {
		return
	}

	err := h.app.Offers.Execute(ctx, offerID, issueroffer.AddCredentials{
		CredentialIDs: req.CredentialIDs,
	}, metadata.CommandMetadata(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandlePublishOffer renders the offer as a wallet deep link using the
// issuer's published metadata.
func (h *Handler) HandlePublishOffer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	offerID := chi.URLParam(r, "offerID")

	metadataView, found, err := h.app.ServerMetadataViews.Load(ctx, ServerMetadataID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !found {
		httputil.WriteError(w, dErrors.New(dErrors.CodeMissingMetadata, "server metadata is not initialized"))
		return
	}

	err = h.app.Offers.Execute(ctx, offerID, issueroffer.CreateFormURLEncodedCredentialOffer{
		CredentialIssuerMetadata: metadataView.CredentialIssuerMetadata,
	}, metadata.CommandMetadata(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	view, found, err := h.app.OfferViews.Load(ctx, offerID)
	if err != nil || !found {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "load published offer"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"form_url_encoded_credential_offer": view.FormURLEncodedCredentialOffer,
	})
}

type createCredentialRequest struct {
	CredentialID              string          `json:"credential_id"`
	OfferID                   string          `json:"offer_id"`
	CredentialConfigurationID string          `json:"credential_configuration_id"`
	CredentialSubject         json.RawMessage `json:"credential_subject"`
}

// HandleCreateCredential records an unsigned credential and attaches it to
// its offer via the by-offer index.
func (h *Handler) HandleCreateCredential(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Decode[createCredentialRequest](w, r)
	if !ok {
		return
	}
	credentialID := req.CredentialID
	if credentialID == "" {
		credentialID = uuid.NewString()
	}

	meta := metadata.CommandMetadata(ctx)
	err := h.app.Credentials.Execute(ctx, credentialID, issuercredential.CreateUnsignedCredential{
		OfferID:                   req.OfferID,
		CredentialConfigurationID: req.CredentialConfigurationID,
		Subject:                   req.CredentialSubject,
	}, meta)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if req.OfferID != "" {
		byOffer, found, err := h.app.CredentialsByOffer.Load(ctx, req.OfferID)
		if err == nil && found {
			err = h.app.Offers.Execute(ctx, req.OfferID, issueroffer.AddCredentials{
				CredentialIDs: byOffer.CredentialIDs,
			}, meta)
		}
		if err != nil {
			h.logger.ErrorContext(ctx, "attach credential to offer failed",
				"offer_id", req.OfferID,
				"credential_id", credentialID,
				"error", err,
			)
			httputil.WriteError(w, err)
			return
		}
	}

	h.logger.InfoContext(ctx, "unsigned credential created",
		"credential_id", credentialID,
		"offer_id", req.OfferID,
	)
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{"credential_id": credentialID})
}

func (h *Handler) HandleGetCredential(w http.ResponseWriter, r *http.Request) {
	view, found, err := h.app.CredentialViews.Load(r.Context(), chi.URLParam(r, "credentialID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !found {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "credential not found"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

type signCredentialRequest struct {
	SubjectID string `json:"subject_id"`
	Format    string `json:"format"`
}

func (h *Handler) HandleSignCredential(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	credentialID := chi.URLParam(r, "credentialID")
	req, ok := httputil.Decode[signCredentialRequest](w, r)
	if !ok {
		return
	}

	err := h.app.Credentials.Execute(ctx, credentialID, issuercredential.SignCredential{
		SubjectID: req.SubjectID,
		Format:    req.Format,
	}, metadata.CommandMetadata(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	view, found, err := h.app.CredentialViews.Load(ctx, credentialID)
	if err != nil || !found {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "load signed credential"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

package httptransport

import (
	"net/http"
	"strings"

	issuercredential "github.com/impierce/ssi-agent-sub000/internal/issuance/credential"
	issueroffer "github.com/impierce/ssi-agent-sub000/internal/issuance/offer"
	"github.com/impierce/ssi-agent-sub000/internal/openid4vc"
	dErrors "github.com/impierce/ssi-agent-sub000/pkg/domain-errors"
	"github.com/impierce/ssi-agent-sub000/pkg/platform/httputil"
	"github.com/impierce/ssi-agent-sub000/pkg/platform/middleware/metadata"
)

// HandleIssuerMetadata serves the credential issuer metadata document.
func (h *Handler) HandleIssuerMetadata(w http.ResponseWriter, r *http.Request) {
	view, found, err := h.app.ServerMetadataViews.Load(r.Context(), ServerMetadataID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !found || view.CredentialIssuerMetadata == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "issuer metadata is not initialized"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view.CredentialIssuerMetadata)
}

// HandleAuthServerMetadata serves the OAuth authorization server metadata.
func (h *Handler) HandleAuthServerMetadata(w http.ResponseWriter, r *http.Request) {
	view, found, err := h.app.ServerMetadataViews.Load(r.Context(), ServerMetadataID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !found || view.AuthorizationServerMetadata == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "authorization server metadata is not initialized"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view.AuthorizationServerMetadata)
}

// HandleToken is the token endpoint of the pre-authorized code flow. The
// wallet's code resolves to its offer through the pre-authorized-code index.
func (h *Handler) HandleToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	request := openid4vc.TokenRequest{
		GrantType:         r.FormValue("grant_type"),
		PreAuthorizedCode: r.FormValue("pre-authorized_code"),
	}
	if request.PreAuthorizedCode == "" {
		// Wallets may also post the exchange as JSON.
		if req, ok := httputil.Decode[openid4vc.TokenRequest](w, r); ok {
			request = req
		} else {
			return
		}
	}
	if request.GrantType != openid4vc.GrantTypePreAuthorizedCode {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "unsupported grant_type"))
		return
	}

	indexed, found, err := h.app.OffersByPreAuthCode.Load(ctx, request.PreAuthorizedCode)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !found {
		httputil.WriteError(w, issueroffer.ErrInvalidPreAuthorizedCode)
		return
	}

	err = h.app.Offers.Execute(ctx, indexed.OfferID, issueroffer.CreateTokenResponse{
		TokenRequest: request,
	}, metadata.CommandMetadata(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	view, found, err := h.app.OfferViews.Load(ctx, indexed.OfferID)
	if err != nil || !found || view.TokenResponse == nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "load token response"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view.TokenResponse)
}

// HandleCredentialRequest is the credential endpoint. It verifies the
// wallet's proof of possession, signs the offer's credentials for the proven
// subject, and finalizes the offer with the credential response.
func (h *Handler) HandleCredentialRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token == "" || token == r.Header.Get("Authorization") {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidAccessToken, "a bearer token is required"))
		return
	}

	indexed, found, err := h.app.OffersByAccessToken.Load(ctx, token)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !found {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidAccessToken, "unknown access token"))
		return
	}
	offerID := indexed.OfferID

	request, ok := httputil.Decode[openid4vc.CredentialRequest](w, r)
	if !ok {
		return
	}

	meta := metadata.CommandMetadata(ctx)
	err = h.app.Offers.Execute(ctx, offerID, issueroffer.VerifyCredentialRequest{
		CredentialRequest: request,
	}, meta)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	offerView, found, err := h.app.OfferViews.Load(ctx, offerID)
	if err != nil || !found {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "load verified offer"))
		return
	}

	signed, err := h.signOfferCredentials(r, offerID, offerView.SubjectID, request.Format)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	err = h.app.Offers.Execute(ctx, offerID, issueroffer.CreateCredentialResponse{
		SignedCredentials: signed,
	}, meta)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	offerView, found, err = h.app.OfferViews.Load(ctx, offerID)
	if err != nil || !found || offerView.CredentialResponse == nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "load credential response"))
		return
	}

	h.logger.InfoContext(ctx, "credential issued",
		"offer_id", offerID,
		"subject_id", offerView.SubjectID,
	)
	httputil.WriteJSON(w, http.StatusOK, offerView.CredentialResponse)
}

// signOfferCredentials signs every credential attached to the offer for the
// proven subject and returns the signed JWTs in attachment order.
func (h *Handler) signOfferCredentials(r *http.Request, offerID, subjectID, format string) ([]string, error) {
	ctx := r.Context()
	byOffer, found, err := h.app.CredentialsByOffer.Load(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if !found || len(byOffer.CredentialIDs) == 0 {
		return nil, issueroffer.ErrMissingSignedCredentials
	}

	meta := metadata.CommandMetadata(ctx)
	signed := make([]string, 0, len(byOffer.CredentialIDs))
	for _, credentialID := range byOffer.CredentialIDs {
		err := h.app.Credentials.Execute(ctx, credentialID, issuercredential.SignCredential{
			SubjectID: subjectID,
			Format:    format,
		}, meta)
		if err != nil {
			return nil, err
		}
		view, found, err := h.app.CredentialViews.Load(ctx, credentialID)
		if err != nil || !found || view.SignedCredential == "" {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load signed credential")
		}
		signed = append(signed, view.SignedCredential)
	}
	return signed, nil
}

package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/impierce/ssi-agent-sub000/internal/identity/document"
	"github.com/impierce/ssi-agent-sub000/internal/identity/presentation"
	"github.com/impierce/ssi-agent-sub000/internal/identity/service"
	dErrors "github.com/impierce/ssi-agent-sub000/pkg/domain-errors"
	"github.com/impierce/ssi-agent-sub000/pkg/platform/httputil"
	"github.com/impierce/ssi-agent-sub000/pkg/platform/middleware/metadata"
)

type createDocumentRequest struct {
	Method string `json:"method"`
}

// HandleCreateDocument creates the agent's document for one did method. The
// method doubles as the aggregate id, which makes creation once-per-method.
func (h *Handler) HandleCreateDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Decode[createDocumentRequest](w, r)
	if !ok {
		return
	}
	if req.Method == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "method is required"))
		return
	}

	err := h.app.Documents.Execute(ctx, req.Method, document.CreateDocument{
		Method: req.Method,
	}, metadata.CommandMetadata(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{"method": req.Method})
}

func (h *Handler) HandleGetDocument(w http.ResponseWriter, r *http.Request) {
	view, found, err := h.app.DocumentViews.Load(r.Context(), chi.URLParam(r, "method"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !found {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "document not found"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) HandleAddServiceEndpoint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	method := chi.URLParam(r, "method")
	req, ok := httputil.Decode[document.ServiceEndpoint](w, r)
	if !ok {
		return
	}

	err := h.app.Documents.Execute(ctx, method, document.AddServiceEndpoint{
		Service: req,
	}, metadata.CommandMetadata(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createServiceRequest struct {
	ServiceID      string `json:"service_id"`
	PresentationID string `json:"presentation_id"`
}

func (h *Handler) HandleCreateDomainLinkageService(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Decode[createServiceRequest](w, r)
	if !ok {
		return
	}
	serviceID := req.ServiceID
	if serviceID == "" {
		serviceID = uuid.NewString()
	}

	err := h.app.IdentityServices.Execute(ctx, serviceID, service.CreateDomainLinkageService{
		ServiceID: serviceID,
	}, metadata.CommandMetadata(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{"service_id": serviceID})
}

func (h *Handler) HandleCreateLinkedPresentationService(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Decode[createServiceRequest](w, r)
	if !ok {
		return
	}
	serviceID := req.ServiceID
	if serviceID == "" {
		serviceID = uuid.NewString()
	}

	err := h.app.IdentityServices.Execute(ctx, serviceID, service.CreateLinkedVerifiablePresentationService{
		ServiceID:      serviceID,
		PresentationID: req.PresentationID,
	}, metadata.CommandMetadata(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{"service_id": serviceID})
}

func (h *Handler) HandleGetService(w http.ResponseWriter, r *http.Request) {
	view, found, err := h.app.ServiceViews.Load(r.Context(), chi.URLParam(r, "serviceID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !found {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "service not found"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

type createPresentationRequest struct {
	PresentationID    string   `json:"presentation_id"`
	SignedCredentials []string `json:"signed_credentials"`
}

func (h *Handler) HandleCreatePresentation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Decode[createPresentationRequest](w, r)
	if !ok {
		return
	}
	presentationID := req.PresentationID
	if presentationID == "" {
		presentationID = uuid.NewString()
	}

	err := h.app.Presentations.Execute(ctx, presentationID, presentation.CreatePresentation{
		SignedCredentials: req.SignedCredentials,
	}, metadata.CommandMetadata(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{"presentation_id": presentationID})
}

func (h *Handler) HandleGetPresentation(w http.ResponseWriter, r *http.Request) {
	view, found, err := h.app.PresentationViews.Load(r.Context(), chi.URLParam(r, "presentationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !found {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "presentation not found"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) HandleSignPresentation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	presentationID := chi.URLParam(r, "presentationID")

	err := h.app.Presentations.Execute(ctx, presentationID, presentation.SignPresentation{}, metadata.CommandMetadata(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	view, found, err := h.app.PresentationViews.Load(ctx, presentationID)
	if err != nil || !found {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "load signed presentation"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

// HandlePublishedPresentation serves a signed presentation from the public
// path linked-presentation services point at.
func (h *Handler) HandlePublishedPresentation(w http.ResponseWriter, r *http.Request) {
	view, found, err := h.app.PresentationViews.Load(r.Context(), chi.URLParam(r, "presentationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !found || view.SignedPresentation == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "no signed presentation at this uri"))
		return
	}
	w.Header().Set("Content-Type", "application/jwt")
	_, _ = w.Write([]byte(view.SignedPresentation))
}

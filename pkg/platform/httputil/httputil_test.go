package httputil

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "github.com/impierce/ssi-agent-sub000/pkg/domain-errors"
)

func Test_WriteError_DomainError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, dErrors.New(dErrors.CodeNotFound, "no such offer"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"not_found","error_description":"no such offer"}`, rec.Body.String())
}

func Test_WriteError_InternalOmitsDescription(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal_error"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func Test_WriteError_WrappedDomainError(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped := dErrors.Wrap(errors.New("token expired"), dErrors.CodeInvalidAccessToken, "access token rejected")
	WriteError(rec, wrapped)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "access token rejected")
}

func Test_WriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]string{"offer_id": "offer-1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"offer_id":"offer-1"}`, rec.Body.String())
}

func Test_WriteJSON_NilBody(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusNoContent, nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func Test_Decode(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"offer_id":"offer-1"}`))
	rec := httptest.NewRecorder()

	body, ok := Decode[struct {
		OfferID string `json:"offer_id"`
	}](rec, req)
	require.True(t, ok)
	assert.Equal(t, "offer-1", body.OfferID)
}

func Test_Decode_MalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()

	_, ok := Decode[map[string]string](rec, req)
	require.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "bad_request")
}

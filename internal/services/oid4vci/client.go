package oid4vci

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/impierce/ssi-agent-sub000/internal/openid4vc"
	dErrors "github.com/impierce/ssi-agent-sub000/pkg/domain-errors"
)

// Client performs the holder-side protocol calls against a remote issuer.
// Aggregates consume it through this interface so tests can substitute a mock.
type Client interface {
	GetOfferByReference(ctx context.Context, uri string) (openid4vc.CredentialOffer, error)
	GetIssuerMetadata(ctx context.Context, issuerURL string) (openid4vc.CredentialIssuerMetadata, error)
	GetAuthServerMetadata(ctx context.Context, issuerURL string) (openid4vc.AuthorizationServerMetadata, error)
	GetToken(ctx context.Context, endpoint string, req openid4vc.TokenRequest) (openid4vc.TokenResponse, error)
	GetCredential(ctx context.Context, metadata openid4vc.CredentialIssuerMetadata, token openid4vc.TokenResponse, req openid4vc.CredentialRequest) (openid4vc.CredentialResponse, error)
}

// Well-known paths of the two metadata documents.
const (
	issuerMetadataPath     = "/.well-known/openid-credential-issuer"
	authServerMetadataPath = "/.well-known/oauth-authorization-server"
)

// HTTPClient is the production Client backed by net/http.
type HTTPClient struct {
	http *http.Client
}

func NewHTTPClient() *HTTPClient {
	return &HTTPClient{
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *HTTPClient) GetOfferByReference(ctx context.Context, uri string) (openid4vc.CredentialOffer, error) {
	var offer openid4vc.CredentialOffer
	if err := c.getJSON(ctx, uri, &offer); err != nil {
		return offer, dErrors.Wrap(err, dErrors.CodeInternal, "fetch credential offer by reference")
	}
	return offer, nil
}

func (c *HTTPClient) GetIssuerMetadata(ctx context.Context, issuerURL string) (openid4vc.CredentialIssuerMetadata, error) {
	var metadata openid4vc.CredentialIssuerMetadata
	if err := c.getJSON(ctx, strings.TrimSuffix(issuerURL, "/")+issuerMetadataPath, &metadata); err != nil {
		return metadata, dErrors.Wrap(err, dErrors.CodeMissingMetadata, "fetch credential issuer metadata")
	}
	return metadata, nil
}

func (c *HTTPClient) GetAuthServerMetadata(ctx context.Context, issuerURL string) (openid4vc.AuthorizationServerMetadata, error) {
	var metadata openid4vc.AuthorizationServerMetadata
	if err := c.getJSON(ctx, strings.TrimSuffix(issuerURL, "/")+authServerMetadataPath, &metadata); err != nil {
		return metadata, dErrors.Wrap(err, dErrors.CodeMissingMetadata, "fetch authorization server metadata")
	}
	return metadata, nil
}

func (c *HTTPClient) GetToken(ctx context.Context, endpoint string, req openid4vc.TokenRequest) (openid4vc.TokenResponse, error) {
	var token openid4vc.TokenResponse
	if err := c.postJSON(ctx, endpoint, "", req, &token); err != nil {
		return token, dErrors.Wrap(err, dErrors.CodeInvalidPreAuthorizedCode, "token exchange failed")
	}
	return token, nil
}

func (c *HTTPClient) GetCredential(ctx context.Context, metadata openid4vc.CredentialIssuerMetadata, token openid4vc.TokenResponse, req openid4vc.CredentialRequest) (openid4vc.CredentialResponse, error) {
	var response openid4vc.CredentialResponse
	if err := c.postJSON(ctx, metadata.CredentialEndpoint, token.AccessToken, req, &response); err != nil {
		return response, dErrors.Wrap(err, dErrors.CodeInternal, "credential request failed")
	}
	return response, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *HTTPClient) postJSON(ctx context.Context, url, bearer string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return c.do(req, out)
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck // response body
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: unexpected status %d", req.Method, req.URL, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

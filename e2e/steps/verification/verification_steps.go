package verification

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext is the slice of the scenario context these steps need.
type TestContext interface {
	POST(path string, body any) error
	PostForm(path string, form map[string]string) error
	GET(path string, headers map[string]string) error
	ResponseStatus() int
	ResponseBody() string
	GetResponseField(field string) (any, error)
	Save(key, value string)
	Saved(key string) (string, error)
	WalletDID() string
	SignWalletJWT(claims map[string]any) (string, error)
	DecodeJWTPayload(token string) (map[string]any, error)
}

// RegisterSteps registers the verifier-side authorization request and wallet
// response steps.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &verificationSteps{tc: tc}

	ctx.Step(`^a signed authorization request with nonce "([^"]*)"$`, steps.createSignedRequest)
	ctx.Step(`^a signed authorization request with nonce "([^"]*)" requiring "([^"]*)"$`, steps.createSignedPresentationRequest)
	ctx.Step(`^my wallet resolves the request object$`, steps.resolveRequestObject)
	ctx.Step(`^my wallet posts a signed id token$`, steps.postIDToken)
	ctx.Step(`^my wallet posts an id token bound to nonce "([^"]*)"$`, steps.postIDTokenWithNonce)
	ctx.Step(`^my wallet posts a presentation with "([^"]*)" set to "([^"]*)"$`, steps.postPresentation)
	ctx.Step(`^the connection should be verified as "([^"]*)"$`, steps.connectionVerifiedAs)
}

type verificationSteps struct {
	tc TestContext
}

func (s *verificationSteps) createSignedRequest(ctx context.Context, nonce string) error {
	return s.createAndSign(map[string]any{"nonce": nonce})
}

func (s *verificationSteps) createSignedPresentationRequest(ctx context.Context, nonce, field string) error {
	return s.createAndSign(map[string]any{
		"nonce": nonce,
		"presentation_definition": map[string]any{
			"id": "pd-" + field,
			"input_descriptors": []map[string]any{{
				"id": "descriptor-" + field,
				"constraints": map[string]any{
					"fields": []map[string]any{{
						"path": []string{"$.vc.credentialSubject." + field},
					}},
				},
			}},
		},
	})
}

func (s *verificationSteps) createAndSign(body map[string]any) error {
	if err := s.tc.POST("/v0/authorization_requests", body); err != nil {
		return err
	}
	if s.tc.ResponseStatus() != 201 {
		return fmt.Errorf("create authorization request returned %d: %s", s.tc.ResponseStatus(), s.tc.ResponseBody())
	}
	requestID, err := s.tc.GetResponseField("request_id")
	if err != nil {
		return err
	}
	s.tc.Save("request_id", requestID.(string))

	if err := s.tc.POST("/v0/authorization_requests/"+requestID.(string)+"/sign", map[string]any{}); err != nil {
		return err
	}
	if s.tc.ResponseStatus() != 200 {
		return fmt.Errorf("sign authorization request returned %d: %s", s.tc.ResponseStatus(), s.tc.ResponseBody())
	}
	return nil
}

// resolveRequestObject plays the wallet: it fetches the signed request object
// from its reference URI and records the client_id, nonce and state the
// response must echo.
func (s *verificationSteps) resolveRequestObject(ctx context.Context) error {
	requestID, err := s.tc.Saved("request_id")
	if err != nil {
		return err
	}
	if err := s.tc.GET("/request/"+requestID, nil); err != nil {
		return err
	}
	if s.tc.ResponseStatus() != 200 {
		return fmt.Errorf("request object uri returned %d: %s", s.tc.ResponseStatus(), s.tc.ResponseBody())
	}

	claims, err := s.tc.DecodeJWTPayload(s.tc.ResponseBody())
	if err != nil {
		return err
	}
	for _, field := range []string{"client_id", "nonce", "state"} {
		value, ok := claims[field].(string)
		if !ok || value == "" {
			return fmt.Errorf("request object is missing %q: %v", field, claims)
		}
		s.tc.Save("request_"+field, value)
	}
	return nil
}

func (s *verificationSteps) postIDToken(ctx context.Context) error {
	nonce, err := s.tc.Saved("request_nonce")
	if err != nil {
		return err
	}
	return s.postIDTokenWithNonce(ctx, nonce)
}

func (s *verificationSteps) postIDTokenWithNonce(ctx context.Context, nonce string) error {
	clientID, err := s.tc.Saved("request_client_id")
	if err != nil {
		return err
	}
	state, err := s.tc.Saved("request_state")
	if err != nil {
		return err
	}

	idToken, err := s.tc.SignWalletJWT(map[string]any{
		"iss":   s.tc.WalletDID(),
		"sub":   s.tc.WalletDID(),
		"aud":   clientID,
		"nonce": nonce,
	})
	if err != nil {
		return err
	}
	return s.tc.PostForm("/redirect", map[string]string{
		"id_token": idToken,
		"state":    state,
	})
}

func (s *verificationSteps) postPresentation(ctx context.Context, field, value string) error {
	clientID, err := s.tc.Saved("request_client_id")
	if err != nil {
		return err
	}
	nonce, err := s.tc.Saved("request_nonce")
	if err != nil {
		return err
	}
	state, err := s.tc.Saved("request_state")
	if err != nil {
		return err
	}

	// A wallet-signed credential is enough here: the verifier checks the
	// presentation against the definition, not the credential issuer chain.
	credential, err := s.tc.SignWalletJWT(map[string]any{
		"iss": s.tc.WalletDID(),
		"sub": s.tc.WalletDID(),
		"vc": map[string]any{
			"credentialSubject": map[string]string{field: value},
		},
	})
	if err != nil {
		return err
	}

	vpToken, err := s.tc.SignWalletJWT(map[string]any{
		"iss":   s.tc.WalletDID(),
		"aud":   clientID,
		"nonce": nonce,
		"vp": map[string]any{
			"verifiableCredential": []string{credential},
		},
	})
	if err != nil {
		return err
	}
	return s.tc.PostForm("/redirect", map[string]string{
		"vp_token": vpToken,
		"state":    state,
	})
}

func (s *verificationSteps) connectionVerifiedAs(ctx context.Context, kind string) error {
	state, err := s.tc.Saved("request_state")
	if err != nil {
		return err
	}
	if err := s.tc.GET("/v0/connections/"+state, nil); err != nil {
		return err
	}
	if s.tc.ResponseStatus() != 200 {
		return fmt.Errorf("connection lookup returned %d: %s", s.tc.ResponseStatus(), s.tc.ResponseBody())
	}

	status, err := s.tc.GetResponseField("status")
	if err != nil {
		return err
	}
	if status != "verified" {
		return fmt.Errorf("connection status is %v, not verified", status)
	}
	got, err := s.tc.GetResponseField("kind")
	if err != nil {
		return err
	}
	if got != kind {
		return fmt.Errorf("connection kind is %v, expected %s", got, kind)
	}
	return nil
}

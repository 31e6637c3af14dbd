package issuance

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

const preAuthorizedCodeGrant = "urn:ietf:params:oauth:grant-type:pre-authorized_code"

// TestContext is the slice of the scenario context these steps need.
type TestContext interface {
	BaseURL() string
	POST(path string, body any) error
	PostForm(path string, form map[string]string) error
	GET(path string, headers map[string]string) error
	ResponseStatus() int
	ResponseBody() string
	GetResponseField(field string) (any, error)
	Save(key, value string)
	Saved(key string) (string, error)
	SetAccessToken(token string)
	WalletDID() string
	SignWalletJWT(claims map[string]any) (string, error)
	DecodeJWTPayload(token string) (map[string]any, error)
}

// RegisterSteps registers the issuer-side pre-authorized code flow steps.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &issuanceSteps{tc: tc}

	ctx.Step(`^a credential configuration "([^"]*)" is registered$`, steps.registerConfiguration)
	ctx.Step(`^I create a credential offer for "([^"]*)"$`, steps.createOffer)
	ctx.Step(`^I supply credential data with "([^"]*)" set to "([^"]*)"$`, steps.supplyCredentialData)
	ctx.Step(`^I publish the offer$`, steps.publishOffer)
	ctx.Step(`^I exchange the offer's pre-authorized code for an access token$`, steps.exchangeCode)
	ctx.Step(`^I exchange the pre-authorized code "([^"]*)" for an access token$`, steps.exchangeLiteralCode)
	ctx.Step(`^I request the credential with a proof bound to the fresh nonce$`, steps.requestCredential)
	ctx.Step(`^I request the credential with a proof bound to nonce "([^"]*)"$`, steps.requestCredentialWithNonce)
	ctx.Step(`^the issued credential should be bound to my wallet did$`, steps.credentialBoundToWallet)
}

type issuanceSteps struct {
	tc TestContext
}

func (s *issuanceSteps) registerConfiguration(ctx context.Context, configurationID string) error {
	body := map[string]any{
		"credential_configuration_id": configurationID,
		"configuration": map[string]any{
			"format": "jwt_vc_json",
			"credential_definition": map[string]any{
				"type": []string{"VerifiableCredential", configurationID},
			},
		},
	}
	if err := s.tc.POST("/v0/configurations", body); err != nil {
		return err
	}
	if s.tc.ResponseStatus() != 201 {
		return fmt.Errorf("register configuration returned %d: %s", s.tc.ResponseStatus(), s.tc.ResponseBody())
	}
	s.tc.Save("credential_configuration_id", configurationID)
	return nil
}

func (s *issuanceSteps) createOffer(ctx context.Context, configurationID string) error {
	if err := s.tc.POST("/v0/offers", map[string]any{
		"credential_configuration_id": configurationID,
	}); err != nil {
		return err
	}
	offerID, err := s.tc.GetResponseField("offer_id")
	if err != nil {
		return err
	}
	s.tc.Save("offer_id", offerID.(string))

	// The management view exposes the minted pre-authorized code.
	if err := s.tc.GET("/v0/offers/"+offerID.(string), nil); err != nil {
		return err
	}
	code, err := s.tc.GetResponseField("pre_authorized_code")
	if err != nil {
		return err
	}
	s.tc.Save("pre_authorized_code", code.(string))
	return nil
}

func (s *issuanceSteps) supplyCredentialData(ctx context.Context, field, value string) error {
	offerID, err := s.tc.Saved("offer_id")
	if err != nil {
		return err
	}
	configurationID, err := s.tc.Saved("credential_configuration_id")
	if err != nil {
		return err
	}
	return s.tc.POST("/v0/credentials", map[string]any{
		"offer_id":                    offerID,
		"credential_configuration_id": configurationID,
		"credential_subject":          map[string]string{field: value},
	})
}

func (s *issuanceSteps) publishOffer(ctx context.Context) error {
	offerID, err := s.tc.Saved("offer_id")
	if err != nil {
		return err
	}
	return s.tc.POST("/v0/offers/"+offerID+"/publish", map[string]any{})
}

func (s *issuanceSteps) exchangeCode(ctx context.Context) error {
	code, err := s.tc.Saved("pre_authorized_code")
	if err != nil {
		return err
	}
	return s.exchangeLiteralCode(ctx, code)
}

func (s *issuanceSteps) exchangeLiteralCode(ctx context.Context, code string) error {
	if err := s.tc.PostForm("/auth/token", map[string]string{
		"grant_type":          preAuthorizedCodeGrant,
		"pre-authorized_code": code,
	}); err != nil {
		return err
	}
	if s.tc.ResponseStatus() != 200 {
		return nil
	}

	accessToken, err := s.tc.GetResponseField("access_token")
	if err != nil {
		return err
	}
	cNonce, err := s.tc.GetResponseField("c_nonce")
	if err != nil {
		return err
	}
	s.tc.SetAccessToken(accessToken.(string))
	s.tc.Save("c_nonce", cNonce.(string))
	return nil
}

func (s *issuanceSteps) requestCredential(ctx context.Context) error {
	nonce, err := s.tc.Saved("c_nonce")
	if err != nil {
		return err
	}
	return s.requestCredentialWithNonce(ctx, nonce)
}

func (s *issuanceSteps) requestCredentialWithNonce(ctx context.Context, nonce string) error {
	proof, err := s.tc.SignWalletJWT(map[string]any{
		"iss":   s.tc.WalletDID(),
		"aud":   s.tc.BaseURL(),
		"nonce": nonce,
	})
	if err != nil {
		return err
	}

	if err := s.tc.POST("/openid4vci/credential", map[string]any{
		"format": "jwt_vc_json",
		"proof":  map[string]string{"proof_type": "jwt", "jwt": proof},
	}); err != nil {
		return err
	}
	if s.tc.ResponseStatus() != 200 {
		return nil
	}

	credential, err := s.tc.GetResponseField("credential")
	if err != nil {
		return err
	}
	s.tc.Save("credential", credential.(string))
	return nil
}

func (s *issuanceSteps) credentialBoundToWallet(ctx context.Context) error {
	credential, err := s.tc.Saved("credential")
	if err != nil {
		return err
	}
	claims, err := s.tc.DecodeJWTPayload(credential)
	if err != nil {
		return err
	}
	if claims["sub"] != s.tc.WalletDID() {
		return fmt.Errorf("credential subject is %v, not the wallet did %s", claims["sub"], s.tc.WalletDID())
	}
	return nil
}

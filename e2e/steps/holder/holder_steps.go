package holder

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
	ResponseStatus() int
	ResponseBody() string
	GetResponseField(field string) (any, error)
	Save(key, value string)
	Saved(key string) (string, error)
}

// RegisterSteps registers the holder-side offer lifecycle steps.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &holderSteps{tc: tc}

	ctx.Step(`^my wallet receives the published offer inline$`, steps.receiveOffer)
	ctx.Step(`^my wallet accepts the held offer$`, steps.acceptOffer)
	ctx.Step(`^my wallet rejects the held offer$`, steps.rejectOffer)
}

type holderSteps struct {
	tc TestContext
}

func (s *holderSteps) receiveOffer(ctx context.Context) error {
	configurationID, err := s.tc.Saved("credential_configuration_id")
	if err != nil {
		return err
	}
	code, err := s.tc.Saved("pre_authorized_code")
	if err != nil {
		return err
	}

	offer := map[string]any{
		"credential_issuer":            s.tc.BaseURL(),
		"credential_configuration_ids": []string{configurationID},
		"grants": map[string]any{
			preAuthorizedCodeGrant: map[string]string{"pre-authorized_code": code},
		},
	}
	if err := s.tc.POST("/v0/holder/offers", map[string]any{"offer": offer}); err != nil {
		return err
	}
	if s.tc.ResponseStatus() != 201 {
		return fmt.Errorf("receive offer returned %d: %s", s.tc.ResponseStatus(), s.tc.ResponseBody())
	}

	offerID, err := s.tc.GetResponseField("offer_id")
	if err != nil {
		return err
	}
	s.tc.Save("held_offer_id", offerID.(string))
	return nil
}

func (s *holderSteps) acceptOffer(ctx context.Context) error {
	offerID, err := s.tc.Saved("held_offer_id")
	if err != nil {
		return err
	}
	return s.tc.POST("/v0/holder/offers/"+offerID+"/accept", map[string]any{})
}

func (s *holderSteps) rejectOffer(ctx context.Context) error {
	offerID, err := s.tc.Saved("held_offer_id")
	if err != nil {
		return err
	}
	return s.tc.POST("/v0/holder/offers/"+offerID+"/reject", map[string]any{})
}

package common

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext is the slice of the scenario context these steps need.
type TestContext interface {
	GET(path string, headers map[string]string) error
	ResponseStatus() int
	ResponseBody() string
	GetResponseField(field string) (any, error)
}

// RegisterSteps registers the generic request and assertion steps shared by
// all features.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	ctx.Step(`^the agent is reachable$`, steps.agentIsReachable)
	ctx.Step(`^the response status should be (\d+)$`, steps.responseStatusShouldBe)
	ctx.Step(`^the response should contain "([^"]*)"$`, steps.responseShouldContain)
	ctx.Step(`^the response field "([^"]*)" should equal "([^"]*)"$`, steps.responseFieldShouldEqual)
	ctx.Step(`^the error should be "([^"]*)"$`, steps.errorShouldBe)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) agentIsReachable(ctx context.Context) error {
	if err := s.tc.GET("/healthz", nil); err != nil {
		return err
	}
	if s.tc.ResponseStatus() >= 300 {
		return fmt.Errorf("health check returned %d", s.tc.ResponseStatus())
	}
	return nil
}

func (s *commonSteps) responseStatusShouldBe(ctx context.Context, status int) error {
	if s.tc.ResponseStatus() != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, s.tc.ResponseStatus(), s.tc.ResponseBody())
	}
	return nil
}

func (s *commonSteps) responseShouldContain(ctx context.Context, field string) error {
	if _, err := s.tc.GetResponseField(field); err != nil {
		return err
	}
	return nil
}

func (s *commonSteps) responseFieldShouldEqual(ctx context.Context, field, expected string) error {
	value, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	if fmt.Sprintf("%v", value) != expected {
		return fmt.Errorf("expected %q to equal %q, got %v", field, expected, value)
	}
	return nil
}

func (s *commonSteps) errorShouldBe(ctx context.Context, code string) error {
	value, err := s.tc.GetResponseField("error")
	if err != nil {
		return err
	}
	if !strings.EqualFold(fmt.Sprintf("%v", value), code) {
		return fmt.Errorf("expected error %q, got %v: %s", code, value, s.tc.ResponseBody())
	}
	return nil
}

package common

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext is the slice of the scenario state these steps use.
type TestContext interface {
	GET(path string) error
	POSTRaw(path, body string) error
	GetResponseField(field string) (any, error)
	GetLastResponseStatus() int
	GetLastResponseHeader(name string) string
	GetLastResponseBody() []byte
}

// RegisterSteps registers request and response assertions shared by features.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	ctx.Step(`^the sunhex server is running$`, steps.serverIsRunning)
	ctx.Step(`^I GET "([^"]*)"$`, steps.get)
	ctx.Step(`^I POST raw body '([^']*)' to "([^"]*)"$`, steps.postRaw)

	ctx.Step(`^the response status should be (\d+)$`, steps.responseStatusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should equal "([^"]*)"$`, steps.responseFieldShouldEqual)
	ctx.Step(`^the response field "([^"]*)" should contain "([^"]*)"$`, steps.responseFieldShouldContain)
	ctx.Step(`^the response should not contain "([^"]*)"$`, steps.responseShouldNotContain)
	ctx.Step(`^the response header "([^"]*)" should be set$`, steps.responseHeaderShouldBeSet)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) serverIsRunning(context.Context) error {
	if err := s.tc.GET("/health/live"); err != nil {
		return err
	}
	if status := s.tc.GetLastResponseStatus(); status != 200 {
		return fmt.Errorf("liveness probe returned %d", status)
	}
	return nil
}

func (s *commonSteps) get(_ context.Context, path string) error {
	return s.tc.GET(path)
}

func (s *commonSteps) postRaw(_ context.Context, body, path string) error {
	return s.tc.POSTRaw(path, body)
}

func (s *commonSteps) responseStatusShouldBe(_ context.Context, want int) error {
	if got := s.tc.GetLastResponseStatus(); got != want {
		return fmt.Errorf("expected status %d but got %d\nResponse: %s", want, got, s.tc.GetLastResponseBody())
	}
	return nil
}

func (s *commonSteps) responseFieldShouldEqual(_ context.Context, field, want string) error {
	value, err := s.lookup(field)
	if err != nil {
		return err
	}
	if got := fmt.Sprint(value); got != want {
		return fmt.Errorf("field %s: expected %q but got %q", field, want, got)
	}
	return nil
}

func (s *commonSteps) responseFieldShouldContain(_ context.Context, field, want string) error {
	value, err := s.lookup(field)
	if err != nil {
		return err
	}
	if got := fmt.Sprint(value); !strings.Contains(got, want) {
		return fmt.Errorf("field %s: %q does not contain %q", field, got, want)
	}
	return nil
}

func (s *commonSteps) responseShouldNotContain(_ context.Context, field string) error {
	var data map[string]any
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &data); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	if _, ok := data[field]; ok {
		return fmt.Errorf("response unexpectedly contains %s", field)
	}
	return nil
}

func (s *commonSteps) responseHeaderShouldBeSet(_ context.Context, name string) error {
	if s.tc.GetLastResponseHeader(name) == "" {
		return fmt.Errorf("response header %s is missing", name)
	}
	return nil
}

// lookup resolves dotted paths such as "personalInfo.firstName".
func (s *commonSteps) lookup(path string) (any, error) {
	parts := strings.Split(path, ".")
	value, err := s.tc.GetResponseField(parts[0])
	if err != nil {
		return nil, err
	}
	for _, part := range parts[1:] {
		obj, ok := value.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("field %s is not an object", path)
		}
		if value, ok = obj[part]; !ok {
			return nil, fmt.Errorf("field %s not found in response", path)
		}
	}
	return value, nil
}

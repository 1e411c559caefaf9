package ratelimit

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext is the slice of the scenario state these steps use.
type TestContext interface {
	GET(path string) error
	GetLastResponseStatus() int
	SetClientIP(ip string)
}

// RegisterSteps registers per-IP rate limit steps. The server must trust the
// test runner as a proxy so X-Forwarded-For selects the client.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &ratelimitSteps{tc: tc}

	ctx.Step(`^I am making requests from IP "([^"]*)"$`, steps.fromIP)
	ctx.Step(`^I make (\d+) requests to "([^"]*)"$`, steps.makeRequests)
	ctx.Step(`^all (\d+) requests should succeed$`, steps.allSucceeded)
	ctx.Step(`^I have exhausted the rate limit on "([^"]*)"$`, steps.exhaust)
}

type ratelimitSteps struct {
	tc       TestContext
	statuses []int
}

func (s *ratelimitSteps) fromIP(_ context.Context, ip string) error {
	s.tc.SetClientIP(ip)
	return nil
}

func (s *ratelimitSteps) makeRequests(_ context.Context, n int, path string) error {
	s.statuses = s.statuses[:0]
	for range n {
		if err := s.tc.GET(path); err != nil {
			return err
		}
		s.statuses = append(s.statuses, s.tc.GetLastResponseStatus())
	}
	return nil
}

func (s *ratelimitSteps) allSucceeded(_ context.Context, n int) error {
	if len(s.statuses) != n {
		return fmt.Errorf("expected %d requests but made %d", n, len(s.statuses))
	}
	for i, status := range s.statuses {
		if status != 200 {
			return fmt.Errorf("request %d returned %d", i+1, status)
		}
	}
	return nil
}

// exhaust keeps calling path until the server answers 429.
func (s *ratelimitSteps) exhaust(_ context.Context, path string) error {
	const ceiling = 10000
	for range ceiling {
		if err := s.tc.GET(path); err != nil {
			return err
		}
		if s.tc.GetLastResponseStatus() == 429 {
			return nil
		}
	}
	return fmt.Errorf("no 429 after %d requests to %s", ceiling, path)
}

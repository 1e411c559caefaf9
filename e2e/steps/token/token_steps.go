package token

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext is the slice of the scenario state these steps use.
type TestContext interface {
	POST(path string, body any) error
	GetResponseField(field string) (any, error)
	GetLastResponseStatus() int
	GetHexCode() string
	SetHexCode(code string)
}

// RegisterSteps registers token generation and decoding steps.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &tokenSteps{tc: tc}

	ctx.Step(`^I generate a token with:$`, steps.generateWith)
	ctx.Step(`^I generate a token for a fresh identity with PIN (-?\d+)$`, steps.generateFresh)
	ctx.Step(`^I save the hex code$`, steps.saveHexCode)
	ctx.Step(`^I decode the saved token with PIN (-?\d+)$`, steps.decodeSaved)
	ctx.Step(`^I decode the saved token in lower case with PIN (-?\d+)$`, steps.decodeSavedLower)
	ctx.Step(`^I decode "([^"]*)" with PIN (-?\d+)$`, steps.decode)
	ctx.Step(`^I fail to decode the saved token (\d+) times$`, steps.failDecodes)
}

type tokenSteps struct {
	tc TestContext
}

// wrongPIN always fails structurally because its verifier digit is never 1.
const wrongPIN = 1

func (s *tokenSteps) generateWith(_ context.Context, table *godog.Table) error {
	body := map[string]any{}
	for _, row := range table.Rows {
		if len(row.Cells) != 2 {
			return fmt.Errorf("expected key/value rows, got %d cells", len(row.Cells))
		}
		key, value := row.Cells[0].Value, row.Cells[1].Value
		if n, err := strconv.Atoi(value); err == nil && key != "firstName" && key != "lastName" {
			body[key] = n
			continue
		}
		body[key] = value
	}
	return s.tc.POST("/api/generate", body)
}

func (s *tokenSteps) generateFresh(_ context.Context, pin int) error {
	if err := s.tc.POST("/api/generate", map[string]any{
		"firstName":   randomName(8),
		"lastName":    randomName(10),
		"countryCode": "MA",
		"birthYear":   1990,
		"birthMonth":  6,
		"birthDay":    15,
		"gender":      "female",
		"pin":         pin,
	}); err != nil {
		return err
	}
	return s.saveHexCode(context.Background())
}

func (s *tokenSteps) saveHexCode(context.Context) error {
	value, err := s.tc.GetResponseField("hexCode")
	if err != nil {
		return err
	}
	code, ok := value.(string)
	if !ok || code == "" {
		return fmt.Errorf("hexCode is not a non-empty string: %v", value)
	}
	s.tc.SetHexCode(code)
	return nil
}

func (s *tokenSteps) decodeSaved(_ context.Context, pin int) error {
	return s.decode(context.Background(), s.tc.GetHexCode(), pin)
}

func (s *tokenSteps) decodeSavedLower(_ context.Context, pin int) error {
	return s.decode(context.Background(), strings.ToLower(s.tc.GetHexCode()), pin)
}

func (s *tokenSteps) decode(_ context.Context, hexCode string, pin int) error {
	return s.tc.POST("/api/decode", map[string]any{"hexCode": hexCode, "pin": pin})
}

func (s *tokenSteps) failDecodes(_ context.Context, n int) error {
	for i := range n {
		if err := s.decodeSaved(context.Background(), wrongPIN); err != nil {
			return err
		}
		if status := s.tc.GetLastResponseStatus(); status != 400 {
			return fmt.Errorf("failure %d: expected status 400 but got %d", i+1, status)
		}
	}
	return nil
}

func randomName(n int) string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[rand.IntN(len(letters))]
	}
	return string(b)
}

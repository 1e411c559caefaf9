// Package audit records what happened to tokens without recording who the
// tokens describe. Events carry a token fingerprint and a country code and
// never names, dates, PINs or raw tokens.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"sunhex/pkg/requestcontext"
)

// Action names the operation an event describes.
type Action string

const (
	ActionTokenGenerated Action = "token_generated"
	ActionTokenDecoded   Action = "token_decoded"
	ActionDecodeFailed   Action = "token_decode_failed"
	ActionDecodeLocked   Action = "token_decode_locked"
)

// Outcome values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeLocked  = "locked"
)

// Event is one audit record.
type Event struct {
	ID          uuid.UUID `json:"id"`
	Action      Action    `json:"action"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	CountryCode string    `json:"country_code,omitempty"`
	Outcome     string    `json:"outcome"`
	RequestID   string    `json:"request_id,omitempty"`
	Client      string    `json:"client,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewEvent stamps an event with a fresh ID and the current time, plus the
// request ID and client class carried by ctx.
func NewEvent(ctx context.Context, action Action, outcome string) Event {
	return Event{
		ID:        uuid.New(),
		Action:    action,
		Outcome:   outcome,
		RequestID: requestcontext.RequestID(ctx),
		Client:    ClientClass(requestcontext.UserAgent(ctx)),
		Timestamp: time.Now().UTC(),
	}
}

// Publisher delivers events. Callers treat failures as non-fatal.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	dErrors "sunhex/pkg/domain-errors"
	"sunhex/pkg/requestcontext"
)

// Normalizer is implemented by requests that clean up their own fields
// before validation.
type Normalizer interface {
	Normalize()
}

// Validator is implemented by requests that check their own fields.
type Validator interface {
	Validate() error
}

// DecodeJSON reads r's body into a T. On failure it writes the error
// response itself and returns false: 413 when the body limit tripped,
// 400 otherwise.
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*T, bool) {
	req := new(T)
	err := json.NewDecoder(r.Body).Decode(req)
	if err == nil {
		return req, true
	}

	ctx := r.Context()
	logger.WarnContext(ctx, "failed to decode request body",
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		WriteJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{
			Status:  StatusError,
			Error:   string(dErrors.CodeBadRequest),
			Message: "request body too large",
		})
		return nil, false
	}
	WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
	return nil, false
}

// Prepare runs Normalize then Validate when req implements them. Plain
// validation errors are reported as CodeValidation.
func Prepare(req any) error {
	if n, ok := req.(Normalizer); ok {
		n.Normalize()
	}
	v, ok := req.(Validator)
	if !ok {
		return nil
	}
	err := v.Validate()
	if err == nil || dErrors.CodeOf(err) != "" {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeValidation, err.Error())
}

// DecodeAndPrepare is DecodeJSON followed by Prepare. Either failure is
// written to w.
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*T, bool) {
	req, ok := DecodeJSON[T](w, r, logger)
	if !ok {
		return nil, false
	}
	if err := Prepare(req); err != nil {
		ctx := r.Context()
		logger.WarnContext(ctx, "invalid request",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		WriteError(w, err)
		return nil, false
	}
	return req, true
}

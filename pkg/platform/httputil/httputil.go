// Package httputil renders JSON responses and turns domain errors into
// HTTP status codes.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "sunhex/pkg/domain-errors"
)

// StatusError is the value of the "status" field on every error body.
const StatusError = "error"

// ErrorResponse is the JSON body written for failed requests.
type ErrorResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// WriteJSON encodes response with the given status. Encoding errors are
// dropped since the status line is already on the wire.
func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError renders err. Only domain errors expose their message; anything
// else becomes a generic 500 so infrastructure detail never reaches callers.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if !errors.As(err, &domainErr) {
		WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
			Status:  StatusError,
			Error:   string(dErrors.CodeInternal),
			Message: "internal server error",
		})
		return
	}
	WriteJSON(w, StatusFor(domainErr.Code), ErrorResponse{
		Status:  StatusError,
		Error:   string(domainErr.Code),
		Message: domainErr.Error(),
	})
}

// StatusFor maps a domain code to its HTTP status.
func StatusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeBadRequest, dErrors.CodeValidation, dErrors.CodeDecodeFailed:
		return http.StatusBadRequest
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeTooManyAttempts, dErrors.CodeRateLimited:
		return http.StatusTooManyRequests
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

package sin

import "errors"

// Codec errors. Callers match them with errors.Is; the returned error usually
// wraps one of these with the offending value attached.
var (
	ErrInvalidCharacter = errors.New("invalid character in name")
	ErrUnknownCountry   = errors.New("unknown country code")
	ErrInvalidDate      = errors.New("invalid birth date")
	ErrInvalidPin       = errors.New("invalid pin")
	ErrMalformedSIN     = errors.New("malformed sin")
	ErrInvalidVerifier  = errors.New("invalid sin verifier")
)

// IsInputError reports whether err was caused by the fields supplied for generation.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidCharacter) ||
		errors.Is(err, ErrUnknownCountry) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidPin)
}

// IsStructuralError reports whether err is a decode-time structural failure.
// A wrong PIN and a corrupted token both land here and cannot be told apart.
func IsStructuralError(err error) bool {
	return errors.Is(err, ErrMalformedSIN) || errors.Is(err, ErrInvalidVerifier)
}

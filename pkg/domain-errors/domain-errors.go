// Package domainerrors carries failure categories from services to
// transports. A Code says what went wrong for the caller; the transport
// decides how to render it.
package domainerrors

import "errors"

// Code is a stable, transport-neutral failure category.
type Code string

const (
	CodeBadRequest      Code = "bad_request"
	CodeValidation      Code = "validation_failed"
	CodeNotFound        Code = "not_found"
	CodeInternal        Code = "internal_error"
	CodeTimeout         Code = "timeout"
	CodeDecodeFailed    Code = "decode_failed"     // wrong PIN and corrupt token look the same
	CodeTooManyAttempts Code = "too_many_attempts" // token locked by the decode guard
	CodeRateLimited     Code = "rate_limit_exceeded"
)

// ClientFault reports whether the caller can fix the failure by changing or
// slowing down its requests.
func (c Code) ClientFault() bool {
	switch c {
	case CodeBadRequest, CodeValidation, CodeNotFound, CodeDecodeFailed,
		CodeTooManyAttempts, CodeRateLimited:
		return true
	}
	return false
}

// Error pairs a Code with a message that is safe to show the caller.
// Err keeps the underlying cause for logs and errors.Is/As.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same Code, so
// errors.Is(err, &Error{Code: CodeValidation}) works through wrapping.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// New returns an *Error without a cause.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches msg to err. A code already present in err's chain wins over
// code, so a lower layer's classification is never downgraded.
func Wrap(err error, code Code, msg string) error {
	if inner := CodeOf(err); inner != "" {
		code = inner
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// CodeOf returns the outermost Code in err's chain, or "" when there is none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// HasCode reports whether err's outermost domain error has code.
func HasCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

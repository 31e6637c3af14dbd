package domainerrors

import "errors"

// Code represents a domain error category independent of transport layer.
// These codes describe what went wrong in business logic terms, not HTTP terms.
type Code string

const (
	CodeNotFound     Code = "not_found"
	CodeBadRequest   Code = "bad_request"
	CodeInvalidState Code = "invalid_state_transition"
	CodeConflict     Code = "conflict"
	CodeInternal     Code = "internal_error"
	CodeUnauthorized Code = "unauthorized"

	// OpenID4VCI error codes (pre-authorized code flow).
	CodeInvalidPreAuthorizedCode Code = "invalid_pre_authorized_code"
	CodeInvalidAccessToken       Code = "invalid_access_token"
	CodeInvalidProof             Code = "invalid_proof"
	CodeUnsupportedFormat        Code = "unsupported_credential_format"
	CodeMissingMetadata          Code = "missing_metadata"
	CodeUnsupported              Code = "unsupported_operation"

	// SIOPv2 / OpenID4VP error codes.
	CodeInvalidResponse Code = "invalid_authorization_response"
	CodeUnknownState    Code = "unknown_state"
)

// Error wraps domain or infrastructure failures with a stable code.
// It is transport-agnostic and can be used across aggregate, store, and
// service layers.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

// Unwrap implements error unwrapping for error chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is enables errors.Is() to match errors by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new domain error with the given code and message.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap creates a new domain error wrapping an existing error.
// If the wrapped error is already a domain error, the original code is preserved.
func Wrap(err error, code Code, msg string) error {
	var existing *Error
	if errors.As(err, &existing) {
		return &Error{Code: existing.Code, Message: msg, Err: err}
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode checks if an error is a domain error with the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

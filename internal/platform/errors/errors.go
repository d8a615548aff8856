package errors

import (
	stderrors "errors"

	"github.com/louisbranch/xplorehub/internal/platform/errors/i18n"
)

// Domain is the error domain for xplorehub errors.
const Domain = "github.com/louisbranch/xplorehub"

// Error is the domain error type with structured metadata.
type Error struct {
	Code     Code              // Machine-readable error code
	Message  string            // Internal message (for logs/telemetry)
	Metadata map[string]string // Additional context for templating
	Cause    error             // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a simple domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WithMetadata creates a domain error with metadata for i18n templating.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Metadata: metadata,
	}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// As extracts the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var target *Error
	if stderrors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// CodeOf returns the code of the first *Error in err's chain, or CodeUnknown.
func CodeOf(err error) Code {
	if e, ok := As(err); ok {
		return e.Code
	}
	return CodeUnknown
}

// LocalizedMessage renders the user-facing message for locale.
func (e *Error) LocalizedMessage(locale string) string {
	return i18n.GetCatalog(locale).Format(string(e.Code), e.Metadata)
}

// Payload is the JSON body returned to REST clients.
type Payload struct {
	Code     Code              `json:"code"`
	Message  string            `json:"message"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ToPayload converts err into a client payload and HTTP status. Errors
// outside the domain hierarchy are reported as opaque internal failures.
func ToPayload(err error, locale string) (int, Payload) {
	e, ok := As(err)
	if !ok {
		e = New(CodeUnknown, "internal error")
	}
	return e.Code.HTTPStatus(), Payload{
		Code:     e.Code,
		Message:  e.LocalizedMessage(locale),
		Metadata: e.Metadata,
	}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// Package apperr holds the error taxonomy shared by the access gate, the handlers and
// the terminal error middleware.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
	KindRateLimited
	KindUnsupportedMedia
	KindUnavailable
)

func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindUnsupportedMedia:
		return http.StatusUnsupportedMediaType
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindRateLimited:
		return "rate_limited"
	case KindUnsupportedMedia:
		return "unsupported_media_type"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details interface{}
	// Err is the underlying cause. It is logged, never sent to clients outside dev.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Status() int {
	return e.Kind.Status()
}

func Validation(message string, details interface{}) *Error {
	return &Error{Kind: KindValidation, Code: "invalid_request", Message: message, Details: details}
}

// Authentication never says which check failed.
func Authentication(cause error) *Error {
	return &Error{Kind: KindAuthentication, Code: "unauthorized", Message: "Invalid or missing token", Err: cause}
}

func Authorization(message string) *Error {
	return &Error{Kind: KindAuthorization, Code: "forbidden", Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Code: "not_found", Message: message}
}

func Conflict(code, message string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message}
}

func InvalidCredentials() *Error {
	return &Error{Kind: KindAuthentication, Code: "invalid_credentials", Message: "Invalid email or password"}
}

func RateLimited(message string) *Error {
	return &Error{Kind: KindRateLimited, Code: "rate_limited", Message: message}
}

func UnsupportedMedia(message string) *Error {
	return &Error{Kind: KindUnsupportedMedia, Code: "unsupported_media_type", Message: message}
}

func Unavailable(message string, cause error) *Error {
	return &Error{Kind: KindUnavailable, Code: "not_ready", Message: message, Err: cause}
}

func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Code: "internal_error", Message: message, Err: cause}
}

// From classifies any error. Unknown errors become Internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	return Internal("Internal server error", err)
}

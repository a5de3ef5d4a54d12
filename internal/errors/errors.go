package errors

import (
	"errors"
	"net/http"
)

// Kind classifies a domain error for transport mapping.
type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindNotFound
	KindState
	KindExpired
)

// Error is a classified domain error. Sentinels below are compared with errors.Is.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// New creates a classified error.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

var (
	// ErrMissingFields is returned when a required input is empty.
	ErrMissingFields = New(KindValidation, "MISSING_FIELDS", "missing required fields")
	// ErrInvalidRole is returned when a role is outside the supported set.
	ErrInvalidRole = New(KindValidation, "INVALID_ROLE", "invalid role")
	// ErrPasswordTooShort is returned when a password is below the minimum length.
	ErrPasswordTooShort = New(KindValidation, "PASSWORD_TOO_SHORT", "password is too short")
	// ErrPasswordTooLong is returned when a password exceeds what bcrypt can hash.
	ErrPasswordTooLong = New(KindValidation, "PASSWORD_TOO_LONG", "password is too long")
	// ErrCreatorNotFound is returned when an invitation names a creator that does not exist.
	ErrCreatorNotFound = New(KindValidation, "CREATOR_NOT_FOUND", "creator not found")
	// ErrInvalidID is returned when a path identifier cannot be parsed.
	ErrInvalidID = New(KindValidation, "INVALID_ID", "invalid id")

	// ErrInvitationNotFound is returned when no invitation matches a token or id.
	ErrInvitationNotFound = New(KindNotFound, "INVITATION_NOT_FOUND", "invitation not found")
	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = New(KindNotFound, "USER_NOT_FOUND", "user not found")

	// ErrInvitationNotPending is returned when an invitation was already used.
	ErrInvitationNotPending = New(KindState, "INVITATION_NOT_PENDING", "invitation is no longer pending")

	// ErrInvitationExpired is returned when an invitation deadline has passed.
	ErrInvitationExpired = New(KindExpired, "INVITATION_EXPIRED", "invitation has expired")
)

// DetailedError attaches diagnostic details to a classified error.
type DetailedError struct {
	Err     error
	Details string
}

func (e *DetailedError) Error() string {
	return e.Err.Error() + ": " + e.Details
}

func (e *DetailedError) Unwrap() error {
	return e.Err
}

// WithDetails wraps err with details that are surfaced in the response body.
func WithDetails(err error, details string) error {
	if err == nil {
		return nil
	}
	return &DetailedError{Err: err, Details: details}
}

// KindOf returns the classification of err, or KindUnexpected.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnexpected
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Details    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error:   e.Message,
		Code:    e.Code,
		Details: e.Details,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unclassified errors become
// a 500 carrying the internal message in Details for diagnostics.
func MapErrorToHTTP(err error) *HTTPError {
	var httpErr *HTTPError
	var appErr *Error
	if !errors.As(err, &appErr) {
		httpErr = NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
		if err != nil {
			httpErr.Details = err.Error()
		}
		return httpErr
	}

	switch appErr.Kind {
	case KindNotFound:
		httpErr = NewHTTPError(http.StatusNotFound, appErr.Message, appErr.Code)
	case KindValidation, KindState, KindExpired:
		httpErr = NewHTTPError(http.StatusBadRequest, appErr.Message, appErr.Code)
	default:
		httpErr = NewHTTPError(http.StatusInternalServerError, appErr.Message, appErr.Code)
	}

	var detailed *DetailedError
	if errors.As(err, &detailed) {
		httpErr.Details = detailed.Details
	}
	return httpErr
}

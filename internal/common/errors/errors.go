// Package errors provides standardized error handling for the intake service.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeMalformedRequest    ErrorCode = "MALFORMED_REQUEST"
	ErrCodeValidationFailed    ErrorCode = "VALIDATION_FAILED"
	ErrCodeConfiguration       ErrorCode = "CONFIGURATION_ERROR"
	ErrCodeUpstreamRejected    ErrorCode = "UPSTREAM_REJECTED"
	ErrCodeUpstreamUnreachable ErrorCode = "UPSTREAM_UNREACHABLE"
	ErrCodeIDReservationFailed ErrorCode = "ID_RESERVATION_FAILED"
	ErrCodeInternal            ErrorCode = "INTERNAL_ERROR"
)

// Messages returned to the form. They are shown to the end user as is.
const (
	MsgMalformedRequest    = "Грешка при обработка на формата"
	MsgMissingWebhook      = "Server configuration error: Webhook URL is missing."
	MsgUpstreamRejected    = "Webhook failed: %s"
	MsgUpstreamUnreachable = "Could not connect to the webhook service."
	MsgInternal            = "Възникна неочаквана грешка"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause, if any.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata returns e with key set in its metadata.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. Error Constructors
// ==========================

// NewMalformedRequestError reports an inbound body that is not a JSON object.
func NewMalformedRequestError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedRequest,
		Message:   MsgMalformedRequest,
		Details:   detailsOf(err),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewValidationFailedError reports a client-side validation failure.
// key identifies the localized message.
func NewValidationFailedError(key string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   key,
		Timestamp: time.Now().UTC(),
	}
}

// NewConfigurationError reports missing or unusable server configuration.
func NewConfigurationError(message, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfiguration,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// NewMissingWebhookError is the configuration error for an unset destination URL.
func NewMissingWebhookError() *StandardError {
	return NewConfigurationError(MsgMissingWebhook, "webhook url is not configured")
}

// NewUpstreamRejectedError reports a non-success answer from the destination.
// statusText is forwarded to the caller.
func NewUpstreamRejectedError(statusCode int, statusText, body string) *StandardError {
	if statusText == "" {
		statusText = http.StatusText(statusCode)
	}
	return &StandardError{
		Code:      ErrCodeUpstreamRejected,
		Message:   fmt.Sprintf(MsgUpstreamRejected, statusText),
		Details:   body,
		Timestamp: time.Now().UTC(),
		Metadata: map[string]interface{}{
			"upstreamStatus": statusCode,
		},
	}
}

// NewUpstreamUnreachableError reports a transport-level failure.
func NewUpstreamUnreachableError(destination string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeUpstreamUnreachable,
		Message:   MsgUpstreamUnreachable,
		Details:   detailsOf(err),
		Timestamp: time.Now().UTC(),
		Metadata: map[string]interface{}{
			"destination": destination,
		},
		cause: err,
	}
}

// NewIDReservationFailedError reports that an application ID could not be reserved.
func NewIDReservationFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeIDReservationFailed,
		Message:   "application id reservation failed",
		Details:   detailsOf(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   MsgInternal,
		Details:   detailsOf(err),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func detailsOf(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// ==========================
// 3. HTTP Mapping
// ==========================

// HTTPStatusMapping maps error codes to the status the relay answers with.
var HTTPStatusMapping = map[ErrorCode]int{
	ErrCodeMalformedRequest:    http.StatusBadRequest,
	ErrCodeValidationFailed:    http.StatusUnprocessableEntity,
	ErrCodeConfiguration:       http.StatusInternalServerError,
	ErrCodeUpstreamRejected:    http.StatusBadGateway,
	ErrCodeUpstreamUnreachable: http.StatusServiceUnavailable,
	ErrCodeIDReservationFailed: http.StatusInternalServerError,
	ErrCodeInternal:            http.StatusInternalServerError,
}

// HTTPStatus returns the response status for code, 500 when unmapped.
func HTTPStatus(code ErrorCode) int {
	if status, ok := HTTPStatusMapping[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ==========================
// 4. Utility Functions
// ==========================

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// CodeOf returns the code carried by err, or INTERNAL_ERROR.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	return Normalize(err).Code
}

// Is reports whether err carries code.
func Is(err error, code ErrorCode) bool {
	var stdErr *StandardError
	return stderrors.As(err, &stdErr) && stdErr.Code == code
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "MALFORMED") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "CONFIGURATION"):
		return "CONFIGURATION"
	case strings.Contains(codeStr, "UPSTREAM"):
		return "UPSTREAM"
	case strings.Contains(codeStr, "RESERVATION"):
		return "STORAGE"
	default:
		return "OTHER"
	}
}

package errors

import (
	"fmt"
	"net/http"

	"github.com/PageVerify/verify-widget-backend/logger"
)

type ErrorType string

const (
	ValidationError ErrorType = "VALIDATION_ERROR"
	SpamError       ErrorType = "SPAM_REJECTED"
	NotFoundError   ErrorType = "NOT_FOUND"
	SubmissionError ErrorType = "SUBMISSION_ERROR"
	ServerError     ErrorType = "SERVER_ERROR"
	RateLimitError  ErrorType = "RATE_LIMIT_EXCEEDED"
	DisabledError   ErrorType = "FEATURE_DISABLED"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Code       string    `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Raw        error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// GetHTTPStatus returns the HTTP status associated with the error,
// falling back to the type mapping when none was set explicitly.
func (e *AppError) GetHTTPStatus() int {
	if e.HTTPStatus != 0 {
		return e.HTTPStatus
	}
	return getHTTPStatus(e.Type)
}

// New creates a new AppError
func New(errType ErrorType, message string, detail string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     detail,
		HTTPStatus: getHTTPStatus(errType),
	}
}

// Wrap wraps a raw error with AppError context
func Wrap(err error, errType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     err.Error(),
		HTTPStatus: getHTTPStatus(errType),
		Raw:        err,
	}
}

// Helper functions for common errors

func ValidationFailed(message string, details string) *AppError {
	return &AppError{
		Type:       ValidationError,
		Message:    message,
		Detail:     details,
		HTTPStatus: http.StatusBadRequest,
	}
}

// SpamDetected is raised when the honeypot field carries a value. It maps to
// the same HTTP status as a validation failure so automated clients cannot
// distinguish the two beyond the message text.
func SpamDetected() *AppError {
	return &AppError{
		Type:       SpamError,
		Message:    "Spam detected.",
		HTTPStatus: http.StatusBadRequest,
	}
}

func NotFound(entity string, id interface{}) *AppError {
	return &AppError{
		Type:       NotFoundError,
		Message:    fmt.Sprintf("%s not found", entity),
		Detail:     fmt.Sprintf("ID: %v", id),
		HTTPStatus: http.StatusNotFound,
	}
}

// NewSubmissionError wraps an upstream forwarding failure. The original error
// is logged for the operator while the returned message stays generic.
func NewSubmissionError(err error, userMessage string) *AppError {
	logger.GetLogger().Errorw("Submission forwarding failed", "error", err)
	return &AppError{
		Type:       SubmissionError,
		Message:    userMessage,
		HTTPStatus: http.StatusBadGateway,
		Raw:        err,
	}
}

func InternalServerError(message string) *AppError {
	return &AppError{
		Type:       ServerError,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

func RateLimited(retryAfter string) *AppError {
	return &AppError{
		Type:       RateLimitError,
		Message:    "Too many requests",
		Detail:     fmt.Sprintf("Retry after: %s", retryAfter),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

func FeatureDisabled(feature string) *AppError {
	return &AppError{
		Type:       DisabledError,
		Message:    fmt.Sprintf("%s is not enabled", feature),
		HTTPStatus: http.StatusNotImplemented,
	}
}

func getHTTPStatus(errType ErrorType) int {
	switch errType {
	case ValidationError, SpamError:
		return http.StatusBadRequest
	case NotFoundError:
		return http.StatusNotFound
	case SubmissionError:
		return http.StatusBadGateway
	case RateLimitError:
		return http.StatusTooManyRequests
	case DisabledError:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

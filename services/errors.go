package services

import (
	"errors"
	"net/http"
)

// Error codes surfaced in API responses
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidDateRange   = "INVALID_DATE_RANGE"
	CodeMinimumDuration    = "MINIMUM_DURATION_VIOLATION"
	CodeNotFound           = "NOT_FOUND"
	CodePropertyNotRent    = "PROPERTY_NOT_RENTABLE"
	CodePropertyUnapproved = "PROPERTY_NOT_APPROVED"
	CodeDateConflict       = "DATE_CONFLICT"
	CodeInvalidStatus      = "INVALID_STATUS"
	CodeInvalidTransition  = "INVALID_STATUS_TRANSITION"
	CodeForbidden          = "FORBIDDEN"
	CodeMissingContact     = "MISSING_CONTACT_INFO"
	CodeNotificationFailed = "NOTIFICATION_FAILED"
)

// DomainError is a booking-core failure with a machine code. Controllers map
// it to HTTP; nothing else crosses the boundary raw.
type DomainError struct {
	Code    string
	Message string
	Details map[string]interface{}
}

func (e *DomainError) Error() string {
	return e.Message
}

// HTTPStatus maps the error code to its response status
func (e *DomainError) HTTPStatus() int {
	switch e.Code {
	case CodeValidation, CodeInvalidDateRange, CodeMinimumDuration,
		CodeInvalidStatus, CodePropertyNotRent, CodePropertyUnapproved,
		CodeMissingContact, CodeNotificationFailed:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeForbidden:
		return http.StatusForbidden
	case CodeDateConflict, CodeInvalidTransition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func newDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// AsDomainError unwraps err into a DomainError when it is one
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

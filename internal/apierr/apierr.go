// Package apierr defines the error taxonomy shared between the buyer
// service and the HTTP layer. Service code raises these at the point of
// detection; handlers render them with a stable status code and an
// optional details payload.
package apierr

import (
	"errors"
	"net/http"
)

// Error is an application error with an HTTP status classification.
type Error struct {
	Message string      `json:"error"`
	Status  int         `json:"-"`
	Details interface{} `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// FieldError describes a single violated validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validation returns a 400 error carrying field-level details.
func Validation(details []FieldError) *Error {
	return &Error{Message: "Validation failed", Status: http.StatusBadRequest, Details: details}
}

// BadRequest returns a generic 400 error.
func BadRequest(message string, details interface{}) *Error {
	return &Error{Message: message, Status: http.StatusBadRequest, Details: details}
}

// NotFound returns a 404 error.
func NotFound(message string) *Error {
	return &Error{Message: message, Status: http.StatusNotFound}
}

// Forbidden returns a 403 error.
func Forbidden(message string) *Error {
	return &Error{Message: message, Status: http.StatusForbidden}
}

// Conflict returns a 409 error.
func Conflict(message string) *Error {
	return &Error{Message: message, Status: http.StatusConflict}
}

// Constraint returns a 409 error for store-level uniqueness violations.
func Constraint(details interface{}) *Error {
	return &Error{Message: "Duplicate entry found", Status: http.StatusConflict, Details: details}
}

// Internal returns a 500 error. The underlying cause is logged by the
// caller, never sent to the client.
func Internal() *Error {
	return &Error{Message: "Internal server error", Status: http.StatusInternalServerError}
}

// From converts any error into an *Error, defaulting to Internal for
// errors outside the taxonomy.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Internal()
}

// Package errors defines the domain errors shared by services and handlers.
package errors

import (
	"errors"
	"net/http"
)

// DomainError is a coded error whose message is safe to return to API clients.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches any DomainError carrying the same code, so errors built with
// WithMessage still satisfy errors.Is against the base value.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// WithMessage returns a copy of e with a request specific message.
func (e *DomainError) WithMessage(msg string) *DomainError {
	return &DomainError{Code: e.Code, Message: msg}
}

// StatusCode maps a domain error to its HTTP status. Errors that are not
// DomainErrors map to 500.
func StatusCode(err error) int {
	var de *DomainError
	if !errors.As(err, &de) {
		return http.StatusInternalServerError
	}
	switch de.Code {
	case ErrValidation.Code, ErrInvalidTransactionID.Code:
		return http.StatusBadRequest
	case ErrTransactionNotFound.Code:
		return http.StatusNotFound
	case ErrUnauthorized.Code:
		return http.StatusUnauthorized
	case ErrForbidden.Code:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

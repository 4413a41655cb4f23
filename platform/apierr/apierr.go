// Package apierr implements the stable error taxonomy of the control plane (spec §7).
//
// Every expected domain failure is an *Error carrying one of the Code constants below.
// Handlers translate an *Error to its HTTP status at the transport boundary; anything that
// isn't an *Error is logged and reported as Internal without leaking detail to the caller.
package apierr

import (
	"errors"
	"net/http"
)

type Code string

const (
	Unauthenticated         Code = "Unauthenticated"
	Forbidden               Code = "Forbidden"
	NotFound                Code = "NotFound"
	Conflict                Code = "Conflict"
	AlreadyExists           Code = "AlreadyExists"
	ValidationFailed        Code = "ValidationFailed"
	IllegalTransition       Code = "IllegalTransition"
	OverlappingShift        Code = "OverlappingShift"
	PaymentAlreadyExists    Code = "PaymentAlreadyExists"
	RefundFailed            Code = "RefundFailed"
	ProviderUnavailable     Code = "ProviderUnavailable"
	InvalidWebhookSignature Code = "InvalidWebhookSignature"
	RateLimited             Code = "RateLimited"
	Internal                Code = "Internal"
)

var httpStatus = map[Code]int{
	Unauthenticated:         http.StatusUnauthorized,
	Forbidden:               http.StatusForbidden,
	NotFound:                http.StatusNotFound,
	Conflict:                http.StatusConflict,
	AlreadyExists:           http.StatusConflict,
	ValidationFailed:        http.StatusBadRequest,
	IllegalTransition:       http.StatusBadRequest,
	OverlappingShift:        http.StatusUnprocessableEntity,
	PaymentAlreadyExists:    http.StatusConflict,
	RefundFailed:            http.StatusBadRequest,
	ProviderUnavailable:     http.StatusBadGateway,
	InvalidWebhookSignature: http.StatusBadRequest,
	RateLimited:             http.StatusTooManyRequests,
	Internal:                http.StatusInternalServerError,
}

// Error is the one error type every layer above storage should traffic in.
type Error struct {
	Code    Code
	Message string
	Details map[string]any
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// HTTPStatus returns the response code for this error's taxonomy name.
func (e *Error) HTTPStatus() int {
	if status, ok := httpStatus[e.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

func WithDetails(code Code, message string, details map[string]any) *Error {
	return &Error{Code: code, Message: message, Details: details}
}

// As extracts an *Error from err, if any wraps one.
func As(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// Is reports whether err is (or wraps) an *Error with the given code.
func Is(err error, code Code) bool {
	e, ok := As(err)
	return ok && e.Code == code
}

// HTTPStatusFor resolves the response code for any error, defaulting to 500 for
// unrecognized (unanticipated) errors per spec §7.
func HTTPStatusFor(err error) int {
	if e, ok := As(err); ok {
		return e.HTTPStatus()
	}
	return http.StatusInternalServerError
}

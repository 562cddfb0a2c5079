// Package domain holds the error taxonomy shared by the service layer and
// the HTTP handlers.  Services return these types; handlers translate them
// into status codes with errors.As.
package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

// ValidationError reports missing or malformed caller input (HTTP 400).
type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

// ForbiddenError is returned when the caller does not own the resource.
type ForbiddenError struct {
	Resource string
}

func (e ForbiddenError) Error() string {
	if e.Resource == "" {
		return "forbidden"
	}
	return fmt.Sprintf("%s: forbidden", e.Resource)
}

// GatewayRejectedError carries the provider's payload when it declines a
// payment initialization.
type GatewayRejectedError struct {
	Message string
	Payload json.RawMessage
}

func (e GatewayRejectedError) Error() string {
	if e.Message == "" {
		return "payment gateway rejected the request"
	}
	return "payment gateway rejected the request: " + e.Message
}

// GatewayUnavailableError means the provider could not be reached or did
// not answer with a usable response.
type GatewayUnavailableError struct {
	Err error
}

func (e GatewayUnavailableError) Error() string {
	if e.Err == nil {
		return "payment gateway unavailable"
	}
	return fmt.Sprintf("payment gateway unavailable: %v", e.Err)
}

func (e GatewayUnavailableError) Unwrap() error { return e.Err }

// VerificationFailedError is returned when the provider does not confirm a
// transaction, or when it could not be asked.
type VerificationFailedError struct {
	TxRef string
	Err   error
}

func (e VerificationFailedError) Error() string { return "Payment verification failed" }

func (e VerificationFailedError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsForbidden(err error) bool {
	var target ForbiddenError
	return errors.As(err, &target)
}

func IsGatewayRejected(err error) bool {
	var target GatewayRejectedError
	return errors.As(err, &target)
}

func IsGatewayUnavailable(err error) bool {
	var target GatewayUnavailableError
	return errors.As(err, &target)
}

func IsVerificationFailed(err error) bool {
	var target VerificationFailedError
	return errors.As(err, &target)
}

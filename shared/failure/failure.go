package failure

import (
	"errors"
	"net/http"
)

// Kind classifies a failure independently of the transport that reports it.
type Kind string

const (
	KindValidation          Kind = "validation"
	KindNotFound            Kind = "not_found"
	KindConstraintViolation Kind = "constraint_violation"
	KindStorageUnavailable  Kind = "storage_unavailable"
	KindInternal            Kind = "internal"
)

// Failure is a wrapper for error messages with a taxonomy kind and a
// standard HTTP response code for the transport layer.
type Failure struct {
	Kind    Kind   `json:"kind"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error returns the failure message.
func (e *Failure) Error() string {
	return e.Message
}

// Validation returns a new Failure for caller input that never reached storage.
func Validation(msg string) error {
	return &Failure{
		Kind:    KindValidation,
		Code:    http.StatusBadRequest,
		Message: msg,
	}
}

// NotFound returns a new Failure for a missing entity. A row owned by a
// different owner is reported through this same value so the two cases
// stay indistinguishable to the caller.
func NotFound(entityName string) error {
	return &Failure{
		Kind:    KindNotFound,
		Code:    http.StatusNotFound,
		Message: entityName + " not found",
	}
}

// ConstraintViolation returns a new Failure for a backend-level constraint failure.
func ConstraintViolation(msg string) error {
	return &Failure{
		Kind:    KindConstraintViolation,
		Code:    http.StatusConflict,
		Message: msg,
	}
}

// StorageUnavailable returns a new Failure for an unreachable or corrupted
// backend. The raw backend error is not carried into the message so driver
// details never leak to callers.
func StorageUnavailable(msg string) error {
	return &Failure{
		Kind:    KindStorageUnavailable,
		Code:    http.StatusServiceUnavailable,
		Message: msg,
	}
}

// InternalError returns a new Failure with code for internal error and message
// derived from an error interface.
func InternalError(err error) error {
	if err != nil {
		return &Failure{
			Kind:    KindInternal,
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
		}
	}

	return nil
}

// GetCode returns the HTTP code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetKind returns the taxonomy kind of an error interface.
func GetKind(err error) Kind {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Kind
	}

	return KindInternal
}

// IsKind reports whether an error carries the given taxonomy kind.
func IsKind(err error, kind Kind) bool {
	return GetKind(err) == kind
}

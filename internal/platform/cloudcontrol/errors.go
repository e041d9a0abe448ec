package cloudcontrol

import (
	"errors"
	"fmt"
)

// APIError is a failed call against the CloudControl API. Transient
// failures (network faults, 5xx, resource momentarily locked) may
// succeed on a later attempt; everything else is permanent and must not
// be retried.
type APIError struct {
	Op        string // API operation, e.g. "deployServer"
	Kind      Kind
	Transient bool
	Err       error
}

func (e *APIError) Error() string {
	class := "permanent"
	if e.Transient {
		class = "transient"
	}
	return fmt.Sprintf("%s %s: %s error: %v", e.Kind, e.Op, class, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewTransient wraps err as a retryable API failure.
func NewTransient(op string, kind Kind, err error) *APIError {
	return &APIError{Op: op, Kind: kind, Transient: true, Err: err}
}

// NewPermanent wraps err as a non-retryable API failure.
func NewPermanent(op string, kind Kind, err error) *APIError {
	return &APIError{Op: op, Kind: kind, Transient: false, Err: err}
}

// NotFoundError reports that a resource looked up by ID or key does not
// exist. Distinct from transport failures so absence is never confused
// with a failed call.
type NotFoundError struct {
	Kind Kind
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

// IsTransient checks if an error may succeed on retry.
func IsTransient(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Transient
}

// IsPermanent checks if an error is a classified API failure that will
// not succeed on retry. NotFoundError counts as permanent.
func IsPermanent(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return !apiErr.Transient
	}
	return IsNotFound(err)
}

// IsNotFound checks if an error indicates a resource was not found.
func IsNotFound(err error) bool {
	var nfErr *NotFoundError
	return errors.As(err, &nfErr)
}

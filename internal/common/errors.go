// Package common defines the sentinel errors and small helpers shared by the
// gateway, the client services and the CLI. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Session errors.
	ErrorNotAuthenticated   = errors.New("not authenticated")
	ErrorInvalidCredentials = errors.New("incorrect email or password")

	// Service-level errors.
	ErrorInvalidOperation = errors.New("invalid operation")
	ErrorValidation       = errors.New("validation error")
	ErrorStaleResult      = errors.New("stale result")

	// Partial failures of the upload path: the bytes were rejected by the
	// content store, or they were stored but the record was not linked.
	ErrorUpload = errors.New("upload failed")
	ErrorUpdate = errors.New("record update failed")

	// Any remote failure that is not classified above.
	ErrorTransientGateway = errors.New("gateway unavailable")
)

// IsPermanent reports whether err belongs to a class that must never be
// retried automatically.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrorNotFound) ||
		errors.Is(err, ErrorAlreadyExists) ||
		errors.Is(err, ErrorInvalidCredentials) ||
		errors.Is(err, ErrorInvalidOperation) ||
		errors.Is(err, ErrorValidation)
}

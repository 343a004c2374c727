package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the requested key does not exist in the bucket.
	ErrNotFound = errors.New("object not found")
	// ErrBodyEmpty is returned when the store answered a read without a body.
	ErrBodyEmpty = errors.New("object body is empty")

	// ErrEmptyBucket is returned when a client is built without a bucket name.
	ErrEmptyBucket = errors.New("bucket name is required")
	// ErrEmptyKey is returned when an operation is called with an empty key.
	ErrEmptyKey = errors.New("object key is required")
	// ErrInvalidExpiry is returned for negative presign expiries.
	ErrInvalidExpiry = errors.New("presign expiry must be positive")
	// ErrUnknownDriver is returned when the configured driver is not supported.
	ErrUnknownDriver = errors.New("unknown storage driver")
)

// TransportError wraps any network, authentication, authorization or protocol
// failure reported by the underlying transport.
type TransportError struct {
	// Op is the transport operation that failed (list, get, head, put, delete, presign).
	Op string
	// Key is the object key involved, empty for listings.
	Key string
	// Code is the provider error code when one was reported (e.g. AccessDenied).
	Code string
	// StatusCode is the HTTP status returned by the store, 0 if unknown.
	StatusCode int
	// Err is the provider error.
	Err error
}

func (e *TransportError) Error() string {
	msg := "storage " + e.Op
	if e.Key != "" {
		msg += fmt.Sprintf(" %q", e.Key)
	}
	if e.Code != "" {
		msg += " (" + e.Code + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err signals a missing object.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

func notFound(key string) error {
	return fmt.Errorf("%q: %w", key, ErrNotFound)
}

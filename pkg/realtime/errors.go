package realtime

import (
	"errors"
	"fmt"
)

var (
	// ErrEndpointRequired is returned by NewManager when the configured
	// endpoint is empty. Misconfiguration surfaces at construction time,
	// never through the async connection flow.
	ErrEndpointRequired = errors.New("realtime: endpoint is required")

	// ErrSuperseded is returned from a connection attempt that was replaced
	// by a newer Start or cancelled by Stop before it settled.
	ErrSuperseded = errors.New("realtime: connection attempt superseded")
)

// PermanentError wraps a connect failure that must not be retried
// automatically (unknown endpoint, rejected credentials). The application
// may still retry manually by calling Start again.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return fmt.Sprintf("realtime: permanent connection failure: %v", e.Err)
}

func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent marks the error as non-retryable.
func (e *PermanentError) Permanent() bool { return true }

// MarkPermanent wraps err so Permanent reports it as non-retryable.
// A nil err stays nil.
func MarkPermanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// Permanent reports whether err is classified as a permanent connection
// failure. Classification is structural - any error in the chain exposing
// Permanent() bool participates - rather than matching on message text.
func Permanent(err error) bool {
	var p interface{ Permanent() bool }
	return errors.As(err, &p) && p.Permanent()
}

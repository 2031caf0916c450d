package contact

import (
	"errors"
	"fmt"
)

// ErrNoEndpoint is returned by NewSubmitter when a network mode has no URL.
var ErrNoEndpoint = errors.New("contact: submission endpoint not configured")

// TransportError means the request never completed: DNS, dial, TLS, or a
// timeout.  Nothing is known about whether the server saw the message.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("contact: dispatch to %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// AckError means the server answered but did not acknowledge the submission.
// Only the acknowledged mode produces it.
type AckError struct {
	Status int
	Reason string
}

func (e *AckError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("contact: submission not acknowledged (status %d)", e.Status)
	}
	return fmt.Sprintf("contact: submission not acknowledged (status %d): %s", e.Status, e.Reason)
}

// IsTransport reports whether err is (or wraps) a *TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

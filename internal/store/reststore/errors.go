package reststore

import "fmt"

// TransportError wraps a network-level failure or an unexpected status
// on an operation that has no structured failure mode.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// ValidationError carries the server-supplied message for a rejected create.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError reports that the target id no longer exists in the store.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string { return "person not found: " + e.ID }

package client

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("model config not found")

	// ErrConflict is returned when the server reports the record is locked by another writer.
	ErrConflict = errors.New("model config is being modified by another request")
)

// PersistenceError is a non-2xx response other than 404, 422 and a lock conflict.
type PersistenceError struct {
	Status  int
	Code    string
	Message string
}

func (e *PersistenceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// NetworkError is a transport failure or timeout; no response was received.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

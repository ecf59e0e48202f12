package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("model config not found")

	// ErrConflict is returned when another writer currently holds the record.
	ErrConflict = errors.New("model config is being modified by another request")

	// ErrDuplicateAlias is wrapped by PersistenceError when the alias is already taken.
	ErrDuplicateAlias = errors.New("alias already exists")
)

// PersistenceError reports a store-level failure of one operation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return "failed to " + e.Op + " model config: " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func persistErr(op string, err error) error {
	if isDuplicate(err) {
		err = ErrDuplicateAlias
	}
	return &PersistenceError{Op: op, Err: err}
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}

package ledger

import "fmt"

// ValidationError reports a missing or malformed field. Raised before any
// write, so nothing is persisted when one surfaces.
type ValidationError struct {
	Code string
}

func (e *ValidationError) Error() string { return e.Code }

// InvalidReferenceError reports a referenced row that does not exist.
type InvalidReferenceError struct {
	Entity string
	ID     int64
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// Code is the snake_case error code the API returns for this reference.
func (e *InvalidReferenceError) Code() string {
	return e.Entity + "_not_found"
}

// ConflictError reports a request the current ledger state cannot accept,
// such as redeeming more credit than is available.
type ConflictError struct {
	Code string
}

func (e *ConflictError) Error() string { return e.Code }

// PersistenceError wraps a store failure inside a transaction. The
// transaction is rolled back before this is returned; callers see it as an
// opaque failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("ledger: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func persistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

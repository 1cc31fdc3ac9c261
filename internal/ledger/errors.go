package ledger

import (
	"fmt"

	"github.com/treasury-ledger/treasury/internal/id"
)

// ValidationError rejects a mutation before it is applied.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports a transaction ID that is not in the given month.
type NotFoundError struct {
	Month id.MonthKey
	ID    int64
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("transaction %d not found in %s", e.ID, e.Month)
}

// SaveWarning means the in-memory store changed but could not be written to
// the durable slot. The change is kept; callers surface this as a warning.
type SaveWarning struct {
	Err error
}

func (e SaveWarning) Error() string {
	return fmt.Sprintf("ledger updated but not saved: %v", e.Err)
}

func (e SaveWarning) Unwrap() error {
	return e.Err
}

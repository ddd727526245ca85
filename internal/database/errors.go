package database

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a row lookup matches nothing.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a unique constraint rejects a write.
var ErrDuplicate = errors.New("duplicate value")

// isUniqueViolation matches sqlite's unique-constraint error text. The
// driver exposes a typed error too, but string matching avoids tying
// callers to driver internals.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

package types

import (
	"errors"
	"strings"
)

// ErrInvalidName is returned when a category or item name is empty after
// canonicalization.
var ErrInvalidName = errors.New("invalid name")

// Canonical returns the canonical stored form of a category or item name:
// surrounding whitespace trimmed, upper-cased. Names differing only by case
// resolve to the same stored entry.
func Canonical(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

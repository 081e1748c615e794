// Package ident generates opaque identifiers and creation timestamps for
// new records.
package ident

import (
	"time"

	"github.com/google/uuid"
)

// TimeLayout is millisecond ISO-8601 with a literal trailing Z. Unlike
// RFC3339Nano it never drops trailing zeros, so formatted timestamps are
// fixed-width and compare lexicographically in time order. Timestamps are
// always formatted in UTC, which keeps the literal Z honest.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// NewID returns a fresh opaque identifier.
func NewID() string {
	return uuid.NewString()
}

// Timestamp formats t for storage.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// Now returns the current instant formatted for storage.
func Now() string {
	return Timestamp(time.Now())
}

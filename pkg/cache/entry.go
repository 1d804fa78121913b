package cache

import (
	"time"
)

// Entry represents one cached read result.
type Entry struct {
	// Value is the decoded response value
	Value any

	// CreatedAt is when the value was cached
	CreatedAt time.Time

	// TTL is how long after CreatedAt the entry stays valid
	TTL time.Duration
}

// ValidAt reports whether the entry is valid at the given instant.
// An entry is valid strictly before CreatedAt+TTL; at the boundary it
// is already invalid and treated as absent.
func (e *Entry) ValidAt(now time.Time) bool {
	return now.Before(e.CreatedAt.Add(e.TTL))
}

// Valid reports whether the entry is valid now.
func (e *Entry) Valid() bool {
	return e.ValidAt(time.Now())
}

// Remaining returns the time until the entry becomes invalid.
// Returns 0 if already invalid.
func (e *Entry) Remaining() time.Duration {
	d := time.Until(e.CreatedAt.Add(e.TTL))
	if d < 0 {
		return 0
	}
	return d
}

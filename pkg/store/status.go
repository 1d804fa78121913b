package store

import (
	"sync"
	"time"
)

// Status tracks the loading flag and last error of one store.
type Status struct {
	mu      sync.Mutex
	loading bool
	err     string
}

// Loading reports whether an action is in flight.
func (s *Status) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the message of the last failed action, or "".
func (s *Status) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Status) setLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = v
}

func (s *Status) setErr(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = msg
}

// CacheState is the store-tier cache marker: which parameter set the
// current state was loaded for, and when. Either both fields are set
// or both are clear.
type CacheState struct {
	mu            sync.Mutex
	key           string
	lastCacheTime time.Time
}

// SetCacheData records that state for key was stored now.
func (c *CacheState) SetCacheData(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.key = key
	c.lastCacheTime = time.Now()
}

// IsValid reports whether the marker covers key and is still within
// ttl. The boundary instant counts as expired.
func (c *CacheState) IsValid(key string, ttl time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.key == "" || c.key != key {
		return false
	}
	return time.Since(c.lastCacheTime) < ttl
}

// Invalidate clears the marker.
func (c *CacheState) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.key = ""
	c.lastCacheTime = time.Time{}
}

// Key returns the parameter set the marker currently covers, or "".
func (c *CacheState) Key() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.key
}

// LastCacheTime returns when the marker was set, or the zero time.
func (c *CacheState) LastCacheTime() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastCacheTime
}

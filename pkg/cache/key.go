package cache

import (
	"fmt"
	"sort"
	"strings"
)

// Key identifies a cacheable call: its domain, its operation, and an
// optional discriminant (an exact slug/id, or the serialized form of
// the call's parameter set).
type Key struct {
	// Domain is the content domain (e.g., "news")
	Domain string

	// Operation is the client operation (e.g., "list", "slug", "featured")
	Operation string

	// Discriminant narrows the operation to one call; empty for
	// parameterless operations
	Discriminant string
}

// String generates a deterministic cache key string.
// Format: <domain>:<operation>[:<discriminant>]
//
// Example:
//
//	news:slug:budget-vote-2026
//	events:list:page=1&pageSize=10
func (k Key) String() string {
	if k.Discriminant == "" {
		return k.Domain + ":" + k.Operation
	}
	return k.Domain + ":" + k.Operation + ":" + k.Discriminant
}

// SerializeParams renders a parameter set deterministically: keys are
// sorted, so semantically equal sets always serialize to the same
// string regardless of map iteration order.
func SerializeParams(params map[string]string) string {
	if len(params) == 0 {
		return ""
	}

	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", key, params[key]))
	}

	return strings.Join(parts, "&")
}

// Signature identifies an in-flight operation for deduplication:
// endpoint plus serialized call parameters. Distinct from Key, which
// identifies the stored value.
func Signature(endpoint string, params map[string]string) string {
	s := SerializeParams(params)
	if s == "" {
		return endpoint
	}
	return endpoint + "?" + s
}

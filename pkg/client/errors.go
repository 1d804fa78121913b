package client

import "fmt"

// ValidationError reports a request rejected before any cache or
// transport activity.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %s %s", e.Field, e.Message)
}

func emptyField(field string) *ValidationError {
	return &ValidationError{Field: field, Message: "must not be empty"}
}

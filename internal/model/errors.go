package model

import "fmt"

// ValidationError reports caller-supplied input that cannot form a valid todo.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// DeserializationError reports a persisted todo that cannot be reconstructed,
// typically an enum value outside the recognized set.
type DeserializationError struct {
	Field string
	Value string
	Err   error
}

func (e *DeserializationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decoding %s %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("invalid %s: %q", e.Field, e.Value)
}

func (e *DeserializationError) Unwrap() error {
	return e.Err
}

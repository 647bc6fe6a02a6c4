package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound matches any *NotFoundError via errors.Is.
	ErrNotFound = errors.New("todo not found")
	// ErrCapacity matches any *CapacityError via errors.Is.
	ErrCapacity = errors.New("todo capacity reached")
)

// NotFoundError is returned by Update when the todo's id is not stored.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("todo with ID %s not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// CapacityError is returned by Add when every id is in use.
type CapacityError struct {
	Limit int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("maximum number of todos (%d) reached, remove some todos first", e.Limit)
}

func (e *CapacityError) Is(target error) bool {
	return target == ErrCapacity
}

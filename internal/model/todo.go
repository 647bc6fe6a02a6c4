package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// TimeLayout is the ISO-8601 layout used for created_at and completed_at.
// Microsecond precision matches what existing data files carry.
const TimeLayout = "2006-01-02T15:04:05.000000Z07:00"

// naiveTimeLayout accepts timestamps written without a UTC offset; they are
// read in the local zone.
const naiveTimeLayout = "2006-01-02T15:04:05"

// Todo represents one task.
type Todo struct {
	ID          string
	Description string
	Priority    Priority
	Status      Status
	FilePath    string // empty means no associated file
	CreatedAt   time.Time
	CompletedAt *time.Time // non-nil iff Status == StatusCompleted
}

// Now returns the current time at the precision the portable form keeps.
func Now() time.Time {
	return time.Now().Truncate(time.Microsecond)
}

// NewTodo creates a pending, medium-priority todo. The ID is left empty;
// the store assigns one on Add.
func NewTodo(description string) (Todo, error) {
	if strings.TrimSpace(description) == "" {
		return Todo{}, &ValidationError{Field: "description", Message: "must not be empty"}
	}
	return Todo{
		Description: description,
		Priority:    PriorityMedium,
		Status:      StatusPending,
		CreatedAt:   Now(),
	}, nil
}

// errCompletionMismatch is wrapped when status and completed_at disagree.
var errCompletionMismatch = errors.New("completed_at must be set exactly when status is completed")

// Validate checks that t can be stored and read back: a non-blank
// description, known priority and status, a creation time, and CompletedAt
// set exactly when the todo is completed.
func (t Todo) Validate() error {
	if strings.TrimSpace(t.Description) == "" {
		return &ValidationError{Field: "description", Message: "must not be empty"}
	}
	if !t.Priority.Valid() {
		return &ValidationError{Field: "priority", Message: fmt.Sprintf("unknown value %q", t.Priority)}
	}
	if !t.Status.Valid() {
		return &ValidationError{Field: "status", Message: fmt.Sprintf("unknown value %q", t.Status)}
	}
	if t.CreatedAt.IsZero() {
		return &ValidationError{Field: "created_at", Message: "must be set"}
	}
	if t.Completed() != (t.CompletedAt != nil) {
		return &ValidationError{Field: "completed_at", Message: errCompletionMismatch.Error()}
	}
	return nil
}

// MarkComplete sets the status to completed and stamps CompletedAt. Calling
// it on an already completed todo refreshes the timestamp.
func (t *Todo) MarkComplete() {
	at := Now()
	t.Status = StatusCompleted
	t.CompletedAt = &at
}

// MarkPending sets the status to pending and clears CompletedAt.
func (t *Todo) MarkPending() {
	t.Status = StatusPending
	t.CompletedAt = nil
}

// Completed reports whether the todo is done.
func (t Todo) Completed() bool {
	return t.Status == StatusCompleted
}

// Equal reports whether two todos hold the same values. Timestamps are
// compared as instants, so a todo equals its own portable round trip.
func (t Todo) Equal(o Todo) bool {
	if t.ID != o.ID || t.Description != o.Description || t.Priority != o.Priority ||
		t.Status != o.Status || t.FilePath != o.FilePath || !t.CreatedAt.Equal(o.CreatedAt) {
		return false
	}
	if t.CompletedAt == nil || o.CompletedAt == nil {
		return t.CompletedAt == nil && o.CompletedAt == nil
	}
	return t.CompletedAt.Equal(*o.CompletedAt)
}

// PortableTodo is the flat, string-keyed form of a Todo used on disk.
// Field order matches the persisted document.
type PortableTodo struct {
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	FilePath    *string `json:"file_path"`
	ID          string  `json:"id"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	CompletedAt *string `json:"completed_at"`
}

// Portable renders t with enum values as their lowercase strings and
// timestamps in TimeLayout. Absent optional fields become null.
func (t Todo) Portable() PortableTodo {
	p := PortableTodo{
		Description: t.Description,
		Priority:    string(t.Priority),
		ID:          t.ID,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt.Format(TimeLayout),
	}
	if t.FilePath != "" {
		fp := t.FilePath
		p.FilePath = &fp
	}
	if t.CompletedAt != nil {
		ca := t.CompletedAt.Format(TimeLayout)
		p.CompletedAt = &ca
	}
	return p
}

// FromPortable reconstructs a Todo, rejecting unknown priority or status
// values, unparsable timestamps and a completed_at that disagrees with the
// status with a *DeserializationError.
func FromPortable(p PortableTodo) (Todo, error) {
	priority := Priority(p.Priority)
	if !priority.Valid() {
		return Todo{}, &DeserializationError{Field: "priority", Value: p.Priority}
	}
	status := Status(p.Status)
	if !status.Valid() {
		return Todo{}, &DeserializationError{Field: "status", Value: p.Status}
	}

	created, err := parseTime(p.CreatedAt)
	if err != nil {
		return Todo{}, &DeserializationError{Field: "created_at", Value: p.CreatedAt, Err: err}
	}

	t := Todo{
		ID:          p.ID,
		Description: p.Description,
		Priority:    priority,
		Status:      status,
		CreatedAt:   created,
	}
	if p.FilePath != nil {
		t.FilePath = *p.FilePath
	}
	if (status == StatusCompleted) != (p.CompletedAt != nil) {
		value := "null"
		if p.CompletedAt != nil {
			value = *p.CompletedAt
		}
		return Todo{}, &DeserializationError{Field: "completed_at", Value: value, Err: errCompletionMismatch}
	}
	if p.CompletedAt != nil {
		completed, err := parseTime(*p.CompletedAt)
		if err != nil {
			return Todo{}, &DeserializationError{Field: "completed_at", Value: *p.CompletedAt, Err: err}
		}
		t.CompletedAt = &completed
	}
	return t, nil
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation(naiveTimeLayout, s, time.Local)
}

func (t Todo) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Portable())
}

func (t *Todo) UnmarshalJSON(data []byte) error {
	var p PortableTodo
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	decoded, err := FromPortable(p)
	if err != nil {
		return err
	}
	*t = decoded
	return nil
}

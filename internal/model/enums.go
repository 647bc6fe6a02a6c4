package model

import (
	"encoding/json"
	"strings"
)

// Priority represents the urgency of a todo.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

var validPriorities = map[Priority]bool{
	PriorityHigh:   true,
	PriorityMedium: true,
	PriorityLow:    true,
}

// priorityAliases maps every accepted spelling, lowercased, to its canonical value.
var priorityAliases = map[string]Priority{
	"high":   PriorityHigh,
	"h":      PriorityHigh,
	"medium": PriorityMedium,
	"m":      PriorityMedium,
	"low":    PriorityLow,
	"l":      PriorityLow,
}

func (p Priority) Valid() bool {
	return validPriorities[p]
}

// Rank returns a sort rank for priority (lower = higher priority).
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// ParsePriority normalizes user input into a Priority. It accepts the
// canonical names and the single-letter aliases h, m and l, ignoring case
// and surrounding whitespace.
func ParsePriority(s string) (Priority, error) {
	if p, ok := priorityAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return p, nil
	}
	return "", &ValidationError{Field: "priority", Message: "must be one of high, medium, low (or h, m, l), got " + quote(s)}
}

func (p *Priority) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return &DeserializationError{Field: "priority", Value: string(data), Err: err}
	}
	v := Priority(str)
	if !v.Valid() {
		return &DeserializationError{Field: "priority", Value: str}
	}
	*p = v
	return nil
}

// Status represents the lifecycle state of a todo.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

var validStatuses = map[Status]bool{
	StatusPending:   true,
	StatusCompleted: true,
}

var statusAliases = map[string]Status{
	"pending":   StatusPending,
	"p":         StatusPending,
	"completed": StatusCompleted,
	"c":         StatusCompleted,
}

func (s Status) Valid() bool {
	return validStatuses[s]
}

// Opposite returns the status a toggle moves away from s to.
func (s Status) Opposite() Status {
	if s == StatusCompleted {
		return StatusPending
	}
	return StatusCompleted
}

// ParseStatus normalizes user input into a Status ("pending"/"completed",
// or "p"/"c"), ignoring case.
func ParseStatus(s string) (Status, error) {
	if st, ok := statusAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return st, nil
	}
	return "", &ValidationError{Field: "status", Message: "must be pending or completed, got " + quote(s)}
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return &DeserializationError{Field: "status", Value: string(data), Err: err}
	}
	v := Status(str)
	if !v.Valid() {
		return &DeserializationError{Field: "status", Value: str}
	}
	*s = v
	return nil
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

// --- NewTodo defaults ---

func TestNewTodoDefaults(t *testing.T) {
	todo, err := NewTodo("Test todo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if todo.Description != "Test todo" {
		t.Errorf("expected description 'Test todo', got %q", todo.Description)
	}
	if todo.Priority != PriorityMedium {
		t.Errorf("expected priority 'medium', got %q", todo.Priority)
	}
	if todo.Status != StatusPending {
		t.Errorf("expected status 'pending', got %q", todo.Status)
	}
	if todo.FilePath != "" {
		t.Errorf("expected no file path, got %q", todo.FilePath)
	}
	if todo.CompletedAt != nil {
		t.Errorf("expected nil completed_at, got %v", todo.CompletedAt)
	}
	if todo.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
	if todo.ID != "" {
		t.Errorf("expected empty ID (assigned by store), got %q", todo.ID)
	}
}

func TestNewTodoRejectsEmptyDescription(t *testing.T) {
	for _, desc := range []string{"", "   ", "\t\n"} {
		_, err := NewTodo(desc)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("NewTodo(%q): expected *ValidationError, got %v", desc, err)
			continue
		}
		if ve.Field != "description" {
			t.Errorf("expected field 'description', got %q", ve.Field)
		}
	}
}

// --- status transitions ---

func TestMarkComplete(t *testing.T) {
	todo, _ := NewTodo("Test todo")
	todo.MarkComplete()

	if todo.Status != StatusCompleted {
		t.Errorf("expected completed, got %q", todo.Status)
	}
	if todo.CompletedAt == nil {
		t.Fatal("expected completed_at to be set")
	}
	if !todo.Completed() {
		t.Error("Completed() should report true")
	}
}

func TestMarkCompleteRefreshesTimestamp(t *testing.T) {
	todo, _ := NewTodo("Test todo")
	todo.MarkComplete()
	first := *todo.CompletedAt

	time.Sleep(2 * time.Millisecond)
	todo.MarkComplete()

	if !todo.CompletedAt.After(first) {
		t.Errorf("expected re-completing to refresh completed_at: first=%v second=%v", first, *todo.CompletedAt)
	}
}

func TestMarkPendingRestoresState(t *testing.T) {
	for n := 0; n <= 3; n++ {
		todo, _ := NewTodo("Test todo")
		for i := 0; i < n; i++ {
			todo.MarkComplete()
		}
		todo.MarkPending()

		if todo.Status != StatusPending {
			t.Errorf("after %d completions: expected pending, got %q", n, todo.Status)
		}
		if todo.CompletedAt != nil {
			t.Errorf("after %d completions: expected nil completed_at", n)
		}
	}
}

// --- portable form ---

func TestPortableFormFields(t *testing.T) {
	todo, _ := NewTodo("Serialize me")
	todo.ID = "4"
	todo.Priority = PriorityLow
	todo.FilePath = "data.json"

	p := todo.Portable()
	if p.Description != "Serialize me" {
		t.Errorf("description = %q", p.Description)
	}
	if p.Priority != "low" {
		t.Errorf("priority = %q, want low", p.Priority)
	}
	if p.Status != "pending" {
		t.Errorf("status = %q, want pending", p.Status)
	}
	if p.FilePath == nil || *p.FilePath != "data.json" {
		t.Errorf("file_path = %v, want data.json", p.FilePath)
	}
	if p.ID != "4" {
		t.Errorf("id = %q, want 4", p.ID)
	}
	if p.CompletedAt != nil {
		t.Errorf("completed_at = %v, want nil", *p.CompletedAt)
	}
	if _, err := time.Parse(time.RFC3339, p.CreatedAt); err != nil {
		t.Errorf("created_at %q is not ISO-8601: %v", p.CreatedAt, err)
	}
}

func TestPortableRoundTripAllCombinations(t *testing.T) {
	for _, pr := range []Priority{PriorityHigh, PriorityMedium, PriorityLow} {
		for _, st := range []Status{StatusPending, StatusCompleted} {
			for _, fp := range []string{"", "src/main.go"} {
				todo, _ := NewTodo("round trip")
				todo.ID = "17"
				todo.Priority = pr
				todo.FilePath = fp
				if st == StatusCompleted {
					todo.MarkComplete()
				}

				got, err := FromPortable(todo.Portable())
				if err != nil {
					t.Fatalf("%s/%s/%q: unexpected error: %v", pr, st, fp, err)
				}
				if !got.Equal(todo) {
					t.Errorf("%s/%s/%q: round trip mismatch:\n got  %+v\n want %+v", pr, st, fp, got, todo)
				}
			}
		}
	}
}

func TestFromPortableRejectsUnknownEnums(t *testing.T) {
	base := PortableTodo{
		Description: "x",
		Priority:    "medium",
		ID:          "0",
		Status:      "pending",
		CreatedAt:   "2025-01-01T10:00:00.000000Z",
	}

	badPriority := base
	badPriority.Priority = "urgent"
	_, err := FromPortable(badPriority)
	var de *DeserializationError
	if !errors.As(err, &de) || de.Field != "priority" {
		t.Errorf("expected priority DeserializationError, got %v", err)
	}

	badStatus := base
	badStatus.Status = "done"
	_, err = FromPortable(badStatus)
	if !errors.As(err, &de) || de.Field != "status" {
		t.Errorf("expected status DeserializationError, got %v", err)
	}

	badTime := base
	badTime.CreatedAt = "yesterday"
	_, err = FromPortable(badTime)
	if !errors.As(err, &de) || de.Field != "created_at" {
		t.Errorf("expected created_at DeserializationError, got %v", err)
	}
}

func TestFromPortableRejectsCompletionMismatch(t *testing.T) {
	stamp := "2025-01-02T10:00:00.000000Z"
	cases := map[string]PortableTodo{
		"completed without completed_at": {
			Description: "x", Priority: "low", ID: "0", Status: "completed",
			CreatedAt: "2025-01-01T10:00:00.000000Z",
		},
		"pending with completed_at": {
			Description: "x", Priority: "low", ID: "0", Status: "pending",
			CreatedAt: "2025-01-01T10:00:00.000000Z", CompletedAt: &stamp,
		},
	}

	for name, p := range cases {
		_, err := FromPortable(p)
		var de *DeserializationError
		if !errors.As(err, &de) || de.Field != "completed_at" {
			t.Errorf("%s: expected completed_at DeserializationError, got %v", name, err)
		}
	}
}

func TestValidate(t *testing.T) {
	valid, _ := NewTodo("valid")
	if err := valid.Validate(); err != nil {
		t.Fatalf("fresh todo should validate: %v", err)
	}
	done := valid
	done.MarkComplete()
	if err := done.Validate(); err != nil {
		t.Fatalf("completed todo should validate: %v", err)
	}

	at := Now()
	tests := []struct {
		name   string
		mutate func(*Todo)
		field  string
	}{
		{"blank description", func(t *Todo) { t.Description = " \t" }, "description"},
		{"unknown priority", func(t *Todo) { t.Priority = "urgent" }, "priority"},
		{"empty priority", func(t *Todo) { t.Priority = "" }, "priority"},
		{"unknown status", func(t *Todo) { t.Status = "done" }, "status"},
		{"zero created_at", func(t *Todo) { t.CreatedAt = time.Time{} }, "created_at"},
		{"completed without completed_at", func(t *Todo) { t.Status = StatusCompleted }, "completed_at"},
		{"pending with completed_at", func(t *Todo) { t.CompletedAt = &at }, "completed_at"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			todo := valid
			tt.mutate(&todo)

			var ve *ValidationError
			if err := todo.Validate(); !errors.As(err, &ve) || ve.Field != tt.field {
				t.Errorf("expected %s ValidationError, got %v", tt.field, err)
			}
		})
	}
}

func TestFromPortableAcceptsNaiveTimestamps(t *testing.T) {
	completed := "2024-03-15T09:30:00"
	p := PortableTodo{
		Description: "legacy",
		Priority:    "high",
		ID:          "3",
		Status:      "completed",
		CreatedAt:   "2024-03-14T08:00:00.123456",
		CompletedAt: &completed,
	}

	got, err := FromPortable(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, 3, 14, 8, 0, 0, 123456000, time.Local)
	if !got.CreatedAt.Equal(want) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, want)
	}
	if got.CompletedAt == nil || got.CompletedAt.Hour() != 9 {
		t.Errorf("completed_at = %v", got.CompletedAt)
	}
}

// --- JSON ---

func TestTodoJSONLayout(t *testing.T) {
	todo := Todo{
		ID:          "0",
		Description: "Buy milk",
		Priority:    PriorityLow,
		Status:      StatusPending,
		CreatedAt:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(todo)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	want := `{"description":"Buy milk","priority":"low","file_path":null,"id":"0","status":"pending","created_at":"2025-01-01T00:00:00.000000Z","completed_at":null}`
	if string(data) != want {
		t.Errorf("unexpected JSON:\n got  %s\n want %s", data, want)
	}
}

func TestTodoUnmarshalInvalidPriority(t *testing.T) {
	raw := `{"description":"x","priority":"bogus","file_path":null,"id":"0","status":"pending","created_at":"2025-01-01T00:00:00Z","completed_at":null}`
	var todo Todo
	err := json.Unmarshal([]byte(raw), &todo)
	if err == nil || !strings.Contains(err.Error(), "priority") {
		t.Errorf("expected priority error, got %v", err)
	}
}

func TestTodoJSONRoundTrip(t *testing.T) {
	original, _ := NewTodo("Fix login bug")
	original.ID = "12"
	original.Priority = PriorityHigh
	original.FilePath = "auth/login.go"
	original.MarkComplete()

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded Todo
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !decoded.Equal(original) {
		t.Errorf("decoded %+v, want %+v", decoded, original)
	}
}

package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vector76/todo/internal/model"
	"github.com/vector76/todo/internal/store"
)

// jsonError writes a JSON error response with the given status code.
func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// jsonOK writes a JSON response with status 200.
func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// handleListTodos handles GET /api/v1/todos.
func (s *Server) handleListTodos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filters := store.ListFilters{
		FilePath: q.Get("file"),
		Page:     intParam(q.Get("page"), 1),
		PerPage:  intParam(q.Get("per_page"), store.Capacity),
	}

	if raw := q.Get("status"); raw != "" {
		st, err := model.ParseStatus(raw)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		filters.Status = &st
	}

	jsonOK(w, s.source.List(filters))
}

// handleGetTodo handles GET /api/v1/todos/{id}.
func (s *Server) handleGetTodo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	t, ok := s.source.Get(id)
	if !ok {
		jsonError(w, "todo "+id+" not found", http.StatusNotFound)
		return
	}
	jsonOK(w, t)
}

// intParam parses a positive integer query value, returning def when it is
// missing or invalid.
func intParam(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}

package server

import (
	"github.com/vector76/todo/internal/model"
	"github.com/vector76/todo/internal/store"
)

// TodoSource is the read side of a todo store. *store.Store satisfies it.
// Reload is called before every request so the server follows writes made
// by other processes.
type TodoSource interface {
	Reload() error
	Get(id string) (model.Todo, bool)
	List(filters store.ListFilters) store.ListResult
	Len() int
	Available() int
	Path() string
}

var _ TodoSource = (*store.Store)(nil)

package store

import (
	"github.com/vector76/todo/internal/model"
)

// Remove deletes the todo with the given id and returns its id to the pool.
// It reports whether the todo existed; an unknown id writes nothing.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.todos[id]; !ok {
		return false
	}
	delete(s.todos, id)
	if n, err := parseID(id); err == nil {
		s.free.release(n)
	}
	s.save()

	return true
}

// MarkComplete completes the todo with the given id and persists. The second
// result is false when no such todo exists.
func (s *Store) MarkComplete(id string) (model.Todo, bool) {
	return s.transition(id, (*model.Todo).MarkComplete)
}

// MarkPending reopens the todo with the given id and persists. The second
// result is false when no such todo exists.
func (s *Store) MarkPending(id string) (model.Todo, bool) {
	return s.transition(id, (*model.Todo).MarkPending)
}

func (s *Store) transition(id string, apply func(*model.Todo)) (model.Todo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.todos[id]
	if !ok {
		return model.Todo{}, false
	}
	apply(&t)
	s.todos[id] = t
	s.save()

	return t, true
}

// Available returns how many ids are still free.
func (s *Store) Available() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.free.Len()
}

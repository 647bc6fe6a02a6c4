package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vector76/todo/internal/model"
)

// Store holds todos in memory and persists them to a JSON file after every
// mutation.
type Store struct {
	mu       sync.RWMutex
	todos    map[string]model.Todo
	free     *idPool
	filePath string
	log      zerolog.Logger
	saveErr  error

	// stamp of the data file as last read or written, for Reload.
	seen fileStamp
}

// fileStamp identifies one version of the data file. The zero value stands
// for a missing file.
type fileStamp struct {
	modTime time.Time
	size    int64
}

func (f fileStamp) same(o fileStamp) bool {
	return f.size == o.size && f.modTime.Equal(o.modTime)
}

func statFile(path string) (fileStamp, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fileStamp{}, nil
		}
		return fileStamp{}, err
	}
	return fileStamp{modTime: info.ModTime(), size: info.Size()}, nil
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for load fallbacks and persist failures.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// Open reads todos from path, or starts empty if the file does not exist.
// A file that cannot be read or decoded is logged and treated as empty, so
// Open never fails.
func Open(path string, opts ...Option) *Store {
	s := &Store{
		filePath: path,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.seen, _ = statFile(path)
	todos, err := load(path)
	if err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("could not load todos, starting empty")
		todos = make(map[string]model.Todo)
	}
	s.replace(todos)

	return s
}

// replace installs todos and rebuilds the free id pool from their keys.
// Caller must hold s.mu or own s exclusively.
func (s *Store) replace(todos map[string]model.Todo) {
	s.todos = todos

	used := make(map[int]bool, len(todos))
	for id := range todos {
		n, _ := strconv.Atoi(id)
		used[n] = true
	}
	s.free = newIDPool(used)
}

// Reload re-reads the data file if it changed since this store last read or
// wrote it, picking up writes from other processes. Unlike Open, a file that
// cannot be decoded leaves the current todos in place and returns the error.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stamp, err := statFile(s.filePath)
	if err != nil {
		return fmt.Errorf("checking data file: %w", err)
	}
	if stamp.same(s.seen) {
		return nil
	}

	todos, err := load(s.filePath)
	if err != nil {
		return err
	}
	s.replace(todos)
	s.seen = stamp
	s.log.Debug().Str("path", s.filePath).Int("todos", len(todos)).Msg("reloaded todos")
	return nil
}

// load decodes the document at path. Every key must be the canonical decimal
// form of an id in [0, Capacity); the key is authoritative over the entry's
// own id field.
func load(path string) (map[string]model.Todo, error) {
	todos := make(map[string]model.Todo)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return todos, nil
		}
		return nil, fmt.Errorf("reading data file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return todos, nil
	}

	var raw map[string]model.Todo
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing data file: %w", err)
	}

	for key, t := range raw {
		if _, err := parseID(key); err != nil {
			return nil, fmt.Errorf("parsing data file: %w", err)
		}
		t.ID = key
		todos[key] = t
	}
	return todos, nil
}

// parseID converts a todo id to its pool slot.
func parseID(id string) (int, error) {
	n, err := strconv.Atoi(id)
	if err != nil || n < 0 || n >= Capacity || strconv.Itoa(n) != id {
		return 0, fmt.Errorf("invalid todo id %q", id)
	}
	return n, nil
}

// save writes all todos to disk and records the outcome in saveErr. A failed
// write is logged and the in-memory state is kept.
// Caller must hold s.mu.
func (s *Store) save() {
	if err := s.write(); err != nil {
		s.saveErr = err
		s.log.Error().Err(err).Str("path", s.filePath).Msg("could not save todos")
		return
	}
	s.saveErr = nil
	s.seen, _ = statFile(s.filePath)
}

// write replaces the data file atomically (temp file + rename).
func (s *Store) write() error {
	data, err := json.MarshalIndent(s.todos, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling data: %w", err)
	}

	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "todos-*.json.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.filePath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Path returns the data file the store persists to.
func (s *Store) Path() string {
	return s.filePath
}

// SaveErr returns the error from the most recent persist, or nil if it
// succeeded.
func (s *Store) SaveErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saveErr
}

// Add assigns t the lowest free id, stores it and persists. Any id already
// on t is overwritten. Zero priority, status and creation time are filled
// with the same defaults as model.NewTodo; the result must then pass
// model.Todo.Validate.
func (s *Store) Add(t model.Todo) (model.Todo, error) {
	if t.Priority == "" {
		t.Priority = model.PriorityMedium
	}
	if t.Status == "" {
		t.Status = model.StatusPending
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = model.Now()
	}
	if err := t.Validate(); err != nil {
		return model.Todo{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.free.take()
	if !ok {
		return model.Todo{}, &CapacityError{Limit: Capacity}
	}
	t.ID = strconv.Itoa(n)
	s.todos[t.ID] = t
	s.save()

	return t, nil
}

// Get returns the todo with the given id. The second result is false when no
// such todo exists.
func (s *Store) Get(id string) (model.Todo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.todos[id]
	return t, ok
}

// All returns every stored todo in no particular order.
func (s *Store) All() []model.Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.Todo, 0, len(s.todos))
	for _, t := range s.todos {
		result = append(result, t)
	}
	return result
}

// Len returns the number of stored todos.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.todos)
}

// Update replaces the stored todo with the same id and persists. A todo that
// fails model.Todo.Validate is rejected and nothing changes.
func (s *Store) Update(t model.Todo) (model.Todo, error) {
	if err := t.Validate(); err != nil {
		return model.Todo{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.todos[t.ID]; !ok {
		return model.Todo{}, &NotFoundError{ID: t.ID}
	}
	s.todos[t.ID] = t
	s.save()

	return t, nil
}

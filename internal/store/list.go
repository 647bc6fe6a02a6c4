package store

import (
	"sort"
	"strconv"
	"strings"

	"github.com/vector76/todo/internal/model"
)

// ListFilters specifies filtering criteria for todos. Set fields are ANDed;
// the zero value matches everything.
type ListFilters struct {
	Status   *model.Status // exact match
	FilePath string        // substring match; todos without a file never match
	Page     int           // 1-indexed page number for List (default: 1)
	PerPage  int           // items per page for List (default: Capacity)
}

// ListResult contains one page of sorted todos.
type ListResult struct {
	Todos      []model.Todo `json:"todos"`
	Page       int          `json:"page"`
	PerPage    int          `json:"per_page"`
	Total      int          `json:"total"`
	TotalPages int          `json:"total_pages"`
}

// Filter returns the todos matching filters in no particular order.
// Pagination fields are ignored.
func (s *Store) Filter(filters ListFilters) []model.Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []model.Todo
	for _, t := range s.todos {
		if matches(t, filters) {
			matched = append(matched, t)
		}
	}
	return matched
}

// List returns the todos matching filters, sorted for display and paginated.
func (s *Store) List(filters ListFilters) ListResult {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PerPage < 1 {
		filters.PerPage = Capacity
	}

	matched := s.Filter(filters)
	SortForDisplay(matched)

	total := len(matched)
	totalPages := (total + filters.PerPage - 1) / filters.PerPage
	if totalPages < 1 {
		totalPages = 1
	}

	page := paginate(matched, filters.Page, filters.PerPage)
	if page == nil {
		page = []model.Todo{}
	}
	return ListResult{
		Todos:      page,
		Page:       filters.Page,
		PerPage:    filters.PerPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

func matches(t model.Todo, filters ListFilters) bool {
	if filters.Status != nil && t.Status != *filters.Status {
		return false
	}
	if filters.FilePath != "" {
		if t.FilePath == "" || !strings.Contains(t.FilePath, filters.FilePath) {
			return false
		}
	}
	return true
}

// SortForDisplay sorts todos by priority (high first), then by numeric id.
func SortForDisplay(todos []model.Todo) {
	sort.Slice(todos, func(i, j int) bool {
		ri := todos[i].Priority.Rank()
		rj := todos[j].Priority.Rank()
		if ri != rj {
			return ri < rj
		}
		return numericID(todos[i].ID) < numericID(todos[j].ID)
	})
}

func numericID(id string) int {
	n, err := strconv.Atoi(id)
	if err != nil {
		return Capacity
	}
	return n
}

// paginate returns the slice of todos for the given page.
func paginate(todos []model.Todo, page, perPage int) []model.Todo {
	total := len(todos)
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return todos[start:end]
}

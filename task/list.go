package task

import (
	"context"
	"sort"
	"strings"

	"github.com/amonks/ticklist/internal/validation"
)

// ListFilter configures which tasks to return. All set fields must match.
type ListFilter struct {
	// Done filters by exact completion state.
	Done *bool

	// Priority filters by exact priority match.
	Priority *Priority

	// Category filters by exact category match.
	Category *string

	// Search filters to tasks with this substring in the title, ignoring case.
	Search string
}

// Matches reports whether t passes every set predicate.
func (f ListFilter) Matches(t Task) bool {
	if f.Done != nil && t.Done != *f.Done {
		return false
	}
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	if f.Category != nil && t.Category != *f.Category {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

// SortField names the key a list is ordered by.
type SortField string

const (
	SortCreatedAt SortField = "createdAt"
	SortUpdatedAt SortField = "updatedAt"
	SortTitle     SortField = "title"
	SortPriority  SortField = "priority"
)

// ValidSortFields returns all valid sort fields.
func ValidSortFields() []SortField {
	return []SortField{SortCreatedAt, SortUpdatedAt, SortTitle, SortPriority}
}

// ParseSortField accepts a sort field in any case, with or without
// separators ("created_at", "created-at" and "createdAt" are equivalent).
func ParseSortField(value string) (SortField, error) {
	key := strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(value))
	for _, field := range ValidSortFields() {
		if strings.ToLower(string(field)) == key {
			return field, nil
		}
	}
	return "", validation.FormatInvalidValueError(ErrInvalidSortField, SortField(value), ValidSortFields())
}

// SortDirection is ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ValidSortDirections returns all valid sort directions.
func ValidSortDirections() []SortDirection {
	return []SortDirection{SortAsc, SortDesc}
}

// ParseSortDirection accepts "asc" or "desc" in any case; empty means asc.
func ParseSortDirection(value string) (SortDirection, error) {
	switch SortDirection(strings.ToLower(strings.TrimSpace(value))) {
	case "", SortAsc:
		return SortAsc, nil
	case SortDesc:
		return SortDesc, nil
	default:
		return "", validation.FormatInvalidValueError(ErrInvalidSortDirection, SortDirection(value), ValidSortDirections())
	}
}

// SortOptions orders a list.
type SortOptions struct {
	Field     SortField
	Direction SortDirection
}

func (o SortOptions) validate() error {
	if _, err := ParseSortField(string(o.Field)); err != nil {
		return err
	}
	_, err := ParseSortDirection(string(o.Direction))
	return err
}

// List returns tasks matching filter. A nil sort keeps insertion order;
// otherwise the sort is stable so equal keys keep insertion order.
func (s *Store) List(ctx context.Context, filter ListFilter, sortOpts *SortOptions) ([]Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if filter.Priority != nil {
		if err := ValidatePriority(*filter.Priority); err != nil {
			return nil, err
		}
	}
	if sortOpts != nil {
		if err := sortOpts.validate(); err != nil {
			return nil, err
		}
	}

	tasks := s.readTasks(ctx)

	result := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if filter.Matches(t) {
			result = append(result, t)
		}
	}

	if sortOpts != nil {
		SortTasks(result, *sortOpts)
	}
	return result, nil
}

// SortTasks stably sorts tasks in place. Unknown fields leave the order
// unchanged.
func SortTasks(tasks []Task, opts SortOptions) {
	field, err := ParseSortField(string(opts.Field))
	if err != nil {
		return
	}
	direction, err := ParseSortDirection(string(opts.Direction))
	if err != nil {
		return
	}

	compare := comparator(field)
	sort.SliceStable(tasks, func(i, j int) bool {
		c := compare(tasks[i], tasks[j])
		if direction == SortDesc {
			return c > 0
		}
		return c < 0
	})
}

func comparator(field SortField) func(a, b Task) int {
	switch field {
	case SortCreatedAt:
		return func(a, b Task) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case SortUpdatedAt:
		return func(a, b Task) int { return a.UpdatedAt.Compare(b.UpdatedAt) }
	case SortTitle:
		return func(a, b Task) int {
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		}
	case SortPriority:
		return func(a, b Task) int { return a.Priority.Rank() - b.Priority.Rank() }
	default:
		return func(a, b Task) int { return 0 }
	}
}

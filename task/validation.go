package task

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/amonks/ticklist/internal/validation"
)

// Error categories. Every error returned by this package matches at most
// one of them under errors.Is.
var (
	// ErrValidation marks input that breaks a domain rule.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a task with the given ID doesn't exist.
	ErrNotFound = errors.New("task not found")

	// ErrPersistence marks a failure to read or write the collection.
	ErrPersistence = errors.New("persistence failed")
)

var (
	// ErrEmptyID is returned when a task is constructed without an ID.
	ErrEmptyID = kindError(ErrValidation, "id cannot be empty")

	// ErrEmptyTitle is returned when a title is empty after trimming.
	ErrEmptyTitle = kindError(ErrValidation, "title cannot be empty")

	// ErrTitleTooLong is returned when a title exceeds MaxTitleLength.
	ErrTitleTooLong = kindError(ErrValidation, "title exceeds maximum length")

	// ErrCategoryTooLong is returned when a category exceeds MaxCategoryLength.
	ErrCategoryTooLong = kindError(ErrValidation, "category exceeds maximum length")

	// ErrInvalidPriority is returned for an unknown priority.
	ErrInvalidPriority = kindError(ErrValidation, "invalid priority")

	// ErrInvalidSortField is returned for an unknown sort field.
	ErrInvalidSortField = kindError(ErrValidation, "invalid sort field")

	// ErrInvalidSortDirection is returned for an unknown sort direction.
	ErrInvalidSortDirection = kindError(ErrValidation, "invalid sort direction")

	// ErrAmbiguousIDPrefix is returned when an ID prefix matches multiple tasks.
	ErrAmbiguousIDPrefix = kindError(ErrValidation, "ambiguous task ID prefix")

	// ErrUpdatedBeforeCreated is returned when UpdatedAt precedes CreatedAt.
	ErrUpdatedBeforeCreated = kindError(ErrValidation, "updated_at is before created_at")

	// ErrDuplicateID is returned when no unused ID could be generated.
	ErrDuplicateID = kindError(ErrPersistence, "could not generate a unique task ID")

	// ErrMalformedRecord is returned when a stored record cannot be parsed.
	ErrMalformedRecord = kindError(ErrPersistence, "malformed task record")
)

// categorizedError carries its own message and unwraps to its category.
type categorizedError struct {
	category error
	message  string
}

func kindError(category error, message string) error {
	return &categorizedError{category: category, message: message}
}

func (e *categorizedError) Error() string {
	return e.message
}

func (e *categorizedError) Unwrap() error {
	return e.category
}

// ValidateTitle checks a title after trimming surrounding whitespace.
func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	if n := utf8.RuneCountInString(title); n > MaxTitleLength {
		return fmt.Errorf("%w: %d > %d", ErrTitleTooLong, n, MaxTitleLength)
	}
	return nil
}

// ValidateCategory checks a category after trimming surrounding whitespace.
// An empty category is valid and means DefaultCategory.
func ValidateCategory(category string) error {
	if n := utf8.RuneCountInString(strings.TrimSpace(category)); n > MaxCategoryLength {
		return fmt.Errorf("%w: %d > %d", ErrCategoryTooLong, n, MaxCategoryLength)
	}
	return nil
}

// ValidatePriority checks if the priority is valid.
func ValidatePriority(priority Priority) error {
	if !priority.IsValid() {
		return validation.FormatInvalidValueError(ErrInvalidPriority, priority, ValidPriorities())
	}
	return nil
}

// ValidateTask checks every field of an already-built task.
func ValidateTask(t Task) error {
	if t.ID == "" {
		return ErrEmptyID
	}
	if err := ValidateTitle(t.Title); err != nil {
		return err
	}
	if err := ValidatePriority(t.Priority); err != nil {
		return err
	}
	if err := ValidateCategory(t.Category); err != nil {
		return err
	}
	if t.UpdatedAt.Before(t.CreatedAt) {
		return ErrUpdatedBeforeCreated
	}
	return nil
}

func normalizeCategory(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return DefaultCategory
	}
	return category
}

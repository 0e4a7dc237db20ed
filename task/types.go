// Package task implements a personal task list persisted as a single
// serialized collection in a key-value store.
//
// A Store owns one storage key. Every call loads the whole collection,
// applies the requested change or query in memory, and rewrites the
// collection when it changed:
//   - Add, Update, Remove, RemoveAll for the task lifecycle
//   - FindByID, List, Stats for querying
package task

import (
	"strings"

	"github.com/amonks/ticklist/internal/validation"
)

// Priority is the importance level of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium" // default
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// ValidPriorities returns all valid priorities, lowest first.
func ValidPriorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
}

// IsValid returns true if the priority is a known valid value.
func (p Priority) IsValid() bool {
	for _, valid := range ValidPriorities() {
		if p == valid {
			return true
		}
	}
	return false
}

// Rank returns the sort rank for a priority: low=1 through urgent=4.
// Unknown priorities rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityUrgent:
		return 4
	default:
		return 0
	}
}

// ParsePriority accepts a priority name in any case.
func ParsePriority(value string) (Priority, error) {
	priority := Priority(strings.ToLower(strings.TrimSpace(value)))
	if !priority.IsValid() {
		return "", validation.FormatInvalidValueError(ErrInvalidPriority, Priority(value), ValidPriorities())
	}
	return priority, nil
}

// PriorityPtr returns a pointer to the provided priority.
func PriorityPtr(priority Priority) *Priority {
	return &priority
}

const (
	// MaxTitleLength is the maximum number of characters in a title.
	MaxTitleLength = 200

	// MaxCategoryLength is the maximum number of characters in a category.
	MaxCategoryLength = 50

	// DefaultCategory is assigned when no category is given.
	DefaultCategory = "General"
)

package task

import (
	"context"
	"fmt"
	"strings"

	"github.com/amonks/ticklist/internal/ids"
)

// IDIndex indexes task IDs for prefix matching and display.
type IDIndex struct {
	ids      []string
	original map[string]string
}

// NewIDIndex builds an IDIndex from a slice of tasks.
func NewIDIndex(tasks []Task) IDIndex {
	taskIDs := make([]string, 0, len(tasks))
	original := make(map[string]string, len(tasks))
	for _, t := range tasks {
		taskIDs = append(taskIDs, t.ID)
		if _, ok := original[strings.ToLower(t.ID)]; !ok {
			original[strings.ToLower(t.ID)] = t.ID
		}
	}
	return IDIndex{ids: ids.NormalizeUniqueIDs(taskIDs), original: original}
}

// Resolve returns the full task ID for a prefix.
func (index IDIndex) Resolve(prefix string) (string, error) {
	if prefix == "" {
		return "", ErrNotFound
	}

	match, found, ambiguous := ids.MatchPrefixNormalized(index.ids, prefix)
	if !found {
		return "", fmt.Errorf("%w: %s", ErrNotFound, prefix)
	}
	if ambiguous {
		return "", fmt.Errorf("%w: %s", ErrAmbiguousIDPrefix, prefix)
	}

	if id, ok := index.original[match]; ok {
		return id, nil
	}
	return match, nil
}

// PrefixLengths returns the shortest unique prefix length for each ID,
// keyed by the ID as stored.
func (index IDIndex) PrefixLengths() map[string]int {
	lengths := ids.UniquePrefixLengthsNormalized(index.ids)
	result := make(map[string]int, len(lengths))
	for id, n := range lengths {
		if stored, ok := index.original[id]; ok {
			id = stored
		}
		result[id] = n
	}
	return result
}

// IDIndex returns an index of all task IDs in the store.
func (s *Store) IDIndex(ctx context.Context) (IDIndex, error) {
	if err := ctx.Err(); err != nil {
		return IDIndex{}, err
	}
	return NewIDIndex(s.readTasks(ctx)), nil
}

package task

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/amonks/ticklist/internal/ids"
	"github.com/amonks/ticklist/internal/kv"
)

const (
	// DefaultKey is the storage key holding the task collection.
	DefaultKey = "todos"

	maxIDAttempts = 8
)

// Store is the repository for one task collection.
//
// Store performs a full read-modify-write per call and does not serialize
// concurrent callers: two overlapping mutations can lose one of the writes.
type Store struct {
	kv     kv.Store
	key    string
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// StoreOptions configures NewStore. Zero values select the defaults.
type StoreOptions struct {
	// Key is the storage key. Defaults to DefaultKey.
	Key string

	// Logger receives warnings about degraded reads. Defaults to discarding.
	Logger *slog.Logger

	// Now is the clock used for timestamps. Defaults to time.Now.
	Now func() time.Time

	// NewID generates task IDs. Defaults to ids.New.
	NewID func() string
}

// NewStore returns a repository over backend.
func NewStore(backend kv.Store, opts StoreOptions) *Store {
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = ids.New
	}
	return &Store{
		kv:     backend,
		key:    opts.Key,
		logger: opts.Logger.With("key", opts.Key),
		now:    opts.Now,
		newID:  opts.NewID,
	}
}

// Key returns the storage key owned by the store.
func (s *Store) Key() string {
	return s.key
}

// readTasks loads the collection for queries. Read failures never
// propagate: a missing key is an empty collection, and an unreadable or
// corrupt blob is logged and treated as empty.
func (s *Store) readTasks(ctx context.Context) []Task {
	data, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil
	}
	if err != nil {
		s.logger.Warn("read task collection failed; using empty collection", "error", err)
		return nil
	}
	return s.decode(data)
}

// readTasksForWrite loads the collection ahead of a mutation. A backend
// failure is returned as ErrPersistence so the caller never writes over
// data it could not read. A corrupt blob still reads as empty.
func (s *Store) readTasksForWrite(ctx context.Context) ([]Task, error) {
	data, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read tasks: %w", ErrPersistence, err)
	}
	return s.decode(data), nil
}

func (s *Store) decode(data []byte) []Task {
	tasks, dropped, err := decodeCollection(data)
	if err != nil {
		s.logger.Warn("task collection is corrupt; using empty collection", "error", err)
		return nil
	}
	for _, dropErr := range dropped {
		s.logger.Warn("dropping malformed task record", "error", dropErr)
	}
	return tasks
}

// writeTasks replaces the stored collection.
func (s *Store) writeTasks(ctx context.Context, tasks []Task) error {
	data, err := encodeCollection(tasks)
	if err != nil {
		return fmt.Errorf("%w: encode tasks: %w", ErrPersistence, err)
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("%w: write tasks: %w", ErrPersistence, err)
	}
	s.logger.Debug("wrote task collection", "count", len(tasks), "bytes", len(data))
	return nil
}

func (s *Store) clock() time.Time {
	return normalizeTime(s.now())
}

// uniqueID draws IDs until one is unused by tasks.
func (s *Store) uniqueID(tasks []Task) (string, error) {
	taken := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		taken[t.ID] = true
	}
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := s.newID()
		if id != "" && !taken[id] {
			return id, nil
		}
		s.logger.Warn("generated task ID collides; retrying", "id", id, "attempt", attempt+1)
	}
	return "", ErrDuplicateID
}

func indexOf(tasks []Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

package task

import (
	"bytes"
	"context"
	"log/slog"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/amonks/ticklist/internal/kv"
)

// stepClock advances one second on every reading.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

// sequentialIDs returns "task-1", "task-2", ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return "task-" + strconv.Itoa(n)
	}
}

// recordingKV wraps a memory store, counts writes and can inject failures.
type recordingKV struct {
	*kv.Memory
	getErr error
	setErr error
	sets   int
}

func (r *recordingKV) Get(ctx context.Context, key string) ([]byte, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.Memory.Get(ctx, key)
}

func (r *recordingKV) Set(ctx context.Context, key string, value []byte) error {
	r.sets++
	if r.setErr != nil {
		return r.setErr
	}
	return r.Memory.Set(ctx, key, value)
}

type testStore struct {
	*Store
	backend *recordingKV
	logs    *bytes.Buffer
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()

	backend := &recordingKV{Memory: kv.NewMemory()}
	logs := &bytes.Buffer{}
	store := NewStore(backend, StoreOptions{
		Logger: slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
		Now:    newStepClock().Now,
		NewID:  sequentialIDs(),
	})
	return &testStore{Store: store, backend: backend, logs: logs}
}

func (s *testStore) mustAdd(t *testing.T, draft Draft) Task {
	t.Helper()
	created, err := s.Add(context.Background(), draft)
	if err != nil {
		t.Fatalf("failed to add %q: %v", draft.Title, err)
	}
	return created
}

func (s *testStore) rawCollection(t *testing.T) []byte {
	t.Helper()
	data, err := s.backend.Memory.Get(context.Background(), s.Key())
	if err != nil {
		t.Fatalf("failed to read raw collection: %v", err)
	}
	return data
}

func titles(tasks []Task) []string {
	result := make([]string, 0, len(tasks))
	for _, t := range tasks {
		result = append(result, t.Title)
	}
	return result
}

func boolPtr(v bool) *bool {
	return &v
}

func stringPtr(v string) *string {
	return &v
}

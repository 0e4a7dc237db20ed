package ops

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/amonks/ticklist/internal/kv"
	"github.com/amonks/ticklist/internal/metrics"
	"github.com/amonks/ticklist/notify"
	"github.com/amonks/ticklist/task"
)

type notification struct {
	kind    notify.Kind
	message string
}

type recordingNotifier struct {
	mu    sync.Mutex
	items []notification
}

func (r *recordingNotifier) add(kind notify.Kind, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, notification{kind: kind, message: message})
}

func (r *recordingNotifier) Success(message string) { r.add(notify.KindSuccess, message) }
func (r *recordingNotifier) Error(message string)   { r.add(notify.KindError, message) }
func (r *recordingNotifier) Info(message string)    { r.add(notify.KindInfo, message) }

func (r *recordingNotifier) all() []notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notification(nil), r.items...)
}

// failingKV fails every write after the first allowedSets.
type failingKV struct {
	*kv.Memory
	allowedSets int
	sets        int
}

func (f *failingKV) Set(ctx context.Context, key string, value []byte) error {
	f.sets++
	if f.sets > f.allowedSets {
		return errors.New("disk full")
	}
	return f.Memory.Set(ctx, key, value)
}

type testEnv struct {
	*Env
	notes   *recordingNotifier
	backend *failingKV
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	backend := &failingKV{Memory: kv.NewMemory(), allowedSets: 1 << 30}
	notes := &recordingNotifier{}
	return &testEnv{
		Env: &Env{
			Store:    task.NewStore(backend, task.StoreOptions{}),
			Notifier: notes,
			Metrics:  metrics.New(),
		},
		notes:   notes,
		backend: backend,
	}
}

func (e *testEnv) mustAdd(t *testing.T, title string) task.Task {
	t.Helper()
	resp := NewAdd(e.Env).Execute(context.Background(), AddRequest{Title: title})
	if !resp.Success {
		t.Fatalf("add %q failed: %s", title, resp.Message)
	}
	return *resp.Task
}

func (e *testEnv) lastNote(t *testing.T) notification {
	t.Helper()
	items := e.notes.all()
	if len(items) == 0 {
		t.Fatal("expected a notification")
	}
	return items[len(items)-1]
}

// operationCount reads ticklist_operations_total for one label pair.
func operationCount(t *testing.T, env *testEnv, operation, result string) float64 {
	t.Helper()
	families, err := env.Metrics.Registry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, family := range families {
		if family.GetName() != "ticklist_operations_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			labels := map[string]string{}
			for _, pair := range metric.GetLabel() {
				labels[pair.GetName()] = pair.GetValue()
			}
			if labels["operation"] == operation && labels["result"] == result {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestAdd_Success(t *testing.T) {
	env := newTestEnv(t)

	resp := NewAdd(env.Env).Execute(context.Background(), AddRequest{
		Title:    "Buy milk",
		Priority: "HIGH",
		Category: "Groceries",
	})
	if !resp.Success || resp.Message != MsgTaskAdded {
		t.Fatalf("expected success, got %+v", resp.Result)
	}
	if resp.Task == nil || resp.Task.Priority != task.PriorityHigh || resp.Task.Category != "Groceries" {
		t.Fatalf("unexpected task: %+v", resp.Task)
	}
	if note := env.lastNote(t); note.kind != notify.KindSuccess || note.message != MsgTaskAdded {
		t.Errorf("unexpected notification: %+v", note)
	}
}

func TestAdd_ValidationCollectsAllMessages(t *testing.T) {
	env := newTestEnv(t)

	resp := NewAdd(env.Env).Execute(context.Background(), AddRequest{
		Title:    "  ",
		Priority: "someday",
		Category: strings.Repeat("c", 51),
	})
	if resp.Success {
		t.Fatal("expected failure")
	}
	if resp.Task != nil {
		t.Error("expected no task on failure")
	}
	parts := strings.Split(resp.Message, ", ")
	if len(parts) < 3 {
		t.Fatalf("expected three joined messages, got %q", resp.Message)
	}
	if !strings.HasPrefix(resp.Message, "title cannot be empty, invalid priority") {
		t.Errorf("unexpected message: %q", resp.Message)
	}
	if !strings.HasSuffix(resp.Message, "category exceeds maximum length: 51 > 50") {
		t.Errorf("unexpected message: %q", resp.Message)
	}
	if env.backend.sets != 0 {
		t.Error("expected storage not to be touched on validation failure")
	}
	if note := env.lastNote(t); note.kind != notify.KindError || note.message != resp.Message {
		t.Errorf("unexpected notification: %+v", note)
	}
}

func TestAdd_TitleLengthBoundary(t *testing.T) {
	env := newTestEnv(t)
	add := NewAdd(env.Env)

	if resp := add.Execute(context.Background(), AddRequest{Title: strings.Repeat("a", 200)}); !resp.Success {
		t.Fatalf("expected 200 characters to succeed: %s", resp.Message)
	}
	resp := add.Execute(context.Background(), AddRequest{Title: strings.Repeat("a", 201)})
	if resp.Success {
		t.Fatal("expected 201 characters to fail")
	}
	if resp.Message != "title exceeds maximum length: 201 > 200" {
		t.Errorf("unexpected message: %q", resp.Message)
	}
}

func TestAdd_PriorityMustMatchExactly(t *testing.T) {
	env := newTestEnv(t)
	add := NewAdd(env.Env)

	for _, priority := range []string{" HIGH ", "High", "high "} {
		resp := add.Execute(context.Background(), AddRequest{Title: "Task", Priority: priority})
		if resp.Success {
			t.Errorf("expected priority %q to be rejected", priority)
			continue
		}
		if !strings.HasPrefix(resp.Message, "invalid priority") {
			t.Errorf("unexpected message for %q: %q", priority, resp.Message)
		}
	}
	if env.backend.sets != 0 {
		t.Error("expected storage not to be touched")
	}

	resp := add.Execute(context.Background(), AddRequest{Title: "Task", Priority: "high"})
	if !resp.Success {
		t.Fatalf("expected high to be accepted: %s", resp.Message)
	}
	if resp.Task.Priority != task.PriorityHigh {
		t.Errorf("expected high, got %q", resp.Task.Priority)
	}
}

func TestAdd_PersistenceFailure(t *testing.T) {
	env := newTestEnv(t)
	env.backend.allowedSets = 0

	resp := NewAdd(env.Env).Execute(context.Background(), AddRequest{Title: "Task"})
	if resp.Success {
		t.Fatal("expected failure")
	}
	if !strings.Contains(resp.Message, "disk full") {
		t.Errorf("expected cause in message, got %q", resp.Message)
	}
	if got := operationCount(t, env, "add", metrics.ResultFailure); got != 1 {
		t.Errorf("expected one failed add, got %v", got)
	}
}

func TestUpdate(t *testing.T) {
	env := newTestEnv(t)
	created := env.mustAdd(t, "Old title")

	title := "New title"
	urgent := task.PriorityUrgent
	resp := NewUpdate(env.Env).Execute(context.Background(), UpdateRequest{
		ID:       created.ID[:8],
		Title:    &title,
		Priority: &urgent,
	})
	if !resp.Success || resp.Message != MsgTaskUpdated {
		t.Fatalf("expected success, got %+v", resp.Result)
	}
	if resp.Task.Title != title || resp.Task.Priority != urgent || resp.Task.ID != created.ID {
		t.Fatalf("unexpected task: %+v", resp.Task)
	}
}

func TestUpdate_NotFoundComesFirst(t *testing.T) {
	env := newTestEnv(t)
	env.mustAdd(t, "Keep")
	writes := env.backend.sets

	empty := ""
	resp := NewUpdate(env.Env).Execute(context.Background(), UpdateRequest{ID: "zzz", Title: &empty})
	if resp.Success || resp.Message != MsgTaskNotFound {
		t.Fatalf("expected not found, got %+v", resp.Result)
	}
	if env.backend.sets != writes {
		t.Error("expected no writes")
	}
	if note := env.lastNote(t); note.kind != notify.KindError || note.message != MsgTaskNotFound {
		t.Errorf("unexpected notification: %+v", note)
	}
}

func TestUpdate_Validation(t *testing.T) {
	env := newTestEnv(t)
	created := env.mustAdd(t, "Task")

	long := strings.Repeat("x", 201)
	category := strings.Repeat("c", 51)
	resp := NewUpdate(env.Env).Execute(context.Background(), UpdateRequest{ID: created.ID, Title: &long, Category: &category})
	if resp.Success {
		t.Fatal("expected failure")
	}
	if resp.Message != "title exceeds maximum length: 201 > 200, category exceeds maximum length: 51 > 50" {
		t.Errorf("unexpected message: %q", resp.Message)
	}
}

func TestToggle(t *testing.T) {
	env := newTestEnv(t)
	created := env.mustAdd(t, "Task")
	toggle := NewToggle(env.Env)

	first := toggle.Execute(context.Background(), ToggleRequest{ID: created.ID})
	if !first.Success || first.Message != MsgMarkedDone || !first.Task.Done {
		t.Fatalf("expected marked done, got %+v", first)
	}
	second := toggle.Execute(context.Background(), ToggleRequest{ID: created.ID})
	if !second.Success || second.Message != MsgMarkedPending || second.Task.Done {
		t.Fatalf("expected marked pending, got %+v", second)
	}
	if !second.Task.UpdatedAt.After(first.Task.UpdatedAt) {
		t.Error("expected UpdatedAt to increase")
	}
}

func TestToggle_NotFound(t *testing.T) {
	env := newTestEnv(t)

	resp := NewToggle(env.Env).Execute(context.Background(), ToggleRequest{ID: "missing"})
	if resp.Success || resp.Message != MsgTaskNotFound {
		t.Fatalf("expected not found, got %+v", resp.Result)
	}
}

func TestRemove(t *testing.T) {
	env := newTestEnv(t)
	created := env.mustAdd(t, "Task")
	remove := NewRemove(env.Env)

	resp := remove.Execute(context.Background(), RemoveRequest{ID: created.ID})
	if !resp.Success || resp.Message != MsgTaskRemoved || resp.ID != created.ID {
		t.Fatalf("expected removal, got %+v", resp)
	}

	again := remove.Execute(context.Background(), RemoveRequest{ID: created.ID})
	if again.Success || again.Message != MsgTaskNotFound {
		t.Fatalf("expected not found on second removal, got %+v", again.Result)
	}
}

func TestRemove_AmbiguousPrefix(t *testing.T) {
	env := newTestEnv(t)
	env.Store = task.NewStore(env.backend, task.StoreOptions{NewID: sequence("abc1", "abc2")})
	env.mustAdd(t, "One")
	env.mustAdd(t, "Two")

	resp := NewRemove(env.Env).Execute(context.Background(), RemoveRequest{ID: "abc"})
	if resp.Success {
		t.Fatal("expected ambiguous prefix to fail")
	}
	if !strings.Contains(resp.Message, "ambiguous") {
		t.Errorf("unexpected message: %q", resp.Message)
	}
}

func TestList(t *testing.T) {
	env := newTestEnv(t)
	for _, title := range []string{"banana", "Apple", "cherry"} {
		env.mustAdd(t, title)
	}
	before := len(env.notes.all())

	resp := NewList(env.Env).Execute(context.Background(), ListRequest{
		Sort: &task.SortOptions{Field: task.SortTitle, Direction: task.SortAsc},
	})
	if !resp.Success || resp.Message != "3 task(s) found" || resp.Total != 3 {
		t.Fatalf("unexpected response: %+v", resp.Result)
	}
	if resp.Tasks[0].Title != "Apple" || resp.Tasks[1].Title != "banana" || resp.Tasks[2].Title != "cherry" {
		t.Fatalf("unexpected order")
	}
	if len(env.notes.all()) != before {
		t.Error("expected list to emit no notification on success")
	}
}

func TestList_EmptyIsSuccess(t *testing.T) {
	env := newTestEnv(t)

	done := true
	resp := NewList(env.Env).Execute(context.Background(), ListRequest{Filter: task.ListFilter{Done: &done}})
	if !resp.Success || resp.Message != "0 task(s) found" {
		t.Fatalf("unexpected response: %+v", resp.Result)
	}
	if resp.Tasks == nil {
		t.Error("expected non-nil empty slice")
	}
}

func TestList_InvalidSort(t *testing.T) {
	env := newTestEnv(t)

	resp := NewList(env.Env).Execute(context.Background(), ListRequest{Sort: &task.SortOptions{Field: "color"}})
	if resp.Success {
		t.Fatal("expected failure")
	}
	if resp.Tasks == nil || resp.Total != 0 {
		t.Errorf("expected empty tasks, got %+v", resp)
	}
}

func TestGetStats(t *testing.T) {
	env := newTestEnv(t)
	created := env.mustAdd(t, "Task")
	env.mustAdd(t, "Other")
	NewToggle(env.Env).Execute(context.Background(), ToggleRequest{ID: created.ID})

	resp := NewGetStats(env.Env).Execute(context.Background())
	if !resp.Success || resp.Message != MsgStatsLoaded {
		t.Fatalf("unexpected response: %+v", resp.Result)
	}
	if resp.Stats.Total != 2 || resp.Stats.Completed != 1 || resp.Stats.Pending != 1 {
		t.Fatalf("unexpected stats: %+v", resp.Stats)
	}
	if resp.Stats.ByPriority[task.PriorityMedium] != 2 {
		t.Errorf("unexpected priority counts: %v", resp.Stats.ByPriority)
	}
}

func TestGetStats_FailureReturnsEmptyStats(t *testing.T) {
	env := newTestEnv(t)
	env.mustAdd(t, "Task")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp := NewGetStats(env.Env).Execute(ctx)
	if resp.Success {
		t.Fatal("expected failure")
	}
	if resp.Stats.Total != 0 || len(resp.Stats.ByPriority) != 4 {
		t.Fatalf("expected all-zero stats with every priority, got %+v", resp.Stats)
	}
	if note := env.lastNote(t); note.kind != notify.KindError {
		t.Errorf("expected error notification, got %+v", note)
	}
}

func TestClear(t *testing.T) {
	env := newTestEnv(t)
	env.mustAdd(t, "One")
	env.mustAdd(t, "Two")

	resp := NewClear(env.Env).Execute(context.Background())
	if !resp.Success || resp.Message != MsgAllTasksRemoved {
		t.Fatalf("unexpected response: %+v", resp.Result)
	}
	if note := env.lastNote(t); note.kind != notify.KindInfo || note.message != MsgAllTasksRemoved {
		t.Errorf("unexpected notification: %+v", note)
	}
	list := NewList(env.Env).Execute(context.Background(), ListRequest{})
	if list.Total != 0 {
		t.Fatalf("expected empty list, got %d", list.Total)
	}
}

func TestGet(t *testing.T) {
	env := newTestEnv(t)
	created := env.mustAdd(t, "Task")

	resp := NewGet(env.Env).Execute(context.Background(), GetRequest{ID: created.ID[:4]})
	if !resp.Success || resp.Task.ID != created.ID {
		t.Fatalf("unexpected response: %+v", resp)
	}

	missing := NewGet(env.Env).Execute(context.Background(), GetRequest{ID: "nope"})
	if missing.Success || missing.Message != MsgTaskNotFound {
		t.Fatalf("expected not found, got %+v", missing.Result)
	}
}

func TestEnv_OptionalDependencies(t *testing.T) {
	env := &Env{Store: task.NewStore(kv.NewMemory(), task.StoreOptions{})}

	resp := NewAdd(env).Execute(context.Background(), AddRequest{Title: "Works without extras"})
	if !resp.Success {
		t.Fatalf("expected success, got %s", resp.Message)
	}
	if missing := NewToggle(env).Execute(context.Background(), ToggleRequest{ID: "nope"}); missing.Success {
		t.Fatal("expected failure")
	}
}

func TestMetricsCountOperations(t *testing.T) {
	env := newTestEnv(t)
	env.mustAdd(t, "Task")
	NewToggle(env.Env).Execute(context.Background(), ToggleRequest{ID: "missing"})

	if got := operationCount(t, env, "add", metrics.ResultSuccess); got != 1 {
		t.Errorf("expected one successful add, got %v", got)
	}
	if got := operationCount(t, env, "toggle", metrics.ResultFailure); got != 1 {
		t.Errorf("expected one failed toggle, got %v", got)
	}
}

func sequence(values ...string) func() string {
	return func() string {
		value := values[0]
		values = values[1:]
		return value
	}
}

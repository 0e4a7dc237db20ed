package task

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func seedListStore(t *testing.T) *testStore {
	t.Helper()
	store := newTestStore(t)
	ctx := context.Background()

	store.mustAdd(t, Draft{Title: "banana", Priority: PriorityHigh, Category: "Groceries"})
	apple := store.mustAdd(t, Draft{Title: "Apple", Priority: PriorityLow, Category: "Groceries"})
	store.mustAdd(t, Draft{Title: "cherry", Priority: PriorityHigh, Category: "Work"})
	store.mustAdd(t, Draft{Title: "Date night", Priority: PriorityUrgent})

	if _, err := store.Update(ctx, apple.ID, UpdateOptions{Done: boolPtr(true)}); err != nil {
		t.Fatalf("mark apple done: %v", err)
	}
	return store
}

func TestList_UnfilteredKeepsInsertionOrder(t *testing.T) {
	store := seedListStore(t)

	tasks, err := store.List(context.Background(), ListFilter{}, nil)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"banana", "Apple", "cherry", "Date night"}
	if got := titles(tasks); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestList_Filters(t *testing.T) {
	high := PriorityHigh

	tests := []struct {
		name   string
		filter ListFilter
		want   []string
	}{
		{"done", ListFilter{Done: boolPtr(true)}, []string{"Apple"}},
		{"pending", ListFilter{Done: boolPtr(false)}, []string{"banana", "cherry", "Date night"}},
		{"priority", ListFilter{Priority: &high}, []string{"banana", "cherry"}},
		{"pending and high", ListFilter{Done: boolPtr(false), Priority: &high}, []string{"banana", "cherry"}},
		{"done and high", ListFilter{Done: boolPtr(true), Priority: &high}, []string{}},
		{"category", ListFilter{Category: stringPtr("Groceries")}, []string{"banana", "Apple"}},
		{"default category", ListFilter{Category: stringPtr(DefaultCategory)}, []string{"Date night"}},
		{"search ignores case", ListFilter{Search: "AN"}, []string{"banana"}},
		{"search and category", ListFilter{Search: "e", Category: stringPtr("Work")}, []string{"cherry"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := seedListStore(t)
			tasks, err := store.List(context.Background(), tt.filter, nil)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if got := titles(tasks); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestList_Sorts(t *testing.T) {
	tests := []struct {
		name string
		sort SortOptions
		want []string
	}{
		{"title asc", SortOptions{Field: SortTitle}, []string{"Apple", "banana", "cherry", "Date night"}},
		{"title desc", SortOptions{Field: SortTitle, Direction: SortDesc}, []string{"Date night", "cherry", "banana", "Apple"}},
		{"created asc", SortOptions{Field: SortCreatedAt, Direction: SortAsc}, []string{"banana", "Apple", "cherry", "Date night"}},
		{"created desc", SortOptions{Field: SortCreatedAt, Direction: SortDesc}, []string{"Date night", "cherry", "Apple", "banana"}},
		{"updated desc", SortOptions{Field: SortUpdatedAt, Direction: SortDesc}, []string{"Apple", "Date night", "cherry", "banana"}},
		// Equal priorities keep insertion order in both directions.
		{"priority asc", SortOptions{Field: SortPriority}, []string{"Apple", "banana", "cherry", "Date night"}},
		{"priority desc", SortOptions{Field: SortPriority, Direction: SortDesc}, []string{"Date night", "banana", "cherry", "Apple"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := seedListStore(t)
			tasks, err := store.List(context.Background(), ListFilter{}, &tt.sort)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if got := titles(tasks); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestList_TitleSortIgnoresCase(t *testing.T) {
	store := newTestStore(t)
	for _, title := range []string{"banana", "Apple", "cherry"} {
		store.mustAdd(t, Draft{Title: title})
	}

	tasks, err := store.List(context.Background(), ListFilter{}, &SortOptions{Field: SortTitle, Direction: SortAsc})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"Apple", "banana", "cherry"}
	if got := titles(tasks); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestList_RejectsInvalidOptions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	bogus := Priority("someday")
	if _, err := store.List(ctx, ListFilter{Priority: &bogus}, nil); !errors.Is(err, ErrInvalidPriority) {
		t.Errorf("expected ErrInvalidPriority, got %v", err)
	}
	if _, err := store.List(ctx, ListFilter{}, &SortOptions{Field: "color"}); !errors.Is(err, ErrInvalidSortField) {
		t.Errorf("expected ErrInvalidSortField, got %v", err)
	}
	if _, err := store.List(ctx, ListFilter{}, &SortOptions{Field: SortTitle, Direction: "up"}); !errors.Is(err, ErrInvalidSortDirection) {
		t.Errorf("expected ErrInvalidSortDirection, got %v", err)
	}
}

func TestSortTasks_UnknownFieldKeepsOrder(t *testing.T) {
	tasks := []Task{{Title: "b"}, {Title: "a"}}
	SortTasks(tasks, SortOptions{Field: "color"})
	if tasks[0].Title != "b" {
		t.Fatalf("expected order to be unchanged, got %v", titles(tasks))
	}
}

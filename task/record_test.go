package task

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRecord_RoundTrip(t *testing.T) {
	original, err := New("abc", "Round trip", NewOptions{
		Done:      true,
		Priority:  PriorityUrgent,
		Category:  "Work",
		CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 123456789, time.FixedZone("EST", -5*3600)),
		UpdatedAt: time.Date(2025, 1, 3, 3, 4, 5, 987654321, time.UTC),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	parsed, err := ParseRecord(original.Record())
	if err != nil {
		t.Fatalf("ParseRecord: %v", err)
	}
	if parsed != original {
		t.Fatalf("expected %+v, got %+v", original, parsed)
	}
}

func TestRecord_Format(t *testing.T) {
	item, _ := New("abc", "Format", NewOptions{CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)})

	data, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":"abc","title":"Format","done":false,"createdAt":"2025-01-02T03:04:05Z","updatedAt":"2025-01-02T03:04:05Z","priority":"medium","category":"General"}`
	if string(data) != want {
		t.Fatalf("expected %s, got %s", want, data)
	}

	var decoded Task
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded != item {
		t.Fatalf("expected %+v, got %+v", item, decoded)
	}
}

func TestParseRecord_Defaults(t *testing.T) {
	parsed, err := ParseRecord(Record{
		ID:        "abc",
		Title:     "Legacy",
		CreatedAt: "2025-01-02T03:04:05Z",
		UpdatedAt: "2025-01-01T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("ParseRecord: %v", err)
	}
	if parsed.Priority != PriorityMedium {
		t.Errorf("expected missing priority to become medium, got %q", parsed.Priority)
	}
	if parsed.Category != DefaultCategory {
		t.Errorf("expected missing category to become %q, got %q", DefaultCategory, parsed.Category)
	}
	if !parsed.UpdatedAt.Equal(parsed.CreatedAt) {
		t.Errorf("expected updatedAt to be clamped to createdAt, got %s", parsed.UpdatedAt)
	}
}

func TestParseRecord_Malformed(t *testing.T) {
	valid := Record{ID: "abc", Title: "x", CreatedAt: "2025-01-02T03:04:05Z", UpdatedAt: "2025-01-02T03:04:05Z"}

	tests := []struct {
		name   string
		mutate func(r *Record)
	}{
		{"missing id", func(r *Record) { r.ID = "" }},
		{"missing title", func(r *Record) { r.Title = "" }},
		{"blank title", func(r *Record) { r.Title = "   " }},
		{"long title", func(r *Record) { r.Title = strings.Repeat("x", MaxTitleLength+1) }},
		{"missing createdAt", func(r *Record) { r.CreatedAt = "" }},
		{"bad updatedAt", func(r *Record) { r.UpdatedAt = "yesterday" }},
		{"bad priority", func(r *Record) { r.Priority = "someday" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			_, err := ParseRecord(r)
			if !errors.Is(err, ErrMalformedRecord) {
				t.Fatalf("expected ErrMalformedRecord, got %v", err)
			}
			if !errors.Is(err, ErrPersistence) {
				t.Fatalf("expected persistence category, got %v", err)
			}
		})
	}
}

func TestDecodeCollection(t *testing.T) {
	if _, _, err := decodeCollection([]byte(`{"id":"not an array"}`)); err == nil {
		t.Fatal("expected an error for a non-array blob")
	}

	tasks, dropped, err := decodeCollection([]byte(`[]`))
	if err != nil || len(tasks) != 0 || len(dropped) != 0 {
		t.Fatalf("expected empty collection, got %v %v %v", tasks, dropped, err)
	}
}

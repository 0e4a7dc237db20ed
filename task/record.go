package task

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Record is the persisted and wire shape of a task.
// Timestamps are RFC 3339 strings in UTC with nanosecond precision.
type Record struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Done      bool     `json:"done"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
	Priority  Priority `json:"priority"`
	Category  string   `json:"category"`
}

// Record converts the task to its persisted shape.
func (t Task) Record() Record {
	return Record{
		ID:        t.ID,
		Title:     t.Title,
		Done:      t.Done,
		CreatedAt: formatTime(t.CreatedAt),
		UpdatedAt: formatTime(t.UpdatedAt),
		Priority:  t.Priority,
		Category:  t.Category,
	}
}

// ParseRecord strictly converts a record back into a task.
// id, title, createdAt and updatedAt are required; a missing priority
// becomes medium and a missing category becomes DefaultCategory.
// An updatedAt earlier than createdAt is clamped to createdAt.
func ParseRecord(r Record) (Task, error) {
	if r.ID == "" {
		return Task{}, fmt.Errorf("%w: missing id", ErrMalformedRecord)
	}
	if r.Title == "" {
		return Task{}, fmt.Errorf("%w: %s: missing title", ErrMalformedRecord, r.ID)
	}
	createdAt, err := parseTime(r.CreatedAt)
	if err != nil {
		return Task{}, fmt.Errorf("%w: %s: createdAt: %v", ErrMalformedRecord, r.ID, err)
	}
	updatedAt, err := parseTime(r.UpdatedAt)
	if err != nil {
		return Task{}, fmt.Errorf("%w: %s: updatedAt: %v", ErrMalformedRecord, r.ID, err)
	}
	if updatedAt.Before(createdAt) {
		updatedAt = createdAt
	}

	priority := r.Priority
	if priority != "" {
		priority, err = ParsePriority(string(priority))
		if err != nil {
			return Task{}, fmt.Errorf("%w: %s: %v", ErrMalformedRecord, r.ID, err)
		}
	}

	t, err := New(r.ID, r.Title, NewOptions{
		Done:      r.Done,
		Priority:  priority,
		Category:  r.Category,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	})
	if err != nil {
		return Task{}, fmt.Errorf("%w: %s: %v", ErrMalformedRecord, r.ID, err)
	}
	return t, nil
}

// MarshalJSON encodes the task as its Record.
func (t Task) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Record())
}

// UnmarshalJSON decodes a Record and parses it strictly.
func (t *Task) UnmarshalJSON(data []byte) error {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	parsed, err := ParseRecord(r)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// encodeCollection serializes tasks as a JSON array of records.
func encodeCollection(tasks []Task) ([]byte, error) {
	records := make([]Record, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, t.Record())
	}
	return json.Marshal(records)
}

// decodeCollection parses a JSON array of records. Malformed records and
// records repeating an earlier ID, compared without case, are skipped and
// reported in dropped; err
// is only set when the blob as a whole is not a JSON array.
func decodeCollection(data []byte) (tasks []Task, dropped []error, err error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("parse collection: %w", err)
	}

	seen := make(map[string]bool, len(raw))
	tasks = make([]Task, 0, len(raw))
	for i, item := range raw {
		var r Record
		if err := json.Unmarshal(item, &r); err != nil {
			dropped = append(dropped, fmt.Errorf("%w: record %d: %v", ErrMalformedRecord, i, err))
			continue
		}
		t, err := ParseRecord(r)
		if err != nil {
			dropped = append(dropped, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		folded := strings.ToLower(t.ID)
		if seen[folded] {
			dropped = append(dropped, fmt.Errorf("%w: record %d: duplicate id %s", ErrMalformedRecord, i, t.ID))
			continue
		}
		seen[folded] = true
		tasks = append(tasks, t)
	}
	return tasks, dropped, nil
}

func formatTime(value time.Time) string {
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("missing timestamp")
	}
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, err
	}
	return parsed, nil
}

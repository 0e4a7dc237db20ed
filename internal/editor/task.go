package editor

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"

	"github.com/amonks/ticklist/task"
)

// TaskData is rendered into the editable TOML form.
type TaskData struct {
	// IsUpdate is true when editing an existing task.
	IsUpdate bool
	ID       string
	Title    string
	Priority string
	Category string
	Done     bool
}

// DefaultCreateData returns the form for a new task.
func DefaultCreateData() TaskData {
	return TaskData{
		Priority: string(task.PriorityMedium),
		Category: task.DefaultCategory,
	}
}

// DataFromTask fills the form from an existing task.
func DataFromTask(t task.Task) TaskData {
	return TaskData{
		IsUpdate: true,
		ID:       t.ID,
		Title:    t.Title,
		Priority: string(t.Priority),
		Category: t.Category,
		Done:     t.Done,
	}
}

var taskTemplate = template.Must(template.New("task").Parse(`{{- if .IsUpdate }}# task {{ .ID }}
{{ end -}}
title = {{ printf "%q" .Title }}
priority = {{ printf "%q" .Priority }} # low, medium, high, urgent
category = {{ printf "%q" .Category }}
{{- if .IsUpdate }}
done = {{ .Done }}
{{- end }}
`))

// RenderTaskTOML renders the form for editing.
func RenderTaskTOML(data TaskData) (string, error) {
	var buf bytes.Buffer
	if err := taskTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}

// ParsedTask is the validated result of an edited form.
type ParsedTask struct {
	Title    string        `toml:"title"`
	Priority task.Priority `toml:"priority"`
	Category string        `toml:"category"`
	Done     *bool         `toml:"done"`
}

// ParseTaskTOML parses and validates an edited form.
func ParseTaskTOML(content string) (*ParsedTask, error) {
	var parsed ParsedTask
	if _, err := toml.Decode(content, &parsed); err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}

	if err := task.ValidateTitle(parsed.Title); err != nil {
		return nil, err
	}
	priority, err := task.ParsePriority(string(parsed.Priority))
	if err != nil {
		return nil, err
	}
	parsed.Priority = priority
	if err := task.ValidateCategory(parsed.Category); err != nil {
		return nil, err
	}
	parsed.Title = strings.TrimSpace(parsed.Title)
	parsed.Category = strings.TrimSpace(parsed.Category)
	return &parsed, nil
}

// EditTask opens the editor on the form for existing, or on a blank form
// when existing is nil.
func EditTask(existing *task.Task) (*ParsedTask, error) {
	data := DefaultCreateData()
	if existing != nil {
		data = DataFromTask(*existing)
	}

	content, err := RenderTaskTOML(data)
	if err != nil {
		return nil, err
	}

	tmpfile, err := os.CreateTemp("", "tick-task-*.toml")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpfile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpfile.WriteString(content); err != nil {
		tmpfile.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpfile.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	if err := Edit(tmpPath); err != nil {
		return nil, err
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("read edited file: %w", err)
	}

	return ParseTaskTOML(string(edited))
}

// Draft converts the form into a task draft.
func (p *ParsedTask) Draft() task.Draft {
	return task.Draft{
		Title:    p.Title,
		Priority: p.Priority,
		Category: p.Category,
	}
}

// UpdateOptions converts the form into a full update.
func (p *ParsedTask) UpdateOptions() task.UpdateOptions {
	opts := task.UpdateOptions{
		Title:    &p.Title,
		Priority: &p.Priority,
		Category: &p.Category,
	}
	if p.Done != nil {
		opts.Done = p.Done
	}
	return opts
}

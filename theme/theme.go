// Package theme stores the light/dark display preference.
package theme

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/amonks/ticklist/internal/kv"
	"github.com/amonks/ticklist/internal/logger"
	"github.com/amonks/ticklist/internal/validation"
)

// Key is the storage key holding the preference.
const Key = "theme"

// Theme is a display preference.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
	Auto  Theme = "auto"
)

// ErrInvalidTheme is returned for an unknown theme name.
var ErrInvalidTheme = errors.New("invalid theme")

// ValidThemes returns all valid themes.
func ValidThemes() []Theme {
	return []Theme{Light, Dark, Auto}
}

// Parse accepts a theme name in any case.
func Parse(value string) (Theme, error) {
	t := Theme(strings.ToLower(strings.TrimSpace(value)))
	for _, valid := range ValidThemes() {
		if t == valid {
			return t, nil
		}
	}
	return "", validation.FormatInvalidValueError(ErrInvalidTheme, Theme(value), ValidThemes())
}

// Options configures NewService.
type Options struct {
	Logger *slog.Logger

	// DetectDark reports whether the terminal background is dark.
	// Defaults to lipgloss.HasDarkBackground.
	DetectDark func() bool
}

// Service reads and writes the preference and notifies listeners of changes.
type Service struct {
	store      kv.Store
	logger     *slog.Logger
	detectDark func() bool

	mu        sync.Mutex
	current   Theme
	listeners map[int]func(Theme)
	nextID    int
}

// NewService loads the stored preference. A missing or unknown stored value
// means Auto.
func NewService(ctx context.Context, store kv.Store, opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}
	if opts.DetectDark == nil {
		opts.DetectDark = lipgloss.HasDarkBackground
	}
	s := &Service{
		store:      store,
		logger:     opts.Logger,
		detectDark: opts.DetectDark,
		current:    Auto,
		listeners:  make(map[int]func(Theme)),
	}

	data, err := store.Get(ctx, Key)
	switch {
	case errors.Is(err, kv.ErrNotFound):
	case err != nil:
		s.logger.Warn("read theme failed; using auto", "error", err)
	default:
		if t, err := Parse(string(data)); err == nil {
			s.current = t
		} else {
			s.logger.Warn("stored theme is invalid; using auto", "value", string(data))
		}
	}
	return s
}

// Current returns the active preference.
func (s *Service) Current() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Set stores t and notifies listeners.
func (s *Service) Set(ctx context.Context, t Theme) error {
	t, err := Parse(string(t))
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, Key, []byte(t)); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}

	s.mu.Lock()
	s.current = t
	listeners := make([]func(Theme), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(t)
	}
	return nil
}

// IsDark resolves the preference. Auto follows the terminal background.
func (s *Service) IsDark() bool {
	switch s.Current() {
	case Dark:
		return true
	case Light:
		return false
	default:
		return s.detectDark()
	}
}

// OnChange registers fn to run after every Set. The returned func removes it.
func (s *Service) OnChange(fn func(Theme)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Package notify delivers transient user-facing notifications.
//
// Operations report outcomes through a Notifier. Center keeps a bounded,
// auto-dismissing backlog and publishes snapshots to subscribers; Writer
// renders notifications as styled terminal lines.
package notify

import (
	"sync"
	"time"

	"github.com/amonks/ticklist/internal/ids"
)

const (
	DefaultBacklog      = 10
	DefaultDismissAfter = 5 * time.Second
)

// Kind classifies a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Notification is one message shown to the user.
type Notification struct {
	ID        string
	Kind      Kind
	Message   string
	CreatedAt time.Time
}

// Notifier receives operation outcomes.
type Notifier interface {
	Success(message string)
	Error(message string)
	Info(message string)
}

// Discard drops every notification.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Success(string) {}
func (discard) Error(string)   {}
func (discard) Info(string)    {}

// CenterOptions configures NewCenter. Zero values select the defaults.
type CenterOptions struct {
	// Backlog caps how many notifications are kept. Defaults to DefaultBacklog.
	Backlog int

	// DismissAfter is how long a notification lives. Defaults to
	// DefaultDismissAfter; a negative value disables auto-dismiss.
	DismissAfter time.Duration

	Now   func() time.Time
	NewID func() string
}

// Center keeps the newest notifications, newest first.
// It is safe for concurrent use.
type Center struct {
	mu           sync.Mutex
	items        []Notification
	timers       map[string]*time.Timer
	subscribers  map[int]func([]Notification)
	nextSub      int
	backlog      int
	dismissAfter time.Duration
	now          func() time.Time
	newID        func() string
}

// NewCenter returns an empty notification center.
func NewCenter(opts CenterOptions) *Center {
	if opts.Backlog <= 0 {
		opts.Backlog = DefaultBacklog
	}
	if opts.DismissAfter == 0 {
		opts.DismissAfter = DefaultDismissAfter
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = ids.New
	}
	return &Center{
		timers:       make(map[string]*time.Timer),
		subscribers:  make(map[int]func([]Notification)),
		backlog:      opts.Backlog,
		dismissAfter: opts.DismissAfter,
		now:          opts.Now,
		newID:        opts.NewID,
	}
}

func (c *Center) Success(message string) { c.Push(KindSuccess, message) }
func (c *Center) Error(message string)   { c.Push(KindError, message) }
func (c *Center) Info(message string)    { c.Push(KindInfo, message) }

// Push adds a notification and schedules its dismissal.
func (c *Center) Push(kind Kind, message string) Notification {
	c.mu.Lock()
	n := Notification{
		ID:        c.newID(),
		Kind:      kind,
		Message:   message,
		CreatedAt: c.now(),
	}

	c.items = append([]Notification{n}, c.items...)
	for len(c.items) > c.backlog {
		evicted := c.items[len(c.items)-1]
		c.items = c.items[:len(c.items)-1]
		c.stopTimerLocked(evicted.ID)
	}
	if c.dismissAfter > 0 {
		id := n.ID
		c.timers[id] = time.AfterFunc(c.dismissAfter, func() { c.Dismiss(id) })
	}
	snapshot, subs := c.snapshotLocked()
	c.mu.Unlock()

	publish(snapshot, subs)
	return n
}

// Dismiss removes the notification with the given ID, if present.
func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	index := -1
	for i, n := range c.items {
		if n.ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		c.mu.Unlock()
		return
	}
	c.items = append(c.items[:index:index], c.items[index+1:]...)
	c.stopTimerLocked(id)
	snapshot, subs := c.snapshotLocked()
	c.mu.Unlock()

	publish(snapshot, subs)
}

// Notifications returns the current backlog, newest first.
func (c *Center) Notifications() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Notification(nil), c.items...)
}

// Subscribe registers fn to receive a snapshot after every change.
// The returned func unsubscribes.
func (c *Center) Subscribe(fn func([]Notification)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.subscribers[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subscribers, id)
		})
	}
}

// Close stops pending dismiss timers. The backlog is kept.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id := range c.timers {
		c.stopTimerLocked(id)
	}
}

func (c *Center) stopTimerLocked(id string) {
	if timer, ok := c.timers[id]; ok {
		timer.Stop()
		delete(c.timers, id)
	}
}

func (c *Center) snapshotLocked() ([]Notification, []func([]Notification)) {
	snapshot := append([]Notification(nil), c.items...)
	subs := make([]func([]Notification), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subs = append(subs, fn)
	}
	return snapshot, subs
}

func publish(snapshot []Notification, subs []func([]Notification)) {
	for _, fn := range subs {
		fn(snapshot)
	}
}

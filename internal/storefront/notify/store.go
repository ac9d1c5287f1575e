// Package notify holds the process-wide toast queue.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultDuration is how long a toast stays visible unless dismissed.
const DefaultDuration = 4000 * time.Millisecond

// Type classifies a toast.
type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeWarning Type = "warning"
	TypeInfo    Type = "info"
)

// Toast is one transient notification.
type Toast struct {
	ID      string `json:"id"`
	Type    Type   `json:"type"`
	Message string `json:"message"`
}

// Timer is the subset of *time.Timer the store needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d.
type AfterFunc func(d time.Duration, f func()) Timer

// Options configures a Store.
type Options struct {
	Duration  time.Duration
	AfterFunc AfterFunc
	NewID     func() string
	Logger    *zap.Logger
}

// Store is an ordered toast queue. Each toast expires on its own timer.
type Store struct {
	mu        sync.Mutex
	toasts    []Toast
	timers    map[string]Timer
	duration  time.Duration
	afterFunc AfterFunc
	newID     func() string
	logger    *zap.Logger
}

// NewStore constructs an empty Store.
func NewStore(opts Options) *Store {
	s := &Store{
		timers:    map[string]Timer{},
		duration:  opts.Duration,
		afterFunc: opts.AfterFunc,
		newID:     opts.NewID,
		logger:    opts.Logger,
	}
	if s.duration <= 0 {
		s.duration = DefaultDuration
	}
	if s.afterFunc == nil {
		s.afterFunc = func(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Add appends a toast and schedules its removal. It returns the new id.
func (s *Store) Add(kind Type, message string) string {
	id := s.newID()

	s.mu.Lock()
	s.toasts = append(s.toasts, Toast{ID: id, Type: kind, Message: message})
	s.mu.Unlock()

	// The timer may fire immediately; it must not be armed while holding mu.
	timer := s.afterFunc(s.duration, func() { s.expire(id) })

	s.mu.Lock()
	if s.indexOf(id) >= 0 {
		s.timers[id] = timer
		timer = nil
	}
	s.mu.Unlock()
	if timer != nil {
		timer.Stop()
	}

	s.logger.Debug("toast added", zap.String("id", id), zap.String("type", string(kind)))
	return id
}

func (s *Store) Success(message string) string { return s.Add(TypeSuccess, message) }
func (s *Store) Error(message string) string   { return s.Add(TypeError, message) }
func (s *Store) Warning(message string) string { return s.Add(TypeWarning, message) }
func (s *Store) Info(message string) string    { return s.Add(TypeInfo, message) }

// Remove dismisses the toast and cancels its timer. Unknown ids are ignored.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	timer := s.removeLocked(id)
	s.mu.Unlock()
	if timer != nil {
		timer.Stop()
	}
}

// Toasts returns the queue in display order.
func (s *Store) Toasts() []Toast {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Toast, len(s.toasts))
	copy(out, s.toasts)
	return out
}

// Close stops every pending timer. Toasts already queued stay visible.
func (s *Store) Close() {
	s.mu.Lock()
	timers := s.timers
	s.timers = map[string]Timer{}
	s.mu.Unlock()
	for _, t := range timers {
		t.Stop()
	}
}

func (s *Store) expire(id string) {
	s.mu.Lock()
	s.removeLocked(id)
	s.mu.Unlock()
}

func (s *Store) removeLocked(id string) Timer {
	idx := s.indexOf(id)
	if idx < 0 {
		return nil
	}
	s.toasts = append(s.toasts[:idx], s.toasts[idx+1:]...)
	timer := s.timers[id]
	delete(s.timers, id)
	return timer
}

func (s *Store) indexOf(id string) int {
	for i, t := range s.toasts {
		if t.ID == id {
			return i
		}
	}
	return -1
}

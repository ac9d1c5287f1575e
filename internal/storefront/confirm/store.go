// Package confirm implements the single-slot confirmation dialog.
package confirm

import (
	"context"
	"errors"
	"sync"
)

const (
	DefaultConfirmLabel = "Confirmar"
	DefaultCancelLabel  = "Cancelar"
)

var (
	// ErrNothingPending is returned by Accept when no request is open.
	ErrNothingPending = errors.New("confirm: no pending request")
	// ErrBusy is returned when the open request is already being accepted.
	ErrBusy = errors.New("confirm: request is being accepted")
	// ErrReplaced is returned by AcceptID when another request took the slot.
	ErrReplaced = errors.New("confirm: request was replaced")
)

// Request asks the user to confirm an action.
type Request struct {
	Title        string
	Message      string
	ConfirmLabel string
	CancelLabel  string
	OnConfirm    func(ctx context.Context) error
}

// Pending is the public view of the open request.
type Pending struct {
	ID           uint64 `json:"id"`
	Title        string `json:"title"`
	Message      string `json:"message"`
	ConfirmLabel string `json:"confirmLabel"`
	CancelLabel  string `json:"cancelLabel"`
}

// Store holds at most one pending Request. A new Confirm replaces the open one
// and its callback is dropped.
type Store struct {
	mu      sync.Mutex
	pending *Request
	seq     uint64
	// accepting is the id whose callback is running, zero when idle.
	accepting uint64
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Confirm opens req, replacing any pending request. It returns the request id.
func (s *Store) Confirm(req Request) uint64 {
	if req.ConfirmLabel == "" {
		req.ConfirmLabel = DefaultConfirmLabel
	}
	if req.CancelLabel == "" {
		req.CancelLabel = DefaultCancelLabel
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.pending = &req
	return s.seq
}

// Close discards the pending request without running its callback. While that
// request is being accepted the dialog stays open until the callback returns.
func (s *Store) Close() {
	s.mu.Lock()
	if s.accepting != s.seq {
		s.pending = nil
	}
	s.mu.Unlock()
}

// Accept runs the pending callback exactly once and then closes the dialog.
// The dialog stays open while the callback runs. If the callback opened a new
// request, that request is left in place.
func (s *Store) Accept(ctx context.Context) error {
	return s.accept(ctx, 0)
}

// AcceptID is Accept for the request numbered id. It fails with ErrReplaced
// when a newer request has taken the slot.
func (s *Store) AcceptID(ctx context.Context, id uint64) error {
	if id == 0 {
		return ErrReplaced
	}
	return s.accept(ctx, id)
}

func (s *Store) accept(ctx context.Context, want uint64) error {
	s.mu.Lock()
	req := s.pending
	id := s.seq
	switch {
	case req == nil:
		s.mu.Unlock()
		return ErrNothingPending
	case want != 0 && want != id:
		s.mu.Unlock()
		return ErrReplaced
	case s.accepting == id:
		s.mu.Unlock()
		return ErrBusy
	}
	s.accepting = id
	onConfirm := req.OnConfirm
	req.OnConfirm = nil
	s.mu.Unlock()

	var err error
	if onConfirm != nil {
		err = onConfirm(ctx)
	}

	s.mu.Lock()
	if s.accepting == id {
		s.accepting = 0
	}
	if s.seq == id {
		s.pending = nil
	}
	s.mu.Unlock()
	return err
}

// Current returns the open request, if any.
func (s *Store) Current() (Pending, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return Pending{}, false
	}
	return Pending{
		ID:           s.seq,
		Title:        s.pending.Title,
		Message:      s.pending.Message,
		ConfirmLabel: s.pending.ConfirmLabel,
		CancelLabel:  s.pending.CancelLabel,
	}, true
}

// IsOpen reports whether a request is pending.
func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

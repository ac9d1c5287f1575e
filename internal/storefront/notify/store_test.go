package notify

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeTimer struct {
	fire    func()
	d       time.Duration
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{fire: f, d: d}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) fire(i int) {
	c.mu.Lock()
	t := c.timers[i]
	c.mu.Unlock()
	if !t.stopped {
		t.fire()
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("t%d", n)
	}
}

func newTestStore(clock *fakeClock) *Store {
	return NewStore(Options{AfterFunc: clock.AfterFunc, NewID: sequentialIDs()})
}

func TestAddPreservesOrder(t *testing.T) {
	t.Parallel()

	store := newTestStore(&fakeClock{})
	a := store.Success("guardado")
	b := store.Error("falló")

	toasts := store.Toasts()
	require.Len(t, toasts, 2)
	require.Equal(t, a, toasts[0].ID)
	require.Equal(t, TypeSuccess, toasts[0].Type)
	require.Equal(t, b, toasts[1].ID)
	require.Equal(t, TypeError, toasts[1].Type)

	store.Remove(a)
	require.Equal(t, []Toast{{ID: b, Type: TypeError, Message: "falló"}}, store.Toasts())

	store.Remove("missing")
	store.Remove(a)
	require.Len(t, store.Toasts(), 1)
}

func TestWrappersSetType(t *testing.T) {
	t.Parallel()

	store := newTestStore(&fakeClock{})
	store.Warning("w")
	store.Info("i")
	toasts := store.Toasts()
	require.Equal(t, TypeWarning, toasts[0].Type)
	require.Equal(t, TypeInfo, toasts[1].Type)
}

func TestToastsExpireIndependently(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{}
	store := newTestStore(clock)
	store.Info("a")
	b := store.Info("b")

	require.Equal(t, DefaultDuration, clock.timers[0].d)

	clock.fire(0)
	toasts := store.Toasts()
	require.Len(t, toasts, 1)
	require.Equal(t, b, toasts[0].ID)

	clock.fire(1)
	require.Empty(t, store.Toasts())
}

func TestManualRemoveCancelsTimer(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{}
	store := newTestStore(clock)
	id := store.Info("a")

	store.Remove(id)
	require.True(t, clock.timers[0].stopped)
	clock.timers[0].fire()
	require.Empty(t, store.Toasts())
}

func TestImmediateTimerDoesNotDeadlock(t *testing.T) {
	t.Parallel()

	store := NewStore(Options{AfterFunc: func(_ time.Duration, f func()) Timer {
		f()
		return &fakeTimer{}
	}})
	store.Success("fast")
	require.Empty(t, store.Toasts())
}

func TestRealTimerExpires(t *testing.T) {
	t.Parallel()

	store := NewStore(Options{Duration: 10 * time.Millisecond})
	store.Info("short")
	require.Eventually(t, func() bool { return len(store.Toasts()) == 0 }, time.Second, 5*time.Millisecond)
}

func TestCloseStopsTimers(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{}
	store := newTestStore(clock)
	store.Info("a")
	store.Close()
	require.True(t, clock.timers[0].stopped)
	require.Len(t, store.Toasts(), 1)
}

func TestDefaultIDsAreUnique(t *testing.T) {
	t.Parallel()

	store := NewStore(Options{AfterFunc: (&fakeClock{}).AfterFunc})
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := store.Info("x")
		require.False(t, seen[id])
		seen[id] = true
	}
}

package confirm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfirmLastWriterWins(t *testing.T) {
	t.Parallel()

	store := NewStore()
	var first, second int
	store.Confirm(Request{Title: "uno", OnConfirm: func(context.Context) error { first++; return nil }})
	store.Confirm(Request{Title: "dos", OnConfirm: func(context.Context) error { second++; return nil }})

	current, ok := store.Current()
	require.True(t, ok)
	require.Equal(t, "dos", current.Title)

	require.NoError(t, store.Accept(context.Background()))
	require.Zero(t, first)
	require.Equal(t, 1, second)
	require.False(t, store.IsOpen())

	require.ErrorIs(t, store.Accept(context.Background()), ErrNothingPending)
	require.Equal(t, 1, second)
}

func TestDefaultLabels(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.Confirm(Request{Title: "Eliminar pedido"})
	current, ok := store.Current()
	require.True(t, ok)
	require.Equal(t, DefaultConfirmLabel, current.ConfirmLabel)
	require.Equal(t, DefaultCancelLabel, current.CancelLabel)

	store.Confirm(Request{ConfirmLabel: "Eliminar", CancelLabel: "Volver"})
	current, _ = store.Current()
	require.Equal(t, "Eliminar", current.ConfirmLabel)
	require.Equal(t, "Volver", current.CancelLabel)
}

func TestCloseSkipsCallback(t *testing.T) {
	t.Parallel()

	store := NewStore()
	called := false
	store.Confirm(Request{OnConfirm: func(context.Context) error { called = true; return nil }})
	store.Close()

	require.False(t, store.IsOpen())
	require.ErrorIs(t, store.Accept(context.Background()), ErrNothingPending)
	require.False(t, called)
}

func TestCallbackSeesOpenDialog(t *testing.T) {
	t.Parallel()

	store := NewStore()
	var openDuringCallback bool
	store.Confirm(Request{OnConfirm: func(context.Context) error {
		openDuringCallback = store.IsOpen()
		return nil
	}})
	require.NoError(t, store.Accept(context.Background()))
	require.True(t, openDuringCallback)
	require.False(t, store.IsOpen())
}

func TestCallbackErrorStillCloses(t *testing.T) {
	t.Parallel()

	store := NewStore()
	boom := errors.New("boom")
	store.Confirm(Request{OnConfirm: func(context.Context) error { return boom }})
	require.ErrorIs(t, store.Accept(context.Background()), boom)
	require.False(t, store.IsOpen())
}

func TestRequestOpenedByCallbackSurvives(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.Confirm(Request{OnConfirm: func(context.Context) error {
		store.Confirm(Request{Title: "siguiente"})
		return nil
	}})
	require.NoError(t, store.Accept(context.Background()))

	current, ok := store.Current()
	require.True(t, ok)
	require.Equal(t, "siguiente", current.Title)
}

func TestSecondAcceptWhileCallbackRunsIsBusy(t *testing.T) {
	t.Parallel()

	store := NewStore()
	started := make(chan struct{})
	release := make(chan struct{})
	calls := 0
	store.Confirm(Request{OnConfirm: func(context.Context) error {
		calls++
		close(started)
		<-release
		return nil
	}})

	done := make(chan error, 1)
	go func() { done <- store.Accept(context.Background()) }()
	<-started

	require.ErrorIs(t, store.Accept(context.Background()), ErrBusy)
	store.Close()
	require.True(t, store.IsOpen())

	close(release)
	require.NoError(t, <-done)
	require.Equal(t, 1, calls)
	require.False(t, store.IsOpen())
	require.ErrorIs(t, store.Accept(context.Background()), ErrNothingPending)
}

func TestRequestReplacedDuringCallbackCanBeAccepted(t *testing.T) {
	t.Parallel()

	store := NewStore()
	started := make(chan struct{})
	release := make(chan struct{})
	store.Confirm(Request{OnConfirm: func(context.Context) error {
		close(started)
		<-release
		return nil
	}})

	done := make(chan error, 1)
	go func() { done <- store.Accept(context.Background()) }()
	<-started

	var second int
	id := store.Confirm(Request{Title: "dos", OnConfirm: func(context.Context) error { second++; return nil }})
	require.NoError(t, store.AcceptID(context.Background(), id))
	require.Equal(t, 1, second)

	close(release)
	require.NoError(t, <-done)
	require.False(t, store.IsOpen())
}

func TestAcceptID(t *testing.T) {
	t.Parallel()

	store := NewStore()
	var first, second int
	firstID := store.Confirm(Request{Title: "uno", OnConfirm: func(context.Context) error { first++; return nil }})
	secondID := store.Confirm(Request{Title: "dos", OnConfirm: func(context.Context) error { second++; return nil }})

	require.ErrorIs(t, store.AcceptID(context.Background(), firstID), ErrReplaced)
	require.ErrorIs(t, store.AcceptID(context.Background(), 0), ErrReplaced)
	require.Zero(t, first)
	require.Zero(t, second)
	require.True(t, store.IsOpen())

	require.NoError(t, store.AcceptID(context.Background(), secondID))
	require.Equal(t, 1, second)
	require.False(t, store.IsOpen())
	require.ErrorIs(t, store.AcceptID(context.Background(), secondID), ErrNothingPending)
}

package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()

	_, ok, err := store.Get("cart-storage")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Set("cart-storage", []byte(`{"items":[]}`)))
	value, ok, err := store.Get("cart-storage")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"items":[]}`, string(value))

	require.NoError(t, store.Set("cart-storage", []byte(`{"items":[1]}`)))
	value, _, err = store.Get("cart-storage")
	require.NoError(t, err)
	require.Equal(t, `{"items":[1]}`, string(value))

	require.NoError(t, store.Delete("cart-storage"))
	require.NoError(t, store.Delete("cart-storage"))
	_, ok, err = store.Get("cart-storage")
	require.NoError(t, err)
	require.False(t, ok)

	err = store.Set("../escape", []byte("x"))
	require.True(t, errors.Is(err, ErrInvalidKey))
	_, _, err = store.Get("")
	require.True(t, errors.Is(err, ErrInvalidKey))
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	buf := []byte("tok")
	require.NoError(t, store.Set("accessToken", buf))
	buf[0] = 'X'

	value, _, err := store.Get("accessToken")
	require.NoError(t, err)
	require.Equal(t, "tok", string(value))
}

func TestFileStore(t *testing.T) {
	t.Parallel()

	store, err := NewFileStore(filepath.Join(t.TempDir(), "state"))
	require.NoError(t, err)
	exerciseStore(t, store)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set("accessToken", []byte("tok")))

	second, err := NewFileStore(dir)
	require.NoError(t, err)
	value, ok, err := second.Get("accessToken")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "tok", string(value))
}

func TestNewFileStoreRequiresDir(t *testing.T) {
	t.Parallel()

	_, err := NewFileStore("")
	require.Error(t, err)
}

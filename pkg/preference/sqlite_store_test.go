package preference

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteFactory(t *testing.T) *SQLiteFactory {
	t.Helper()
	f, err := NewSQLiteFactory(filepath.Join(t.TempDir(), "prefs", "preferences.db"))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestSQLiteStore_GetMissing(t *testing.T) {
	store := newSQLiteFactory(t).ForUser("user-1")

	v, ok, err := store.Get(context.Background(), "userRole")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestSQLiteStore_SetOverwrites(t *testing.T) {
	store := newSQLiteFactory(t).ForUser("user-1")
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "userRole", "donor"))
	require.NoError(t, store.Set(ctx, "userRole", "recipient"))

	v, ok, err := store.Get(ctx, "userRole")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "recipient", v)
}

func TestSQLiteStore_ScopedPerUser(t *testing.T) {
	f := newSQLiteFactory(t)
	ctx := context.Background()

	require.NoError(t, f.ForUser("user-1").Set(ctx, "userRole", "donor"))

	_, ok, err := f.ForUser("user-2").Get(ctx, "userRole")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.db")
	ctx := context.Background()

	f, err := NewSQLiteFactory(path)
	require.NoError(t, err)
	require.NoError(t, f.ForUser("user-1").Set(ctx, "userRole", "donor"))
	require.NoError(t, f.Close())

	f, err = NewSQLiteFactory(path)
	require.NoError(t, err)
	defer f.Close()

	v, ok, err := f.ForUser("user-1").Get(ctx, "userRole")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "donor", v)
}

package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "notified.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())

	s.Add("id1")
	s.Add("id2")
	s.Add("id1")
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains("id1"))
	assert.Len(t, s.pending, 2)

	require.NoError(t, s.Persist(ctx))
	assert.Empty(t, s.pending)
	require.NoError(t, s.Persist(ctx), "nothing pending")

	var count int
	require.NoError(t, s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM notified"))
	assert.Equal(t, 2, count)
	require.NoError(t, s.Close())

	reopened, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, 2, reopened.Len())
	assert.True(t, reopened.Contains("id2"))
	assert.False(t, reopened.Contains("id3"))

	reopened.Add("id3")
	require.NoError(t, reopened.Persist(ctx))
	require.NoError(t, reopened.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM notified"))
	assert.Equal(t, 3, count)
}

func TestSQLiteStore_PersistFailureKeepsPending(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "notified.db"))
	require.NoError(t, err)

	s.Add("id1")
	require.NoError(t, s.db.Close())
	require.Error(t, s.Persist(ctx))
	assert.Equal(t, []string{"id1"}, s.pending)
}

func TestIsLockError(t *testing.T) {
	assert.False(t, isLockError(nil))
	assert.False(t, isLockError(assert.AnError))
	assert.True(t, isLockError(errString("database is locked (5) (SQLITE_BUSY)")))
	assert.True(t, isLockError(errString("database table is locked")))
}

type errString string

func (e errString) Error() string { return string(e) }

package client

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSyncStateStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sync_state.json")
	store := NewSyncStateStore(path)

	require.Zero(t, store.LastSync(), "missing file must read as zero")

	require.NoError(t, store.SetLastSync(1_700_000_000_000))
	require.Equal(t, int64(1_700_000_000_000), store.LastSync())

	// A fresh store over the same file sees the persisted value.
	require.Equal(t, int64(1_700_000_000_000), NewSyncStateStore(path).LastSync())

	require.NoError(t, store.Reset())
	require.Zero(t, store.LastSync())
	require.NoError(t, store.Reset(), "resetting twice is fine")
}

package localstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestGetMissingKey(t *testing.T) {
	store := openTestStore(t)

	_, ok, err := store.Get(context.Background(), "social_tasks_0xabc")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPutThenGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "referral_data_0xabc", []byte(`{"referral_count":1}`)))

	value, ok, err := store.Get(ctx, "referral_data_0xabc")
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"referral_count":1}`, string(value))
}

func TestPutReplacesWholeValue(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "k", []byte("first")))
	require.NoError(t, store.Put(ctx, "k", []byte("second")))

	value, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "second", string(value))
}

func TestKeyLowercasesAddress(t *testing.T) {
	require.Equal(t,
		"social_tasks_0xabcd000000000000000000000000000000000001",
		Key("social_tasks", "0xAbCd000000000000000000000000000000000001"),
	)
}

func TestStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")
	ctx := context.Background()

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "k", []byte("v")))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, ok, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", string(value))
}

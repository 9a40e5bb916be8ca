package kv_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/ghostmark/internal/core/kv"
	"github.com/colonyops/ghostmark/internal/data/db"
	"github.com/colonyops/ghostmark/internal/data/stores"
)

func newTestKV(t *testing.T) kv.KV {
	t.Helper()
	database, err := db.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return stores.NewKVStore(database)
}

func TestTypedKV_SetAndGet(t *testing.T) {
	ctx := context.Background()
	store := newTestKV(t)
	typed := kv.Scoped[string](store, "test")

	require.NoError(t, typed.Set(ctx, "greeting", "hello"))

	got, err := typed.Get(ctx, "greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestTypedKV_GetMissing(t *testing.T) {
	ctx := context.Background()
	store := newTestKV(t)
	typed := kv.Scoped[string](store, "test")

	_, err := typed.Get(ctx, "missing")
	assert.ErrorIs(t, err, kv.ErrNotFound)

	got, err := typed.GetOr(ctx, "missing", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", got)
}

func TestTypedKV_ScopedPrefix(t *testing.T) {
	ctx := context.Background()
	store := newTestKV(t)

	// Two scoped stores with different namespaces
	alpha := kv.Scoped[int](store, "alpha")
	beta := kv.Scoped[int](store, "beta")

	require.NoError(t, alpha.Set(ctx, "count", 10))
	require.NoError(t, beta.Set(ctx, "count", 20))

	// Each scope sees its own value
	a, err := alpha.Get(ctx, "count")
	require.NoError(t, err)
	assert.Equal(t, 10, a)

	b, err := beta.Get(ctx, "count")
	require.NoError(t, err)
	assert.Equal(t, 20, b)

	// Raw store sees both with prefixed keys
	keys, err := store.ListKeys(ctx)
	require.NoError(t, err)
	assert.Contains(t, keys, "alpha:count")
	assert.Contains(t, keys, "beta:count")
}

func TestTypedKV_Delete(t *testing.T) {
	ctx := context.Background()
	store := newTestKV(t)
	typed := kv.Scoped[string](store, "ns")

	require.NoError(t, typed.Set(ctx, "key", "val"))
	require.NoError(t, typed.Delete(ctx, "key"))

	has, err := typed.Has(ctx, "key")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestTypedKV_Has(t *testing.T) {
	ctx := context.Background()
	store := newTestKV(t)
	typed := kv.Scoped[int](store, "ns")

	has, err := typed.Has(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, typed.Set(ctx, "exists", 1))
	has, err = typed.Has(ctx, "exists")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestTypedKV_StructValue(t *testing.T) {
	ctx := context.Background()
	store := newTestKV(t)

	type Entry struct {
		Name string `json:"name"`
		Line int    `json:"line"`
	}

	typed := kv.Scoped[Entry](store, "marks")
	require.NoError(t, typed.Set(ctx, "m1", Entry{Name: "check bounds", Line: 42}))

	got, err := typed.Get(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "check bounds", got.Name)
	assert.Equal(t, 42, got.Line)
}

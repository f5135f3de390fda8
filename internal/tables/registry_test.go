package tables_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kumarlokesh/anu-converter/internal/storage"
	"github.com/kumarlokesh/anu-converter/internal/tables"
)

var a2u7 = tables.Selection{Version: tables.Anu7, Direction: tables.AnuToUnicode}

// countingStore counts GetAsset calls and can be told to fail.
type countingStore struct {
	storage.Store

	mu   sync.Mutex
	gets int
	fail error
}

func (s *countingStore) GetAsset(ctx context.Context, name string) (*storage.Asset, error) {
	s.mu.Lock()
	s.gets++
	fail := s.fail
	s.mu.Unlock()

	if fail != nil {
		return nil, fail
	}
	return s.Store.GetAsset(ctx, name)
}

func (s *countingStore) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets
}

func newStore(t *testing.T, assets map[string]string) *countingStore {
	t.Helper()
	mem := storage.NewMemoryStore()
	for name, data := range assets {
		require.NoError(t, mem.PutAsset(context.Background(), name, []byte(data)))
	}
	return &countingStore{Store: mem}
}

func TestRegistry_LoadsAndConverts(t *testing.T) {
	store := newStore(t, map[string]string{
		"anu7_to_unicode.json": `{"_version": "7", "a": "1", "ab": "2", "n": 3}`,
	})
	reg := tables.NewRegistry(store, zerolog.Nop())

	table, err := reg.Table(context.Background(), a2u7)
	require.NoError(t, err)

	assert.False(t, table.Degraded)
	assert.Equal(t, "anu7_to_unicode.json", table.Asset)
	assert.Equal(t, 2, table.Engine.Len())
	assert.Equal(t, 1, table.Report.Reserved)
	assert.Equal(t, 1, table.Report.Rejected)
	assert.Equal(t, "21n", table.Convert("aban"))
}

func TestRegistry_YAMLAsset(t *testing.T) {
	store := newStore(t, map[string]string{
		"unicode_to_anu6.yaml": "అ: A\n",
	})
	reg := tables.NewRegistry(store, zerolog.Nop())

	table, err := reg.Table(context.Background(), tables.Selection{Version: tables.Anu6, Direction: tables.UnicodeToAnu})
	require.NoError(t, err)
	assert.Equal(t, "A,బ", table.Convert("అ,బ"))
}

func TestRegistry_Caches(t *testing.T) {
	store := newStore(t, map[string]string{
		"anu7_to_unicode.json": `{"a": "1"}`,
	})
	reg := tables.NewRegistry(store, zerolog.Nop())
	ctx := context.Background()

	first, err := reg.Table(ctx, a2u7)
	require.NoError(t, err)
	second, err := reg.Table(ctx, a2u7)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, store.calls())

	t.Run("Invalidate rebuilds", func(t *testing.T) {
		require.NoError(t, store.PutAsset(ctx, "anu7_to_unicode.json", []byte(`{"a": "one"}`)))
		reg.Invalidate(a2u7)

		third, err := reg.Table(ctx, a2u7)
		require.NoError(t, err)
		assert.NotSame(t, first, third)
		assert.Equal(t, "one", third.Convert("a"))
		assert.Equal(t, 2, store.calls())
	})
}

func TestRegistry_ConcurrentCallersShareOneBuild(t *testing.T) {
	store := newStore(t, map[string]string{
		"anu7_to_unicode.json": `{"a": "1"}`,
	})
	reg := tables.NewRegistry(store, zerolog.Nop())

	var wg sync.WaitGroup
	results := make([]*tables.Table, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			table, err := reg.Table(context.Background(), a2u7)
			assert.NoError(t, err)
			results[i] = table
		}(i)
	}
	wg.Wait()

	for _, table := range results {
		assert.Same(t, results[0], table)
	}
	assert.Equal(t, 1, store.calls())
}

func TestRegistry_MissingAssetDegrades(t *testing.T) {
	reg := tables.NewRegistry(newStore(t, nil), zerolog.Nop())

	table, err := reg.Table(context.Background(), a2u7)
	require.NoError(t, err)
	assert.True(t, table.Degraded)
	assert.Empty(t, table.Asset)
	assert.Equal(t, "అ,బ", table.Convert("అ,బ"))
}

func TestRegistry_MalformedAssetDegrades(t *testing.T) {
	store := newStore(t, map[string]string{
		"anu7_to_unicode.json": `["not", "a", "table"]`,
	})
	reg := tables.NewRegistry(store, zerolog.Nop())

	table, err := reg.Table(context.Background(), a2u7)
	require.NoError(t, err)
	assert.True(t, table.Degraded)
	assert.True(t, table.Report.Malformed)
	assert.Equal(t, "abc", table.Convert("abc"))
}

func TestRegistry_StorageErrorNotCached(t *testing.T) {
	store := newStore(t, map[string]string{
		"anu7_to_unicode.json": `{"a": "1"}`,
	})
	store.fail = errors.New("disk on fire")
	reg := tables.NewRegistry(store, zerolog.Nop())
	ctx := context.Background()

	_, err := reg.Table(ctx, a2u7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")

	store.mu.Lock()
	store.fail = nil
	store.mu.Unlock()

	table, err := reg.Table(ctx, a2u7)
	require.NoError(t, err)
	assert.Equal(t, "1", table.Convert("a"))
}

func TestRegistry_Preload(t *testing.T) {
	store := newStore(t, map[string]string{
		"anu6_to_unicode.json": `{"a": "1"}`,
		"unicode_to_anu6.json": `{"1": "a"}`,
	})
	reg := tables.NewRegistry(store, zerolog.Nop())

	loaded, err := reg.Preload(context.Background())
	require.NoError(t, err)
	require.Len(t, loaded, 4)

	degraded := 0
	for _, table := range loaded {
		if table.Degraded {
			degraded++
		}
	}
	assert.Equal(t, 2, degraded)
}

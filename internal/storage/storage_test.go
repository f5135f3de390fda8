package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kumarlokesh/anu-converter/internal/storage"
)

func TestStores(t *testing.T) {
	newFS := func(t *testing.T) storage.Store {
		store, err := storage.NewFilesystemStore(t.TempDir())
		require.NoError(t, err)
		return store
	}
	newMem := func(t *testing.T) storage.Store {
		return storage.NewMemoryStore()
	}

	for name, newStore := range map[string]func(*testing.T) storage.Store{
		"memory":     newMem,
		"filesystem": newFS,
	} {
		t.Run(name, func(t *testing.T) {
			testStore(t, newStore(t))
		})
	}
}

func testStore(t *testing.T, store storage.Store) {
	ctx := context.Background()

	require.NoError(t, store.Ping(ctx))

	t.Run("Missing asset", func(t *testing.T) {
		_, err := store.GetAsset(ctx, "anu7_to_unicode")
		assert.ErrorIs(t, err, storage.ErrAssetNotFound)
	})

	t.Run("Asset operations", func(t *testing.T) {
		data := []byte(`{"a": "1"}`)
		require.NoError(t, store.PutAsset(ctx, "anu7_to_unicode.json", data))

		asset, err := store.GetAsset(ctx, "anu7_to_unicode.json")
		require.NoError(t, err)
		assert.Equal(t, "anu7_to_unicode.json", asset.Name)
		assert.Equal(t, data, asset.Content)
		assert.Equal(t, int64(len(data)), asset.Size)
		assert.False(t, asset.ModifiedAt.IsZero())

		assets, err := store.ListAssets(ctx)
		require.NoError(t, err)
		require.Len(t, assets, 1)
		assert.Equal(t, "anu7_to_unicode.json", assets[0].Name)
		assert.Nil(t, assets[0].Content)
	})

	t.Run("Bare name resolves extensions", func(t *testing.T) {
		require.NoError(t, store.PutAsset(ctx, "unicode_to_anu6.yaml", []byte("a: b\n")))

		asset, err := store.GetAsset(ctx, "unicode_to_anu6")
		require.NoError(t, err)
		assert.Equal(t, "unicode_to_anu6.yaml", asset.Name)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.PutAsset(ctx, "anu7_to_unicode.json", []byte(`{}`)))

		asset, err := store.GetAsset(ctx, "anu7_to_unicode")
		require.NoError(t, err)
		assert.Equal(t, []byte(`{}`), asset.Content)
	})

	t.Run("Returned content is a copy", func(t *testing.T) {
		asset, err := store.GetAsset(ctx, "anu7_to_unicode.json")
		require.NoError(t, err)
		asset.Content[0] = 'X'

		again, err := store.GetAsset(ctx, "anu7_to_unicode.json")
		require.NoError(t, err)
		assert.Equal(t, []byte(`{}`), again.Content)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.DeleteAsset(ctx, "anu7_to_unicode.json"))

		_, err := store.GetAsset(ctx, "anu7_to_unicode.json")
		assert.ErrorIs(t, err, storage.ErrAssetNotFound)

		err = store.DeleteAsset(ctx, "anu7_to_unicode.json")
		assert.ErrorIs(t, err, storage.ErrAssetNotFound)
	})

	t.Run("Invalid names", func(t *testing.T) {
		for _, name := range []string{"", "..", "../etc/passwd", "a/b", `a\b`} {
			_, err := store.GetAsset(ctx, name)
			assert.ErrorIs(t, err, storage.ErrInvalidName, name)
			assert.ErrorIs(t, store.PutAsset(ctx, name, nil), storage.ErrInvalidName, name)
		}
	})
}

func TestFilesystemStore_ReadsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "anu6_to_unicode.json"), []byte(`{"x": "y"}`), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "unicode_to_anu6"), 0755))

	store, err := storage.NewFilesystemStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	asset, err := store.GetAsset(ctx, "anu6_to_unicode")
	require.NoError(t, err)
	assert.Equal(t, `{"x": "y"}`, string(asset.Content))

	_, err = store.GetAsset(ctx, "unicode_to_anu6")
	assert.ErrorIs(t, err, storage.ErrAssetNotFound, "directories are not assets")

	assets, err := store.ListAssets(ctx)
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, "anu6_to_unicode.json", assets[0].Name)
}

func TestFilesystemStore_PingMissingRoot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "assets")
	store, err := storage.NewFilesystemStore(dir)
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(dir))

	assert.Error(t, store.Ping(context.Background()))
}

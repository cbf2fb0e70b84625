package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saulo-duarte/studyquiz/internal/storage"
)

func TestLocalStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := storage.NewLocalStore(dir)
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("PutAndDelete", func(t *testing.T) {
		path, err := store.Put(ctx, "abc.txt", "text/plain", []byte("hello"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "abc.txt"), path)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(data))

		require.NoError(t, store.Delete(ctx, "abc.txt"))
		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("DeleteMissingIsNoop", func(t *testing.T) {
		assert.NoError(t, store.Delete(ctx, "never-written.pdf"))
	})

	t.Run("RejectsTraversal", func(t *testing.T) {
		for _, name := range []string{"", "../escape.txt", "nested/file.txt"} {
			_, err := store.Put(ctx, name, "text/plain", []byte("x"))
			assert.ErrorIs(t, err, storage.ErrInvalidName, name)
		}
	})
}

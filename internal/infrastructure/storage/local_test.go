package storage

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalStorage_Upload(t *testing.T) {
	logger := zap.NewNop()

	t.Run("writes the object and builds a public URL", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		local := NewLocalStorage(fs, "/data/uploads", "/uploads/", logger)

		result, err := local.Upload(context.Background(), "reports/abc/original.jpg", []byte("jpeg bytes"), "image/jpeg")
		require.NoError(t, err)

		assert.Equal(t, "/uploads/reports/abc/original.jpg", result.URL)
		assert.Equal(t, "reports/abc/original.jpg", result.Key)
		assert.Equal(t, int64(10), result.ByteSize)

		data, err := afero.ReadFile(fs, "/data/uploads/reports/abc/original.jpg")
		require.NoError(t, err)
		assert.Equal(t, []byte("jpeg bytes"), data)
	})

	t.Run("respects an already cancelled context", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		local := NewLocalStorage(fs, "/data", "/uploads", logger)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result, err := local.Upload(ctx, "k", []byte("x"), "text/plain")
		assert.Nil(t, result)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("read-only filesystem fails the upload", func(t *testing.T) {
		fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
		local := NewLocalStorage(fs, "/data", "/uploads", logger)

		result, err := local.Upload(context.Background(), "k", []byte("x"), "text/plain")
		assert.Nil(t, result)
		assert.Error(t, err)
	})
}

func TestLocalStorage_Delete(t *testing.T) {
	logger := zap.NewNop()

	t.Run("removes existing objects", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		local := NewLocalStorage(fs, "/data", "/uploads", logger)

		_, err := local.Upload(context.Background(), "a.jpg", []byte("x"), "image/jpeg")
		require.NoError(t, err)

		require.NoError(t, local.Delete(context.Background(), []string{"a.jpg"}))

		exists, err := afero.Exists(fs, "/data/a.jpg")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("reports the first failure but keeps going", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		local := NewLocalStorage(fs, "/data", "/uploads", logger)

		_, err := local.Upload(context.Background(), "b.jpg", []byte("x"), "image/jpeg")
		require.NoError(t, err)

		err = local.Delete(context.Background(), []string{"missing.jpg", "b.jpg"})
		assert.Error(t, err)

		exists, _ := afero.Exists(fs, "/data/b.jpg")
		assert.False(t, exists)
	})
}

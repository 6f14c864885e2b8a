package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/waste-report-service/internal/config"
	"github.com/waste-report-service/internal/domain"
)

func TestSelect(t *testing.T) {
	logger := zap.NewNop()

	t.Run("placeholder credentials select local storage only", func(t *testing.T) {
		cfg := &config.StorageConfig{
			S3Endpoint:  "minio.example.com:9000",
			S3AccessKey: "minioadmin",
			S3SecretKey: "minioadmin",
			LocalDir:    "./uploads",
			LocalURL:    "/uploads",
		}

		primary, secondary, err := Select(cfg, logger)
		require.NoError(t, err)
		assert.Equal(t, domain.ProviderLocal, primary.Name())
		assert.Nil(t, secondary)
	})

	t.Run("empty endpoint selects local storage only", func(t *testing.T) {
		cfg := &config.StorageConfig{
			LocalDir: "./uploads",
			LocalURL: "/uploads",
		}

		primary, secondary, err := Select(cfg, logger)
		require.NoError(t, err)
		assert.Equal(t, domain.ProviderLocal, primary.Name())
		assert.Nil(t, secondary)
	})

	t.Run("real credentials select s3 with a local fallback", func(t *testing.T) {
		cfg := &config.StorageConfig{
			S3Endpoint:  "minio.example.com:9000",
			S3AccessKey: "AKIAEXAMPLEKEY",
			S3SecretKey: "sup3rs3cret",
			S3Bucket:    "waste-reports",
			LocalDir:    "./uploads",
			LocalURL:    "/uploads",
		}

		primary, secondary, err := Select(cfg, logger)
		require.NoError(t, err)
		assert.Equal(t, domain.ProviderS3, primary.Name())
		require.NotNil(t, secondary)
		assert.Equal(t, domain.ProviderLocal, secondary.Name())
	})
}

func TestIsPlaceholder(t *testing.T) {
	assert.True(t, IsPlaceholder(""))
	assert.True(t, IsPlaceholder("minioadmin"))
	assert.True(t, IsPlaceholder("changeme"))
	assert.False(t, IsPlaceholder("AKIAEXAMPLEKEY"))
}

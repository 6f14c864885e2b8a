package usecase_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/waste-report-service/internal/config"
	"github.com/waste-report-service/internal/domain"
	apperrors "github.com/waste-report-service/internal/pkg/errors"
	"github.com/waste-report-service/internal/infrastructure/storage"
	"github.com/waste-report-service/internal/usecase"
)

func testMediaConfig() *config.MediaConfig {
	return &config.MediaConfig{
		MaxImageBytes:   10 << 20,
		MaxAudioBytes:   15 << 20,
		MaxImageWidth:   8000,
		MaxImageHeight:  8000,
		UploadTimeout:   5 * time.Second,
		ImageExtensions: []string{".jpg", ".jpeg", ".png", ".webp"},
		AudioExtensions: []string{".mp3", ".m4a", ".ogg"},
	}
}

func testJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x += 10 {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func keyWithSuffix(suffix string) interface{} {
	return mock.MatchedBy(func(key string) bool {
		return strings.HasSuffix(key, suffix)
	})
}

func uploadResult(provider string) *storage.UploadResult {
	return &storage.UploadResult{
		URL:      "https://" + provider + ".example.com/obj",
		Key:      "obj",
		ByteSize: 123,
	}
}

func TestMediaUseCase_IngestImage(t *testing.T) {
	logger := zap.NewNop()
	ctx := t.Context()

	t.Run("uploads all three renditions to the primary provider", func(t *testing.T) {
		primary := NewMockObjectStorage("s3")
		secondary := NewMockObjectStorage("local")
		uc := usecase.NewMediaUseCase(primary, secondary, testMediaConfig(), logger)

		primary.On("Upload", mock.Anything, mock.Anything, mock.Anything, "image/jpeg").
			Return(uploadResult("s3"), nil).Times(3)

		set, err := uc.IngestImage(ctx, testJPEG(t, 2400, 1600), "photo.jpg")
		require.NoError(t, err)
		require.NotNil(t, set)

		assert.Equal(t, "s3", set.Original.Provider)
		assert.Equal(t, "s3", set.Medium.Provider)
		assert.Equal(t, "s3", set.Thumbnail.Provider)

		// Renditions are bounded by their target boxes
		assert.LessOrEqual(t, set.Original.Width, 1920)
		assert.LessOrEqual(t, set.Medium.Width, 800)
		assert.LessOrEqual(t, set.Thumbnail.Width, 320)

		primary.AssertExpectations(t)
		secondary.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("retries the whole set on the secondary when the primary fails", func(t *testing.T) {
		primary := NewMockObjectStorage("s3")
		secondary := NewMockObjectStorage("local")
		uc := usecase.NewMediaUseCase(primary, secondary, testMediaConfig(), logger)

		// Primary accepts the original, then fails: the partial upload
		// must be cleaned up and the full set redone on the secondary.
		primary.On("Upload", mock.Anything, keyWithSuffix("original.jpg"), mock.Anything, "image/jpeg").
			Return(uploadResult("s3"), nil).Once()
		primary.On("Upload", mock.Anything, keyWithSuffix("medium.jpg"), mock.Anything, "image/jpeg").
			Return(nil, errors.New("bucket unavailable")).Once()
		primary.On("Delete", mock.Anything, mock.Anything).Return(nil).Once()

		secondary.On("Upload", mock.Anything, mock.Anything, mock.Anything, "image/jpeg").
			Return(uploadResult("local"), nil).Times(3)

		set, err := uc.IngestImage(ctx, testJPEG(t, 1200, 900), "photo.jpg")
		require.NoError(t, err)
		require.NotNil(t, set)

		for _, artifact := range set.Artifacts() {
			assert.Equal(t, "local", artifact.Provider)
		}

		primary.AssertExpectations(t)
		secondary.AssertExpectations(t)
	})

	t.Run("fails when both providers fail", func(t *testing.T) {
		primary := NewMockObjectStorage("s3")
		secondary := NewMockObjectStorage("local")
		uc := usecase.NewMediaUseCase(primary, secondary, testMediaConfig(), logger)

		primary.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("bucket unavailable"))
		secondary.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("disk full"))

		set, err := uc.IngestImage(ctx, testJPEG(t, 400, 300), "photo.jpg")
		assert.Nil(t, set)
		assert.ErrorIs(t, err, apperrors.ErrMediaProcessingFailed)
	})

	t.Run("rejects unsupported extension before touching storage", func(t *testing.T) {
		primary := NewMockObjectStorage("s3")
		uc := usecase.NewMediaUseCase(primary, nil, testMediaConfig(), logger)

		set, err := uc.IngestImage(ctx, testJPEG(t, 100, 100), "photo.gif")
		assert.Nil(t, set)
		assert.ErrorIs(t, err, apperrors.ErrMediaInvalid)
		primary.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects undecodable bytes", func(t *testing.T) {
		primary := NewMockObjectStorage("s3")
		uc := usecase.NewMediaUseCase(primary, nil, testMediaConfig(), logger)

		set, err := uc.IngestImage(ctx, []byte("not an image"), "photo.jpg")
		assert.Nil(t, set)
		assert.ErrorIs(t, err, apperrors.ErrMediaInvalid)
	})

	t.Run("rejects oversized files", func(t *testing.T) {
		cfg := testMediaConfig()
		cfg.MaxImageBytes = 10
		primary := NewMockObjectStorage("s3")
		uc := usecase.NewMediaUseCase(primary, nil, cfg, logger)

		set, err := uc.IngestImage(ctx, testJPEG(t, 100, 100), "photo.jpg")
		assert.Nil(t, set)
		assert.ErrorIs(t, err, apperrors.ErrMediaInvalid)
	})
}

func TestMediaUseCase_IngestAudio(t *testing.T) {
	logger := zap.NewNop()
	ctx := t.Context()
	raw := []byte("fake mp3 payload")

	t.Run("uploads a single artifact", func(t *testing.T) {
		primary := NewMockObjectStorage("s3")
		uc := usecase.NewMediaUseCase(primary, nil, testMediaConfig(), logger)

		primary.On("Upload", mock.Anything, keyWithSuffix(".mp3"), raw, "audio/mpeg").
			Return(uploadResult("s3"), nil).Once()

		artifact, err := uc.IngestAudio(ctx, raw, "note.mp3", 42)
		require.NoError(t, err)
		require.NotNil(t, artifact)
		assert.Equal(t, "s3", artifact.Provider)
		assert.Equal(t, 42, artifact.DurationSeconds)
		primary.AssertExpectations(t)
	})

	t.Run("fails loudly instead of falling back to the secondary", func(t *testing.T) {
		primary := NewMockObjectStorage("s3")
		secondary := NewMockObjectStorage("local")
		uc := usecase.NewMediaUseCase(primary, secondary, testMediaConfig(), logger)

		primary.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("bucket unavailable")).Once()

		artifact, err := uc.IngestAudio(ctx, raw, "note.mp3", 42)
		assert.Nil(t, artifact)
		assert.ErrorIs(t, err, apperrors.ErrAudioFallbackUnsupported)
		secondary.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("reports a processing failure when no secondary exists", func(t *testing.T) {
		primary := NewMockObjectStorage("local")
		uc := usecase.NewMediaUseCase(primary, nil, testMediaConfig(), logger)

		primary.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("disk full")).Once()

		artifact, err := uc.IngestAudio(ctx, raw, "note.mp3", 42)
		assert.Nil(t, artifact)
		assert.ErrorIs(t, err, apperrors.ErrMediaProcessingFailed)
	})

	t.Run("rejects unsupported audio format", func(t *testing.T) {
		primary := NewMockObjectStorage("s3")
		uc := usecase.NewMediaUseCase(primary, nil, testMediaConfig(), logger)

		artifact, err := uc.IngestAudio(ctx, raw, "note.flac", 42)
		assert.Nil(t, artifact)
		assert.ErrorIs(t, err, apperrors.ErrMediaInvalid)
	})
}

func TestMediaUseCase_DeleteReportMedia(t *testing.T) {
	logger := zap.NewNop()
	ctx := t.Context()

	t.Run("routes deletion by the stored provider tag", func(t *testing.T) {
		primary := NewMockObjectStorage("s3")
		secondary := NewMockObjectStorage("local")
		uc := usecase.NewMediaUseCase(primary, secondary, testMediaConfig(), logger)

		// Image set lives on s3, the voice note ended up on local
		report := &domain.WasteReport{
			Image: &domain.MediaArtifactSet{
				Original:  domain.MediaArtifact{StorageKey: "reports/a/original.jpg", Provider: "s3"},
				Medium:    domain.MediaArtifact{StorageKey: "reports/a/medium.jpg", Provider: "s3"},
				Thumbnail: domain.MediaArtifact{StorageKey: "reports/a/thumbnail.jpg", Provider: "s3"},
			},
			Audio: &domain.AudioArtifact{StorageKey: "audio/b.mp3", Provider: "local"},
		}

		primary.On("Delete", mock.Anything, mock.MatchedBy(func(keys []string) bool {
			return len(keys) == 3
		})).Return(nil).Once()
		secondary.On("Delete", mock.Anything, []string{"audio/b.mp3"}).Return(nil).Once()

		uc.DeleteReportMedia(ctx, report)

		primary.AssertExpectations(t)
		secondary.AssertExpectations(t)
	})

	t.Run("storage errors are swallowed", func(t *testing.T) {
		primary := NewMockObjectStorage("s3")
		uc := usecase.NewMediaUseCase(primary, nil, testMediaConfig(), logger)

		report := &domain.WasteReport{
			Audio: &domain.AudioArtifact{StorageKey: "audio/b.mp3", Provider: "s3"},
		}
		primary.On("Delete", mock.Anything, mock.Anything).Return(errors.New("gone")).Once()

		uc.DeleteReportMedia(ctx, report)
		primary.AssertExpectations(t)
	})
}

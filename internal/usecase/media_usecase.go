package usecase

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/waste-report-service/internal/config"
	"github.com/waste-report-service/internal/domain"
	"github.com/waste-report-service/internal/infrastructure/storage"
	"github.com/waste-report-service/internal/pkg/errors"
	"go.uber.org/zap"
)

// Целевые рамки и JPEG-качество рендишнов
const (
	originalMaxBox  = 1920
	mediumMaxBox    = 800
	thumbnailMaxBox = 320

	originalQuality  = 90
	mediumQuality    = 80
	thumbnailQuality = 70
)

var audioContentTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".ogg":  "audio/ogg",
	".wav":  "audio/wav",
	".webm": "audio/webm",
}

// MediaUseCase - загрузка медиа: валидация, рендишны, загрузка в
// primary-провайдер с одним повтором всей операции на secondary.
// Провайдерная ошибка - не ошибка клиента; клиентские только
// валидационные.
type MediaUseCase struct {
	primary   storage.ObjectStorage
	secondary storage.ObjectStorage // nil, когда S3 не настроен
	cfg       *config.MediaConfig
	logger    *zap.Logger
}

// NewMediaUseCase создает новый MediaUseCase
func NewMediaUseCase(
	primary storage.ObjectStorage,
	secondary storage.ObjectStorage,
	cfg *config.MediaConfig,
	logger *zap.Logger,
) *MediaUseCase {
	return &MediaUseCase{
		primary:   primary,
		secondary: secondary,
		cfg:       cfg,
		logger:    logger,
	}
}

type rendition struct {
	name    string
	data    []byte
	width   int
	height  int
	quality int
}

// IngestImage валидирует изображение, готовит три рендишна и
// загружает их как атомарный набор: либо все три, либо ошибка.
func (uc *MediaUseCase) IngestImage(ctx context.Context, raw []byte, filename string) (*domain.MediaArtifactSet, error) {
	if err := uc.validateImage(raw, filename); err != nil {
		return nil, err
	}

	renditions, err := uc.buildRenditions(raw)
	if err != nil {
		return nil, err
	}

	key := uuid.New().String()

	set, uploadErr := uc.uploadSet(ctx, uc.primary, key, renditions)
	if uploadErr == nil {
		return set, nil
	}

	uc.logger.Warn("Primary provider failed, retrying ingestion on secondary",
		zap.String("primary", uc.primary.Name()),
		zap.Error(uploadErr))

	if uc.secondary == nil {
		return nil, errors.ErrMediaProcessingFailed
	}

	set, uploadErr = uc.uploadSet(ctx, uc.secondary, key, renditions)
	if uploadErr != nil {
		uc.logger.Error("Secondary provider failed, ingestion aborted",
			zap.String("secondary", uc.secondary.Name()),
			zap.Error(uploadErr))
		return nil, errors.ErrMediaProcessingFailed
	}

	return set, nil
}

// IngestAudio загружает голосовую заметку одним артефактом. Рендишнов
// нет; запасного провайдера для аудио в этом дизайне тоже нет -
// провал primary не маскируется тихим fallback.
func (uc *MediaUseCase) IngestAudio(ctx context.Context, raw []byte, filename string, durationSeconds int) (*domain.AudioArtifact, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !contains(uc.cfg.AudioExtensions, ext) {
		return nil, errors.ErrMediaInvalid.WithMessage(
			fmt.Sprintf("audio format %q is not allowed, expected one of %s", ext, strings.Join(uc.cfg.AudioExtensions, ", ")))
	}
	if int64(len(raw)) > uc.cfg.MaxAudioBytes {
		return nil, errors.ErrMediaInvalid.WithMessage(
			fmt.Sprintf("audio exceeds maximum size of %d bytes", uc.cfg.MaxAudioBytes))
	}
	if len(raw) == 0 {
		return nil, errors.ErrMediaInvalid.WithMessage("audio file is empty")
	}

	contentType := audioContentTypes[ext]
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := fmt.Sprintf("audio/%s%s", uuid.New().String(), ext)

	uploadCtx, cancel := context.WithTimeout(ctx, uc.cfg.UploadTimeout)
	defer cancel()

	result, err := uc.primary.Upload(uploadCtx, key, raw, contentType)
	if err != nil {
		uc.logger.Error("Audio upload failed on primary provider",
			zap.String("provider", uc.primary.Name()),
			zap.Error(err))
		if uc.secondary != nil {
			return nil, errors.ErrAudioFallbackUnsupported
		}
		return nil, errors.ErrMediaProcessingFailed
	}

	return &domain.AudioArtifact{
		URL:             result.URL,
		StorageKey:      result.Key,
		ByteSize:        result.ByteSize,
		DurationSeconds: durationSeconds,
		Provider:        uc.primary.Name(),
	}, nil
}

// DeleteReportMedia удаляет артефакты отчёта, маршрутизируя по тегу
// провайдера. Ошибки удаления только логируются: чистка хранилища не
// должна блокировать намерение вызывающего (удаление отчёта).
func (uc *MediaUseCase) DeleteReportMedia(ctx context.Context, report *domain.WasteReport) {
	keysByProvider := make(map[string][]string)

	if report.Image != nil {
		for _, artifact := range report.Image.Artifacts() {
			keysByProvider[artifact.Provider] = append(keysByProvider[artifact.Provider], artifact.StorageKey)
		}
	}
	if report.Audio != nil {
		keysByProvider[report.Audio.Provider] = append(keysByProvider[report.Audio.Provider], report.Audio.StorageKey)
	}

	for providerTag, keys := range keysByProvider {
		provider := uc.providerByTag(providerTag)
		if provider == nil {
			uc.logger.Error("Unknown storage provider tag, artifacts orphaned",
				zap.String("provider", providerTag),
				zap.Strings("keys", keys))
			continue
		}
		if err := provider.Delete(ctx, keys); err != nil {
			uc.logger.Error("Failed to delete media artifacts",
				zap.String("provider", providerTag),
				zap.Strings("keys", keys),
				zap.Error(err))
		}
	}
}

func (uc *MediaUseCase) providerByTag(tag string) storage.ObjectStorage {
	if uc.primary != nil && uc.primary.Name() == tag {
		return uc.primary
	}
	if uc.secondary != nil && uc.secondary.Name() == tag {
		return uc.secondary
	}
	return nil
}

func (uc *MediaUseCase) validateImage(raw []byte, filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !contains(uc.cfg.ImageExtensions, ext) {
		return errors.ErrMediaInvalid.WithMessage(
			fmt.Sprintf("image format %q is not allowed, expected one of %s", ext, strings.Join(uc.cfg.ImageExtensions, ", ")))
	}
	if int64(len(raw)) > uc.cfg.MaxImageBytes {
		return errors.ErrMediaInvalid.WithMessage(
			fmt.Sprintf("image exceeds maximum size of %d bytes", uc.cfg.MaxImageBytes))
	}
	if len(raw) == 0 {
		return errors.ErrMediaInvalid.WithMessage("image file is empty")
	}
	return nil
}

// buildRenditions декодирует изображение и готовит три JPEG-рендишна.
// Любой сбой ресайза валит весь набор - частичных наборов не бывает.
func (uc *MediaUseCase) buildRenditions(raw []byte) ([]rendition, error) {
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.ErrMediaInvalid.WithMessage("image cannot be decoded")
	}

	bounds := img.Bounds()
	if bounds.Dx() > uc.cfg.MaxImageWidth || bounds.Dy() > uc.cfg.MaxImageHeight {
		return nil, errors.ErrMediaInvalid.WithMessage(
			fmt.Sprintf("image dimensions %dx%d exceed maximum %dx%d",
				bounds.Dx(), bounds.Dy(), uc.cfg.MaxImageWidth, uc.cfg.MaxImageHeight))
	}

	specs := []struct {
		name    string
		box     int
		quality int
	}{
		{"original", originalMaxBox, originalQuality},
		{"medium", mediumMaxBox, mediumQuality},
		{"thumbnail", thumbnailMaxBox, thumbnailQuality},
	}

	renditions := make([]rendition, 0, len(specs))
	for _, spec := range specs {
		resized := img
		if bounds.Dx() > spec.box || bounds.Dy() > spec.box {
			resized = imaging.Fit(img, spec.box, spec.box, imaging.Lanczos)
		}

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(spec.quality)); err != nil {
			return nil, fmt.Errorf("encode %s rendition: %w", spec.name, err)
		}

		rb := resized.Bounds()
		renditions = append(renditions, rendition{
			name:    spec.name,
			data:    buf.Bytes(),
			width:   rb.Dx(),
			height:  rb.Dy(),
			quality: spec.quality,
		})
	}

	return renditions, nil
}

// uploadSet загружает все рендишны на одного провайдера. При сбое
// уже загруженные объекты подчищаются best-effort.
func (uc *MediaUseCase) uploadSet(ctx context.Context, provider storage.ObjectStorage, baseKey string, renditions []rendition) (*domain.MediaArtifactSet, error) {
	artifacts := make(map[string]domain.MediaArtifact, len(renditions))
	uploaded := make([]string, 0, len(renditions))

	for _, rend := range renditions {
		key := fmt.Sprintf("reports/%s/%s.jpg", baseKey, rend.name)

		uploadCtx, cancel := context.WithTimeout(ctx, uc.cfg.UploadTimeout)
		result, err := provider.Upload(uploadCtx, key, rend.data, "image/jpeg")
		cancel()

		if err != nil {
			if len(uploaded) > 0 {
				if cleanupErr := provider.Delete(context.WithoutCancel(ctx), uploaded); cleanupErr != nil {
					uc.logger.Warn("Failed to clean up partial upload",
						zap.String("provider", provider.Name()),
						zap.Strings("keys", uploaded),
						zap.Error(cleanupErr))
				}
			}
			return nil, fmt.Errorf("upload %s rendition: %w", rend.name, err)
		}

		uploaded = append(uploaded, key)
		artifacts[rend.name] = domain.MediaArtifact{
			URL:        result.URL,
			StorageKey: result.Key,
			ByteSize:   result.ByteSize,
			Width:      rend.width,
			Height:     rend.height,
			Provider:   provider.Name(),
		}
	}

	return &domain.MediaArtifactSet{
		Original:  artifacts["original"],
		Medium:    artifacts["medium"],
		Thumbnail: artifacts["thumbnail"],
	}, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

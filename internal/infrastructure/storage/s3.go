package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/waste-report-service/internal/config"
	"github.com/waste-report-service/internal/domain"
	"go.uber.org/zap"
)

// S3Storage - основной провайдер, S3-совместимое объектное хранилище
type S3Storage struct {
	client    *minio.Client
	bucket    string
	publicURL string
	logger    *zap.Logger
}

// NewS3Storage создает новый S3Storage
func NewS3Storage(cfg *config.StorageConfig, logger *zap.Logger) (*S3Storage, error) {
	client, err := minio.New(cfg.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Secure: cfg.S3UseSSL,
		Region: cfg.S3Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.S3UseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.S3Endpoint, cfg.S3Bucket)
	}

	return &S3Storage{
		client:    client,
		bucket:    cfg.S3Bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    logger,
	}, nil
}

func (s *S3Storage) Name() string {
	return domain.ProviderS3
}

func (s *S3Storage) Upload(ctx context.Context, key string, data []byte, contentType string) (*UploadResult, error) {
	info, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		s.logger.Warn("S3 upload failed",
			zap.String("key", key),
			zap.Error(err))
		return nil, fmt.Errorf("s3 upload %s: %w", key, err)
	}

	s.logger.Debug("S3 object uploaded",
		zap.String("key", key),
		zap.Int64("size", info.Size))

	return &UploadResult{
		URL:      fmt.Sprintf("%s/%s", s.publicURL, key),
		Key:      key,
		ByteSize: int64(len(data)),
	}, nil
}

func (s *S3Storage) Delete(ctx context.Context, keys []string) error {
	var firstErr error
	for _, key := range keys {
		if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
			s.logger.Error("S3 delete failed",
				zap.String("key", key),
				zap.Error(err))
			if firstErr == nil {
				firstErr = fmt.Errorf("s3 delete %s: %w", key, err)
			}
		}
	}
	return firstErr
}

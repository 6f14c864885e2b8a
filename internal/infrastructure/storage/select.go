package storage

import (
	"github.com/spf13/afero"
	"github.com/waste-report-service/internal/config"
	"go.uber.org/zap"
)

// Select выбирает провайдеры по конфигурации. Никаких сетевых проб:
// S3 считается настроенным, если endpoint и креды не являются
// заглушками. С настроенным S3 - primary=s3, secondary=local;
// без него - primary=local, secondary отсутствует.
func Select(cfg *config.StorageConfig, logger *zap.Logger) (primary, secondary ObjectStorage, err error) {
	local := NewLocalStorage(afero.NewOsFs(), cfg.LocalDir, cfg.LocalURL, logger)

	if IsPlaceholder(cfg.S3Endpoint) || IsPlaceholder(cfg.S3AccessKey) || IsPlaceholder(cfg.S3SecretKey) {
		logger.Info("S3 credentials not configured, using local storage only")
		return local, nil, nil
	}

	s3, err := NewS3Storage(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("S3 storage configured as primary provider",
		zap.String("endpoint", cfg.S3Endpoint),
		zap.String("bucket", cfg.S3Bucket))
	return s3, local, nil
}

package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/spf13/afero"
	"github.com/waste-report-service/internal/domain"
	"go.uber.org/zap"
)

// LocalStorage - резервный провайдер на локальной файловой системе.
// Файловая система абстрагирована через afero, в тестах - in-memory.
type LocalStorage struct {
	fs      afero.Fs
	dir     string
	baseURL string
	logger  *zap.Logger
}

// NewLocalStorage создает новый LocalStorage
func NewLocalStorage(fs afero.Fs, dir, baseURL string, logger *zap.Logger) *LocalStorage {
	return &LocalStorage{
		fs:      fs,
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

func (l *LocalStorage) Name() string {
	return domain.ProviderLocal
}

func (l *LocalStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (*UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fullPath := path.Join(l.dir, key)
	if err := l.fs.MkdirAll(path.Dir(fullPath), 0o755); err != nil {
		return nil, fmt.Errorf("local mkdir %s: %w", path.Dir(fullPath), err)
	}
	if err := afero.WriteFile(l.fs, fullPath, data, 0o644); err != nil {
		l.logger.Warn("Local write failed",
			zap.String("key", key),
			zap.Error(err))
		return nil, fmt.Errorf("local write %s: %w", key, err)
	}

	l.logger.Debug("Local object written",
		zap.String("key", key),
		zap.Int("size", len(data)))

	return &UploadResult{
		URL:      fmt.Sprintf("%s/%s", l.baseURL, key),
		Key:      key,
		ByteSize: int64(len(data)),
	}, nil
}

func (l *LocalStorage) Delete(ctx context.Context, keys []string) error {
	var firstErr error
	for _, key := range keys {
		if err := l.fs.Remove(path.Join(l.dir, key)); err != nil {
			l.logger.Error("Local delete failed",
				zap.String("key", key),
				zap.Error(err))
			if firstErr == nil {
				firstErr = fmt.Errorf("local delete %s: %w", key, err)
			}
		}
	}
	return firstErr
}

package storage

import (
	"context"
)

// UploadResult - результат загрузки одного объекта
type UploadResult struct {
	URL      string
	Key      string
	ByteSize int64
}

// ObjectStorage - провайдер хранилища медиа. Реализуется один раз
// на провайдера, выбор провайдера - чистая функция конфигурации.
type ObjectStorage interface {
	// Name возвращает тег провайдера, сохраняемый рядом с артефактом
	Name() string

	// Upload загружает объект и возвращает публичный URL
	Upload(ctx context.Context, key string, data []byte, contentType string) (*UploadResult, error)

	// Delete удаляет объекты по ключам
	Delete(ctx context.Context, keys []string) error
}

// Плейсхолдерные креды из шаблонов .env - с ними S3 считается
// ненастроенным, сеть не пробуем
var placeholderCredentials = map[string]struct{}{
	"":                {},
	"demo":            {},
	"changeme":        {},
	"placeholder":     {},
	"your-access-key": {},
	"your-secret-key": {},
	"minioadmin":      {},
}

// IsPlaceholder сообщает, что значение креда является заглушкой
func IsPlaceholder(value string) bool {
	_, ok := placeholderCredentials[value]
	return ok
}

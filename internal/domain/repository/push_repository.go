package repository

import (
	"context"

	"github.com/google/uuid"
)

// PushSink - контракт realtime-доставки. Сам транспорт (WebSocket
// шлюз) живёт снаружи и подписан на per-user каналы; здесь только
// emit и проверка присутствия.
type PushSink interface {
	// IsConnected сообщает, есть ли у пользователя активное подключение
	IsConnected(ctx context.Context, userID uuid.UUID) (bool, error)

	// Emit публикует payload в канал пользователя
	Emit(ctx context.Context, userID uuid.UUID, payload interface{}) error
}

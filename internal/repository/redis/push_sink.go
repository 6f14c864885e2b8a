package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/waste-report-service/internal/domain/repository"
	"go.uber.org/zap"
)

// Шлюз realtime-подключений поддерживает presence-ключ на время
// жизни сокета и подписан на per-user канал. Сервис с той стороны
// не знаком - только ключи и каналы.
const (
	presenceKeyFormat = "presence:user:%s"
	pushChannelFormat = "push:user:%s"
)

type pushSink struct {
	client *redis.Client
	logger *zap.Logger
}

// NewPushSink создает новый PushSink поверх Redis pub/sub
func NewPushSink(client *redis.Client, logger *zap.Logger) repository.PushSink {
	return &pushSink{
		client: client,
		logger: logger,
	}
}

func (s *pushSink) IsConnected(ctx context.Context, userID uuid.UUID) (bool, error) {
	n, err := s.client.Exists(ctx, fmt.Sprintf(presenceKeyFormat, userID)).Result()
	if err != nil {
		return false, fmt.Errorf("check presence: %w", err)
	}
	return n > 0, nil
}

func (s *pushSink) Emit(ctx context.Context, userID uuid.UUID, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal push payload: %w", err)
	}

	channel := fmt.Sprintf(pushChannelFormat, userID)
	if err := s.client.Publish(ctx, channel, data).Err(); err != nil {
		s.logger.Error("Failed to publish push payload",
			zap.String("channel", channel),
			zap.Error(err))
		return fmt.Errorf("publish push payload: %w", err)
	}

	s.logger.Debug("Push payload published", zap.String("channel", channel))
	return nil
}

package usecase

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/google/uuid"
	"github.com/waste-report-service/internal/domain"
	"github.com/waste-report-service/internal/domain/repository"
	"github.com/waste-report-service/internal/pkg/errors"
	"go.uber.org/zap"
)

// EmailSender - почтовый канал уведомлений
type EmailSender interface {
	Configured() bool
	SendNotification(to string, n *domain.Notification) error
}

// NotificationUseCase - доставка уведомления по каналам. Каждый канал
// изолирован: сбой одного не отменяет персистенцию и остальные.
// Авторитетен только in-app (строка в базе) - его ошибка единственная,
// которая возвращается наружу.
type NotificationUseCase struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	push             repository.PushSink
	mailer           EmailSender
	logger           *zap.Logger
}

// NewNotificationUseCase создает новый NotificationUseCase
func NewNotificationUseCase(
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	push repository.PushSink,
	mailer EmailSender,
	logger *zap.Logger,
) *NotificationUseCase {
	return &NotificationUseCase{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		push:             push,
		mailer:           mailer,
		logger:           logger,
	}
}

// Notify доставляет одно уведомление одному пользователю
func (uc *NotificationUseCase) Notify(
	ctx context.Context,
	userID uuid.UUID,
	title, message, category string,
	metadata map[string]interface{},
) (*domain.Notification, error) {
	channels := []string{domain.ChannelInApp, domain.ChannelPush}
	if domain.EmailEligible(category) {
		channels = append(channels, domain.ChannelEmail)
	}

	n := &domain.Notification{
		ID:       uuid.New(),
		UserID:   userID,
		Title:    title,
		Message:  message,
		Category: category,
		Channels: channels,
		Metadata: metadata,
	}

	// 1. In-app: authoritative, always attempted first
	if err := uc.notificationRepo.Create(ctx, n); err != nil {
		return nil, err
	}

	// 2. Realtime push, only if the user has an active connection.
	// No queue or replay: a disconnected user sees the persisted row
	// on the next poll.
	uc.tryPush(ctx, n)

	// 3. Email copy for high-priority categories
	if domain.EmailEligible(category) {
		uc.tryEmail(ctx, n)
	}

	return n, nil
}

// NotifyAdmins рассылает уведомление каждому администратору
// независимо: сбой на одном не блокирует остальных
func (uc *NotificationUseCase) NotifyAdmins(
	ctx context.Context,
	title, message, category string,
	metadata map[string]interface{},
) error {
	admins, err := uc.userRepo.ListAdmins(ctx)
	if err != nil {
		return err
	}

	for _, admin := range admins {
		if _, err := uc.Notify(ctx, admin.ID, title, message, category, metadata); err != nil {
			uc.logger.Error("Failed to notify admin",
				zap.String("admin_id", admin.ID.String()),
				zap.String("category", category),
				zap.Error(err))
		}
	}

	return nil
}

// List возвращает уведомления пользователя
func (uc *NotificationUseCase) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Notification, int, error) {
	return uc.notificationRepo.ListByUser(ctx, userID, limit, offset)
}

// MarkRead помечает уведомление прочитанным
func (uc *NotificationUseCase) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	if err := uc.notificationRepo.MarkRead(ctx, id, userID); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.ErrNotificationNotFound
		}
		uc.logger.Error("Failed to mark notification as read",
			zap.String("notification_id", id.String()),
			zap.Error(err))
		return errors.ErrDatabaseError
	}
	return nil
}

func (uc *NotificationUseCase) tryPush(ctx context.Context, n *domain.Notification) {
	connected, err := uc.push.IsConnected(ctx, n.UserID)
	if err != nil {
		uc.logger.Warn("Presence check failed, skipping push",
			zap.String("user_id", n.UserID.String()),
			zap.Error(err))
		return
	}
	if !connected {
		return
	}

	if err := uc.push.Emit(ctx, n.UserID, n); err != nil {
		uc.logger.Warn("Push delivery failed",
			zap.String("user_id", n.UserID.String()),
			zap.Error(err))
	}
}

func (uc *NotificationUseCase) tryEmail(ctx context.Context, n *domain.Notification) {
	if uc.mailer == nil || !uc.mailer.Configured() {
		return
	}

	user, err := uc.userRepo.GetByID(ctx, n.UserID)
	if err != nil || user == nil || user.Email == "" {
		uc.logger.Warn("Cannot resolve email recipient",
			zap.String("user_id", n.UserID.String()),
			zap.Error(err))
		return
	}

	if err := uc.mailer.SendNotification(user.Email, n); err != nil {
		uc.logger.Warn("Email delivery failed",
			zap.String("user_id", n.UserID.String()),
			zap.Error(err))
	}
}

package usecase_test

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/waste-report-service/internal/domain"
	apperrors "github.com/waste-report-service/internal/pkg/errors"
	"github.com/waste-report-service/internal/usecase"
)

type notificationFixture struct {
	notificationRepo *MockNotificationRepository
	userRepo         *MockUserRepository
	push             *MockPushSink
	mailer           *MockMailer
	uc               *usecase.NotificationUseCase
}

func newNotificationFixture() *notificationFixture {
	f := &notificationFixture{
		notificationRepo: &MockNotificationRepository{},
		userRepo:         &MockUserRepository{},
		push:             &MockPushSink{},
		mailer:           &MockMailer{},
	}
	f.uc = usecase.NewNotificationUseCase(f.notificationRepo, f.userRepo, f.push, f.mailer, zap.NewNop())
	return f
}

func TestNotificationUseCase_Notify(t *testing.T) {
	userID := uuid.New()
	ctx := t.Context()

	t.Run("persists first and pushes to a connected user", func(t *testing.T) {
		f := newNotificationFixture()

		f.notificationRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
		f.push.On("IsConnected", mock.Anything, userID).Return(true, nil).Once()
		f.push.On("Emit", mock.Anything, userID, mock.Anything).Return(nil).Once()

		n, err := f.uc.Notify(ctx, userID, "Badge earned: Premier Pas", "Bravo!", domain.CategoryBadgeEarned, nil)
		require.NoError(t, err)
		require.NotNil(t, n)
		assert.Contains(t, n.Channels, domain.ChannelInApp)
		assert.Contains(t, n.Channels, domain.ChannelPush)
		assert.NotContains(t, n.Channels, domain.ChannelEmail)

		f.push.AssertExpectations(t)
	})

	t.Run("persistence failure is the only one surfaced", func(t *testing.T) {
		f := newNotificationFixture()

		f.notificationRepo.On("Create", mock.Anything, mock.Anything).
			Return(errors.New("insert failed")).Once()

		n, err := f.uc.Notify(ctx, userID, "t", "m", domain.CategoryGeneric, nil)
		assert.Nil(t, n)
		assert.Error(t, err)

		f.push.AssertNotCalled(t, "IsConnected", mock.Anything, mock.Anything)
		f.mailer.AssertNotCalled(t, "SendNotification", mock.Anything, mock.Anything)
	})

	t.Run("disconnected user gets no push and no error", func(t *testing.T) {
		f := newNotificationFixture()

		f.notificationRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
		f.push.On("IsConnected", mock.Anything, userID).Return(false, nil).Once()

		n, err := f.uc.Notify(ctx, userID, "t", "m", domain.CategoryBadgeEarned, nil)
		require.NoError(t, err)
		require.NotNil(t, n)
		f.push.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("push failure never fails the delivery", func(t *testing.T) {
		f := newNotificationFixture()

		f.notificationRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
		f.push.On("IsConnected", mock.Anything, userID).Return(true, nil).Once()
		f.push.On("Emit", mock.Anything, userID, mock.Anything).
			Return(errors.New("broker down")).Once()

		n, err := f.uc.Notify(ctx, userID, "t", "m", domain.CategoryBadgeEarned, nil)
		assert.NoError(t, err)
		assert.NotNil(t, n)
	})

	t.Run("high priority categories get an email copy", func(t *testing.T) {
		f := newNotificationFixture()

		user := &domain.User{ID: userID, Email: "citizen@example.com"}

		f.notificationRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
		f.push.On("IsConnected", mock.Anything, userID).Return(false, nil).Once()
		f.mailer.On("Configured").Return(true).Once()
		f.userRepo.On("GetByID", mock.Anything, userID).Return(user, nil).Once()
		f.mailer.On("SendNotification", "citizen@example.com", mock.Anything).Return(nil).Once()

		n, err := f.uc.Notify(ctx, userID, "Report status updated", "collected", domain.CategoryStatusChange, nil)
		require.NoError(t, err)
		assert.Contains(t, n.Channels, domain.ChannelEmail)
		f.mailer.AssertExpectations(t)
	})

	t.Run("email failure never fails the delivery", func(t *testing.T) {
		f := newNotificationFixture()

		user := &domain.User{ID: userID, Email: "citizen@example.com"}

		f.notificationRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
		f.push.On("IsConnected", mock.Anything, userID).Return(false, nil).Once()
		f.mailer.On("Configured").Return(true).Once()
		f.userRepo.On("GetByID", mock.Anything, userID).Return(user, nil).Once()
		f.mailer.On("SendNotification", mock.Anything, mock.Anything).
			Return(errors.New("smtp timeout")).Once()

		_, err := f.uc.Notify(ctx, userID, "t", "m", domain.CategoryNewReport, nil)
		assert.NoError(t, err)
	})

	t.Run("unconfigured mailer skips email silently", func(t *testing.T) {
		f := newNotificationFixture()

		f.notificationRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
		f.push.On("IsConnected", mock.Anything, userID).Return(false, nil).Once()
		f.mailer.On("Configured").Return(false).Once()

		_, err := f.uc.Notify(ctx, userID, "t", "m", domain.CategoryNewReport, nil)
		assert.NoError(t, err)
		f.userRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestNotificationUseCase_NotifyAdmins(t *testing.T) {
	ctx := t.Context()

	t.Run("one failing admin does not block the rest", func(t *testing.T) {
		f := newNotificationFixture()

		first := &domain.User{ID: uuid.New(), Email: "a@example.com", Role: domain.RoleAdmin}
		second := &domain.User{ID: uuid.New(), Email: "b@example.com", Role: domain.RoleAdmin}

		f.userRepo.On("ListAdmins", mock.Anything).Return([]*domain.User{first, second}, nil).Once()
		f.notificationRepo.On("Create", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.UserID == first.ID
		})).Return(errors.New("insert failed")).Once()
		f.notificationRepo.On("Create", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.UserID == second.ID
		})).Return(nil).Once()
		f.push.On("IsConnected", mock.Anything, second.ID).Return(false, nil).Once()
		f.mailer.On("Configured").Return(false)

		err := f.uc.NotifyAdmins(ctx, "New waste report", "review it", domain.CategoryNewReport, nil)
		assert.NoError(t, err)
		f.notificationRepo.AssertExpectations(t)
	})

	t.Run("listing failure is returned", func(t *testing.T) {
		f := newNotificationFixture()

		f.userRepo.On("ListAdmins", mock.Anything).Return(nil, errors.New("query timeout")).Once()

		err := f.uc.NotifyAdmins(ctx, "t", "m", domain.CategoryNewReport, nil)
		assert.Error(t, err)
	})
}

func TestNotificationUseCase_MarkRead(t *testing.T) {
	f := newNotificationFixture()
	id := uuid.New()
	userID := uuid.New()

	f.notificationRepo.On("MarkRead", mock.Anything, id, userID).Return(sql.ErrNoRows).Once()

	err := f.uc.MarkRead(t.Context(), id, userID)
	assert.ErrorIs(t, err, apperrors.ErrNotificationNotFound)
}

package usecase_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/waste-report-service/internal/domain"
	"github.com/waste-report-service/internal/infrastructure/storage"
)

// MockReportRepository is a mock of ReportRepository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Create(ctx context.Context, report *domain.WasteReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WasteReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WasteReport), args.Error(1)
}

func (m *MockReportRepository) List(ctx context.Context, filter domain.ReportFilter) ([]*domain.WasteReport, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.WasteReport), args.Int(1), args.Error(2)
}

func (m *MockReportRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ReportStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockReportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReportRepository) GetUserStats(ctx context.Context, userID uuid.UUID) (*domain.UserStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserStats), args.Error(1)
}

func (m *MockReportRepository) ListActiveReporters(ctx context.Context, since time.Time) ([]uuid.UUID, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// MockUserRepository is a mock of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) AddPoints(ctx context.Context, id uuid.UUID, delta int) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func (m *MockUserRepository) ListAdmins(ctx context.Context) ([]*domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

// MockBadgeRepository is a mock of BadgeRepository
type MockBadgeRepository struct {
	mock.Mock
}

func (m *MockBadgeRepository) ListActive(ctx context.Context) ([]*domain.Badge, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Badge), args.Error(1)
}

func (m *MockBadgeRepository) ListProgress(ctx context.Context, userID uuid.UUID) ([]*domain.UserBadgeProgress, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.UserBadgeProgress), args.Error(1)
}

func (m *MockBadgeRepository) SyncProgress(ctx context.Context, userID uuid.UUID, badgeID int64, current, target int) (bool, error) {
	args := m.Called(ctx, userID, badgeID, current, target)
	return args.Bool(0), args.Error(1)
}

func (m *MockBadgeRepository) MarkNotified(ctx context.Context, userID uuid.UUID, badgeID int64) error {
	args := m.Called(ctx, userID, badgeID)
	return args.Error(0)
}

// MockNotificationRepository is a mock of NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Notification, int, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Notification), args.Int(1), args.Error(2)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockAuditRepository is a mock of AuditRepository
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Record(ctx context.Context, entry *domain.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// MockPushSink is a mock of PushSink
type MockPushSink struct {
	mock.Mock
}

func (m *MockPushSink) IsConnected(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPushSink) Emit(ctx context.Context, userID uuid.UUID, payload interface{}) error {
	args := m.Called(ctx, userID, payload)
	return args.Error(0)
}

// MockMailer is a mock of EmailSender
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockMailer) SendNotification(to string, n *domain.Notification) error {
	args := m.Called(to, n)
	return args.Error(0)
}

// MockObjectStorage is a mock of ObjectStorage
type MockObjectStorage struct {
	mock.Mock
	name string
}

func NewMockObjectStorage(name string) *MockObjectStorage {
	return &MockObjectStorage{name: name}
}

func (m *MockObjectStorage) Name() string {
	return m.name
}

func (m *MockObjectStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (*storage.UploadResult, error) {
	args := m.Called(ctx, key, data, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.UploadResult), args.Error(1)
}

func (m *MockObjectStorage) Delete(ctx context.Context, keys []string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

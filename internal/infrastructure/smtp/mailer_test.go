package smtp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/waste-report-service/internal/config"
	"github.com/waste-report-service/internal/domain"
)

func TestMailer_Configured(t *testing.T) {
	logger := zap.NewNop()

	assert.False(t, NewMailer(&config.SMTPConfig{}, logger).Configured())
	assert.False(t, NewMailer(&config.SMTPConfig{Host: "smtp.example.com"}, logger).Configured())
	assert.True(t, NewMailer(&config.SMTPConfig{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "mailer",
		Password: "secret",
		From:     "noreply@example.com",
	}, logger).Configured())
}

func TestMailer_SkipsWhenUnconfigured(t *testing.T) {
	m := NewMailer(&config.SMTPConfig{}, zap.NewNop())

	err := m.SendNotification("citizen@example.com", &domain.Notification{
		Title:    "Report status updated",
		Message:  "collected",
		Category: domain.CategoryStatusChange,
	})
	assert.NoError(t, err)
}

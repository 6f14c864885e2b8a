package smtp

import (
	"bytes"
	"fmt"
	"net/smtp"
	"text/template"
	"time"

	"github.com/waste-report-service/internal/config"
	"github.com/waste-report-service/internal/domain"
	"go.uber.org/zap"
)

// Mailer отправляет почтовые копии уведомлений
type Mailer struct {
	config *config.SMTPConfig
	logger *zap.Logger
}

// NewMailer создает новый Mailer
func NewMailer(cfg *config.SMTPConfig, logger *zap.Logger) *Mailer {
	return &Mailer{config: cfg, logger: logger}
}

// Configured сообщает, настроен ли SMTP
func (m *Mailer) Configured() bool {
	return m.config.Host != "" && m.config.Username != "" && m.config.Password != ""
}

var notificationTmpl = template.Must(template.New("notification").Parse(`{{.Title}}

{{.Message}}

---
Waste Report Service
`))

// SendNotification отправляет текстовую копию уведомления
func (m *Mailer) SendNotification(to string, n *domain.Notification) error {
	if !m.Configured() {
		m.logger.Debug("SMTP not configured, skipping email",
			zap.String("title", n.Title))
		return nil
	}

	var buf bytes.Buffer
	if err := notificationTmpl.Execute(&buf, n); err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	message := fmt.Sprintf("From: %s\r\n", m.config.From)
	message += fmt.Sprintf("To: %s\r\n", to)
	message += fmt.Sprintf("Subject: %s\r\n", n.Title)
	message += fmt.Sprintf("Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	message += "\r\n"
	message += buf.String()

	auth := smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)

	if err := smtp.SendMail(addr, auth, m.config.From, []string{to}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.Info("Email sent",
		zap.String("to", to),
		zap.String("category", n.Category))
	return nil
}

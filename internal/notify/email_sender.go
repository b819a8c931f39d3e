package notify

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	gomail "gopkg.in/mail.v2"

	"github.com/licitaware/pncpwatch/internal/config"
)

// EmailSender delivers run notifications via SMTP.
type EmailSender struct {
	cfg    config.EmailConfig
	logger *zap.SugaredLogger
}

// NewEmailSender creates a sender with the given SMTP configuration.
func NewEmailSender(cfg config.EmailConfig, logger *zap.SugaredLogger) *EmailSender {
	return &EmailSender{cfg: cfg, logger: logger}
}

// Send emails the message with the report attached. When the sender is not
// configured the run completes without delivery; that is logged, not an error.
func (s *EmailSender) Send(msg Message, attachmentPath string) error {
	if !s.cfg.Enabled {
		s.logger.Infow("email delivery skipped, SMTP not configured")
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.FromEmail)
	m.SetHeader("To", s.cfg.ToEmail)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	if attachmentPath != "" {
		m.Attach(attachmentPath)
	}

	dialer := gomail.NewDialer(s.cfg.SMTPServer, s.cfg.SMTPPort, s.cfg.SMTPUser, s.cfg.SMTPPass)
	dialer.Timeout = 10 * time.Second

	if err := dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send notification to %s: %w", s.cfg.ToEmail, err)
	}

	s.logger.Infow("notification sent", "to", s.cfg.ToEmail, "subject", msg.Subject)
	return nil
}

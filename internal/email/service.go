package email

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/styllobarber/styllobarber-api/internal/config"
	"github.com/styllobarber/styllobarber-api/pkg/logger"
)

type Service interface {
	SendWelcome(ctx context.Context, to, name string) error
	SendAppointmentConfirmation(ctx context.Context, to, barberName, date, timeOfDay string) error
	SendAppointmentCancellation(ctx context.Context, to, date, timeOfDay, reason string) error
	SendCustom(ctx context.Context, to, subject, body string) error
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
	logger *logger.Logger
}

func NewSMTPService(cfg config.SMTPConfig, logger *logger.Logger) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: logger,
	}
}

func (s *smtpService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error(err, "failed to send email", "to", to)
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *smtpService) SendWelcome(ctx context.Context, to, name string) error {
	body := fmt.Sprintf("<p>Hi %s,</p><p>Your account is ready. Book your first appointment any time.</p>", name)
	return s.send(to, "Welcome to StylloBarber", body)
}

func (s *smtpService) SendAppointmentConfirmation(ctx context.Context, to, barberName, date, timeOfDay string) error {
	body := fmt.Sprintf("<p>Your appointment with %s on %s at %s is confirmed.</p>", barberName, date, timeOfDay)
	return s.send(to, "Appointment confirmed", body)
}

func (s *smtpService) SendAppointmentCancellation(ctx context.Context, to, date, timeOfDay, reason string) error {
	body := fmt.Sprintf("<p>Your appointment on %s at %s was cancelled.</p>", date, timeOfDay)
	if reason != "" {
		body += fmt.Sprintf("<p>Reason: %s</p>", reason)
	}
	return s.send(to, "Appointment cancelled", body)
}

func (s *smtpService) SendCustom(ctx context.Context, to, subject, body string) error {
	return s.send(to, subject, body)
}

// NoopService discards every email. Used in tests and when SMTP is not
// configured.
type NoopService struct{}

func (NoopService) SendWelcome(ctx context.Context, to, name string) error { return nil }
func (NoopService) SendAppointmentConfirmation(ctx context.Context, to, barberName, date, timeOfDay string) error {
	return nil
}
func (NoopService) SendAppointmentCancellation(ctx context.Context, to, date, timeOfDay, reason string) error {
	return nil
}
func (NoopService) SendCustom(ctx context.Context, to, subject, body string) error { return nil }

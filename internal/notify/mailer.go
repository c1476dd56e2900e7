// Package notify sends best-effort confirmation emails to newly registered
// participants. A failure here never blocks a registration.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	gomail "gopkg.in/gomail.v2"

	"sangamam/internal/config"
	"sangamam/internal/participant"
)

// Event details baked into the confirmation template.
const (
	eventName     = "SANGAMAM Community Walkathon"
	eventDate     = "Saturday, August 16, 2025"
	eventTime     = "7:30 AM - NOON"
	eventLocation = "Harvey Bear Ranch, San Martin"
	breakfastInfo = "FREE breakfast at 8:15 AM before departure"
	lunchInfo     = "FREE lunch at 12:00 PM after return to VVGC"
)

// Dialer sends an assembled message. *gomail.Dialer satisfies it; tests
// substitute a recorder.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer sends registration confirmations over SMTP. When the email
// service is unconfigured the mailer is a logged no-op.
type Mailer struct {
	cfg    config.EmailConfig
	dialer Dialer
	log    *slog.Logger
}

// NewMailer builds a mailer from config. A nil dialer selects the real
// SMTP dialer when the service is configured.
func NewMailer(cfg config.EmailConfig, dialer Dialer, log *slog.Logger) *Mailer {
	if log == nil {
		log = slog.Default()
	}
	if dialer == nil && cfg.Configured() {
		dialer = gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password)
	}
	return &Mailer{cfg: cfg, dialer: dialer, log: log}
}

// SendConfirmation emails the participant their registration confirmation.
// Returns nil without sending when the service is unconfigured.
func (m *Mailer) SendConfirmation(ctx context.Context, p participant.Participant) error {
	if !m.cfg.Configured() || m.dialer == nil {
		m.log.Debug("email service not configured, skipping confirmation")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", p.Email)
	msg.SetHeader("Subject", fmt.Sprintf("%s - Registration Confirmed", eventName))
	msg.SetBody("text/plain", confirmationBody(p))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send confirmation to %s: %w", p.Email, err)
	}
	m.log.Info("confirmation email sent", "to", p.Email)
	return nil
}

func confirmationBody(p participant.Participant) string {
	orDefault := func(s, def string) string {
		if s == "" {
			return def
		}
		return s
	}

	return fmt.Sprintf(`Dear %s,

Your registration for the %s is confirmed!

Event:    %s
Date:     %s
Time:     %s
Location: %s

Additional party:  %s
Emergency contact: %s (%s)

%s
%s

See you there!
`,
		p.FullName(), eventName,
		eventName, eventDate, eventTime, eventLocation,
		orDefault(p.AdditionalParty, "None"),
		orDefault(p.EmergencyContact, "Not provided"),
		orDefault(p.EmergencyPhone, "Not provided"),
		breakfastInfo, lunchInfo,
	)
}

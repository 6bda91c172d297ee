package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/Podhive/MVP/pkg/logger"
	"github.com/Podhive/MVP/pkg/model"
)

// SMTPMailer sends plain-text mail through a single SMTP relay. Template
// rendering is deliberately out of scope; bodies are terse and factual.
type SMTPMailer struct {
	addr string
	auth smtp.Auth
	from string
	log  *logger.Logger
}

func NewSMTPMailer(host string, port int, username, password, from string, log *logger.Logger) *SMTPMailer {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPMailer{
		addr: fmt.Sprintf("%s:%d", host, port),
		auth: auth,
		from: from,
		log:  log,
	}
}

func (m *SMTPMailer) BookingConfirmation(ctx context.Context, to string, d BookingDetails) error {
	subject := fmt.Sprintf("Booking confirmed: %s on %s", d.StudioName, d.Date.Format(model.DateLayout))
	body := fmt.Sprintf(
		"Hi %s,\n\nYour booking at %s is confirmed.\n\nDate: %s\nHours: %s\nTotal: %.2f\n\nStudio address: %s\nOwner: %s (%s)\n",
		d.CustomerName, d.StudioName, d.Date.Format(model.DateLayout),
		formatHours(d.Hours), d.TotalPrice, d.StudioAddress, d.OwnerName, d.OwnerPhone,
	)
	return m.send(ctx, to, subject, body)
}

func (m *SMTPMailer) BookingNotification(ctx context.Context, to string, d BookingDetails) error {
	subject := fmt.Sprintf("New booking: %s on %s", d.StudioName, d.Date.Format(model.DateLayout))
	body := fmt.Sprintf(
		"Hi %s,\n\n%s booked %s.\n\nDate: %s\nHours: %s\nTotal: %.2f\n\nCustomer contact: %s / %s\n",
		d.OwnerName, d.CustomerName, d.StudioName, d.Date.Format(model.DateLayout),
		formatHours(d.Hours), d.TotalPrice, d.CustomerEmail, d.CustomerPhone,
	)
	return m.send(ctx, to, subject, body)
}

func (m *SMTPMailer) StudioApproval(ctx context.Context, to, studioName string) error {
	subject := fmt.Sprintf("Your studio %q is live", studioName)
	body := fmt.Sprintf("Congratulations!\n\nYour studio %q has been approved and is now visible to customers.\n", studioName)
	return m.send(ctx, to, subject, body)
}

func (m *SMTPMailer) VerificationOTP(ctx context.Context, to, otp string) error {
	body := fmt.Sprintf("Your verification code is %s. It expires in 15 minutes.\n", otp)
	return m.send(ctx, to, "Verify your account", body)
}

func (m *SMTPMailer) PasswordResetOTP(ctx context.Context, to, otp string) error {
	body := fmt.Sprintf("Your password reset code is %s. It expires in 15 minutes.\nIf you did not request this, ignore this email.\n", otp)
	return m.send(ctx, to, "Password reset code", body)
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}

	m.log.Debug("Email sent", "to", to, "subject", subject)
	return nil
}

func formatHours(hours []int) string {
	parts := make([]string, len(hours))
	for i, h := range hours {
		parts[i] = fmt.Sprintf("%02d:00", h)
	}
	return strings.Join(parts, ", ")
}

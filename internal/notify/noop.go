package notify

import (
	"context"

	"github.com/Podhive/MVP/pkg/logger"
)

// NoopMailer logs instead of sending. Used when SMTP is not configured,
// typically in development.
type NoopMailer struct {
	log *logger.Logger
}

func NewNoopMailer(log *logger.Logger) *NoopMailer {
	return &NoopMailer{log: log}
}

func (m *NoopMailer) BookingConfirmation(_ context.Context, to string, d BookingDetails) error {
	m.log.Info("Email suppressed (no SMTP configured)", "kind", "booking_confirmation", "to", to, "studio", d.StudioName)
	return nil
}

func (m *NoopMailer) BookingNotification(_ context.Context, to string, d BookingDetails) error {
	m.log.Info("Email suppressed (no SMTP configured)", "kind", "booking_notification", "to", to, "studio", d.StudioName)
	return nil
}

func (m *NoopMailer) StudioApproval(_ context.Context, to, studioName string) error {
	m.log.Info("Email suppressed (no SMTP configured)", "kind", "studio_approval", "to", to, "studio", studioName)
	return nil
}

func (m *NoopMailer) VerificationOTP(_ context.Context, to, otp string) error {
	m.log.Info("Email suppressed (no SMTP configured)", "kind", "verification_otp", "to", to)
	return nil
}

func (m *NoopMailer) PasswordResetOTP(_ context.Context, to, otp string) error {
	m.log.Info("Email suppressed (no SMTP configured)", "kind", "password_reset_otp", "to", to)
	return nil
}

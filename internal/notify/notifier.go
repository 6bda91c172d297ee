// Package notify is the outbound email capability. Implementations are
// constructed once at process start and injected; callers treat every send
// as best-effort and never fail a request on a delivery error.
package notify

import (
	"context"
	"time"
)

// BookingDetails carries everything the booking emails mention.
type BookingDetails struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	OwnerName     string
	OwnerEmail    string
	OwnerPhone    string
	StudioName    string
	StudioAddress string
	Date          time.Time
	Hours         []int
	TotalPrice    float64
}

type Mailer interface {
	// BookingConfirmation tells the customer their booking stands.
	BookingConfirmation(ctx context.Context, to string, d BookingDetails) error
	// BookingNotification tells the studio owner a booking arrived.
	BookingNotification(ctx context.Context, to string, d BookingDetails) error
	// StudioApproval tells an owner their listing went live.
	StudioApproval(ctx context.Context, to, studioName string) error
	// VerificationOTP delivers the signup verification code.
	VerificationOTP(ctx context.Context, to, otp string) error
	// PasswordResetOTP delivers the password reset code.
	PasswordResetOTP(ctx context.Context, to, otp string) error
}

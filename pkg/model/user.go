package model

import "time"

const (
	UserTypeCustomer = "customer"
	UserTypeOwner    = "owner"
	UserTypeAdmin    = "admin"
)

type User struct {
	ID       string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name     string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" bson:"email" validate:"required,email"`
	Password string `json:"-" bson:"password" validate:"required"`
	Phone    string `json:"phone,omitempty" bson:"phone" validate:"omitempty,e164"`
	UserType string `json:"userType" bson:"user_type" validate:"required,oneof=customer owner admin"`

	IsVerified   bool       `json:"isVerified" bson:"is_verified"`
	EmailOTP     string     `json:"-" bson:"email_otp,omitempty"`
	OTPExpiresAt *time.Time `json:"-" bson:"otp_expires_at,omitempty"`

	PasswordResetOTP      string     `json:"-" bson:"password_reset_otp,omitempty"`
	PasswordResetExpires  *time.Time `json:"-" bson:"password_reset_expires,omitempty"`
	PasswordResetAttempts int        `json:"-" bson:"password_reset_attempts"`
	PasswordChangedAt     *time.Time `json:"-" bson:"password_changed_at,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}

package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	autherrors "github.com/Podhive/MVP/internal/auth/errors"
	"github.com/Podhive/MVP/internal/auth/repository"
	"github.com/Podhive/MVP/internal/notify"
	"github.com/Podhive/MVP/pkg/config"
	apperrors "github.com/Podhive/MVP/pkg/errors"
	"github.com/Podhive/MVP/pkg/model"
	"github.com/Podhive/MVP/pkg/sanitizer"
	"github.com/Podhive/MVP/pkg/token"
)

// AuthResult is what a successful login or verification hands back.
type AuthResult struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

type AuthService interface {
	Signup(ctx context.Context, user *model.User) error
	VerifyOTP(ctx context.Context, email, otp string) (*AuthResult, error)
	ResendOTP(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	ForgotPassword(ctx context.Context, email string) error
	VerifyPasswordResetOTP(ctx context.Context, email, otp string) error
	ResetPassword(ctx context.Context, email, otp, newPassword string) error
}

type authService struct {
	repo     repository.UserRepository
	tokens   *token.Service
	mailer   notify.Mailer
	validate *validator.Validate
	cfg      *config.Config
	now      func() time.Time
}

func NewAuthService(
	repo repository.UserRepository,
	tokens *token.Service,
	mailer notify.Mailer,
	cfg *config.Config,
) AuthService {
	return &authService{
		repo:     repo,
		tokens:   tokens,
		mailer:   mailer,
		validate: validator.New(),
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *authService) Signup(ctx context.Context, user *model.User) error {
	user.Name = sanitizer.CleanText(user.Name)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	// Admins are provisioned out of band, never through signup.
	if user.UserType != model.UserTypeCustomer && user.UserType != model.UserTypeOwner {
		return apperrors.InvalidInput("User type must be customer or owner")
	}

	if len(user.Password) < 8 {
		return apperrors.InvalidInput("Password must be at least 8 characters")
	}

	if err := s.validate.Struct(user); err != nil {
		s.cfg.Log.Warn("Signup validation failed", "email", user.Email, "error", err)
		return apperrors.Validation("Signup validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), s.cfg.BcryptCost)
	if err != nil {
		s.cfg.Log.Error("Failed to hash password", "error", err)
		return apperrors.Internal("Failed to create account", err)
	}
	user.Password = string(hashed)

	otp, err := generateOTP(4)
	if err != nil {
		return apperrors.Internal("Failed to create account", err)
	}
	expiresAt := s.now().UTC().Add(s.cfg.OTPTTL)

	user.IsVerified = false
	user.EmailOTP = otp
	user.OTPExpiresAt = &expiresAt

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, autherrors.ErrDuplicateEmail) {
			return apperrors.Conflict("An account with this email already exists")
		}
		s.cfg.Log.Error("Failed to create user", "email", user.Email, "error", err)
		return apperrors.Internal("Failed to create account", err)
	}

	if err := s.mailer.VerificationOTP(ctx, user.Email, otp); err != nil {
		s.cfg.Log.Error("Failed to send verification OTP", "email", user.Email, "error", err)
	}

	s.cfg.Log.Info("User signed up", "id", user.ID, "email", user.Email, "user_type", user.UserType)
	return nil
}

func (s *authService) VerifyOTP(ctx context.Context, email, otp string) (*AuthResult, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, s.invalidOTP(email, err)
	}

	if user.IsVerified {
		return nil, apperrors.InvalidInput("Account is already verified")
	}
	if user.EmailOTP == "" || user.EmailOTP != otp {
		return nil, apperrors.Unauthorized("Invalid or expired OTP")
	}
	if user.OTPExpiresAt == nil || s.now().UTC().After(*user.OTPExpiresAt) {
		return nil, apperrors.Unauthorized("Invalid or expired OTP")
	}

	if err := s.repo.SetVerified(ctx, user.ID); err != nil {
		s.cfg.Log.Error("Failed to mark user verified", "id", user.ID, "error", err)
		return nil, apperrors.Internal("Failed to verify account", err)
	}

	return s.issueToken(user)
}

func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, autherrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("Invalid email or password")
		}
		s.cfg.Log.Error("Failed to load user for login", "email", email, "error", err)
		return nil, apperrors.Internal("Login failed", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperrors.Unauthorized("Invalid email or password")
	}

	if !user.IsVerified {
		return nil, apperrors.Forbidden("Account is not verified")
	}

	s.cfg.Log.Info("User logged in", "id", user.ID, "email", user.Email)
	return s.issueToken(user)
}

// ForgotPassword always reports success so account existence never leaks.
// ResendOTP issues a fresh verification code for an unverified account.
// Unknown emails succeed silently so the endpoint cannot enumerate accounts.
func (s *authService) ResendOTP(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, autherrors.ErrNotFound) {
			return nil
		}
		s.cfg.Log.Error("Failed to load user for OTP resend", "email", email, "error", err)
		return apperrors.Internal("Failed to resend verification code", err)
	}

	if user.IsVerified {
		return apperrors.Conflict("Account is already verified")
	}

	otp, err := generateOTP(4)
	if err != nil {
		return apperrors.Internal("Failed to resend verification code", err)
	}

	expiresAt := s.now().UTC().Add(s.cfg.OTPTTL)
	if err := s.repo.SetEmailOTP(ctx, user.ID, otp, expiresAt); err != nil {
		s.cfg.Log.Error("Failed to store verification OTP", "id", user.ID, "error", err)
		return apperrors.Internal("Failed to resend verification code", err)
	}

	if err := s.mailer.VerificationOTP(ctx, user.Email, otp); err != nil {
		s.cfg.Log.Error("Failed to send verification OTP", "email", user.Email, "error", err)
	}

	return nil
}

func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, autherrors.ErrNotFound) {
			return nil
		}
		s.cfg.Log.Error("Failed to load user for password reset", "email", email, "error", err)
		return apperrors.Internal("Failed to start password reset", err)
	}

	otp, err := generateOTP(6)
	if err != nil {
		return apperrors.Internal("Failed to start password reset", err)
	}

	expiresAt := s.now().UTC().Add(s.cfg.PasswordResetTTL)
	if err := s.repo.SetPasswordResetOTP(ctx, user.ID, otp, expiresAt); err != nil {
		s.cfg.Log.Error("Failed to store password reset OTP", "id", user.ID, "error", err)
		return apperrors.Internal("Failed to start password reset", err)
	}

	if err := s.mailer.PasswordResetOTP(ctx, user.Email, otp); err != nil {
		s.cfg.Log.Error("Failed to send password reset OTP", "email", user.Email, "error", err)
	}

	return nil
}

func (s *authService) VerifyPasswordResetOTP(ctx context.Context, email, otp string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return s.invalidOTP(email, err)
	}

	return s.checkResetOTP(ctx, user, otp)
}

func (s *authService) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return s.invalidOTP(email, err)
	}

	if err := s.checkResetOTP(ctx, user, otp); err != nil {
		return err
	}

	if len(newPassword) < 8 {
		return apperrors.InvalidInput("Password must be at least 8 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cfg.BcryptCost)
	if err != nil {
		s.cfg.Log.Error("Failed to hash password", "error", err)
		return apperrors.Internal("Failed to reset password", err)
	}

	if err := s.repo.UpdatePassword(ctx, user.ID, string(hashed)); err != nil {
		s.cfg.Log.Error("Failed to update password", "id", user.ID, "error", err)
		return apperrors.Internal("Failed to reset password", err)
	}

	s.cfg.Log.Info("Password reset", "id", user.ID, "email", user.Email)
	return nil
}

func (s *authService) checkResetOTP(ctx context.Context, user *model.User, otp string) error {
	if user.PasswordResetAttempts >= s.cfg.MaxPasswordResetAttempts {
		return apperrors.Forbidden("Too many attempts, request a new code")
	}

	if user.PasswordResetOTP == "" || user.PasswordResetOTP != otp {
		if err := s.repo.IncrementPasswordResetAttempts(ctx, user.ID); err != nil {
			s.cfg.Log.Error("Failed to record reset attempt", "id", user.ID, "error", err)
		}
		return apperrors.Unauthorized("Invalid or expired OTP")
	}
	if user.PasswordResetExpires == nil || s.now().UTC().After(*user.PasswordResetExpires) {
		return apperrors.Unauthorized("Invalid or expired OTP")
	}

	return nil
}

func (s *authService) issueToken(user *model.User) (*AuthResult, error) {
	tok, err := s.tokens.Generate(user.ID, user.UserType)
	if err != nil {
		s.cfg.Log.Error("Failed to issue token", "id", user.ID, "error", err)
		return nil, apperrors.Internal("Failed to issue token", err)
	}

	return &AuthResult{Token: tok, Role: user.UserType}, nil
}

func (s *authService) invalidOTP(email string, err error) error {
	if errors.Is(err, autherrors.ErrNotFound) {
		return apperrors.Unauthorized("Invalid or expired OTP")
	}
	s.cfg.Log.Error("Failed to load user", "email", email, "error", err)
	return apperrors.Internal("Operation failed", err)
}

func generateOTP(digits int) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < digits; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}

	return fmt.Sprintf("%0*d", digits, n), nil
}

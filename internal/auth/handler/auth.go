package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/Podhive/MVP/internal/auth/service"
	httputil "github.com/Podhive/MVP/pkg/http"
	"github.com/Podhive/MVP/pkg/logger"
	"github.com/Podhive/MVP/pkg/model"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	UserType string `json:"userType"`
}

type otpRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

type AuthHandler struct {
	service service.AuthService
	log     *logger.Logger
}

func NewAuthHandler(service service.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log,
	}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req signupRequest
	if !h.decode(w, r, "Signup", &req) {
		return
	}

	user := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		UserType: req.UserType,
	}

	if err := h.service.Signup(r.Context(), user); err != nil {
		h.writeError(w, "Signup", err)
		return
	}

	if err := httputil.WriteJSON(w, http.StatusCreated, httputil.MessageResponse{
		Message: "Account created, check your email for the verification code",
	}); err != nil {
		h.log.Error("failed to write created response", "handler", "Signup", "operation", "WriteJSON", "error", err)
	}
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req otpRequest
	if !h.decode(w, r, "VerifyOTP", &req) {
		return
	}

	result, err := h.service.VerifyOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		h.writeError(w, "VerifyOTP", err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "VerifyOTP", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req loginRequest
	if !h.decode(w, r, "Login", &req) {
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, "Login", err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Login", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req emailRequest
	if !h.decode(w, r, "ResendOTP", &req) {
		return
	}

	if err := h.service.ResendOTP(r.Context(), req.Email); err != nil {
		h.writeError(w, "ResendOTP", err)
		return
	}

	if err := httputil.WriteMessage(w, http.StatusOK, "If the account exists, a new verification code has been sent"); err != nil {
		h.log.Error("failed to write success response", "handler", "ResendOTP", "operation", "WriteMessage", "error", err)
	}
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req emailRequest
	if !h.decode(w, r, "ForgotPassword", &req) {
		return
	}

	if err := h.service.ForgotPassword(r.Context(), req.Email); err != nil {
		h.writeError(w, "ForgotPassword", err)
		return
	}

	if err := httputil.WriteMessage(w, http.StatusOK, "If the account exists, a reset code has been sent"); err != nil {
		h.log.Error("failed to write success response", "handler", "ForgotPassword", "operation", "WriteMessage", "error", err)
	}
}

func (h *AuthHandler) VerifyPasswordResetOTP(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req otpRequest
	if !h.decode(w, r, "VerifyPasswordResetOTP", &req) {
		return
	}

	if err := h.service.VerifyPasswordResetOTP(r.Context(), req.Email, req.OTP); err != nil {
		h.writeError(w, "VerifyPasswordResetOTP", err)
		return
	}

	if err := httputil.WriteMessage(w, http.StatusOK, "Code verified"); err != nil {
		h.log.Error("failed to write success response", "handler", "VerifyPasswordResetOTP", "operation", "WriteMessage", "error", err)
	}
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req resetPasswordRequest
	if !h.decode(w, r, "ResetPassword", &req) {
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		h.writeError(w, "ResetPassword", err)
		return
	}

	if err := httputil.WriteMessage(w, http.StatusOK, "Password reset successfully"); err != nil {
		h.log.Error("failed to write success response", "handler", "ResetPassword", "operation", "WriteMessage", "error", err)
	}
}

func (h *AuthHandler) decode(w http.ResponseWriter, r *http.Request, handlerName string, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", handlerName, "operation", "WriteJSON", "error", writeErr)
		}
		return false
	}
	return true
}

func (h *AuthHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "operation", "WriteError", "error", writeErr)
	}
}

func (h *AuthHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/auth/signup", h.Signup)
	router.POST("/api/v1/auth/verify-otp", h.VerifyOTP)
	router.POST("/api/v1/auth/resend-otp", h.ResendOTP)
	router.POST("/api/v1/auth/login", h.Login)
	router.POST("/api/v1/auth/forgot-password", h.ForgotPassword)
	router.POST("/api/v1/auth/verify-password-otp", h.VerifyPasswordResetOTP)
	router.POST("/api/v1/auth/reset-password", h.ResetPassword)
}

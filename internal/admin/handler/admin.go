package handler

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"github.com/Podhive/MVP/internal/admin/service"
	"github.com/Podhive/MVP/pkg/config"
	httputil "github.com/Podhive/MVP/pkg/http"
	"github.com/Podhive/MVP/pkg/logger"
	"github.com/Podhive/MVP/pkg/middleware"
	"github.com/Podhive/MVP/pkg/model"
	"github.com/Podhive/MVP/pkg/token"
)

type AdminHandler struct {
	service service.AdminService
	tokens  *token.Service
	log     *logger.Logger
}

func NewAdminHandler(service service.AdminService, tokens *token.Service, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		tokens:  tokens,
		log:     log,
	}
}

func (h *AdminHandler) ListPendingStudios(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	limit, _ := strconv.Atoi(query.Get("limit"))
	offset, _ := strconv.ParseInt(query.Get("offset"), 10, 64)

	studios, err := h.service.ListPendingStudios(r.Context(),
		config.NormalizePaginationLimit(limit),
		config.NormalizeOffset(offset))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListPendingStudios", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, studios); err != nil {
		h.log.Error("failed to write success response", "handler", "ListPendingStudios", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AdminHandler) ApproveStudio(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.ApproveStudio(r.Context(), ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ApproveStudio", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteMessage(w, http.StatusOK, "Studio approved successfully"); err != nil {
		h.log.Error("failed to write success response", "handler", "ApproveStudio", "operation", "WriteMessage", "error", err)
	}
}

func (h *AdminHandler) DenyStudio(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.DenyStudio(r.Context(), ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "DenyStudio", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteMessage(w, http.StatusOK, "Studio denied and removed"); err != nil {
		h.log.Error("failed to write success response", "handler", "DenyStudio", "operation", "WriteMessage", "error", err)
	}
}

func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	limit, _ := strconv.Atoi(query.Get("limit"))
	offset, _ := strconv.ParseInt(query.Get("offset"), 10, 64)

	bookings, err := h.service.ListBookings(r.Context(),
		config.NormalizePaginationLimit(limit),
		config.NormalizeOffset(offset))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListBookings", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "ListBookings", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AdminHandler) CancelBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	identity, _ := middleware.IdentityFrom(r.Context())

	if err := h.service.CancelBooking(r.Context(), ps.ByName("id"), identity.UserID); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CancelBooking", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteMessage(w, http.StatusOK, "Booking cancelled successfully"); err != nil {
		h.log.Error("failed to write success response", "handler", "CancelBooking", "operation", "WriteMessage", "error", err)
	}
}

func (h *AdminHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/admin/studios/pending", h.admin(h.ListPendingStudios))
	router.PUT("/api/v1/admin/studios/:id/approve", h.admin(h.ApproveStudio))
	router.DELETE("/api/v1/admin/studios/:id/deny", h.admin(h.DenyStudio))
	router.GET("/api/v1/admin/bookings", h.admin(h.ListBookings))
	router.DELETE("/api/v1/admin/bookings/:id", h.admin(h.CancelBooking))
}

func (h *AdminHandler) admin(next httprouter.Handle) httprouter.Handle {
	return middleware.RequireAuth(h.tokens, h.log, middleware.RequireRole(model.UserTypeAdmin, next))
}

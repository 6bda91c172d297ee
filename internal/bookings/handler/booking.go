package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/Podhive/MVP/internal/bookings/service"
	httputil "github.com/Podhive/MVP/pkg/http"
	"github.com/Podhive/MVP/pkg/logger"
	"github.com/Podhive/MVP/pkg/middleware"
	"github.com/Podhive/MVP/pkg/model"
	"github.com/Podhive/MVP/pkg/token"
)

type bookingRequest struct {
	Studio     string                 `json:"studio"`
	Date       string                 `json:"date"`
	Hours      []int                  `json:"hours"`
	PackageKey string                 `json:"packageKey"`
	AddOns     []model.AddOnSelection `json:"addons"`
}

type bookingResponse struct {
	Message string         `json:"message"`
	Booking *model.Booking `json:"booking"`
}

type BookingHandler struct {
	service service.BookingService
	tokens  *token.Service
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, tokens *token.Service, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		tokens:  tokens,
		log:     log,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		if err := httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{
			Error: "Authentication required",
		}); err != nil {
			h.log.Error("failed to write unauthorized response", "handler", "Create", "operation", "WriteJSON", "error", err)
		}
		return
	}

	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	date, err := model.ParseDate(req.Date)
	if err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid date, expected YYYY-MM-DD",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	booking := &model.Booking{
		Studio:     req.Studio,
		Customer:   identity.UserID,
		Date:       date,
		Hours:      req.Hours,
		PackageKey: req.PackageKey,
		AddOns:     req.AddOns,
	}

	if err := h.service.Create(r.Context(), booking); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteJSON(w, http.StatusCreated, bookingResponse{
		Message: "Booking successful",
		Booking: booking,
	}); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteJSON", "error", err)
	}
}

func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		if err := httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{
			Error: "Authentication required",
		}); err != nil {
			h.log.Error("failed to write unauthorized response", "handler", "ListMine", "operation", "WriteJSON", "error", err)
		}
		return
	}

	bookings, err := h.service.ListByCustomer(r.Context(), identity.UserID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListMine", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "ListMine", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) ListForOwner(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		if err := httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{
			Error: "Authentication required",
		}); err != nil {
			h.log.Error("failed to write unauthorized response", "handler", "ListForOwner", "operation", "WriteJSON", "error", err)
		}
		return
	}

	bookings, err := h.service.ListByOwner(r.Context(), identity.UserID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListForOwner", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "ListForOwner", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		if err := httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{
			Error: "Authentication required",
		}); err != nil {
			h.log.Error("failed to write unauthorized response", "handler", "Cancel", "operation", "WriteJSON", "error", err)
		}
		return
	}

	id := ps.ByName("id")
	if id == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "ID parameter is required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "Cancel", "operation", "WriteJSON", "error", err)
		}
		return
	}

	if err := h.service.Cancel(r.Context(), id, identity.UserID, identity.Role); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Cancel", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteMessage(w, http.StatusOK, "Booking cancelled successfully"); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "operation", "WriteMessage", "error", err)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.authenticated(h.Create))
	router.GET("/api/v1/bookings/customer", h.authenticated(h.ListMine))
	router.GET("/api/v1/bookings/owner", h.authenticated(h.ListForOwner))
	router.DELETE("/api/v1/bookings/:id", h.authenticated(h.Cancel))
}

func (h *BookingHandler) authenticated(next httprouter.Handle) httprouter.Handle {
	return middleware.RequireAuth(h.tokens, h.log, next)
}

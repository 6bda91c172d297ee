package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"github.com/Podhive/MVP/internal/studios/service"
	"github.com/Podhive/MVP/pkg/config"
	httputil "github.com/Podhive/MVP/pkg/http"
	"github.com/Podhive/MVP/pkg/logger"
	"github.com/Podhive/MVP/pkg/middleware"
	"github.com/Podhive/MVP/pkg/model"
	"github.com/Podhive/MVP/pkg/token"
)

// studioRequest is the create/update payload: the studio document plus the
// per-day hourly availability to seed or replace.
type studioRequest struct {
	model.Studio
	Availability []model.DayInput `json:"availability"`
}

type StudioHandler struct {
	service service.StudioService
	tokens  *token.Service
	log     *logger.Logger
}

func NewStudioHandler(service service.StudioService, tokens *token.Service, log *logger.Logger) *StudioHandler {
	return &StudioHandler{
		service: service,
		tokens:  tokens,
		log:     log,
	}
}

func (h *StudioHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	limit, _ := strconv.Atoi(query.Get("limit"))
	offset, _ := strconv.ParseInt(query.Get("offset"), 10, 64)

	studios, err := h.service.ListApproved(r.Context(),
		config.NormalizePaginationLimit(limit),
		config.NormalizeOffset(offset))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, studios); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

func (h *StudioHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "ID parameter is required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "GetByID", "operation", "WriteJSON", "error", err)
		}
		return
	}

	studio, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, studio); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *StudioHandler) ListMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		if err := httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{
			Error: "Authentication required",
		}); err != nil {
			h.log.Error("failed to write unauthorized response", "handler", "ListMine", "operation", "WriteJSON", "error", err)
		}
		return
	}

	studios, err := h.service.ListByOwner(r.Context(), identity.UserID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListMine", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, studios); err != nil {
		h.log.Error("failed to write success response", "handler", "ListMine", "operation", "WriteSuccess", "error", err)
	}
}

func (h *StudioHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		if err := httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{
			Error: "Authentication required",
		}); err != nil {
			h.log.Error("failed to write unauthorized response", "handler", "Create", "operation", "WriteJSON", "error", err)
		}
		return
	}

	var req studioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	req.Studio.Owner = identity.UserID

	if err := h.service.Create(r.Context(), &req.Studio, req.Availability); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, req.Studio); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *StudioHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		if err := httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{
			Error: "Authentication required",
		}); err != nil {
			h.log.Error("failed to write unauthorized response", "handler", "Update", "operation", "WriteJSON", "error", err)
		}
		return
	}

	id := ps.ByName("id")

	var req studioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Update(r.Context(), id, identity.UserID, &req.Studio, req.Availability); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteMessage(w, http.StatusOK, "Studio updated successfully"); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteMessage", "error", err)
	}
}

func (h *StudioHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		if err := httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{
			Error: "Authentication required",
		}); err != nil {
			h.log.Error("failed to write unauthorized response", "handler", "Delete", "operation", "WriteJSON", "error", err)
		}
		return
	}

	id := ps.ByName("id")

	if err := h.service.Delete(r.Context(), id, identity.UserID); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteMessage(w, http.StatusOK, "Studio deleted successfully"); err != nil {
		h.log.Error("failed to write success response", "handler", "Delete", "operation", "WriteMessage", "error", err)
	}
}

func (h *StudioHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/studios", h.List)
	router.GET("/api/v1/owner/studios", h.authenticated(h.ListMine))
	router.GET("/api/v1/studios/:id", h.GetByID)
	router.POST("/api/v1/studios", h.authenticated(h.Create))
	router.PUT("/api/v1/studios/:id", h.authenticated(h.Update))
	router.DELETE("/api/v1/studios/:id", h.authenticated(h.Delete))
}

func (h *StudioHandler) authenticated(next httprouter.Handle) httprouter.Handle {
	return middleware.RequireAuth(h.tokens, h.log, next)
}

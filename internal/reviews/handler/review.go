package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/Podhive/MVP/internal/reviews/service"
	httputil "github.com/Podhive/MVP/pkg/http"
	"github.com/Podhive/MVP/pkg/logger"
	"github.com/Podhive/MVP/pkg/middleware"
	"github.com/Podhive/MVP/pkg/model"
	"github.com/Podhive/MVP/pkg/token"
)

type reviewRequest struct {
	Studio      string `json:"studio"`
	Rating      int    `json:"rating"`
	Description string `json:"description"`
}

type ReviewHandler struct {
	service service.ReviewService
	tokens  *token.Service
	log     *logger.Logger
}

func NewReviewHandler(service service.ReviewService, tokens *token.Service, log *logger.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		tokens:  tokens,
		log:     log,
	}
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		if err := httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{
			Error: "Authentication required",
		}); err != nil {
			h.log.Error("failed to write unauthorized response", "handler", "Create", "operation", "WriteJSON", "error", err)
		}
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	review := &model.Review{
		Studio:      req.Studio,
		Reviewer:    identity.UserID,
		Rating:      req.Rating,
		Description: req.Description,
	}

	if err := h.service.Create(r.Context(), review); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, review); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *ReviewHandler) ListByStudio(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	studioID := ps.ByName("studioId")
	if studioID == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Studio ID parameter is required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "ListByStudio", "operation", "WriteJSON", "error", err)
		}
		return
	}

	reviews, err := h.service.ListByStudio(r.Context(), studioID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListByStudio", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, reviews); err != nil {
		h.log.Error("failed to write success response", "handler", "ListByStudio", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		if err := httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{
			Error: "Authentication required",
		}); err != nil {
			h.log.Error("failed to write unauthorized response", "handler", "Update", "operation", "WriteJSON", "error", err)
		}
		return
	}

	var update model.ReviewUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Update(r.Context(), ps.ByName("id"), identity.UserID, &update); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteMessage(w, http.StatusOK, "Review updated successfully"); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteMessage", "error", err)
	}
}

func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		if err := httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{
			Error: "Authentication required",
		}); err != nil {
			h.log.Error("failed to write unauthorized response", "handler", "Delete", "operation", "WriteJSON", "error", err)
		}
		return
	}

	if err := h.service.Delete(r.Context(), ps.ByName("id"), identity.UserID, identity.Role); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteMessage(w, http.StatusOK, "Review deleted successfully"); err != nil {
		h.log.Error("failed to write success response", "handler", "Delete", "operation", "WriteMessage", "error", err)
	}
}

func (h *ReviewHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/reviews/studio/:studioId", h.ListByStudio)
	router.POST("/api/v1/reviews", h.authenticated(h.Create))
	router.PUT("/api/v1/reviews/:id", h.authenticated(h.Update))
	router.DELETE("/api/v1/reviews/:id", h.authenticated(h.Delete))
}

func (h *ReviewHandler) authenticated(next httprouter.Handle) httprouter.Handle {
	return middleware.RequireAuth(h.tokens, h.log, next)
}

package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/Podhive/MVP/internal/availability/service"
	httputil "github.com/Podhive/MVP/pkg/http"
	"github.com/Podhive/MVP/pkg/logger"
)

type AvailabilityHandler struct {
	service service.AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(service service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log,
	}
}

func (h *AvailabilityHandler) GetByStudio(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	studioID := ps.ByName("studioId")
	if studioID == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Studio ID parameter is required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "GetByStudio", "operation", "WriteJSON", "error", err)
		}
		return
	}

	days, err := h.service.Query(r.Context(), studioID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByStudio", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, days); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByStudio", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/availability/:studioId", h.GetByStudio)
}

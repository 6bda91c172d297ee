package health

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/mongo"

	httputil "github.com/Podhive/MVP/pkg/http"
	"github.com/Podhive/MVP/pkg/logger"
)

type Response struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
}

type Handler struct {
	mongoClient *mongo.Client
	log         *logger.Logger
}

func NewHandler(mongoClient *mongo.Client, log *logger.Logger) *Handler {
	return &Handler{
		mongoClient: mongoClient,
		log:         log,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteJSON(w, http.StatusOK, Response{Status: "ok"}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Health", "error", err)
	}
}

func (h *Handler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.mongoClient.Ping(ctx, nil); err != nil {
		h.log.Error("Database health check failed", "error", err)
		if writeErr := httputil.WriteJSON(w, http.StatusServiceUnavailable, Response{
			Status:   "unavailable",
			Database: "error",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Ready", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, Response{
		Status:   "ready",
		Database: "ok",
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Ready", "error", err)
	}
}

func (h *Handler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}

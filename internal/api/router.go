// Package api composes the per-module HTTP handlers into the single
// surface the server mounts.
package api

import (
	"github.com/julienschmidt/httprouter"

	"github.com/Podhive/MVP/pkg/contracts"
)

type Handler struct {
	handlers []contracts.Handler
}

func NewHandler(handlers ...contracts.Handler) *Handler {
	return &Handler{handlers: handlers}
}

func (h *Handler) RegisterRoutes(router *httprouter.Router) {
	for _, handler := range h.handlers {
		handler.RegisterRoutes(router)
	}
}

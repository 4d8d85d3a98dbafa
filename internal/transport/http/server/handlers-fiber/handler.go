// Package handlers_fiber wires HTTP delivery components.
package handlers_fiber

import (
	"github.com/jaykukadiya/Issue-tracker/internal/ai"
	"github.com/jaykukadiya/Issue-tracker/internal/notify"
	"github.com/jaykukadiya/Issue-tracker/internal/usecase"

	"go.uber.org/zap"
)

// Handler serves the HTTP and websocket API on top of the service layer.
type Handler struct {
	log      *zap.SugaredLogger
	uc       usecase.InterfaceUsecase
	registry *notify.Registry
	ai       *ai.Client
}

// NewHandler constructs an HTTP server with service dependencies.
func NewHandler(log *zap.SugaredLogger, uc usecase.InterfaceUsecase, registry *notify.Registry, aiClient *ai.Client) *Handler {
	return &Handler{
		log:      log,
		uc:       uc,
		registry: registry,
		ai:       aiClient,
	}
}

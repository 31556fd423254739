package sync

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"notas/internal/app/server/api/http/middleware/auth"
	"notas/internal/domain/sync"
)

type Handler struct {
	service    sync.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service sync.Servicer, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.pushOp(), h.push)
	huma.Register(api, h.changesOp(), h.changes)
}

func (h *Handler) push(ctx context.Context, input *pushInput) (*pushOutput, error) {
	deviceID, _ := auth.GetDeviceID(ctx)

	accepted, err := h.service.ApplyOps(ctx, input.Body.Ops)
	if err != nil {
		h.log.Error("push failed", "device_id", deviceID, "error", err)
		return nil, huma.Error500InternalServerError("failed to apply changes")
	}

	h.log.Debug("push handled", "device_id", deviceID, "ops", len(input.Body.Ops), "accepted", accepted)
	return &pushOutput{Body: sync.PushResponse{Accepted: accepted}}, nil
}

func (h *Handler) changes(ctx context.Context, input *changesInput) (*changesOutput, error) {
	deviceID, _ := auth.GetDeviceID(ctx)

	resp, err := h.service.Changes(ctx, input.Since)
	if err != nil {
		h.log.Error("changes failed", "device_id", deviceID, "error", err)
		return nil, huma.Error500InternalServerError("failed to load changes")
	}

	return &changesOutput{Body: *resp}, nil
}

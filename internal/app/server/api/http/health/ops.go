package health

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) healthCheckOp() huma.Operation {
	return huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/v1/health",
		Summary:     "Sync backend liveness",
		Description: "Reports whether the backend is up and accepting push/pull traffic, along with its clock. Clients probe this before attempting a sync.",
		Tags:        []string{"health"},
		Middlewares: h.middleware,
	}
}

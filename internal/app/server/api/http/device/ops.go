package device

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) registerOp() huma.Operation {
	return huma.Operation{
		OperationID: "device-register",
		Method:      http.MethodPost,
		Path:        "/api/v1/devices/register",
		Summary:     "Register a device",
		Tags:        []string{"devices"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) loginOp() huma.Operation {
	return huma.Operation{
		OperationID: "device-login",
		Method:      http.MethodPost,
		Path:        "/api/v1/devices/login",
		Summary:     "Log a device in",
		Tags:        []string{"devices"},
		Middlewares: h.middleware,
	}
}

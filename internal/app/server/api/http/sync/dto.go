package sync

import "notas/internal/domain/sync"

type pushInput struct {
	Body sync.PushRequest
}

type pushOutput struct {
	Body sync.PushResponse
}

type changesInput struct {
	Since int64 `query:"since" doc:"Epoch-millis watermark; only strictly newer changes are returned" example:"0"`
}

type changesOutput struct {
	Body sync.ChangesResponse
}

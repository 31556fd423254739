package client

import (
	"context"

	"notas/internal/domain/sync"
)

// Remote is the server side of synchronization as seen by the client.
type Remote interface {
	// Health reports whether the server is reachable at all.
	Health(ctx context.Context) error

	// Push replays pending outbox entries in order. The server applies
	// its own last-writer-wins merge; a conflict is not an error.
	Push(ctx context.Context, ops []sync.OpDTO) error

	// PullSince returns graphs changed strictly after the watermark.
	PullSince(ctx context.Context, since int64) ([]sync.GraphDTO, error)

	// Register creates a device account; Login obtains a session token.
	Register(ctx context.Context, name, password string) error
	Login(ctx context.Context, name, password string) (string, error)

	SetToken(token string)
}

package session

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, deviceID int, tokenHash string, expiresAt time.Time) error
	Validate(ctx context.Context, tokenHash string) (int, error)
}

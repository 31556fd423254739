package device

import "context"

type Repository interface {
	Create(ctx context.Context, name, passwordHash string) (int, error)
	FindByName(ctx context.Context, name string) (Device, error)
}

package postgres

import (
	"context"
	"fmt"

	"golang.org/x/exp/slog"

	"notas/internal/domain/device"
)

type DeviceRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewDeviceRepository(db *Storage, log *slog.Logger) *DeviceRepository {
	return &DeviceRepository{
		db:  db,
		log: log,
	}
}

func (r *DeviceRepository) Create(ctx context.Context, name, passwordHash string) (int, error) {
	var id int
	err := r.db.Pool().QueryRow(ctx,
		`INSERT INTO devices (name, password_hash) VALUES ($1, $2) RETURNING id`,
		name, passwordHash).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert device: %w", err)
	}
	return id, nil
}

func (r *DeviceRepository) FindByName(ctx context.Context, name string) (device.Device, error) {
	var d device.Device
	err := r.db.Pool().QueryRow(ctx,
		`SELECT id, name, password_hash FROM devices WHERE name = $1`, name).
		Scan(&d.ID, &d.Name, &d.Password)
	if err != nil {
		return d, device.ErrNotFound
	}
	return d, nil
}

package api

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"

	deviceAPI "notas/internal/app/server/api/http/device"
	healthAPI "notas/internal/app/server/api/http/health"
	"notas/internal/app/server/api/http/middleware"
	"notas/internal/app/server/api/http/middleware/auth"
	"notas/internal/app/server/api/http/middleware/logger"
	syncAPI "notas/internal/app/server/api/http/sync"
	"notas/internal/domain/device"
	"notas/internal/domain/session"
	"notas/internal/domain/sync"
	"notas/internal/infrastructure/storage/postgres"
)

type Handlers struct {
	Health *healthAPI.Handler
	Device *deviceAPI.Handler
	Sync   *syncAPI.Handler
}

// New builds the chi mux with every operation registered through huma.
func New(storage *postgres.Storage, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	config := huma.DefaultConfig("Notas API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	API := humachi.New(mux, config)

	h := handlers(storage, log)
	h.Health.SetupRoutes(API)
	h.Device.SetupRoutes(API)
	h.Sync.SetupRoutes(API)

	return mux
}

func handlers(storage *postgres.Storage, log *slog.Logger) *Handlers {
	sessionRepo := postgres.NewSessionRepository(storage, log)
	sessionService := session.NewService(sessionRepo, log)
	authMW := auth.New(sessionService, log)
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(log, middlewares.GetAllAndClear())

	deviceRepo := postgres.NewDeviceRepository(storage, log)
	deviceService := device.NewService(deviceRepo, device.NewValidator(), log)
	middlewares.Add(loggerMW.Middleware())
	deviceHandler := deviceAPI.NewHandler(deviceService, sessionService, log, middlewares.GetAllAndClear())

	noteRepo := postgres.NewNoteRepository(storage, log)
	syncService := sync.NewService(noteRepo, log)
	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	syncHandler := syncAPI.NewHandler(syncService, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health: healthHandler,
		Device: deviceHandler,
		Sync:   syncHandler,
	}
}

package client

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/exp/slog"

	"notas/internal/app/client/config"
	"notas/internal/app/client/reminder"
)

// App is the client composition root. Everything is wired here once,
// explicitly, and handed to whoever needs it.
type App struct {
	Config    *config.Config
	Log       *slog.Logger
	Store     *SQLiteStorage
	State     *SyncStateStore
	Remote    Remote
	Scheduler *reminder.Scheduler
	Repo      Repository
}

func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	store, err := NewSQLiteStorage(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open local storage: %w", err)
	}

	state := NewSyncStateStore(cfg.SyncStatePath)
	remote := NewHTTPClient(cfg, log)
	scheduler := reminder.NewScheduler(store, reminder.NewConsoleNotifier(), log)

	app := &App{
		Config:    cfg,
		Log:       log,
		Store:     store,
		State:     state,
		Remote:    remote,
		Scheduler: scheduler,
		Repo:      NewRepository(store, state, remote, scheduler, log),
	}

	if token := app.loadToken(); token != "" {
		remote.SetToken(token)
	}

	return app, nil
}

func (a *App) Close() error {
	a.Scheduler.Close()
	return a.Store.Close()
}

func (a *App) loadToken() string {
	data, err := os.ReadFile(a.Config.TokenPath)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// SaveToken persists the session token and applies it to the transport.
func (a *App) SaveToken(token string) error {
	if err := os.WriteFile(a.Config.TokenPath, []byte(token), 0600); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	a.Remote.SetToken(token)
	return nil
}

// RunAgent restores reminder timers and keeps the local store in sync
// with the server on an interval, backing off while the server is
// unreachable. Blocks until ctx is done.
func (a *App) RunAgent(ctx context.Context) error {
	if err := a.Scheduler.RestoreAll(ctx); err != nil {
		return fmt.Errorf("restore reminders: %w", err)
	}

	base := time.Duration(a.Config.SyncInterval) * time.Second
	maxDelay := 10 * base
	delay := base

	a.Log.Info("agent started", "sync_interval", base.String())

	timer := time.NewTimer(delay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			a.Log.Info("agent stopped")
			return nil
		case <-timer.C:
		}

		if err := a.Repo.SyncNow(ctx); err != nil {
			delay = min(delay*2, maxDelay)
			a.Log.Warn("sync failed", "error", err, "retry_in", delay.String())
		} else {
			delay = base
		}
		timer.Reset(delay)
	}
}

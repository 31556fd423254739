package client

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"notas/internal/app/client/reminder"
	"notas/internal/domain/note"
	"notas/internal/domain/sync"
)

type fakeRemote struct {
	pushed    []sync.OpDTO
	pull      []sync.GraphDTO
	pushErr   error
	pullErr   error
	lastSince int64
}

func (f *fakeRemote) Health(context.Context) error { return nil }

func (f *fakeRemote) Push(_ context.Context, ops []sync.OpDTO) error {
	if f.pushErr != nil {
		return f.pushErr
	}
	f.pushed = append(f.pushed, ops...)
	return nil
}

func (f *fakeRemote) PullSince(_ context.Context, since int64) ([]sync.GraphDTO, error) {
	if f.pullErr != nil {
		return nil, f.pullErr
	}
	f.lastSince = since
	return f.pull, nil
}

func (f *fakeRemote) Register(context.Context, string, string) error { return nil }
func (f *fakeRemote) Login(context.Context, string, string) (string, error) {
	return "", nil
}
func (f *fakeRemote) SetToken(string) {}

type silentNotifier struct{}

func (silentNotifier) Notify(note.Note, note.Reminder) error { return nil }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(nullWriter{}, nil))
}

type nullWriter struct{}

func (nullWriter) Write(p []byte) (int, error) { return len(p), nil }

func setupRepository(t *testing.T) (*DefaultRepository, *SQLiteStorage, *fakeRemote, *reminder.Scheduler) {
	t.Helper()

	store := setupStorage(t)
	state := NewSyncStateStore(filepath.Join(t.TempDir(), "sync_state.json"))
	remote := &fakeRemote{}
	log := quietLogger()
	scheduler := reminder.NewScheduler(store, silentNotifier{}, log)
	t.Cleanup(scheduler.Close)

	return NewRepository(store, state, remote, scheduler, log), store, remote, scheduler
}

func TestSaveArmsReminders(t *testing.T) {
	repo, store, _, scheduler := setupRepository(t)
	ctx := context.Background()

	n := newTestNote(note.TypeTask)
	future := time.Now().UnixMilli() + 60_000
	require.NoError(t, repo.Save(ctx, n, nil, []note.Reminder{{TriggerAt: future}}))

	stored, err := store.RemindersByNote(ctx, n.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.True(t, scheduler.Armed(stored[0].ID))

	t.Run("ResaveReplacesTimers", func(t *testing.T) {
		oldID := stored[0].ID
		require.NoError(t, repo.Save(ctx, n, nil, []note.Reminder{{TriggerAt: future + 1000}}))

		require.False(t, scheduler.Armed(oldID))
		fresh, err := store.RemindersByNote(ctx, n.ID)
		require.NoError(t, err)
		require.Len(t, fresh, 1)
		require.True(t, scheduler.Armed(fresh[0].ID))
	})
}

func TestDeleteCancelsReminders(t *testing.T) {
	repo, store, _, scheduler := setupRepository(t)
	ctx := context.Background()

	n := newTestNote(note.TypeTask)
	future := time.Now().UnixMilli() + 60_000
	require.NoError(t, repo.Save(ctx, n, nil, []note.Reminder{
		{TriggerAt: future},
		{TriggerAt: future + 1000},
	}))

	stored, err := store.RemindersByNote(ctx, n.ID)
	require.NoError(t, err)
	require.Len(t, stored, 2)

	require.NoError(t, repo.Delete(ctx, n.ID))

	for _, r := range stored {
		require.False(t, scheduler.Armed(r.ID))
	}
	_, err = repo.ByID(ctx, n.ID)
	require.ErrorIs(t, err, note.ErrNotFound)

	t.Run("UnknownNote", func(t *testing.T) {
		require.ErrorIs(t, repo.Delete(ctx, "missing"), note.ErrNotFound)
	})
}

func TestSyncNowDrainsOutbox(t *testing.T) {
	repo, store, remote, _ := setupRepository(t)
	ctx := context.Background()

	n := newTestNote(note.TypeNote)
	require.NoError(t, repo.Save(ctx, n, nil, nil))
	n.Title = "updated"
	require.NoError(t, repo.Save(ctx, n, nil, nil))

	require.NoError(t, repo.SyncNow(ctx))

	require.Len(t, remote.pushed, 2, "both queued ops replay in order")
	require.Equal(t, string(sync.OpUpsertNote), remote.pushed[0].Kind)

	ops, err := store.PendingOps(ctx)
	require.NoError(t, err)
	require.Empty(t, ops)
	require.NotZero(t, repo.state.LastSync())
}

func TestSyncNowAppliesPulledGraphs(t *testing.T) {
	repo, store, remote, scheduler := setupRepository(t)
	ctx := context.Background()

	future := time.Now().UnixMilli() + 60_000
	remote.pull = []sync.GraphDTO{{
		Note: sync.NoteDTO{
			ID:        "remote-1",
			Title:     "from another device",
			Type:      string(note.TypeTask),
			UpdatedAt: 1_700_000_000_000,
		},
		Reminders: []sync.ReminderDTO{{NoteID: "remote-1", At: future}},
	}}

	require.NoError(t, repo.SyncNow(ctx))

	g, err := repo.ByID(ctx, "remote-1")
	require.NoError(t, err)
	require.Equal(t, "from another device", g.Note.Title)
	require.False(t, g.Note.Dirty)
	require.Len(t, g.Reminders, 1)
	require.True(t, scheduler.Armed(g.Reminders[0].ID), "pulled future reminders get armed")

	t.Run("LocalEditWinsOverStaleRemote", func(t *testing.T) {
		local := newTestNote(note.TypeNote)
		require.NoError(t, repo.Save(ctx, local, nil, nil))
		row, err := store.GetNote(ctx, local.ID)
		require.NoError(t, err)

		remote.pull = []sync.GraphDTO{{Note: sync.NoteDTO{
			ID:        local.ID,
			Title:     "stale",
			Type:      string(note.TypeNote),
			UpdatedAt: row.UpdatedAt - 1,
		}}}
		require.NoError(t, repo.SyncNow(ctx))

		after, err := store.GetNote(ctx, local.ID)
		require.NoError(t, err)
		require.Equal(t, local.Title, after.Title)
	})

	t.Run("RemoteTombstoneRemovesNote", func(t *testing.T) {
		remote.pull = []sync.GraphDTO{{Note: sync.NoteDTO{
			ID:        "remote-1",
			Type:      string(note.TypeTask),
			UpdatedAt: 1_800_000_000_000,
			IsDeleted: true,
		}}}
		require.NoError(t, repo.SyncNow(ctx))

		_, err := repo.ByID(ctx, "remote-1")
		require.ErrorIs(t, err, note.ErrNotFound)
	})
}

func TestSyncNowFailureKeepsWatermark(t *testing.T) {
	repo, store, remote, _ := setupRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newTestNote(note.TypeNote), nil, nil))

	remote.pushErr = context.DeadlineExceeded
	require.Error(t, repo.SyncNow(ctx))

	require.Zero(t, repo.state.LastSync(), "failed sync must not advance the watermark")
	ops, err := store.PendingOps(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 1, "outbox survives a failed push")

	remote.pushErr = nil
	remote.pullErr = context.DeadlineExceeded
	require.Error(t, repo.SyncNow(ctx))
	require.Zero(t, repo.state.LastSync())
}

func TestSyncNowPullsFromWatermark(t *testing.T) {
	repo, _, remote, _ := setupRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.state.SetLastSync(12345))
	require.NoError(t, repo.SyncNow(ctx))
	require.Equal(t, int64(12345), remote.lastSince)
}

func TestObserveAll(t *testing.T) {
	repo, _, _, _ := setupRepository(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := repo.ObserveAll(ctx)

	select {
	case snapshot := <-out:
		require.Empty(t, snapshot, "initial snapshot of an empty store")
	case <-time.After(time.Second):
		t.Fatal("no initial snapshot")
	}

	require.NoError(t, repo.Save(ctx, newTestNote(note.TypeNote), nil, nil))

	deadline := time.After(time.Second)
	for {
		select {
		case snapshot := <-out:
			if len(snapshot) == 1 {
				return
			}
		case <-deadline:
			t.Fatal("no snapshot after write")
		}
	}
}

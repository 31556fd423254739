package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"notas/internal/app/client/reminder"
	"notas/internal/domain/note"
	"notas/internal/domain/sync"
)

// Repository is the single entry point the UI layers talk to. Reads
// come straight from local storage; writes go to local storage first
// and reach the server on the next synchronization.
type Repository interface {
	All(ctx context.Context) ([]note.Graph, error)
	ByType(ctx context.Context, t note.ItemType) ([]note.Graph, error)
	ByID(ctx context.Context, id string) (*note.Graph, error)
	Search(ctx context.Context, q string) ([]note.Note, error)

	// ObserveAll emits the full graph list immediately and again after
	// every committed local write, until ctx is done.
	ObserveAll(ctx context.Context) <-chan []note.Graph
	ObserveByType(ctx context.Context, t note.ItemType) <-chan []note.Graph
	ObserveByID(ctx context.Context, id string) <-chan *note.Graph

	// Save writes the note graph locally, queues it for upload, and
	// re-arms the note's reminder timers.
	Save(ctx context.Context, n note.Note, attachments []note.Attachment, reminders []note.Reminder) error

	// Delete tombstones the note and disarms all its reminder timers.
	Delete(ctx context.Context, id string) error

	// SyncNow pushes pending outbox entries, then pulls remote changes.
	// The sync watermark only advances when both phases succeed.
	SyncNow(ctx context.Context) error
}

type DefaultRepository struct {
	store     Storage
	state     *SyncStateStore
	remote    Remote
	scheduler *reminder.Scheduler
	log       *slog.Logger
	now       func() time.Time
}

var _ Repository = (*DefaultRepository)(nil)

func NewRepository(store Storage, state *SyncStateStore, remote Remote, scheduler *reminder.Scheduler, log *slog.Logger) *DefaultRepository {
	return &DefaultRepository{
		store:     store,
		state:     state,
		remote:    remote,
		scheduler: scheduler,
		log:       log,
		now:       time.Now,
	}
}

func (r *DefaultRepository) All(ctx context.Context) ([]note.Graph, error) {
	return r.store.All(ctx)
}

func (r *DefaultRepository) ByType(ctx context.Context, t note.ItemType) ([]note.Graph, error) {
	if !t.Valid() {
		return nil, note.ErrInvalidType
	}
	return r.store.ByType(ctx, t)
}

func (r *DefaultRepository) ByID(ctx context.Context, id string) (*note.Graph, error) {
	return r.store.ByID(ctx, id)
}

func (r *DefaultRepository) Search(ctx context.Context, q string) ([]note.Note, error) {
	return r.store.Search(ctx, q)
}

// observe runs query once up front and after every storage change
// signal, pushing the newest snapshot into the returned channel. A slow
// reader only ever sees the latest state.
func observe[T any](ctx context.Context, store Storage, log *slog.Logger, query func(context.Context) (T, error)) <-chan T {
	out := make(chan T, 1)

	changes, cancel := store.Subscribe()

	emit := func() {
		snapshot, err := query(ctx)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				log.Error("live query failed", "error", err)
			}
			return
		}
		select {
		case <-out:
		default:
		}
		out <- snapshot
	}

	go func() {
		defer cancel()
		defer close(out)

		emit()
		for {
			select {
			case <-ctx.Done():
				return
			case <-changes:
				emit()
			}
		}
	}()

	return out
}

func (r *DefaultRepository) ObserveAll(ctx context.Context) <-chan []note.Graph {
	return observe(ctx, r.store, r.log, r.store.All)
}

func (r *DefaultRepository) ObserveByType(ctx context.Context, t note.ItemType) <-chan []note.Graph {
	return observe(ctx, r.store, r.log, func(ctx context.Context) ([]note.Graph, error) {
		return r.store.ByType(ctx, t)
	})
}

func (r *DefaultRepository) ObserveByID(ctx context.Context, id string) <-chan *note.Graph {
	return observe(ctx, r.store, r.log, func(ctx context.Context) (*note.Graph, error) {
		g, err := r.store.ByID(ctx, id)
		if errors.Is(err, note.ErrNotFound) {
			// a deleted note observes as nil rather than an error
			return nil, nil
		}
		return g, err
	})
}

func (r *DefaultRepository) Save(ctx context.Context, n note.Note, attachments []note.Attachment, reminders []note.Reminder) error {
	if !n.Type.Valid() {
		return note.ErrInvalidType
	}

	// Old timers first: the reminder rows get replaced and their ids
	// with them.
	if err := r.scheduler.CancelForNote(ctx, n.ID); err != nil {
		return err
	}

	if err := r.store.UpsertGraphDirty(ctx, n, attachments, reminders); err != nil {
		return fmt.Errorf("save note: %w", err)
	}

	return r.armNoteReminders(ctx, n.ID)
}

func (r *DefaultRepository) Delete(ctx context.Context, id string) error {
	n, err := r.store.GetNote(ctx, id)
	if err != nil {
		return err
	}

	if err := r.scheduler.CancelForNote(ctx, id); err != nil {
		return err
	}

	if err := r.store.Tombstone(ctx, *n); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

func (r *DefaultRepository) armNoteReminders(ctx context.Context, noteID string) error {
	stored, err := r.store.RemindersByNote(ctx, noteID)
	if err != nil {
		return fmt.Errorf("arm note reminders: %w", err)
	}
	for _, rem := range stored {
		r.scheduler.Schedule(rem)
	}
	return nil
}

func (r *DefaultRepository) SyncNow(ctx context.Context) error {
	startedAt := r.now().UnixMilli()

	if err := r.push(ctx); err != nil {
		return fmt.Errorf("push: %w", err)
	}
	if err := r.pull(ctx); err != nil {
		return fmt.Errorf("pull: %w", err)
	}

	// Advance only after both phases landed; a failed run leaves the
	// watermark alone so the next pull re-covers the window.
	if err := r.state.SetLastSync(startedAt); err != nil {
		return fmt.Errorf("advance sync watermark: %w", err)
	}

	r.log.Info("sync complete", "watermark", startedAt)
	return nil
}

func (r *DefaultRepository) push(ctx context.Context) error {
	ops, err := r.store.PendingOps(ctx)
	if err != nil {
		return err
	}
	if len(ops) == 0 {
		return nil
	}

	wire := make([]sync.OpDTO, 0, len(ops))
	for _, op := range ops {
		wire = append(wire, sync.OpDTO{
			Kind:    string(op.Kind),
			NoteID:  op.NoteID,
			Payload: op.Payload,
		})
	}

	if err := r.remote.Push(ctx, wire); err != nil {
		return err
	}

	for _, op := range ops {
		if err := r.store.DeleteOp(ctx, op.Seq); err != nil {
			return err
		}
	}

	r.log.Debug("outbox drained", "ops", len(ops))
	return nil
}

func (r *DefaultRepository) pull(ctx context.Context) error {
	since := r.state.LastSync()

	graphs, err := r.remote.PullSince(ctx, since)
	if err != nil {
		return err
	}

	applied := 0
	for _, g := range graphs {
		existing, err := r.store.GetNote(ctx, g.Note.ID)
		if err != nil && !errors.Is(err, note.ErrNotFound) {
			return err
		}

		n, attachments, reminders := g.ToEntities(existing)

		// Snapshot the old reminder ids up front: on accept their rows
		// are replaced and the armed timers point at nothing.
		old, err := r.store.RemindersByNote(ctx, n.ID)
		if err != nil {
			return err
		}

		accepted, err := r.store.ApplyRemoteGraphReplace(ctx, n, attachments, reminders)
		if err != nil {
			return err
		}
		if !accepted {
			continue
		}
		applied++

		for _, o := range old {
			r.scheduler.Cancel(o.ID)
		}
		if n.IsDeleted {
			continue
		}
		if err := r.armNoteReminders(ctx, n.ID); err != nil {
			return err
		}
	}

	r.log.Debug("pull complete", "since", since, "received", len(graphs), "applied", applied)
	return nil
}

package client

import (
	"context"

	"notas/internal/domain/note"
	"notas/internal/domain/sync"
)

// Storage is the local persistent store. All graph mutations are
// transactional: either the whole note graph and its outbox entry land,
// or nothing does.
type Storage interface {
	// GetNote returns the note row by id, tombstones included.
	GetNote(ctx context.Context, id string) (*note.Note, error)

	// All returns non-deleted note graphs ordered by creation time
	// descending.
	All(ctx context.Context) ([]note.Graph, error)

	// ByType returns non-deleted graphs of one type. Tasks are ordered
	// by due time ascending then creation descending; notes by creation
	// descending.
	ByType(ctx context.Context, t note.ItemType) ([]note.Graph, error)

	// ByID returns the non-deleted graph for a note, or note.ErrNotFound.
	ByID(ctx context.Context, id string) (*note.Graph, error)

	// Search returns non-deleted notes whose title, description, or
	// content contains q as a case-sensitive substring.
	Search(ctx context.Context, q string) ([]note.Note, error)

	// UpsertGraphDirty stamps the note with the current time and
	// dirty=true, replaces its attachment and reminder sets, and appends
	// an UPSERT_NOTE outbox entry, all in one transaction.
	UpsertGraphDirty(ctx context.Context, n note.Note, attachments []note.Attachment, reminders []note.Reminder) error

	// Tombstone soft-deletes the note and appends a DELETE_NOTE outbox
	// entry. Child rows stay in place.
	Tombstone(ctx context.Context, n note.Note) error

	// ApplyRemoteGraphReplace applies an incoming graph under the
	// last-writer-wins rule: accepted only when no local row exists or
	// the incoming updatedAt is strictly greater. On accept the whole
	// graph is replaced and marked clean; otherwise it is a no-op.
	// Reports whether the graph was accepted.
	ApplyRemoteGraphReplace(ctx context.Context, n note.Note, attachments []note.Attachment, reminders []note.Reminder) (bool, error)

	// PendingOps returns outbox entries in replay order.
	PendingOps(ctx context.Context) ([]sync.Op, error)

	// DeleteOp removes a delivered outbox entry.
	DeleteOp(ctx context.Context, seq int64) error

	RemindersByNote(ctx context.Context, noteID string) ([]note.Reminder, error)
	ReminderByID(ctx context.Context, id int64) (*note.Reminder, error)
	FutureReminders(ctx context.Context, nowMillis int64) ([]note.Reminder, error)
	UpdateReminder(ctx context.Context, r note.Reminder) error
	DeleteReminderByID(ctx context.Context, id int64) error
	IsCompleted(ctx context.Context, noteID string) (bool, error)

	// Subscribe returns a channel that receives a signal after every
	// committed write, plus a cancel function releasing the subscription.
	Subscribe() (<-chan struct{}, func())

	Close() error
}

package client

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"notas/internal/domain/note"
	"notas/internal/domain/sync"
)

func setupStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	s, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestNote(typ note.ItemType) note.Note {
	return note.Note{
		ID:        uuid.NewString(),
		Title:     "groceries",
		Content:   "milk, eggs",
		Type:      typ,
		CreatedAt: time.Now(),
	}
}

func TestUpsertGraphDirty(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	stamp := time.UnixMilli(1_700_000_000_000)
	s.now = func() time.Time { return stamp }

	n := newTestNote(note.TypeNote)
	attachments := []note.Attachment{
		{Type: note.AttachmentImage, URI: "file:///photo.jpg"},
	}
	reminders := []note.Reminder{
		{TriggerAt: stamp.UnixMilli() + 60_000},
	}

	require.NoError(t, s.UpsertGraphDirty(ctx, n, attachments, reminders))

	g, err := s.ByID(ctx, n.ID)
	require.NoError(t, err)
	require.Equal(t, n.Title, g.Note.Title)
	require.True(t, g.Note.Dirty)
	require.False(t, g.Note.IsDeleted)
	require.Equal(t, stamp.UnixMilli(), g.Note.UpdatedAt)
	require.Len(t, g.Attachments, 1)
	require.Len(t, g.Reminders, 1)

	t.Run("OutboxEntryMatchesWrite", func(t *testing.T) {
		ops, err := s.PendingOps(ctx)
		require.NoError(t, err)
		require.Len(t, ops, 1)
		require.Equal(t, sync.OpUpsertNote, ops[0].Kind)
		require.Equal(t, n.ID, ops[0].NoteID)

		payload, err := sync.ParseGraph(ops[0].Payload)
		require.NoError(t, err)
		require.Equal(t, stamp.UnixMilli(), payload.Note.UpdatedAt)
		require.Len(t, payload.Attachments, 1)
		require.Len(t, payload.Reminders, 1)
	})

	t.Run("ChildrenReplacedOnResave", func(t *testing.T) {
		require.NoError(t, s.UpsertGraphDirty(ctx, n, nil, nil))

		g, err := s.ByID(ctx, n.ID)
		require.NoError(t, err)
		require.Empty(t, g.Attachments)
		require.Empty(t, g.Reminders)
	})
}

func TestOutboxSeqMonotonic(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	// Freeze the clock so both saves land on the same millisecond: the
	// outbox must still keep them as two distinct entries in save order.
	stamp := time.UnixMilli(1_700_000_000_000)
	s.now = func() time.Time { return stamp }

	n := newTestNote(note.TypeNote)
	require.NoError(t, s.UpsertGraphDirty(ctx, n, nil, nil))
	n.Title = "groceries v2"
	require.NoError(t, s.UpsertGraphDirty(ctx, n, nil, nil))

	ops, err := s.PendingOps(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 2)
	require.Less(t, ops[0].Seq, ops[1].Seq)

	require.NoError(t, s.DeleteOp(ctx, ops[0].Seq))
	ops, err = s.PendingOps(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 1)
}

func TestTombstone(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	n := newTestNote(note.TypeNote)
	require.NoError(t, s.UpsertGraphDirty(ctx, n, nil, nil))
	require.NoError(t, s.Tombstone(ctx, n))

	t.Run("HiddenFromReads", func(t *testing.T) {
		_, err := s.ByID(ctx, n.ID)
		require.ErrorIs(t, err, note.ErrNotFound)

		all, err := s.All(ctx)
		require.NoError(t, err)
		require.Empty(t, all)

		found, err := s.Search(ctx, "groceries")
		require.NoError(t, err)
		require.Empty(t, found)
	})

	t.Run("RowStillRetrievable", func(t *testing.T) {
		row, err := s.GetNote(ctx, n.ID)
		require.NoError(t, err)
		require.True(t, row.IsDeleted)
		require.True(t, row.Dirty)
	})

	t.Run("DeleteOpQueued", func(t *testing.T) {
		ops, err := s.PendingOps(ctx)
		require.NoError(t, err)
		require.Len(t, ops, 2)
		require.Equal(t, sync.OpDeleteNote, ops[1].Kind)
	})
}

func TestApplyRemoteGraphReplace(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	local := newTestNote(note.TypeNote)
	require.NoError(t, s.UpsertGraphDirty(ctx, local, nil, nil))
	row, err := s.GetNote(ctx, local.ID)
	require.NoError(t, err)

	t.Run("NewerRemoteWins", func(t *testing.T) {
		incoming := *row
		incoming.Title = "from server"
		incoming.UpdatedAt = row.UpdatedAt + 1
		applied, err := s.ApplyRemoteGraphReplace(ctx, incoming, nil, nil)
		require.NoError(t, err)
		require.True(t, applied)

		got, err := s.GetNote(ctx, local.ID)
		require.NoError(t, err)
		require.Equal(t, "from server", got.Title)
		require.False(t, got.Dirty)
	})

	t.Run("EqualTimestampRejected", func(t *testing.T) {
		got, err := s.GetNote(ctx, local.ID)
		require.NoError(t, err)

		incoming := *got
		incoming.Title = "stale replay"
		applied, err := s.ApplyRemoteGraphReplace(ctx, incoming, nil, nil)
		require.NoError(t, err)
		require.False(t, applied)

		after, err := s.GetNote(ctx, local.ID)
		require.NoError(t, err)
		require.Equal(t, "from server", after.Title)
	})

	t.Run("OlderRemoteRejected", func(t *testing.T) {
		got, err := s.GetNote(ctx, local.ID)
		require.NoError(t, err)

		incoming := *got
		incoming.Title = "ancient"
		incoming.UpdatedAt = got.UpdatedAt - 100
		applied, err := s.ApplyRemoteGraphReplace(ctx, incoming, nil, nil)
		require.NoError(t, err)
		require.False(t, applied)

		after, err := s.GetNote(ctx, local.ID)
		require.NoError(t, err)
		require.Equal(t, "from server", after.Title)
	})

	t.Run("UnknownNoteAccepted", func(t *testing.T) {
		fresh := newTestNote(note.TypeNote)
		fresh.UpdatedAt = 42
		applied, err := s.ApplyRemoteGraphReplace(ctx, fresh, nil, nil)
		require.NoError(t, err)
		require.True(t, applied)

		got, err := s.GetNote(ctx, fresh.ID)
		require.NoError(t, err)
		require.Equal(t, int64(42), got.UpdatedAt)
		require.False(t, got.Dirty)
	})

	t.Run("NoOutboxEntry", func(t *testing.T) {
		ops, err := s.PendingOps(ctx)
		require.NoError(t, err)
		require.Len(t, ops, 1) // only the initial local save
	})
}

func TestByTypeOrdering(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	base := time.UnixMilli(1_700_000_000_000)
	mkTask := func(created time.Time, due time.Time) note.Note {
		n := newTestNote(note.TypeTask)
		n.CreatedAt = created
		n.DueAt = &due
		return n
	}

	late := mkTask(base, base.Add(48*time.Hour))
	soon := mkTask(base.Add(time.Minute), base.Add(2*time.Hour))
	plain := newTestNote(note.TypeNote)
	plain.CreatedAt = base.Add(2 * time.Minute)

	require.NoError(t, s.UpsertGraphDirty(ctx, late, nil, nil))
	require.NoError(t, s.UpsertGraphDirty(ctx, soon, nil, nil))
	require.NoError(t, s.UpsertGraphDirty(ctx, plain, nil, nil))

	t.Run("TasksByDueDate", func(t *testing.T) {
		tasks, err := s.ByType(ctx, note.TypeTask)
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		require.Equal(t, soon.ID, tasks[0].Note.ID)
		require.Equal(t, late.ID, tasks[1].Note.ID)
	})

	t.Run("NotesByCreation", func(t *testing.T) {
		notes, err := s.ByType(ctx, note.TypeNote)
		require.NoError(t, err)
		require.Len(t, notes, 1)
		require.Equal(t, plain.ID, notes[0].Note.ID)
	})

	t.Run("AllNewestFirst", func(t *testing.T) {
		all, err := s.All(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		require.Equal(t, plain.ID, all[0].Note.ID)
		require.Equal(t, soon.ID, all[1].Note.ID)
		require.Equal(t, late.ID, all[2].Note.ID)
	})
}

func TestSearchCaseSensitive(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	n := newTestNote(note.TypeNote)
	n.Title = "Meeting Notes"
	n.Description = "weekly standup"
	require.NoError(t, s.UpsertGraphDirty(ctx, n, nil, nil))

	found, err := s.Search(ctx, "Meeting")
	require.NoError(t, err)
	require.Len(t, found, 1)

	found, err = s.Search(ctx, "meeting")
	require.NoError(t, err)
	require.Empty(t, found)

	found, err = s.Search(ctx, "standup")
	require.NoError(t, err)
	require.Len(t, found, 1)
}

func TestReminderAccess(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	now := time.Now().UnixMilli()
	n := newTestNote(note.TypeTask)
	reminders := []note.Reminder{
		{TriggerAt: now - 60_000},
		{TriggerAt: now + 60_000, IsRecurring: true, IntervalMinutes: 15},
		{TriggerAt: now + 120_000},
	}
	require.NoError(t, s.UpsertGraphDirty(ctx, n, nil, reminders))

	future, err := s.FutureReminders(ctx, now)
	require.NoError(t, err)
	require.Len(t, future, 2)
	require.Less(t, future[0].TriggerAt, future[1].TriggerAt)

	t.Run("Update", func(t *testing.T) {
		r := future[0]
		r.TriggerAt += 15 * 60_000
		require.NoError(t, s.UpdateReminder(ctx, r))

		got, err := s.ReminderByID(ctx, r.ID)
		require.NoError(t, err)
		require.Equal(t, r.TriggerAt, got.TriggerAt)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, s.DeleteReminderByID(ctx, future[1].ID))
		_, err := s.ReminderByID(ctx, future[1].ID)
		require.ErrorIs(t, err, note.ErrNotFound)
	})
}

func TestSubscribeSignalsOnWrite(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	ch, cancel := s.Subscribe()
	defer cancel()

	require.NoError(t, s.UpsertGraphDirty(ctx, newTestNote(note.TypeNote), nil, nil))

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no change signal after committed write")
	}
}

package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	gosync "sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"notas/internal/domain/note"
	"notas/internal/domain/sync"
)

type SQLiteStorage struct {
	db  *sql.DB
	now func() time.Time

	mu   gosync.Mutex
	subs map[int]chan struct{}
	next int
}

func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &SQLiteStorage{
		db:   db,
		now:  time.Now,
		subs: make(map[int]chan struct{}),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return s, nil
}

// migrate applies forward-only additive schema versions, tracked in
// PRAGMA user_version. Version 2 mirrors the additive migration that
// introduced the sync columns and the outbox.
func (s *SQLiteStorage) migrate() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return err
	}

	steps := []string{
		// v1: base schema
		`
		CREATE TABLE IF NOT EXISTS notes (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			due_at INTEGER,
			completed INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS attachments (
			att_id INTEGER PRIMARY KEY AUTOINCREMENT,
			note_id TEXT NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
			type TEXT NOT NULL,
			uri TEXT NOT NULL,
			description TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_attachments_note ON attachments(note_id);

		CREATE TABLE IF NOT EXISTS reminders (
			rem_id INTEGER PRIMARY KEY AUTOINCREMENT,
			note_id TEXT NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
			trigger_at INTEGER NOT NULL,
			is_recurring INTEGER NOT NULL DEFAULT 0,
			interval_minutes INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_reminders_note ON reminders(note_id);
		`,
		// v2: sync columns + outbox
		`
		ALTER TABLE notes ADD COLUMN updated_at INTEGER NOT NULL DEFAULT 0;
		ALTER TABLE notes ADD COLUMN is_deleted INTEGER NOT NULL DEFAULT 0;
		ALTER TABLE notes ADD COLUMN dirty INTEGER NOT NULL DEFAULT 0;

		CREATE TABLE IF NOT EXISTS sync_outbox (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			kind TEXT NOT NULL,
			note_id TEXT NOT NULL,
			payload TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);
		`,
	}

	for v := version; v < len(steps); v++ {
		if _, err := s.db.Exec(steps[v]); err != nil {
			return fmt.Errorf("apply schema version %d: %w", v+1, err)
		}
		if _, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", v+1)); err != nil {
			return err
		}
	}

	return nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Subscribe registers a change listener. The channel has a one-slot
// buffer; a pending signal coalesces with later ones.
func (s *SQLiteStorage) Subscribe() (<-chan struct{}, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.next
	s.next++
	ch := make(chan struct{}, 1)
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
	return ch, cancel
}

func (s *SQLiteStorage) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (s *SQLiteStorage) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	s.notify()
	return nil
}

const noteColumns = `id, title, description, content, type, created_at, due_at, completed, updated_at, is_deleted, dirty`

func scanNote(row interface{ Scan(...any) error }) (*note.Note, error) {
	var n note.Note
	var createdAt int64
	var dueAt sql.NullInt64

	err := row.Scan(&n.ID, &n.Title, &n.Description, &n.Content, &n.Type,
		&createdAt, &dueAt, &n.Completed, &n.UpdatedAt, &n.IsDeleted, &n.Dirty)
	if err != nil {
		return nil, err
	}

	n.CreatedAt = time.UnixMilli(createdAt)
	if dueAt.Valid {
		t := time.UnixMilli(dueAt.Int64)
		n.DueAt = &t
	}
	return &n, nil
}

func (s *SQLiteStorage) GetNote(ctx context.Context, id string) (*note.Note, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id = ?`, id)

	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, note.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	return n, nil
}

func (s *SQLiteStorage) queryNotes(ctx context.Context, query string, args ...any) ([]note.Note, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	var notes []note.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, *n)
	}
	return notes, rows.Err()
}

func (s *SQLiteStorage) All(ctx context.Context) ([]note.Graph, error) {
	notes, err := s.queryNotes(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE is_deleted = 0 ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return s.loadGraphs(ctx, notes)
}

func (s *SQLiteStorage) ByType(ctx context.Context, t note.ItemType) ([]note.Graph, error) {
	notes, err := s.queryNotes(ctx,
		`SELECT `+noteColumns+` FROM notes
		 WHERE is_deleted = 0 AND type = ?
		 ORDER BY CASE WHEN ? = 'TASK' THEN due_at END ASC, created_at DESC`,
		string(t), string(t))
	if err != nil {
		return nil, err
	}
	return s.loadGraphs(ctx, notes)
}

func (s *SQLiteStorage) ByID(ctx context.Context, id string) (*note.Graph, error) {
	notes, err := s.queryNotes(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE is_deleted = 0 AND id = ? LIMIT 1`, id)
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, note.ErrNotFound
	}

	graphs, err := s.loadGraphs(ctx, notes)
	if err != nil {
		return nil, err
	}
	return &graphs[0], nil
}

// Search uses instr, not LIKE: SQLite LIKE is case-insensitive for
// ASCII, and the contract here is a case-sensitive substring match.
func (s *SQLiteStorage) Search(ctx context.Context, q string) ([]note.Note, error) {
	return s.queryNotes(ctx,
		`SELECT `+noteColumns+` FROM notes
		 WHERE is_deleted = 0 AND (
		       instr(title, ?) > 0
		    OR instr(description, ?) > 0
		    OR instr(content, ?) > 0
		 )
		 ORDER BY created_at DESC`,
		q, q, q)
}

func (s *SQLiteStorage) loadGraphs(ctx context.Context, notes []note.Note) ([]note.Graph, error) {
	graphs := make([]note.Graph, 0, len(notes))
	for _, n := range notes {
		attachments, err := s.attachmentsByNote(ctx, n.ID)
		if err != nil {
			return nil, err
		}
		reminders, err := s.RemindersByNote(ctx, n.ID)
		if err != nil {
			return nil, err
		}
		graphs = append(graphs, note.Graph{Note: n, Attachments: attachments, Reminders: reminders})
	}
	return graphs, nil
}

func (s *SQLiteStorage) attachmentsByNote(ctx context.Context, noteID string) ([]note.Attachment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT att_id, note_id, type, uri, COALESCE(description, '')
		 FROM attachments WHERE note_id = ? ORDER BY att_id`, noteID)
	if err != nil {
		return nil, fmt.Errorf("query attachments: %w", err)
	}
	defer rows.Close()

	var list []note.Attachment
	for rows.Next() {
		var a note.Attachment
		if err := rows.Scan(&a.ID, &a.NoteID, &a.Type, &a.URI, &a.Description); err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func upsertNoteTx(tx *sql.Tx, n note.Note) error {
	var dueAt any
	if n.DueAt != nil {
		dueAt = n.DueAt.UnixMilli()
	}

	_, err := tx.Exec(`
		INSERT INTO notes (id, title, description, content, type, created_at, due_at, completed, updated_at, is_deleted, dirty)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			content = excluded.content,
			type = excluded.type,
			created_at = excluded.created_at,
			due_at = excluded.due_at,
			completed = excluded.completed,
			updated_at = excluded.updated_at,
			is_deleted = excluded.is_deleted,
			dirty = excluded.dirty
	`, n.ID, n.Title, n.Description, n.Content, string(n.Type),
		n.CreatedAt.UnixMilli(), dueAt, n.Completed, n.UpdatedAt, n.IsDeleted, n.Dirty)
	return err
}

func replaceChildrenTx(tx *sql.Tx, noteID string, attachments []note.Attachment, reminders []note.Reminder) error {
	if _, err := tx.Exec(`DELETE FROM attachments WHERE note_id = ?`, noteID); err != nil {
		return fmt.Errorf("delete attachments: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM reminders WHERE note_id = ?`, noteID); err != nil {
		return fmt.Errorf("delete reminders: %w", err)
	}

	for _, a := range attachments {
		if _, err := tx.Exec(
			`INSERT INTO attachments (note_id, type, uri, description) VALUES (?, ?, ?, ?)`,
			noteID, string(a.Type), a.URI, a.Description); err != nil {
			return fmt.Errorf("insert attachment: %w", err)
		}
	}
	for _, r := range reminders {
		if _, err := tx.Exec(
			`INSERT INTO reminders (note_id, trigger_at, is_recurring, interval_minutes) VALUES (?, ?, ?, ?)`,
			noteID, r.TriggerAt, r.IsRecurring, r.IntervalMinutes); err != nil {
			return fmt.Errorf("insert reminder: %w", err)
		}
	}
	return nil
}

func appendOutboxTx(tx *sql.Tx, kind sync.OpKind, n note.Note, attachments []note.Attachment, reminders []note.Reminder) error {
	payload, err := sync.GraphFromEntities(n, attachments, reminders).Marshal()
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		`INSERT INTO sync_outbox (kind, note_id, payload, created_at) VALUES (?, ?, ?, ?)`,
		string(kind), n.ID, payload, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("append outbox: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) UpsertGraphDirty(ctx context.Context, n note.Note, attachments []note.Attachment, reminders []note.Reminder) error {
	now := s.now().UnixMilli()
	n.UpdatedAt = now
	n.Dirty = true
	n.IsDeleted = false

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := upsertNoteTx(tx, n); err != nil {
			return fmt.Errorf("upsert note: %w", err)
		}
		if err := replaceChildrenTx(tx, n.ID, attachments, reminders); err != nil {
			return err
		}
		return appendOutboxTx(tx, sync.OpUpsertNote, n, attachments, reminders)
	})
}

func (s *SQLiteStorage) Tombstone(ctx context.Context, n note.Note) error {
	now := s.now().UnixMilli()
	n.UpdatedAt = now
	n.Dirty = true
	n.IsDeleted = true

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := upsertNoteTx(tx, n); err != nil {
			return fmt.Errorf("tombstone note: %w", err)
		}
		return appendOutboxTx(tx, sync.OpDeleteNote, n, nil, nil)
	})
}

func (s *SQLiteStorage) ApplyRemoteGraphReplace(ctx context.Context, n note.Note, attachments []note.Attachment, reminders []note.Reminder) (bool, error) {
	n.Dirty = false
	applied := false

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var localUpdatedAt int64
		err := tx.QueryRow(`SELECT updated_at FROM notes WHERE id = ?`, n.ID).Scan(&localUpdatedAt)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// no local row, accept
		case err != nil:
			return fmt.Errorf("lookup local note: %w", err)
		case n.UpdatedAt <= localUpdatedAt:
			// local wins ties, reject
			return nil
		}

		if err := upsertNoteTx(tx, n); err != nil {
			return fmt.Errorf("apply remote note: %w", err)
		}
		if err := replaceChildrenTx(tx, n.ID, attachments, reminders); err != nil {
			return err
		}
		applied = true
		return nil
	})
	return applied, err
}

func (s *SQLiteStorage) PendingOps(ctx context.Context) ([]sync.Op, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, kind, note_id, payload, created_at FROM sync_outbox ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("query outbox: %w", err)
	}
	defer rows.Close()

	var ops []sync.Op
	for rows.Next() {
		var op sync.Op
		if err := rows.Scan(&op.Seq, &op.Kind, &op.NoteID, &op.Payload, &op.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		ops = append(ops, op)
	}
	return ops, rows.Err()
}

func (s *SQLiteStorage) DeleteOp(ctx context.Context, seq int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sync_outbox WHERE seq = ?`, seq); err != nil {
		return fmt.Errorf("delete outbox entry: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) queryReminders(ctx context.Context, query string, args ...any) ([]note.Reminder, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reminders: %w", err)
	}
	defer rows.Close()

	var list []note.Reminder
	for rows.Next() {
		var r note.Reminder
		if err := rows.Scan(&r.ID, &r.NoteID, &r.TriggerAt, &r.IsRecurring, &r.IntervalMinutes); err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		list = append(list, r)
	}
	return list, rows.Err()
}

func (s *SQLiteStorage) RemindersByNote(ctx context.Context, noteID string) ([]note.Reminder, error) {
	return s.queryReminders(ctx,
		`SELECT rem_id, note_id, trigger_at, is_recurring, interval_minutes
		 FROM reminders WHERE note_id = ? ORDER BY trigger_at ASC`, noteID)
}

func (s *SQLiteStorage) ReminderByID(ctx context.Context, id int64) (*note.Reminder, error) {
	list, err := s.queryReminders(ctx,
		`SELECT rem_id, note_id, trigger_at, is_recurring, interval_minutes
		 FROM reminders WHERE rem_id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, note.ErrNotFound
	}
	return &list[0], nil
}

func (s *SQLiteStorage) FutureReminders(ctx context.Context, nowMillis int64) ([]note.Reminder, error) {
	return s.queryReminders(ctx,
		`SELECT rem_id, note_id, trigger_at, is_recurring, interval_minutes
		 FROM reminders WHERE trigger_at > ? ORDER BY trigger_at ASC`, nowMillis)
}

func (s *SQLiteStorage) UpdateReminder(ctx context.Context, r note.Reminder) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`UPDATE reminders SET trigger_at = ?, is_recurring = ?, interval_minutes = ? WHERE rem_id = ?`,
			r.TriggerAt, r.IsRecurring, r.IntervalMinutes, r.ID)
		return err
	})
	if err != nil {
		return fmt.Errorf("update reminder: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) DeleteReminderByID(ctx context.Context, id int64) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec(`DELETE FROM reminders WHERE rem_id = ?`, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) IsCompleted(ctx context.Context, noteID string) (bool, error) {
	var completed bool
	err := s.db.QueryRowContext(ctx,
		`SELECT completed FROM notes WHERE id = ?`, noteID).Scan(&completed)
	if errors.Is(err, sql.ErrNoRows) {
		return false, note.ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("check completion: %w", err)
	}
	return completed, nil
}

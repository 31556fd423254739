package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"

	"notas/internal/domain/sync"
)

// NoteRepository is the authoritative note store. Merging follows
// last-writer-wins on the note's updatedAt: an incoming graph lands
// only when it is strictly newer than the stored row.
type NoteRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewNoteRepository(db *Storage, log *slog.Logger) *NoteRepository {
	return &NoteRepository{
		db:  db,
		log: log,
	}
}

func (r *NoteRepository) ApplyGraph(ctx context.Context, g sync.GraphDTO) (applied bool, err error) {
	tx, err := r.db.Pool().Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var stored int64
	err = tx.QueryRow(ctx,
		`SELECT updated_at FROM notes WHERE id = $1 FOR UPDATE`, g.Note.ID).Scan(&stored)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		// first time this note is seen
	case err != nil:
		return false, fmt.Errorf("lock note row: %w", err)
	case g.Note.UpdatedAt <= stored:
		// stored version wins, including ties
		if err = tx.Commit(ctx); err != nil {
			return false, fmt.Errorf("commit transaction: %w", err)
		}
		return false, nil
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO notes (id, title, content, type, updated_at, is_deleted)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			type = EXCLUDED.type,
			updated_at = EXCLUDED.updated_at,
			is_deleted = EXCLUDED.is_deleted
	`, g.Note.ID, g.Note.Title, g.Note.Content, g.Note.Type, g.Note.UpdatedAt, g.Note.IsDeleted)
	if err != nil {
		return false, fmt.Errorf("upsert note: %w", err)
	}

	if _, err = tx.Exec(ctx, `DELETE FROM attachments WHERE note_id = $1`, g.Note.ID); err != nil {
		return false, fmt.Errorf("delete attachments: %w", err)
	}
	if _, err = tx.Exec(ctx, `DELETE FROM reminders WHERE note_id = $1`, g.Note.ID); err != nil {
		return false, fmt.Errorf("delete reminders: %w", err)
	}

	for _, a := range g.Attachments {
		if _, err = tx.Exec(ctx,
			`INSERT INTO attachments (note_id, uri) VALUES ($1, $2)`,
			g.Note.ID, a.URI); err != nil {
			return false, fmt.Errorf("insert attachment: %w", err)
		}
	}
	for _, rem := range g.Reminders {
		if _, err = tx.Exec(ctx,
			`INSERT INTO reminders (note_id, trigger_at) VALUES ($1, $2)`,
			g.Note.ID, rem.At); err != nil {
			return false, fmt.Errorf("insert reminder: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit transaction: %w", err)
	}
	return true, nil
}

func (r *NoteRepository) ChangesSince(ctx context.Context, since int64) ([]sync.GraphDTO, error) {
	rows, err := r.db.Pool().Query(ctx, `
		SELECT id, title, content, type, updated_at, is_deleted
		FROM notes WHERE updated_at > $1 ORDER BY updated_at ASC
	`, since)
	if err != nil {
		return nil, fmt.Errorf("query changed notes: %w", err)
	}
	defer rows.Close()

	var graphs []sync.GraphDTO
	for rows.Next() {
		var g sync.GraphDTO
		if err := rows.Scan(&g.Note.ID, &g.Note.Title, &g.Note.Content,
			&g.Note.Type, &g.Note.UpdatedAt, &g.Note.IsDeleted); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		graphs = append(graphs, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range graphs {
		if graphs[i].Note.IsDeleted {
			continue
		}
		if err := r.loadChildren(ctx, &graphs[i]); err != nil {
			return nil, err
		}
	}
	return graphs, nil
}

func (r *NoteRepository) loadChildren(ctx context.Context, g *sync.GraphDTO) error {
	rows, err := r.db.Pool().Query(ctx,
		`SELECT id, uri FROM attachments WHERE note_id = $1 ORDER BY id`, g.Note.ID)
	if err != nil {
		return fmt.Errorf("query attachments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		a := sync.AttachmentDTO{NoteID: g.Note.ID}
		if err := rows.Scan(&a.ID, &a.URI); err != nil {
			return fmt.Errorf("scan attachment: %w", err)
		}
		g.Attachments = append(g.Attachments, a)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	remRows, err := r.db.Pool().Query(ctx,
		`SELECT id, trigger_at FROM reminders WHERE note_id = $1 ORDER BY trigger_at`, g.Note.ID)
	if err != nil {
		return fmt.Errorf("query reminders: %w", err)
	}
	defer remRows.Close()

	for remRows.Next() {
		rem := sync.ReminderDTO{NoteID: g.Note.ID}
		if err := remRows.Scan(&rem.ID, &rem.At); err != nil {
			return fmt.Errorf("scan reminder: %w", err)
		}
		g.Reminders = append(g.Reminders, rem)
	}
	return remRows.Err()
}

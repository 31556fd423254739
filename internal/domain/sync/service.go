package sync

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/exp/slog"
)

// Repository is the server-side note store as the sync service sees it.
type Repository interface {
	// ApplyGraph merges one graph under last-writer-wins; reports
	// whether it was accepted.
	ApplyGraph(ctx context.Context, g GraphDTO) (bool, error)

	// ChangesSince returns graphs updated strictly after the watermark,
	// tombstones included.
	ChangesSince(ctx context.Context, since int64) ([]GraphDTO, error)
}

type Servicer interface {
	ApplyOps(ctx context.Context, ops []OpDTO) (int, error)
	Changes(ctx context.Context, since int64) (*ChangesResponse, error)
}

type Service struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// ApplyOps replays a client's outbox in order and returns the number of
// ops that won their merge. A malformed op is logged and skipped so one
// bad entry cannot wedge a client's queue forever.
func (s *Service) ApplyOps(ctx context.Context, ops []OpDTO) (int, error) {
	accepted := 0
	for _, op := range ops {
		kind := OpKind(op.Kind)
		if !kind.Valid() {
			s.log.Warn("unknown op kind, skipping", "kind", op.Kind, "note_id", op.NoteID)
			continue
		}

		g, err := ParseGraph(op.Payload)
		if err != nil {
			s.log.Warn("malformed op payload, skipping", "note_id", op.NoteID, "error", err)
			continue
		}

		if kind == OpDeleteNote {
			// The payload must agree with the op kind.
			g.Note.IsDeleted = true
			g.Attachments = nil
			g.Reminders = nil
		}

		ok, err := s.repo.ApplyGraph(ctx, g)
		if err != nil {
			return accepted, fmt.Errorf("apply graph %s: %w", g.Note.ID, err)
		}
		if ok {
			accepted++
		}
	}
	return accepted, nil
}

func (s *Service) Changes(ctx context.Context, since int64) (*ChangesResponse, error) {
	graphs, err := s.repo.ChangesSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("load changes: %w", err)
	}
	if graphs == nil {
		graphs = []GraphDTO{}
	}

	return &ChangesResponse{
		Graphs:     graphs,
		ServerTime: s.now().UnixMilli(),
	}, nil
}

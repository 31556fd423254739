package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"notas/internal/domain/note"
)

type fakeRepo struct {
	applied []GraphDTO
	accept  bool
	err     error
	changes []GraphDTO
}

func (f *fakeRepo) ApplyGraph(_ context.Context, g GraphDTO) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.applied = append(f.applied, g)
	return f.accept, nil
}

func (f *fakeRepo) ChangesSince(_ context.Context, _ int64) ([]GraphDTO, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.changes, nil
}

func mustPayload(t *testing.T, n note.Note) string {
	t.Helper()
	payload, err := GraphFromEntities(n, nil, nil).Marshal()
	require.NoError(t, err)
	return payload
}

func TestApplyOps(t *testing.T) {
	repo := &fakeRepo{accept: true}
	service := NewService(repo, slog.Default())

	n := note.Note{ID: "n1", Title: "hello", Type: note.TypeNote, UpdatedAt: 100}
	ops := []OpDTO{
		{Kind: string(OpUpsertNote), NoteID: "n1", Payload: mustPayload(t, n)},
		{Kind: string(OpDeleteNote), NoteID: "n1", Payload: mustPayload(t, n)},
	}

	accepted, err := service.ApplyOps(context.Background(), ops)
	require.NoError(t, err)
	assert.Equal(t, 2, accepted)
	require.Len(t, repo.applied, 2)

	assert.False(t, repo.applied[0].Note.IsDeleted)
	assert.True(t, repo.applied[1].Note.IsDeleted, "delete op forces the tombstone flag")
}

func TestApplyOpsSkipsMalformed(t *testing.T) {
	repo := &fakeRepo{accept: true}
	service := NewService(repo, slog.Default())

	good := note.Note{ID: "n2", Type: note.TypeNote, UpdatedAt: 100}
	ops := []OpDTO{
		{Kind: "REPLACE_ALL", NoteID: "n1", Payload: "{}"},
		{Kind: string(OpUpsertNote), NoteID: "n1", Payload: "not json"},
		{Kind: string(OpUpsertNote), NoteID: "n2", Payload: mustPayload(t, good)},
	}

	accepted, err := service.ApplyOps(context.Background(), ops)
	require.NoError(t, err)
	assert.Equal(t, 1, accepted)
	require.Len(t, repo.applied, 1)
	assert.Equal(t, "n2", repo.applied[0].Note.ID)
}

func TestApplyOpsRejectedNotCounted(t *testing.T) {
	repo := &fakeRepo{accept: false}
	service := NewService(repo, slog.Default())

	n := note.Note{ID: "n1", Type: note.TypeNote, UpdatedAt: 100}
	accepted, err := service.ApplyOps(context.Background(), []OpDTO{
		{Kind: string(OpUpsertNote), NoteID: "n1", Payload: mustPayload(t, n)},
	})
	require.NoError(t, err)
	assert.Zero(t, accepted)
}

func TestApplyOpsRepositoryError(t *testing.T) {
	repo := &fakeRepo{err: errors.New("connection lost")}
	service := NewService(repo, slog.Default())

	n := note.Note{ID: "n1", Type: note.TypeNote, UpdatedAt: 100}
	_, err := service.ApplyOps(context.Background(), []OpDTO{
		{Kind: string(OpUpsertNote), NoteID: "n1", Payload: mustPayload(t, n)},
	})
	assert.Error(t, err)
}

func TestChanges(t *testing.T) {
	repo := &fakeRepo{changes: []GraphDTO{
		{Note: NoteDTO{ID: "n1", UpdatedAt: 150}},
	}}
	service := NewService(repo, slog.Default())
	service.now = func() time.Time { return time.UnixMilli(1_700_000_000_000) }

	resp, err := service.Changes(context.Background(), 100)
	require.NoError(t, err)
	assert.Len(t, resp.Graphs, 1)
	assert.Equal(t, int64(1_700_000_000_000), resp.ServerTime)
}

func TestChangesEmpty(t *testing.T) {
	service := NewService(&fakeRepo{}, slog.Default())

	resp, err := service.Changes(context.Background(), 0)
	require.NoError(t, err)
	assert.NotNil(t, resp.Graphs)
	assert.Empty(t, resp.Graphs)
}

package sync

import (
	"encoding/json"
	"fmt"
	"time"

	"notas/internal/domain/note"
)

// Wire DTOs shared by the outbox payload, the push endpoint, and the
// pull endpoint. The note object carries only the synchronized subset
// of fields; description/createdAt/dueAt/completed are local-only and
// are preserved from the existing row when a pulled graph is applied.

type NoteDTO struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Type      string `json:"type"`
	UpdatedAt int64  `json:"updatedAt"`
	IsDeleted bool   `json:"isDeleted"`
}

type AttachmentDTO struct {
	ID     int64  `json:"id"`
	NoteID string `json:"noteId"`
	URI    string `json:"uri"`
}

type ReminderDTO struct {
	ID     int64  `json:"id"`
	NoteID string `json:"noteId"`
	At     int64  `json:"at"`
}

// GraphDTO is the serialized note graph: the outbox payload format and
// the unit of transfer for both push and pull.
type GraphDTO struct {
	Note        NoteDTO         `json:"note"`
	Attachments []AttachmentDTO `json:"attachments"`
	Reminders   []ReminderDTO   `json:"reminders"`
}

// GraphFromEntities builds the wire graph for a local note graph.
func GraphFromEntities(n note.Note, attachments []note.Attachment, reminders []note.Reminder) GraphDTO {
	dto := GraphDTO{
		Note: NoteDTO{
			ID:        n.ID,
			Title:     n.Title,
			Content:   n.Content,
			Type:      string(n.Type),
			UpdatedAt: n.UpdatedAt,
			IsDeleted: n.IsDeleted,
		},
		Attachments: make([]AttachmentDTO, 0, len(attachments)),
		Reminders:   make([]ReminderDTO, 0, len(reminders)),
	}
	for _, a := range attachments {
		dto.Attachments = append(dto.Attachments, AttachmentDTO{ID: a.ID, NoteID: a.NoteID, URI: a.URI})
	}
	for _, r := range reminders {
		dto.Reminders = append(dto.Reminders, ReminderDTO{ID: r.ID, NoteID: r.NoteID, At: r.TriggerAt})
	}
	return dto
}

// Marshal renders the graph as the outbox payload JSON.
func (g GraphDTO) Marshal() (string, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return "", fmt.Errorf("marshal graph payload: %w", err)
	}
	return string(data), nil
}

// ParseGraph decodes an outbox payload.
func ParseGraph(payload string) (GraphDTO, error) {
	var g GraphDTO
	if err := json.Unmarshal([]byte(payload), &g); err != nil {
		return GraphDTO{}, fmt.Errorf("parse graph payload: %w", err)
	}
	return g, nil
}

// ToEntities converts a wire graph back to local entities. A graph
// coming from the server is never dirty. Fields the wire does not carry
// are taken from existing when present; otherwise createdAt falls back
// to the wire updatedAt.
func (g GraphDTO) ToEntities(existing *note.Note) (note.Note, []note.Attachment, []note.Reminder) {
	n := note.Note{
		ID:        g.Note.ID,
		Title:     g.Note.Title,
		Content:   g.Note.Content,
		Type:      note.ItemType(g.Note.Type),
		UpdatedAt: g.Note.UpdatedAt,
		IsDeleted: g.Note.IsDeleted,
		Dirty:     false,
		CreatedAt: time.UnixMilli(g.Note.UpdatedAt),
	}
	if existing != nil {
		n.Description = existing.Description
		n.CreatedAt = existing.CreatedAt
		n.DueAt = existing.DueAt
		n.Completed = existing.Completed
	}

	attachments := make([]note.Attachment, 0, len(g.Attachments))
	for _, a := range g.Attachments {
		attachments = append(attachments, note.Attachment{
			ID:     a.ID,
			NoteID: a.NoteID,
			Type:   note.AttachmentFile,
			URI:    a.URI,
		})
	}
	reminders := make([]note.Reminder, 0, len(g.Reminders))
	for _, r := range g.Reminders {
		reminders = append(reminders, note.Reminder{
			ID:        r.ID,
			NoteID:    r.NoteID,
			TriggerAt: r.At,
		})
	}
	return n, attachments, reminders
}

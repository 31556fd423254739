package note

import (
	"time"
)

type ItemType string

const (
	TypeNote ItemType = "NOTE"
	TypeTask ItemType = "TASK"
)

func (t ItemType) Valid() bool {
	return t == TypeNote || t == TypeTask
}

type AttachmentType string

const (
	AttachmentImage AttachmentType = "IMAGE"
	AttachmentVideo AttachmentType = "VIDEO"
	AttachmentAudio AttachmentType = "AUDIO"
	AttachmentFile  AttachmentType = "FILE"
)

// Note is the root entity. The id is caller-generated and stable for the
// whole editing session. DueAt and Completed only carry meaning for tasks;
// a NOTE ignores them.
type Note struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Content     string     `json:"content"`
	Type        ItemType   `json:"type"`
	CreatedAt   time.Time  `json:"created_at"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	Completed   bool       `json:"completed"`
	UpdatedAt   int64      `json:"updated_at"` // epoch millis
	IsDeleted   bool       `json:"is_deleted"`
	Dirty       bool       `json:"dirty"`
}

// Attachment belongs to exactly one note and is replaced wholesale on
// every save of the owning graph.
type Attachment struct {
	ID          int64          `json:"id"`
	NoteID      string         `json:"note_id"`
	Type        AttachmentType `json:"type"`
	URI         string         `json:"uri"`
	Description string         `json:"description,omitempty"`
}

// Reminder belongs to exactly one note. TriggerAt is epoch millis.
type Reminder struct {
	ID              int64  `json:"id"`
	NoteID          string `json:"note_id"`
	TriggerAt       int64  `json:"trigger_at"`
	IsRecurring     bool   `json:"is_recurring"`
	IntervalMinutes int64  `json:"interval_minutes"`
}

// Graph is a note with its attachments and reminders, treated as one
// consistency unit.
type Graph struct {
	Note        Note         `json:"note"`
	Attachments []Attachment `json:"attachments"`
	Reminders   []Reminder   `json:"reminders"`
}

// DueMillis returns the due timestamp in epoch millis, or 0 when unset.
func (n *Note) DueMillis() int64 {
	if n.DueAt == nil {
		return 0
	}
	return n.DueAt.UnixMilli()
}

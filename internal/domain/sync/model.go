package sync

// OpKind names the two write operations a client can replay at the server.
type OpKind string

const (
	OpUpsertNote OpKind = "UPSERT_NOTE"
	OpDeleteNote OpKind = "DELETE_NOTE"
)

func (k OpKind) Valid() bool {
	return k == OpUpsertNote || k == OpDeleteNote
}

// Op is one outbox entry: a pending write awaiting delivery to the
// server. Seq is assigned by the store and defines replay order; it is
// strictly monotonic, so two rapid saves of the same note never collide
// the way wall-clock derived ids would.
type Op struct {
	Seq       int64  `json:"seq"`
	Kind      OpKind `json:"kind"`
	NoteID    string `json:"note_id"`
	Payload   string `json:"payload"`
	CreatedAt int64  `json:"created_at"` // epoch millis
}

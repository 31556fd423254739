package sync

// OpDTO is one replayed outbox entry as sent to the server. The seq is
// local bookkeeping and never leaves the device.
type OpDTO struct {
	Kind    string `json:"kind"`
	NoteID  string `json:"noteId"`
	Payload string `json:"payload"`
}

type PushRequest struct {
	Ops []OpDTO `json:"ops"`
}

type PushResponse struct {
	Accepted int `json:"accepted"`
}

// ChangesResponse carries every graph the server has seen change
// strictly after the requested watermark, tombstones included.
type ChangesResponse struct {
	Graphs     []GraphDTO `json:"graphs"`
	ServerTime int64      `json:"serverTime"`
}

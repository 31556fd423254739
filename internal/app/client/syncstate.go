package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	gosync "sync"
)

// SyncStateStore persists the single sync watermark: the epoch-millis
// timestamp of the last successful synchronization. A missing or
// unreadable file reads as zero, which makes the next pull a full one.
type SyncStateStore struct {
	path string
	mu   gosync.Mutex
}

type syncState struct {
	LastSync int64 `json:"last_sync"`
}

func NewSyncStateStore(path string) *SyncStateStore {
	return &SyncStateStore{path: path}
}

func (s *SyncStateStore) LastSync() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return 0
	}

	var st syncState
	if err := json.Unmarshal(data, &st); err != nil {
		return 0
	}
	return st.LastSync
}

func (s *SyncStateStore) SetLastSync(ts int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(syncState{LastSync: ts})
	if err != nil {
		return fmt.Errorf("marshal sync state: %w", err)
	}

	// Write-then-rename so a crash mid-write never leaves a torn file.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write sync state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace sync state: %w", err)
	}
	return nil
}

// Reset drops the watermark entirely.
func (s *SyncStateStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("reset sync state: %w", err)
	}
	return nil
}

package reminder

import (
	"context"
	"errors"
	"fmt"
	gosync "sync"
	"time"

	"golang.org/x/exp/slog"

	"notas/internal/domain/note"
)

// Store is the slice of local storage the scheduler needs.
type Store interface {
	GetNote(ctx context.Context, id string) (*note.Note, error)
	IsCompleted(ctx context.Context, noteID string) (bool, error)
	ReminderByID(ctx context.Context, id int64) (*note.Reminder, error)
	RemindersByNote(ctx context.Context, noteID string) ([]note.Reminder, error)
	FutureReminders(ctx context.Context, nowMillis int64) ([]note.Reminder, error)
	UpdateReminder(ctx context.Context, r note.Reminder) error
	DeleteReminderByID(ctx context.Context, id int64) error
}

// Scheduler arms an in-process timer per pending reminder and drives
// the firing state machine: a fired one-shot reminder is consumed, a
// fired recurring reminder is advanced by its interval and re-armed,
// and reminders for completed or deleted notes are dropped without
// notifying.
type Scheduler struct {
	store    Store
	notifier Notifier
	log      *slog.Logger
	now      func() time.Time

	mu     gosync.Mutex
	timers map[int64]*time.Timer
	closed bool
}

func NewScheduler(store Store, notifier Notifier, log *slog.Logger) *Scheduler {
	return &Scheduler{
		store:    store,
		notifier: notifier,
		log:      log,
		now:      time.Now,
		timers:   make(map[int64]*time.Timer),
	}
}

// Schedule arms a timer for the reminder. Past-due reminders are
// ignored; they will not fire retroactively.
func (s *Scheduler) Schedule(r note.Reminder) {
	nowMillis := s.now().UnixMilli()
	if r.TriggerAt <= nowMillis {
		s.log.Debug("skipping past reminder", "reminder_id", r.ID, "trigger_at", r.TriggerAt)
		return
	}
	delay := time.Duration(r.TriggerAt-nowMillis) * time.Millisecond

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if t, ok := s.timers[r.ID]; ok {
		t.Stop()
	}

	id := r.ID
	s.timers[id] = time.AfterFunc(delay, func() {
		s.onTimer(id)
	})
	s.log.Debug("reminder armed", "reminder_id", id, "in", delay.String())
}

// Cancel disarms a single reminder timer.
func (s *Scheduler) Cancel(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
}

// CancelForNote disarms every reminder timer belonging to the note.
func (s *Scheduler) CancelForNote(ctx context.Context, noteID string) error {
	reminders, err := s.store.RemindersByNote(ctx, noteID)
	if err != nil {
		return fmt.Errorf("list note reminders: %w", err)
	}
	for _, r := range reminders {
		s.Cancel(r.ID)
	}
	return nil
}

// RestoreAll re-arms every future reminder in the store. Run once at
// startup: in-process timers do not survive a restart.
func (s *Scheduler) RestoreAll(ctx context.Context) error {
	reminders, err := s.store.FutureReminders(ctx, s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("load future reminders: %w", err)
	}
	for _, r := range reminders {
		s.Schedule(r)
	}
	s.log.Info("reminders restored", "count", len(reminders))
	return nil
}

// Close disarms all timers. Already-fired callbacks may still finish.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

func (s *Scheduler) onTimer(id int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Fire(ctx, id); err != nil {
		s.log.Error("reminder firing failed", "reminder_id", id, "error", err)
	}
}

// Fire runs the state machine for one due reminder.
func (s *Scheduler) Fire(ctx context.Context, id int64) error {
	s.mu.Lock()
	delete(s.timers, id)
	s.mu.Unlock()

	r, err := s.store.ReminderByID(ctx, id)
	if errors.Is(err, note.ErrNotFound) {
		// deleted between arming and firing
		return nil
	}
	if err != nil {
		return fmt.Errorf("load reminder: %w", err)
	}

	n, err := s.store.GetNote(ctx, r.NoteID)
	if errors.Is(err, note.ErrNotFound) {
		return s.consume(ctx, *r)
	}
	if err != nil {
		return fmt.Errorf("load note: %w", err)
	}
	if n.IsDeleted {
		return s.consume(ctx, *r)
	}

	// A reminder for an already-completed task is consumed before the
	// recurrence check; it never notifies and never re-arms.
	completed, err := s.store.IsCompleted(ctx, r.NoteID)
	if err != nil {
		return fmt.Errorf("check completion: %w", err)
	}
	if completed {
		return s.consume(ctx, *r)
	}

	if err := s.notifier.Notify(*n, *r); err != nil {
		s.log.Error("notification failed", "reminder_id", id, "error", err)
	}

	if r.IsRecurring && r.IntervalMinutes > 0 {
		return s.reschedule(ctx, *r)
	}
	return s.consume(ctx, *r)
}

// reschedule advances a recurring reminder by exactly its interval from
// the old trigger time, keeping the cadence anchored even when the
// firing itself was late.
func (s *Scheduler) reschedule(ctx context.Context, r note.Reminder) error {
	r.TriggerAt += r.IntervalMinutes * 60_000
	if err := s.store.UpdateReminder(ctx, r); err != nil {
		return fmt.Errorf("advance recurring reminder: %w", err)
	}
	s.Schedule(r)
	return nil
}

func (s *Scheduler) consume(ctx context.Context, r note.Reminder) error {
	if err := s.store.DeleteReminderByID(ctx, r.ID); err != nil {
		return fmt.Errorf("consume reminder: %w", err)
	}
	return nil
}

// Armed reports whether a timer is currently registered for the id.
func (s *Scheduler) Armed(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[id]
	return ok
}

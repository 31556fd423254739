package reminder

import (
	"sort"
	"time"

	"notas/internal/domain/note"
)

// Unit is the step unit for pre-deadline reminder generation.
type Unit string

const (
	UnitMinutes Unit = "minutes"
	UnitHours   Unit = "hours"
	UnitDays    Unit = "days"
)

func (u Unit) millis() int64 {
	switch u {
	case UnitHours:
		return int64(time.Hour / time.Millisecond)
	case UnitDays:
		return int64(24 * time.Hour / time.Millisecond)
	default:
		return int64(time.Minute / time.Millisecond)
	}
}

// PreDeadline derives up to count one-shot reminders for a task,
// stepping back from the due time by interval units: due-1·step,
// due-2·step, and so on. Steps already in the past are dropped, and the
// result comes back in ascending trigger order.
func PreDeadline(noteID string, dueAt, nowMillis int64, count int, interval int64, unit Unit) []note.Reminder {
	step := interval * unit.millis()
	if step <= 0 || count <= 0 {
		return nil
	}

	var out []note.Reminder
	for i := 1; i <= count; i++ {
		triggerAt := dueAt - int64(i)*step
		if triggerAt <= nowMillis {
			continue
		}
		out = append(out, note.Reminder{
			NoteID:    noteID,
			TriggerAt: triggerAt,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].TriggerAt < out[j].TriggerAt })
	return out
}

// AtDue derives the reminder that fires exactly at the due time, or nil
// when the due time has already passed.
func AtDue(noteID string, dueAt, nowMillis int64) *note.Reminder {
	if dueAt <= nowMillis {
		return nil
	}
	return &note.Reminder{NoteID: noteID, TriggerAt: dueAt}
}

package reminder

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPreDeadline(t *testing.T) {
	due := int64(10_000 * 60_000) // arbitrary anchor, millis
	minute := int64(60_000)

	t.Run("AllFuture", func(t *testing.T) {
		now := due - 60*minute
		got := PreDeadline("n1", due, now, 3, 10, UnitMinutes)
		require.Len(t, got, 3)
		require.Equal(t, due-30*minute, got[0].TriggerAt)
		require.Equal(t, due-20*minute, got[1].TriggerAt)
		require.Equal(t, due-10*minute, got[2].TriggerAt)
		for _, r := range got {
			require.Equal(t, "n1", r.NoteID)
			require.False(t, r.IsRecurring)
		}
	})

	t.Run("PastStepsDropped", func(t *testing.T) {
		now := due - 25*minute // T-30 already gone
		got := PreDeadline("n1", due, now, 3, 10, UnitMinutes)
		require.Len(t, got, 2)
		require.Equal(t, due-20*minute, got[0].TriggerAt)
		require.Equal(t, due-10*minute, got[1].TriggerAt)
	})

	t.Run("DuePassed", func(t *testing.T) {
		got := PreDeadline("n1", due, due+minute, 3, 10, UnitMinutes)
		require.Empty(t, got)
	})

	t.Run("HourUnit", func(t *testing.T) {
		now := due - 5*60*minute
		got := PreDeadline("n1", due, now, 2, 1, UnitHours)
		require.Len(t, got, 2)
		require.Equal(t, due-2*60*minute, got[0].TriggerAt)
		require.Equal(t, due-60*minute, got[1].TriggerAt)
	})

	t.Run("ZeroCount", func(t *testing.T) {
		require.Empty(t, PreDeadline("n1", due, 0, 0, 10, UnitMinutes))
	})
}

func TestAtDue(t *testing.T) {
	r := AtDue("n1", 2000, 1000)
	require.NotNil(t, r)
	require.Equal(t, int64(2000), r.TriggerAt)

	require.Nil(t, AtDue("n1", 1000, 2000))
	require.Nil(t, AtDue("n1", 1000, 1000))
}

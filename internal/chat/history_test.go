package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func historyMessage(text string) Message {
	return newMessage(text, "Alice", "General", time.Now())
}

func TestHistory_AppendBelowCapacity(t *testing.T) {
	h := NewHistory(5)

	h.Append(historyMessage("one"))
	h.Append(historyMessage("two"))

	snapshot := h.Snapshot()
	require.Len(t, snapshot, 2)
	require.Equal(t, "one", snapshot[0].Msg)
	require.Equal(t, "two", snapshot[1].Msg)
}

func TestHistory_EvictsOldestFirst(t *testing.T) {
	h := NewHistory(3)

	for _, text := range []string{"a", "b", "c", "d", "e"} {
		h.Append(historyMessage(text))
	}

	snapshot := h.Snapshot()
	require.Len(t, snapshot, 3)
	require.Equal(t, "c", snapshot[0].Msg)
	require.Equal(t, "d", snapshot[1].Msg)
	require.Equal(t, "e", snapshot[2].Msg)
}

func TestHistory_NeverExceedsCapacity(t *testing.T) {
	h := NewHistory(5)

	for i := 0; i < 50; i++ {
		h.Append(historyMessage("text"))
		require.LessOrEqual(t, h.Len(), 5)
	}
}

func TestHistory_EmptySnapshot(t *testing.T) {
	h := NewHistory(5)

	snapshot := h.Snapshot()
	require.NotNil(t, snapshot)
	require.Empty(t, snapshot)
}

func TestHistory_SnapshotIsACopy(t *testing.T) {
	h := NewHistory(5)
	h.Append(historyMessage("original"))

	snapshot := h.Snapshot()
	snapshot[0].Msg = "tampered"

	require.Equal(t, "original", h.Snapshot()[0].Msg)
}

func TestHistory_NonPositiveCapacityUsesDefault(t *testing.T) {
	h := NewHistory(0)

	for i := 0; i < DefaultHistorySize+3; i++ {
		h.Append(historyMessage("text"))
	}

	require.Equal(t, DefaultHistorySize, h.Len())
}

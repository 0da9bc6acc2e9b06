// Package chat keeps a bounded buffer of recent messages per room so new
// joiners can be caught up without any persistent storage.
package chat

// History is a fixed-capacity FIFO buffer of the most recent messages in a
// room, oldest first. It is not safe for concurrent use on its own; the
// owning Room's lock guards it.
type History struct {
	capacity int
	entries  []Message
}

// NewHistory creates a History retaining at most capacity messages.
// A non-positive capacity falls back to DefaultHistorySize.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	return &History{
		capacity: capacity,
		entries:  make([]Message, 0, capacity),
	}
}

// Append pushes a message onto the buffer, evicting the oldest entry when
// the buffer is already full.
func (h *History) Append(m Message) {
	if len(h.entries) == h.capacity {
		copy(h.entries, h.entries[1:])
		h.entries = h.entries[:h.capacity-1]
	}
	h.entries = append(h.entries, m)
}

// Snapshot returns the buffered messages in chronological order. The result
// is a copy; it never aliases the buffer and is never nil-checked by
// callers, so an empty history yields an empty slice.
func (h *History) Snapshot() []Message {
	out := make([]Message, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len reports the number of buffered messages.
func (h *History) Len() int {
	return len(h.entries)
}

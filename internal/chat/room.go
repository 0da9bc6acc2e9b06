// Package chat models the fixed set of named rooms: per-room membership,
// bounded history, and atomic fan-out of room events.
package chat

import (
	"sync"
	"time"

	"github.com/samber/lo"
)

// DefaultHistorySize is the number of recent messages retained per room
// when no explicit capacity is configured.
const DefaultHistorySize = 5

// Room is one named broadcast channel. Rooms are created once from
// configuration and never destroyed at runtime.
//
// The room lock covers both the member map and the history buffer. Fan-out
// happens while the lock is held: sends are non-blocking enqueues onto
// buffered channels, and holding the lock across them keeps broadcast order
// identical to history order within the room.
type Room struct {
	name    string
	mu      sync.RWMutex
	members map[string]Sender
	history *History

	// lastStamp is the timestamp of the most recently posted message.
	// Posts clamp to it so history timestamps never decrease even when
	// racing senders read their clocks in the opposite order.
	lastStamp time.Time
}

func newRoom(name string, historySize int) *Room {
	return &Room{
		name:    name,
		members: make(map[string]Sender),
		history: NewHistory(historySize),
	}
}

// Name returns the configured room name.
func (r *Room) Name() string {
	return r.name
}

// Members returns a snapshot of the member connection IDs.
func (r *Room) Members() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Keys(r.members)
}

// Contains reports whether the connection is currently a member.
func (r *Room) Contains(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.members[id]
	return ok
}

// HistorySnapshot returns the room's buffered messages, oldest first.
func (r *Room) HistorySnapshot() []Message {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.history.Snapshot()
}

// enter adds the connection to the broadcast group, replays the current
// history to it alone, and announces the join to every member including the
// joiner. Returns the senders whose buffers were full.
func (r *Room) enter(id string, sender Sender, status StatusEvent) []Sender {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.members[id] = sender

	var failed []Sender
	if !sender.Send(newHistoryEvent(r.name, r.history.Snapshot())) {
		failed = append(failed, sender)
	}
	return append(failed, r.fanoutLocked(status)...)
}

// depart removes the connection from the broadcast group and announces the
// leave to the remaining members. Removing a non-member is a no-op, but the
// announcement still goes out, matching the join announcement's shape.
func (r *Room) depart(id string, status StatusEvent) []Sender {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.members, id)
	return r.fanoutLocked(status)
}

// evict silently removes the connection, with no announcement. Used on
// disconnect, which is invisible to the remaining room members.
func (r *Room) evict(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members, id)
}

// post appends the message to the room history and fans it out to the
// current members. Append and fan-out are atomic per room, and the message
// timestamp is clamped under the lock so it is non-decreasing in history
// order.
func (r *Room) post(msg Message) []Sender {
	r.mu.Lock()
	defer r.mu.Unlock()

	if msg.Timestamp.Before(r.lastStamp) {
		msg.Timestamp = r.lastStamp
	} else {
		r.lastStamp = msg.Timestamp
	}

	r.history.Append(msg)
	return r.fanoutLocked(msg)
}

func (r *Room) fanoutLocked(event any) []Sender {
	var failed []Sender
	for _, sender := range r.members {
		if !sender.Send(event) {
			failed = append(failed, sender)
		}
	}
	return failed
}

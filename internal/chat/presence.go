// Package chat tracks which connections are live, what display name each
// one carries, and which room (if any) it currently occupies.
package chat

import (
	"sync"
	"time"

	"github.com/samber/lo"
)

// Participant is a point-in-time view of one registered connection. The
// registry owns the live entry exclusively; callers only ever see copies.
type Participant struct {
	ID          string
	Name        string
	ConnectedAt time.Time
	Room        string
}

type presenceEntry struct {
	Participant
	sender Sender
}

// Presence is the registry of live connections. All methods are safe for
// concurrent use.
type Presence struct {
	mu      sync.RWMutex
	entries map[string]*presenceEntry
}

// NewPresence creates an empty registry.
func NewPresence() *Presence {
	return &Presence{entries: make(map[string]*presenceEntry)}
}

// Register inserts a participant with no room. Registering an already-known
// connection overwrites the previous entry.
func (p *Presence) Register(id, name string, sender Sender, now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.entries[id] = &presenceEntry{
		Participant: Participant{ID: id, Name: name, ConnectedAt: now},
		sender:      sender,
	}
}

// Unregister removes and returns the participant. A double disconnect is a
// no-op reported through the second return value.
func (p *Presence) Unregister(id string) (Participant, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry, ok := p.entries[id]
	if !ok {
		return Participant{}, false
	}
	delete(p.entries, id)
	return entry.Participant, true
}

// Get returns a snapshot of the participant for a known connection.
func (p *Presence) Get(id string) (Participant, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	entry, ok := p.entries[id]
	if !ok {
		return Participant{}, false
	}
	return entry.Participant, true
}

// SetRoom updates the stored room for a known connection. Pass an empty
// room to clear it. Returns false for an unknown connection.
func (p *Presence) SetRoom(id, room string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry, ok := p.entries[id]
	if !ok {
		return false
	}
	entry.Room = room
	return true
}

// Names returns the display names of all registered participants in
// registry iteration order. The order is not stable across calls.
func (p *Presence) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return lo.Map(lo.Values(p.entries), func(e *presenceEntry, _ int) string {
		return e.Name
	})
}

// SenderFor returns the delivery handle for a known connection.
func (p *Presence) SenderFor(id string) (Sender, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	entry, ok := p.entries[id]
	if !ok {
		return nil, false
	}
	return entry.sender, true
}

// FindByName returns the delivery handles of every connection currently
// using the given display name. Names are not unique; zero, one, or many
// matches are all valid outcomes.
func (p *Presence) FindByName(name string) []Sender {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return lo.FilterMap(lo.Values(p.entries), func(e *presenceEntry, _ int) (Sender, bool) {
		return e.sender, e.Name == name
	})
}

// Senders returns the delivery handles of all registered participants.
func (p *Presence) Senders() []Sender {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return lo.Map(lo.Values(p.entries), func(e *presenceEntry, _ int) Sender {
		return e.sender
	})
}

// Len reports the number of registered participants.
func (p *Presence) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.entries)
}

// Package chat coordinates connection lifecycle, room membership, and
// message routing for the chat hub via the Hub type.
package chat

import (
	"log/slog"
	"strings"
	"time"
)

// Sender is the transport-side delivery handle for one connection. Send is
// a best-effort, non-blocking enqueue: it returns false when the connection
// is closed or its buffer is full, and must never block. Close releases the
// connection and must be safe to call more than once.
type Sender interface {
	Send(event any) bool
	Close()
}

// Options configures a Hub.
type Options struct {
	// Rooms is the fixed, ordered list of room names. The set cannot change
	// at runtime.
	Rooms []string

	// HistorySize is the per-room history capacity. Zero means
	// DefaultHistorySize.
	HistorySize int
}

// Hub is the connection lifecycle manager and message router. It owns the
// presence registry and the room set, and holds no state of its own between
// events; locking is per registry and per room, never global.
type Hub struct {
	presence *Presence
	rooms    map[string]*Room
	order    []string
	log      *slog.Logger
}

// NewHub creates a Hub serving the configured rooms.
func NewHub(opts Options, log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}

	rooms := make(map[string]*Room, len(opts.Rooms))
	order := make([]string, 0, len(opts.Rooms))
	for _, name := range opts.Rooms {
		if _, ok := rooms[name]; ok {
			continue
		}
		rooms[name] = newRoom(name, opts.HistorySize)
		order = append(order, name)
	}

	return &Hub{
		presence: NewPresence(),
		rooms:    rooms,
		order:    order,
		log:      log,
	}
}

// RoomNames returns the configured room names in configuration order.
func (h *Hub) RoomNames() []string {
	out := make([]string, len(h.order))
	copy(out, h.order)
	return out
}

// Room returns the named room, if configured.
func (h *Hub) Room(name string) (*Room, bool) {
	r, ok := h.rooms[name]
	return r, ok
}

// Roster returns the display names of all connected participants.
func (h *Hub) Roster() []string {
	return h.presence.Names()
}

// Connect registers a new connection under the supplied display name and
// broadcasts the updated roster to every connection, including the new one.
func (h *Hub) Connect(id, name string, sender Sender, now time.Time) {
	h.presence.Register(id, name, sender, now)
	h.log.Info("user connected", "connection", id, "username", name)
	h.broadcastRoster()
}

// Disconnect removes a connection. If it was in a room it is silently
// evicted; the remaining members see no leave announcement, only the
// updated roster. Disconnecting an unknown connection is a no-op.
func (h *Hub) Disconnect(id string) {
	p, ok := h.presence.Unregister(id)
	if !ok {
		return
	}
	if p.Room != "" {
		if room, exists := h.rooms[p.Room]; exists {
			room.evict(id)
		}
	}
	h.log.Info("user disconnected", "connection", id, "username", p.Name)
	h.broadcastRoster()
}

// Route dispatches one inbound event for the given connection. Returned
// errors are addressing failures the transport layer reports back to the
// sender; unknown event names are logged and dropped.
func (h *Hub) Route(id string, in Inbound, now time.Time) error {
	switch in.Event {
	case EventJoin:
		return h.Join(id, in.Room, now)
	case EventLeave:
		return h.Leave(id, in.Room, now)
	case EventMessage:
		return h.message(id, in, now)
	default:
		h.log.Warn("dropping unknown event", "connection", id, "event", in.Event)
		return nil
	}
}

// Join adds the connection to the named room's broadcast group, replays the
// room history to the joiner alone, and announces the join to the whole
// room. A connection occupies at most one room: joining while already in a
// different room leaves that room first, with a leave announcement.
//
// Returns ErrInvalidRoom, with no mutation, when the room is not in the
// configured set.
func (h *Hub) Join(id, roomName string, now time.Time) error {
	room, ok := h.rooms[roomName]
	if !ok {
		return ErrInvalidRoom
	}

	p, ok := h.presence.Get(id)
	if !ok {
		return ErrUnknownConnection
	}
	sender, ok := h.presence.SenderFor(id)
	if !ok {
		return ErrUnknownConnection
	}

	if p.Room != "" && p.Room != roomName {
		h.leaveRoom(id, p.Name, p.Room, now)
	}

	h.presence.SetRoom(id, roomName)
	status := newStatusEvent(roomName, p.Name+" has entered the room.", StatusJoin, now)
	h.drop(room.enter(id, sender, status))

	h.log.Info("user joined room", "username", p.Name, "room", roomName)
	return nil
}

// Leave removes the connection from the named room and announces the leave
// to the remaining members. Leaving a room the connection is not currently
// in is a no-op: no announcement, and the connection's actual room
// membership is untouched. Returns ErrInvalidRoom for a room outside the
// configured set.
func (h *Hub) Leave(id, roomName string, now time.Time) error {
	if _, ok := h.rooms[roomName]; !ok {
		return ErrInvalidRoom
	}

	p, ok := h.presence.Get(id)
	if !ok {
		return ErrUnknownConnection
	}
	if p.Room != roomName {
		return nil
	}

	h.leaveRoom(id, p.Name, roomName, now)
	h.log.Info("user left room", "username", p.Name, "room", roomName)
	return nil
}

func (h *Hub) leaveRoom(id, name, roomName string, now time.Time) {
	room, ok := h.rooms[roomName]
	if !ok {
		return
	}
	if !h.presence.SetRoom(id, "") {
		h.log.Warn("room cleared for unknown connection", "connection", id)
	}
	status := newStatusEvent(roomName, name+" has left the room.", StatusLeave, now)
	h.drop(room.depart(id, status))
}

// message implements the router's state machine for one inbound chat event:
// trim, pick the private or room path, deliver, and update history on the
// room path.
func (h *Hub) message(id string, in Inbound, now time.Time) error {
	p, ok := h.presence.Get(id)
	if !ok {
		return ErrUnknownConnection
	}

	text := strings.TrimSpace(in.Msg)
	if text == "" {
		// Accidental empty sends are dropped without error or broadcast.
		return nil
	}

	if in.Type == KindPrivate {
		return h.routePrivate(p.Name, text, in.Target, now)
	}
	return h.routeRoom(p.Name, text, in.Room, now)
}

func (h *Hub) routePrivate(from, text, target string, now time.Time) error {
	target = strings.TrimSpace(target)
	if target == "" {
		return ErrNoTarget
	}

	recipients := h.presence.FindByName(target)
	if len(recipients) == 0 {
		return &TargetNotFoundError{Target: target}
	}

	// Display names are not unique: every matching connection gets its own
	// copy, duplicates included.
	event := newPrivateMessageEvent(text, from, target, now)
	for _, recipient := range recipients {
		if !recipient.Send(event) {
			h.drop([]Sender{recipient})
		}
	}

	h.log.Info("private message delivered", "from", from, "to", target, "recipients", len(recipients))
	return nil
}

func (h *Hub) routeRoom(from, text, roomName string, now time.Time) error {
	room, ok := h.rooms[roomName]
	if !ok {
		return ErrInvalidRoom
	}

	msg := newMessage(text, from, roomName, now)
	h.drop(room.post(msg))

	h.log.Info("room message", "username", from, "room", roomName)
	return nil
}

func (h *Hub) broadcastRoster() {
	event := newRosterEvent(h.presence.Names())
	for _, sender := range h.presence.Senders() {
		if !sender.Send(event) {
			h.drop([]Sender{sender})
		}
	}
}

// drop closes connections whose send buffers were full. Closing tears down
// the transport, which reports the disconnect back through Disconnect and
// cleans up presence the normal way.
func (h *Hub) drop(failed []Sender) {
	for _, sender := range failed {
		h.log.Warn("closing connection with full send buffer")
		sender.Close()
	}
}

// Package chat defines the wire-level event contract exchanged with clients.
// Every outbound frame carries an "event" discriminator so clients can
// dispatch on a single JSON shape.
package chat

import (
	"errors"
	"fmt"
	"time"
)

// Outbound event names.
const (
	EventActiveUsers    = "active_users"
	EventHistory        = "history"
	EventStatus         = "status"
	EventMessage        = "message"
	EventPrivateMessage = "private_message"
	EventError          = "error"
)

// Inbound event names.
const (
	EventJoin  = "join"
	EventLeave = "leave"
)

// Message kinds carried in the "type" field of inbound message events.
const (
	KindRoom    = "message"
	KindPrivate = "private"
)

// Status types carried in status announcements.
const (
	StatusJoin  = "join"
	StatusLeave = "leave"
)

// Inbound is one decoded client frame. Room, Type, Msg, and Target are
// meaningful depending on Event; unknown event names are dropped by Route.
type Inbound struct {
	Event  string `json:"event"`
	Room   string `json:"room,omitempty"`
	Type   string `json:"type,omitempty"`
	Msg    string `json:"msg,omitempty"`
	Target string `json:"target,omitempty"`
}

// Message is one broadcast chat entry. Messages are immutable once created;
// the author is the sender's display name at send time and is never
// re-resolved.
type Message struct {
	Event     string    `json:"event"`
	Msg       string    `json:"msg"`
	Username  string    `json:"username"`
	Room      string    `json:"room"`
	Timestamp time.Time `json:"timestamp"`
}

func newMessage(text, author, room string, now time.Time) Message {
	return Message{
		Event:     EventMessage,
		Msg:       text,
		Username:  author,
		Room:      room,
		Timestamp: now,
	}
}

// RosterEvent carries the full display-name list of connected participants.
// It is broadcast to every connection on each connect and disconnect.
type RosterEvent struct {
	Event string   `json:"event"`
	Users []string `json:"users"`
}

func newRosterEvent(users []string) RosterEvent {
	return RosterEvent{Event: EventActiveUsers, Users: users}
}

// HistoryEvent replays a room's recent messages to a newly joined
// connection. It is always unicast, never broadcast.
type HistoryEvent struct {
	Event    string    `json:"event"`
	Room     string    `json:"room"`
	Messages []Message `json:"messages"`
}

func newHistoryEvent(room string, messages []Message) HistoryEvent {
	return HistoryEvent{Event: EventHistory, Room: room, Messages: messages}
}

// StatusEvent announces a join or leave to every member of a room.
type StatusEvent struct {
	Event     string    `json:"event"`
	Room      string    `json:"room"`
	Msg       string    `json:"msg"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

func newStatusEvent(room, msg, statusType string, now time.Time) StatusEvent {
	return StatusEvent{
		Event:     EventStatus,
		Room:      room,
		Msg:       msg,
		Type:      statusType,
		Timestamp: now,
	}
}

// PrivateMessageEvent is routed once to each connection matching the target
// display name. It is never stored.
type PrivateMessageEvent struct {
	Event     string    `json:"event"`
	Msg       string    `json:"msg"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Timestamp time.Time `json:"timestamp"`
}

func newPrivateMessageEvent(text, from, to string, now time.Time) PrivateMessageEvent {
	return PrivateMessageEvent{
		Event:     EventPrivateMessage,
		Msg:       text,
		From:      from,
		To:        to,
		Timestamp: now,
	}
}

// ErrorEvent is unicast to the connection whose request failed.
type ErrorEvent struct {
	Event   string `json:"event"`
	Message string `json:"message"`
}

// ErrorEventFrom converts a routing error into the user-facing error event
// delivered back to the originating connection.
func ErrorEventFrom(err error) ErrorEvent {
	var notFound *TargetNotFoundError

	msg := "Internal error."
	switch {
	case errors.As(err, &notFound):
		msg = fmt.Sprintf("User %s not found.", notFound.Target)
	case errors.Is(err, ErrInvalidRoom):
		msg = "Invalid room."
	case errors.Is(err, ErrNoTarget):
		msg = "No target user specified."
	}

	return ErrorEvent{Event: EventError, Message: msg}
}

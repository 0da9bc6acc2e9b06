// Package chat implements the core of the room-based chat hub: presence
// tracking, room membership with bounded message history, broadcast and
// private-message routing, and connection lifecycle management.
//
// The package is transport-agnostic. Connections are represented by opaque
// identifiers paired with a Sender, the best-effort delivery handle the
// transport layer supplies at connect time. All state lives in process
// memory and is lost on restart.
package chat

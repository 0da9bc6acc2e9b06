// Package server implements the HTTP and WebSocket transport in front of
// the chat hub.
//
// The implementation is organized into specialized files for configuration,
// gateway management, clients, routing, and HTTP handlers to keep the
// codebase maintainable and testable as the project grows. Chat semantics
// themselves live in roomchat/internal/chat; this package only moves frames
// between sockets and the hub.
package server

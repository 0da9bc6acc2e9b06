// Package testhelpers provides common utilities for testing the roomchat
// server.
//
// It contains reusable helpers shared across integration tests: dialing
// WebSocket connections against a test server, sending protocol events,
// and waiting for specific outbound event types, to reduce duplication in
// test files.
package testhelpers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// Event is one decoded outbound frame. Frames are heterogeneous, so tests
// work with the generic map form and pick fields per event type.
type Event map[string]any

// Name returns the frame's event discriminator.
func (e Event) Name() string {
	name, _ := e["event"].(string)
	return name
}

// Connect dials the test server's WebSocket endpoint under the given
// display name. The Origin header is set to the server's own URL.
func Connect(t *testing.T, serverURL, name string) *websocket.Conn {
	t.Helper()

	u, err := url.Parse(serverURL)
	if err != nil {
		t.Fatalf("Failed to parse test server URL: %v", err)
	}
	u.Scheme = "ws"
	u.Path = "/ws"
	u.RawQuery = url.Values{"name": {name}}.Encode()

	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	headers := http.Header{}
	headers.Set("Origin", serverURL)

	conn, resp, err := dialer.Dial(u.String(), headers)
	if resp != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket as %s: %v", name, err)
	}

	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// SendEvent writes one inbound frame as JSON.
func SendEvent(t *testing.T, conn *websocket.Conn, event any) {
	t.Helper()
	if err := conn.WriteJSON(event); err != nil {
		t.Fatalf("Failed to send event: %v", err)
	}
}

// ReadEvent reads the next frame, failing the test after the timeout.
func ReadEvent(t *testing.T, conn *websocket.Conn, timeout time.Duration) Event {
	t.Helper()

	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		t.Fatalf("Failed to set read deadline: %v", err)
	}

	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read event: %v", err)
	}

	var event Event
	if err := json.Unmarshal(raw, &event); err != nil {
		t.Fatalf("Failed to decode event %q: %v", raw, err)
	}
	return event
}

// WaitForEvent reads frames until one matches the wanted event name,
// discarding the rest. Broadcasts such as roster updates arrive
// interleaved with the frames a test cares about.
func WaitForEvent(t *testing.T, conn *websocket.Conn, name string, timeout time.Duration) Event {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			t.Fatalf("Timed out waiting for %q event", name)
		}
		event := ReadEvent(t, conn, remaining)
		if event.Name() == name {
			return event
		}
	}
}

// ExpectNoEvent asserts that no frame with the given name arrives within
// the window. Other frames are tolerated and discarded.
func ExpectNoEvent(t *testing.T, conn *websocket.Conn, name string, window time.Duration) {
	t.Helper()

	deadline := time.Now().Add(window)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return
		}
		if err := conn.SetReadDeadline(time.Now().Add(remaining)); err != nil {
			t.Fatalf("Failed to set read deadline: %v", err)
		}
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var event Event
		if err := json.Unmarshal(raw, &event); err != nil {
			continue
		}
		if event.Name() == name {
			t.Fatalf("Expected no %q event, but received %v", name, event)
		}
	}
}

// Users extracts the roster list from an active_users event.
func Users(event Event) []string {
	raw, _ := event["users"].([]any)
	users := make([]string, 0, len(raw))
	for _, u := range raw {
		if s, ok := u.(string); ok {
			users = append(users, s)
		}
	}
	return users
}

// CloseWebSocket gracefully closes a WebSocket connection.
func CloseWebSocket(conn *websocket.Conn) error {
	err := conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	if err != nil {
		return err
	}
	return conn.Close()
}

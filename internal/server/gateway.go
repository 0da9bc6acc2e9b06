// Package server coordinates WebSocket upgrades, client tracking, and
// graceful connection teardown for the roomchat service via the Gateway
// type.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"roomchat/internal/chat"
)

// Gateway is the transport boundary in front of the chat hub. It owns the
// WebSocket upgrader, the set of live clients, and shutdown coordination;
// all chat semantics live in the hub.
type Gateway struct {
	cfg     *Config
	hub     *chat.Hub
	log     *slog.Logger
	origins *originPolicy

	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*Client]struct{}
	wg      sync.WaitGroup
}

// NewGateway creates a Gateway serving the given hub under the given
// configuration.
func NewGateway(cfg *Config, hub *chat.Hub, log *slog.Logger) *Gateway {
	if log == nil {
		log = slog.Default()
	}

	g := &Gateway{
		cfg:     cfg,
		hub:     hub,
		log:     log,
		origins: newOriginPolicy(cfg.AllowedOrigins),
		clients: make(map[*Client]struct{}),
	}
	g.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     g.checkOrigin,
	}
	return g
}

// Hub returns the chat hub behind this gateway.
func (g *Gateway) Hub() *chat.Hub {
	return g.hub
}

func (g *Gateway) checkOrigin(r *http.Request) bool {
	if g.origins.allow(r) {
		return true
	}
	g.log.Warn("blocked websocket connection from disallowed origin",
		"origin", r.Header.Get("Origin"))
	return false
}

// track registers a freshly upgraded client and starts its pumps.
func (g *Gateway) track(client *Client) {
	g.mu.Lock()
	g.clients[client] = struct{}{}
	g.mu.Unlock()

	g.wg.Add(2)
	go func() {
		defer g.wg.Done()
		client.writePump()
	}()
	go func() {
		defer g.wg.Done()
		client.readPump()
	}()
}

// release runs when a client's read pump ends for any reason: it withdraws
// the connection from the hub, forgets the client, and closes the socket.
func (g *Gateway) release(client *Client) {
	g.hub.Disconnect(client.id)

	g.mu.Lock()
	delete(g.clients, client)
	g.mu.Unlock()

	client.Close()
}

func (g *Gateway) clientSnapshot() []*Client {
	g.mu.Lock()
	defer g.mu.Unlock()

	clients := make([]*Client, 0, len(g.clients))
	for client := range g.clients {
		clients = append(clients, client)
	}
	return clients
}

// Shutdown closes every live connection and waits for the pump goroutines
// to finish, or until the timeout is reached.
func (g *Gateway) Shutdown(timeout time.Duration) error {
	clients := g.clientSnapshot()
	g.log.Info("closing client connections", "count", len(clients))
	for _, client := range clients {
		client.Close()
	}

	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		g.log.Info("gateway shutdown completed")
		return nil
	case <-time.After(timeout):
		g.log.Warn("gateway shutdown timeout reached, some goroutines may still be running")
		return context.DeadlineExceeded
	}
}

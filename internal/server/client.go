// Package server manages individual WebSocket clients, handling read/write
// pumps, rate limiting, and lifecycle control for each connection.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"roomchat/internal/chat"
)

const (
	// writeWait is the maximum time allowed to write one frame to the peer.
	writeWait = 10 * time.Second

	// pongWait is how long to wait for the peer's next pong.
	pongWait = 60 * time.Second

	// pingPeriod must be shorter than pongWait so pings keep the read
	// deadline alive.
	pingPeriod = (pongWait * 9) / 10
)

// Client is one WebSocket connection. It implements chat.Sender: the hub
// enqueues outbound events onto the buffered send channel and the write
// pump marshals them to JSON frames.
type Client struct {
	id      string
	name    string
	conn    *websocket.Conn
	gateway *Gateway
	send    chan any
	done    chan struct{}
	once    sync.Once
	limiter *rateLimiter
	log     *slog.Logger
}

func newClient(conn *websocket.Conn, gateway *Gateway, id, name string) *Client {
	cfg := gateway.cfg
	conn.SetReadLimit(cfg.MaxMessageSize)

	return &Client{
		id:      id,
		name:    name,
		conn:    conn,
		gateway: gateway,
		send:    make(chan any, cfg.SendBufferSize),
		done:    make(chan struct{}),
		limiter: newRateLimiter(cfg.RateLimitBurst, cfg.RateLimitRefillInterval),
		log:     gateway.log.With("connection", id, "username", name),
	}
}

// ID returns the opaque connection identifier assigned at upgrade time.
func (c *Client) ID() string {
	return c.id
}

// Send enqueues an outbound event without blocking. It returns false when
// the connection is closed or the buffer is full; the hub treats a false
// return as a dead connection.
func (c *Client) Send(event any) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- event:
		return true
	case <-c.done:
		return false
	default:
		return false
	}
}

// Close tears the connection down. It is safe to call repeatedly and from
// any goroutine; the pumps observe the done channel and exit.
func (c *Client) Close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

func (c *Client) setupReadConnection() {
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.Warn("setting initial read deadline failed", "error", err)
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
}

// handleReadError logs the read failure at a severity matching how expected
// it is. Every read error ends the pump.
func (c *Client) handleReadError(err error) {
	switch {
	case errors.Is(err, websocket.ErrReadLimit):
		c.log.Warn("message exceeded maximum size", "limit", c.gateway.cfg.MaxMessageSize)
	case websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure):
		c.log.Info("client disconnected", "reason", err)
	case errors.Is(err, io.EOF), isExpectedCloseError(err):
		c.log.Info("connection closed", "reason", err)
	default:
		c.log.Warn("websocket read error", "error", err)
	}
}

// processFrame decodes one inbound frame and routes it through the hub.
// Routing errors are reported back to this connection only; a fault in one
// client's event never disturbs the others.
func (c *Client) processFrame(raw []byte) {
	var in chat.Inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		c.log.Warn("dropping malformed frame", "error", err)
		return
	}

	if err := c.gateway.hub.Route(c.id, in, time.Now()); err != nil {
		if errors.Is(err, chat.ErrUnknownConnection) {
			c.log.Debug("event for unregistered connection dropped")
			return
		}
		c.log.Info("event rejected", "event", in.Event, "error", err)
		c.Send(chat.ErrorEventFrom(err))
	}
}

func (c *Client) readPump() {
	defer func() {
		c.gateway.release(c)
	}()

	c.setupReadConnection()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			c.handleReadError(err)
			return
		}

		if !c.limiter.allow() {
			c.log.Warn("rate limit exceeded, discarding message",
				"burst", c.gateway.cfg.RateLimitBurst,
				"interval", c.gateway.cfg.RateLimitRefillInterval)
			continue
		}

		c.processFrame(raw)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case event := <-c.send:
			if err := c.writeEvent(event); err != nil {
				if !isExpectedCloseError(err) {
					c.log.Warn("websocket write error", "error", err)
				}
				return
			}
		case <-ticker.C:
			if err := c.writePing(); err != nil {
				return
			}
		case <-c.done:
			c.writeClose()
			return
		}
	}
}

func (c *Client) writeEvent(event any) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(event)
}

func (c *Client) writePing() error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

func (c *Client) writeClose() {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// isExpectedCloseError checks if an error is expected during connection
// closure.
func isExpectedCloseError(err error) bool {
	if err == nil {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "use of closed network connection") ||
		strings.Contains(errStr, "websocket: close sent") ||
		strings.Contains(errStr, "broken pipe")
}

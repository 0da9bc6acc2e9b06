// Package server exposes HTTP handlers: the chat page, WebSocket upgrades,
// the room list, and health checks.
package server

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/google/uuid"

	"roomchat/internal/identity"
)

// usernameCookie carries the session's display name between the index page
// and the WebSocket upgrade.
const usernameCookie = "chat_username"

// displayName resolves the connection's display name: the session cookie
// wins, then an explicit ?name= query parameter, then a generated guest
// name. The core never sees where the name came from.
func displayName(r *http.Request) string {
	if cookie, err := r.Cookie(usernameCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if name := r.URL.Query().Get("name"); name != "" {
		return name
	}
	return identity.Generate(time.Now())
}

// WebSocketHandler upgrades the HTTP connection, registers the client with
// the hub under its resolved display name, and starts the client's pumps.
// An upgrade failure is the rejected-connection path; nothing is registered.
func (g *Gateway) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. WebSocket endpoint only accepts GET requests.", http.StatusMethodNotAllowed)
		return
	}

	name := displayName(r)

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := newClient(conn, g, uuid.NewString(), name)
	// Register before the pumps start so a frame sent right after the
	// handshake cannot race ahead of registration. The roster event
	// enqueued here waits in the buffered send channel until the write
	// pump runs.
	g.hub.Connect(client.id, name, client, time.Now())
	g.track(client)
}

// HealthHandler provides a simple health check endpoint that returns server
// status.
func (g *Gateway) HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = fmt.Fprintf(w, "roomchat server is running!")
}

// RoomsHandler returns the configured room list as JSON.
func (g *Gateway) RoomsHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string][]string{
		"rooms": g.hub.RoomNames(),
	})
}

// IndexHandler serves the chat page. First visits get a generated guest
// name set as a session cookie; the page connects back over /ws with it.
func (g *Gateway) IndexHandler(w http.ResponseWriter, r *http.Request) {
	name := displayName(r)
	if _, err := r.Cookie(usernameCookie); err != nil {
		http.SetCookie(w, &http.Cookie{
			Name:     usernameCookie,
			Value:    name,
			Path:     "/",
			HttpOnly: false,
			SameSite: http.SameSiteLaxMode,
		})
		g.log.Info("new user session created", "username", name)
	}

	w.Header().Set("Content-Type", "text/html")
	err := indexTemplate.Execute(w, struct {
		Username string
		Rooms    []string
	}{
		Username: name,
		Rooms:    g.hub.RoomNames(),
	})
	if err != nil {
		g.log.Warn("rendering index page failed", "error", err)
	}
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>roomchat</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        #messages {
            border: 1px solid #ccc;
            height: 300px;
            padding: 10px;
            overflow-y: scroll;
            margin: 10px 0;
            background-color: #f9f9f9;
        }
        .rooms button { margin-right: 5px; }
        .status { color: gray; font-style: italic; }
        .private { color: purple; }
        input[type="text"] { width: 280px; padding: 5px; margin-right: 5px; }
    </style>
</head>
<body>
    <h1>roomchat</h1>
    <div>You are <strong id="username">{{.Username}}</strong></div>
    <div class="rooms">
        {{range .Rooms}}<button onclick="joinRoom('{{.}}')">{{.}}</button>{{end}}
    </div>
    <div>Online: <span id="roster"></span></div>
    <div id="messages"></div>
    <div>
        <input type="text" id="messageInput" placeholder="Type a message...">
        <input type="text" id="targetInput" placeholder="Private target (optional)">
        <button onclick="sendMessage()">Send</button>
    </div>

    <script>
        let room = null;
        const ws = new WebSocket('ws://' + location.host + '/ws');
        const messages = document.getElementById('messages');

        function show(text, cls) {
            const div = document.createElement('div');
            if (cls) div.className = cls;
            div.textContent = text;
            messages.appendChild(div);
            messages.scrollTop = messages.scrollHeight;
        }

        ws.onmessage = function(e) {
            const ev = JSON.parse(e.data);
            switch (ev.event) {
            case 'active_users':
                document.getElementById('roster').textContent = ev.users.join(', ');
                break;
            case 'history':
                ev.messages.forEach(m => show(m.username + ': ' + m.msg));
                break;
            case 'status':
                show(ev.msg, 'status');
                break;
            case 'message':
                show(ev.username + ': ' + ev.msg);
                break;
            case 'private_message':
                show('[private] ' + ev.from + ': ' + ev.msg, 'private');
                break;
            case 'error':
                show('Error: ' + ev.message, 'status');
                break;
            }
        };

        function joinRoom(name) {
            room = name;
            show('--- ' + name + ' ---', 'status');
            ws.send(JSON.stringify({event: 'join', room: name}));
        }

        function sendMessage() {
            const input = document.getElementById('messageInput');
            const target = document.getElementById('targetInput').value.trim();
            if (!input.value) return;
            if (target) {
                ws.send(JSON.stringify({event: 'message', type: 'private', target: target, msg: input.value}));
            } else if (room) {
                ws.send(JSON.stringify({event: 'message', room: room, msg: input.value}));
            }
            input.value = '';
        }

        document.getElementById('messageInput').addEventListener('keypress', function(e) {
            if (e.key === 'Enter') sendMessage();
        });
    </script>
</body>
</html>`))

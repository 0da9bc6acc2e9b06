// Package server wires HTTP handlers into a gorilla/mux router with CORS
// applied for the roomchat application.
package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// Routes configures the application's HTTP surface: chat page, WebSocket
// endpoint, room list, and health check, wrapped with the configured CORS
// policy.
func (g *Gateway) Routes() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/", g.IndexHandler).Methods(http.MethodGet)
	router.HandleFunc("/health", g.HealthHandler).Methods(http.MethodGet)
	router.HandleFunc("/rooms", g.RoomsHandler).Methods(http.MethodGet)
	router.HandleFunc("/ws", g.WebSocketHandler).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins:   g.cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})
	return c.Handler(router)
}

package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roomchat/internal/chat"
	"roomchat/internal/server"
)

func main() {
	cfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("loading configuration failed", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	hub := chat.NewHub(chat.Options{
		Rooms:       cfg.Rooms,
		HistorySize: cfg.HistorySize,
	}, logger)
	gateway := server.NewGateway(cfg, hub, logger)

	srv := server.CreateServer(cfg.Port, gateway.Routes())
	logger.Info("starting roomchat server", "addr", cfg.Port, "rooms", cfg.Rooms)

	go func() {
		if err := server.StartServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("received signal, shutting down", "signal", sig.String())

	if err := server.ShutdownServer(srv, 30*time.Second); err != nil {
		logger.Error("HTTP shutdown failed", "error", err)
	}
	if err := gateway.Shutdown(10 * time.Second); err != nil {
		logger.Error("gateway shutdown incomplete", "error", err)
	}

	logger.Info("server exited gracefully")
}

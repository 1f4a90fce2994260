package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"VitalsKiosk/internal/model"
	"VitalsKiosk/internal/sensor"
)

// LinkStatus reports whether the Arduino serial link is up.
type LinkStatus interface {
	Connected() bool
}

// App serves the sensor API.
type App struct {
	Sensors *sensor.Service
	Link    LinkStatus
	Router  *mux.Router
	Server  *http.Server

	cfg     model.ServerConfig
	log     *slog.Logger
	mu      sync.Mutex
	stopped bool
	clients map[*websocket.Conn]struct{}
}

// NewApp initializes the API with its routes.
func NewApp(svc *sensor.Service, link LinkStatus, cfg model.ServerConfig) *App {
	app := &App{
		Sensors: svc,
		Link:    link,
		Router:  mux.NewRouter(),
		cfg:     cfg,
		log:     slog.Default().With("component", "app"),
		clients: make(map[*websocket.Conn]struct{}),
	}
	app.registerRoutes()
	return app
}

// Handler returns the router wrapped in the API middleware.
func (a *App) Handler() http.Handler {
	return a.withMiddleware(a.Router)
}

// Start launches the web server and blocks until stopped.
func (a *App) Start(addr string) error {
	if addr == "" {
		a.log.Info("app server not started (empty address)")
		return nil
	}

	addr = strings.TrimPrefix(addr, "http://")
	addr = strings.TrimPrefix(addr, "https://")
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return nil
	}
	a.Server = &http.Server{
		Addr:              addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	server := a.Server
	a.mu.Unlock()

	a.log.Info("sensor API listening", "url", "http://"+addr)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("[app] HTTP server error: %w", err)
	}
	return nil
}

// Stop gracefully stops the web server and disconnects websocket clients.
func (a *App) Stop() {
	if a == nil {
		return
	}

	a.mu.Lock()
	a.stopped = true
	server := a.Server
	a.mu.Unlock()

	if server != nil {
		a.log.Info("shutting down web server")
		timeout := a.cfg.ShutdownTimeout
		if timeout <= 0 {
			timeout = 2 * time.Second
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			a.log.Warn("HTTP server shutdown error", "err", err)
		} else {
			a.log.Info("web server stopped cleanly")
		}
	}

	a.closeClients()
}

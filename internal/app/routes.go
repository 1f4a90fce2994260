package app

import (
	"net/http"
)

// registerRoutes sets up all HTTP handlers for the application.
// Fixed paths are registered before the /{sensor} catch-all.
func (a *App) registerRoutes() {
	a.Router.HandleFunc("/health", a.handleHealth).Methods(http.MethodGet)
	a.Router.HandleFunc("/status", a.handleStatus).Methods(http.MethodGet)
	a.Router.HandleFunc("/ws", a.handleWS).Methods(http.MethodGet)

	// Sensor routes
	a.Router.HandleFunc("/poll/{sensor}", a.handlePoll).Methods(http.MethodGet)
	a.Router.HandleFunc("/{sensor}", a.handleFetch).Methods(http.MethodGet)

	a.Router.NotFoundHandler = http.HandlerFunc(a.handleNotFound)
}

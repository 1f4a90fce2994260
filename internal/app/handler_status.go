package app

import (
	"net/http"

	"VitalsKiosk/internal/model"
)

// handleHealth reports the serial link and testing mode.
func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	serial := "disconnected"
	if a.Link != nil && a.Link.Connected() {
		serial = "connected"
	}
	a.writeJSON(w, http.StatusOK, model.HealthResponse{
		Status:  "ok",
		Serial:  serial,
		Testing: a.Sensors.Testing(),
	})
}

// handleStatus lists the state cell of every sensor.
func (a *App) handleStatus(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, a.Sensors.States())
}

// Package app implements the HTTP API of the sensor bridge.
package app

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"VitalsKiosk/internal/model"
	"VitalsKiosk/internal/sensor"
)

// handleFetch schedules a reading and answers the sensor's dummy value at once.
func (a *App) handleFetch(w http.ResponseWriter, r *http.Request) {
	resp, err := a.Sensors.Fetch(mux.Vars(r)["sensor"])
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, resp)
}

// handlePoll answers the fetched reading, or waiting while there is none.
func (a *App) handlePoll(w http.ResponseWriter, r *http.Request) {
	resp, err := a.Sensors.Poll(mux.Vars(r)["sensor"])
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, resp)
}

func (a *App) handleNotFound(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusNotFound, model.ErrorResponse{Error: "Not found"})
}

func (a *App) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, sensor.ErrUnknownSensor) {
		a.writeJSON(w, http.StatusNotFound, model.ErrorResponse{Error: sensor.ErrUnknownSensor.Error()})
		return
	}
	a.log.Error("request failed", "err", err)
	a.writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
}

func (a *App) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.log.Warn("failed to write response", "err", err)
	}
}

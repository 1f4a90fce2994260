// Package model defines shared message structures for the sensor API.
package model

import "time"

// Poll and fetch statuses reported to clients.
const (
	StatusFetching = "fetching"
	StatusWaiting  = "waiting"
	StatusReady    = "ready"
)

// SensorResponse is the body of /<sensor> and /poll/<sensor>.
// Value is nil while no reading is available and encodes as JSON null.
type SensorResponse struct {
	Sensor string  `json:"sensor"`
	Value  *string `json:"value"`
	Status string  `json:"status"`
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SensorEvent is broadcast to websocket clients when a fetch completes.
type SensorEvent struct {
	Sensor string    `json:"sensor"`
	Value  *string   `json:"value"`
	Status string    `json:"status"`
	JobID  string    `json:"job_id"`
	Error  string    `json:"error,omitempty"`
	At     time.Time `json:"at"`
}

// SensorState is one cell of the /status listing.
type SensorState struct {
	Sensor    string     `json:"sensor"`
	Status    string     `json:"status"`
	Pending   bool       `json:"pending"`
	UpdatedAt *time.Time `json:"updated_at"`
	Fetched   int        `json:"fetched"`
	Error     string     `json:"error,omitempty"`
}

// HealthResponse is the body of /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Serial  string `json:"serial"`
	Testing bool   `json:"testing"`
}

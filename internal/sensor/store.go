// Package sensor coordinates sensor fetches and polls.
//
// A fetch queues one serial command for the worker, which owns the Arduino link
// and runs commands one at a time. Completed readings land in the Store, where a
// poll consumes each of them exactly once.
package sensor

import (
	"sync"
	"time"

	"VitalsKiosk/internal/model"
)

type cell struct {
	value     *string
	err       string
	pending   bool
	updatedAt time.Time
	fetched   int
	jobID     string
}

// Store holds the last known reading of every sensor.
type Store struct {
	mu    sync.Mutex
	cells map[model.SensorName]*cell
}

// NewStore returns a store with every known sensor absent.
func NewStore() *Store {
	s := &Store{cells: make(map[model.SensorName]*cell, len(model.Sensors))}
	for _, name := range model.Sensors {
		s.cells[name] = &cell{}
	}
	return s
}

// MarkPending flags a fetch in progress. It returns false when one already is.
func (s *Store) MarkPending(name model.SensorName) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cells[name]
	if c.pending {
		return false
	}
	c.pending = true
	return true
}

// ClearPending drops the in-progress flag without storing a reading.
func (s *Store) ClearPending(name model.SensorName) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cells[name].pending = false
}

// Complete stores the outcome of a fetch. errMsg is empty for a real reading;
// for a failed fetch value carries the error text served to pollers.
func (s *Store) Complete(name model.SensorName, jobID, value, errMsg string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cells[name]
	c.value = &value
	c.err = errMsg
	c.pending = false
	c.updatedAt = at
	c.fetched++
	c.jobID = jobID
}

// Take returns the stored reading and resets the sensor to absent.
func (s *Store) Take(name model.SensorName) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cells[name]
	if c.value == nil {
		return "", false
	}
	v := *c.value
	c.value = nil
	c.err = ""
	return v, true
}

// Reset discards the stored reading, if any.
func (s *Store) Reset(name model.SensorName) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cells[name]
	c.value = nil
	c.err = ""
}

// Snapshot lists every cell in model.Sensors order.
func (s *Store) Snapshot() []model.SensorState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.SensorState, 0, len(model.Sensors))
	for _, name := range model.Sensors {
		c := s.cells[name]
		st := model.SensorState{
			Sensor:  name.String(),
			Status:  model.StatusWaiting,
			Pending: c.pending,
			Fetched: c.fetched,
			Error:   c.err,
		}
		if c.value != nil {
			st.Status = model.StatusReady
		}
		if !c.updatedAt.IsZero() {
			at := c.updatedAt
			st.UpdatedAt = &at
		}
		out = append(out, st)
	}
	return out
}

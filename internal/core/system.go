// Package core contains the runtime orchestration of the kiosk programs.
// System wires the sensor API server together and manages its lifecycle;
// the receipt job builds and sends one print job.
package core

import (
	"context"
	"log/slog"
	"sync"

	"VitalsKiosk/internal/app"
	"VitalsKiosk/internal/device"
	"VitalsKiosk/internal/model"
	"VitalsKiosk/internal/sensor"
)

// System manages lifecycle of the sensor API components
// (Arduino link, serial worker, HTTP app).
type System struct {
	cfg     model.Config
	Arduino *device.ArduinoDevice
	Store   *sensor.Store
	Events  *sensor.Broadcaster
	Worker  *sensor.Worker
	Sensors *sensor.Service
	App     *app.App

	cancel    context.CancelFunc
	workerWG  sync.WaitGroup
	appWG     sync.WaitGroup
	started   bool
	startLock sync.Mutex
	log       *slog.Logger
}

// NewSystem constructs all components from cfg. Nothing is opened until StartAll.
func NewSystem(cfg model.Config) *System {
	arduino := device.NewArduinoDevice("arduino", cfg.Serial.Device, cfg.Serial.Baud)
	arduino.ReadTimeout = cfg.Serial.ReadTimeout
	arduino.ResetDelay = cfg.Serial.ResetDelay

	store := sensor.NewStore()
	events := sensor.NewBroadcaster()
	worker := sensor.NewWorker(arduino, store, events, cfg.Sensors.QueueSize, cfg.Serial.ResponseDelay)
	svc := sensor.NewService(store, worker, events, cfg.Sensors.Testing)

	return &System{
		cfg:     cfg,
		Arduino: arduino,
		Store:   store,
		Events:  events,
		Worker:  worker,
		Sensors: svc,
		App:     app.NewApp(svc, arduino, cfg.Server),
		log:     slog.Default().With("component", "system"),
	}
}

// StartAll opens the serial link, starts the worker and serves the API in the background.
// A serial link that cannot be opened is logged and the server runs without it.
func (s *System) StartAll() error {
	s.startLock.Lock()
	defer s.startLock.Unlock()
	if s.started {
		return nil
	}

	if err := s.Arduino.Open(); err != nil {
		s.log.Error("Connection failed", "device", s.cfg.Serial.Device, "err", err)
	} else {
		s.log.Info("Connection successful.", "device", s.cfg.Serial.Device, "baud", s.cfg.Serial.Baud)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.workerWG.Add(1)
	go func() {
		defer s.workerWG.Done()
		s.Worker.Run(ctx)
	}()

	s.appWG.Add(1)
	go func() {
		defer s.appWG.Done()
		if err := s.App.Start(s.cfg.Server.Addr); err != nil {
			s.log.Error("app stopped", "err", err)
		}
	}()

	s.log.Info("sensor API started", "testing", s.cfg.Sensors.Testing)
	s.started = true
	return nil
}

// StopAll stops the HTTP server, the serial worker and the serial link, in that order.
func (s *System) StopAll() {
	s.startLock.Lock()
	defer s.startLock.Unlock()
	if !s.started {
		return
	}

	s.App.Stop()
	s.appWG.Wait()

	s.cancel()
	s.workerWG.Wait()
	s.Events.Close()

	if err := s.Arduino.Close(); err != nil {
		s.log.Warn("close serial failed", "err", err)
	}
	s.started = false
}

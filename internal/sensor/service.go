package sensor

import (
	"errors"
	"log/slog"

	"VitalsKiosk/internal/model"
)

// ErrUnknownSensor is returned for a name outside model.Sensors.
var ErrUnknownSensor = errors.New("Unknown sensor")

// Service implements the fetch and poll operations of the sensor API.
type Service struct {
	store   *Store
	worker  *Worker
	events  *Broadcaster
	testing bool
	log     *slog.Logger
}

// NewService creates a Service. With testing set, polls answer dummy values.
func NewService(store *Store, worker *Worker, events *Broadcaster, testing bool) *Service {
	return &Service{
		store:   store,
		worker:  worker,
		events:  events,
		testing: testing,
		log:     slog.Default().With("component", "sensor"),
	}
}

// Fetch schedules a read of the named sensor and answers its dummy value immediately.
// A fetch for a sensor that is already being read is folded into the pending one.
func (s *Service) Fetch(raw string) (model.SensorResponse, error) {
	name, ok := model.ParseSensorName(raw)
	if !ok {
		return model.SensorResponse{}, ErrUnknownSensor
	}

	if s.store.MarkPending(name) {
		jobID, err := s.worker.Submit(name)
		if err != nil {
			s.store.ClearPending(name)
			s.log.Warn("fetch dropped", "sensor", name, "err", err)
		} else {
			s.log.Info("fetch scheduled", "sensor", name, "job", jobID)
		}
	} else {
		s.log.Debug("fetch already pending", "sensor", name)
	}

	dummy := name.DummyValue()
	return model.SensorResponse{Sensor: name.String(), Value: &dummy, Status: model.StatusFetching}, nil
}

// Poll returns the fetched reading once, then the sensor reads as waiting again.
func (s *Service) Poll(raw string) (model.SensorResponse, error) {
	name, ok := model.ParseSensorName(raw)
	if !ok {
		return model.SensorResponse{}, ErrUnknownSensor
	}

	if s.testing {
		s.store.Reset(name)
		dummy := name.DummyValue()
		return model.SensorResponse{Sensor: name.String(), Value: &dummy, Status: model.StatusReady}, nil
	}

	value, ok := s.store.Take(name)
	if !ok {
		return model.SensorResponse{Sensor: name.String(), Value: nil, Status: model.StatusWaiting}, nil
	}
	return model.SensorResponse{Sensor: name.String(), Value: &value, Status: model.StatusReady}, nil
}

// States lists the state cell of every sensor.
func (s *Service) States() []model.SensorState {
	return s.store.Snapshot()
}

// Testing reports whether polls answer dummy values.
func (s *Service) Testing() bool {
	return s.testing
}

// Subscribe streams completed fetches; see Broadcaster.Subscribe.
func (s *Service) Subscribe(buf int) (<-chan model.SensorEvent, func()) {
	return s.events.Subscribe(buf)
}

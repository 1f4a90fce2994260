package sensor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"VitalsKiosk/internal/device"
	"VitalsKiosk/internal/model"
	"VitalsKiosk/internal/parser"
)

// ErrQueueFull is returned by Submit when the worker has no room for another command.
var ErrQueueFull = errors.New("sensor queue full")

// Querier sends one command to the board and returns its reply line.
type Querier interface {
	Query(ctx context.Context, command string, wait time.Duration) (string, error)
}

// Job is one queued serial command.
type Job struct {
	ID     string
	Sensor model.SensorName
	Queued time.Time
}

// Worker owns the serial link and runs queued commands one at a time.
type Worker struct {
	dev    Querier
	store  *Store
	events *Broadcaster
	jobs   chan Job
	wait   time.Duration
	now    func() time.Time
	log    *slog.Logger
}

// NewWorker creates a worker. wait is the delay between a command and reading its reply.
func NewWorker(dev Querier, store *Store, events *Broadcaster, queueSize int, wait time.Duration) *Worker {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Worker{
		dev:    dev,
		store:  store,
		events: events,
		jobs:   make(chan Job, queueSize),
		wait:   wait,
		now:    time.Now,
		log:    slog.Default().With("component", "sensor"),
	}
}

// Submit queues a fetch for name without blocking and returns its job id.
func (w *Worker) Submit(name model.SensorName) (string, error) {
	job := Job{ID: uuid.NewString(), Sensor: name, Queued: w.now()}
	select {
	case w.jobs <- job:
		w.log.Debug("fetch queued", "sensor", name, "job", job.ID)
		return job.ID, nil
	default:
		return "", ErrQueueFull
	}
}

// Run processes jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	w.log.Info("serial worker started", "response_delay", w.wait)
	defer w.log.Info("serial worker stopped")
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return
		case job := <-w.jobs:
			w.process(ctx, job)
		}
	}
}

// drain forgets queued jobs so their sensors can be fetched again.
func (w *Worker) drain() {
	for {
		select {
		case job := <-w.jobs:
			w.store.ClearPending(job.Sensor)
		default:
			return
		}
	}
}

func (w *Worker) process(ctx context.Context, job Job) {
	log := w.log.With("sensor", job.Sensor, "job", job.ID)
	start := w.now()
	log.Debug("fetch started", "queued_for", start.Sub(job.Queued))

	reply, err := w.dev.Query(ctx, parser.EncodeCommand(job.Sensor), w.wait)
	if ctx.Err() != nil {
		w.store.ClearPending(job.Sensor)
		log.Info("fetch abandoned on shutdown")
		return
	}
	if errors.Is(err, device.ErrNoResponse) {
		w.store.ClearPending(job.Sensor)
		log.Warn("no reply from board, reading left unchanged")
		return
	}

	var value, errMsg string
	if err == nil {
		value, err = parser.DecodeReply(reply)
	}
	if err != nil {
		value = parser.ErrorValue(err)
		errMsg = err.Error()
		log.Error("fetch failed", "err", err)
	} else {
		log.Info("fetch complete", "value", value, "took", w.now().Sub(start))
	}

	at := w.now()
	w.store.Complete(job.Sensor, job.ID, value, errMsg, at)
	if w.events != nil {
		w.events.Publish(model.SensorEvent{
			Sensor: job.Sensor.String(),
			Value:  &value,
			Status: model.StatusReady,
			JobID:  job.ID,
			Error:  errMsg,
			At:     at,
		})
	}
}

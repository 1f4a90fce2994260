package sensor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VitalsKiosk/internal/device"
	"VitalsKiosk/internal/model"
)

type reply struct {
	line string
	err  error
}

// fakeBoard answers commands from a table and tracks how many queries overlap.
type fakeBoard struct {
	mu       sync.Mutex
	replies  map[string]reply
	commands []string
	delay    time.Duration
	active   atomic.Int32
	overlap  atomic.Int32
}

func (f *fakeBoard) Query(ctx context.Context, command string, wait time.Duration) (string, error) {
	if n := f.active.Add(1); n > 1 {
		f.overlap.Add(1)
	}
	defer f.active.Add(-1)

	f.mu.Lock()
	f.commands = append(f.commands, command)
	r, ok := f.replies[command]
	f.mu.Unlock()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(f.delay):
	}
	if !ok {
		return "", device.ErrNoResponse
	}
	return r.line, r.err
}

func (f *fakeBoard) Commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.commands...)
}

type harness struct {
	board   *fakeBoard
	store   *Store
	events  *Broadcaster
	service *Service
}

func newHarness(t *testing.T, board *fakeBoard, dummyPolls bool, queueSize int) *harness {
	t.Helper()
	store := NewStore()
	events := NewBroadcaster()
	worker := NewWorker(board, store, events, queueSize, 0)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		worker.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		events.Close()
	})
	return &harness{board: board, store: store, events: events, service: NewService(store, worker, events, dummyPolls)}
}

func (h *harness) pollUntilReady(t *testing.T, name string) model.SensorResponse {
	t.Helper()
	var resp model.SensorResponse
	require.Eventually(t, func() bool {
		var err error
		resp, err = h.service.Poll(name)
		return err == nil && resp.Status == model.StatusReady
	}, time.Second, 2*time.Millisecond)
	return resp
}

func TestService_FetchAnswersDummyValues(t *testing.T) {
	h := newHarness(t, &fakeBoard{replies: map[string]reply{}}, false, 16)

	want := map[string]string{
		"height":      "172",
		"temperature": "36.5",
		"pulse":       "72",
		"bp":          "120/80",
		"weight":      "63.4",
	}
	for name, dummy := range want {
		resp, err := h.service.Fetch(name)
		require.NoError(t, err)
		assert.Equal(t, name, resp.Sensor)
		require.NotNil(t, resp.Value)
		assert.Equal(t, dummy, *resp.Value)
		assert.Equal(t, model.StatusFetching, resp.Status)
	}
}

func TestService_UnknownSensor(t *testing.T) {
	h := newHarness(t, &fakeBoard{}, false, 16)

	for _, name := range []string{"glucose", "", "Pulse", "poll"} {
		_, err := h.service.Fetch(name)
		assert.ErrorIs(t, err, ErrUnknownSensor, name)
		_, err = h.service.Poll(name)
		assert.ErrorIs(t, err, ErrUnknownSensor, name)
	}
}

func TestService_PollLifecycle(t *testing.T) {
	board := &fakeBoard{
		replies: map[string]reply{"pulse": {line: "81"}},
		delay:   20 * time.Millisecond,
	}
	h := newHarness(t, board, false, 16)

	resp, err := h.service.Poll("pulse")
	require.NoError(t, err)
	assert.Equal(t, model.SensorResponse{Sensor: "pulse", Value: nil, Status: model.StatusWaiting}, resp)

	_, err = h.service.Fetch("pulse")
	require.NoError(t, err)

	resp, err = h.service.Poll("pulse")
	require.NoError(t, err)
	assert.Equal(t, model.StatusWaiting, resp.Status, "poll before the fetch completes")
	assert.Nil(t, resp.Value)

	resp = h.pollUntilReady(t, "pulse")
	require.NotNil(t, resp.Value)
	assert.Equal(t, "81", *resp.Value)

	resp, err = h.service.Poll("pulse")
	require.NoError(t, err)
	assert.Equal(t, model.StatusWaiting, resp.Status, "a reading is consumed once")
	assert.Nil(t, resp.Value)
}

func TestService_SerialErrorReadsLikeAValue(t *testing.T) {
	board := &fakeBoard{replies: map[string]reply{
		"temperature": {err: errors.New("write |1: input/output error")},
	}}
	h := newHarness(t, board, false, 16)

	_, err := h.service.Fetch("temperature")
	require.NoError(t, err)

	resp := h.pollUntilReady(t, "temperature")
	require.NotNil(t, resp.Value)
	assert.Equal(t, "Error: write |1: input/output error", *resp.Value)
}

func TestService_SilentBoardLeavesSensorWaiting(t *testing.T) {
	board := &fakeBoard{replies: map[string]reply{}}
	h := newHarness(t, board, false, 16)

	_, err := h.service.Fetch("weight")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(board.Commands()) == 1 && !h.store.Snapshot()[4].Pending
	}, time.Second, 2*time.Millisecond)

	resp, err := h.service.Poll("weight")
	require.NoError(t, err)
	assert.Equal(t, model.StatusWaiting, resp.Status)
	assert.Equal(t, 0, h.store.Snapshot()[4].Fetched)
}

func TestService_TestingFlagAlwaysAnswersDummy(t *testing.T) {
	board := &fakeBoard{replies: map[string]reply{"height": {line: "181"}}}
	h := newHarness(t, board, true, 16)

	for _, name := range model.Sensors {
		resp, err := h.service.Poll(name.String())
		require.NoError(t, err)
		require.NotNil(t, resp.Value)
		assert.Equal(t, name.DummyValue(), *resp.Value)
		assert.Equal(t, model.StatusReady, resp.Status)
	}

	_, err := h.service.Fetch("height")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return h.store.Snapshot()[0].Fetched == 1
	}, time.Second, 2*time.Millisecond)

	resp, err := h.service.Poll("height")
	require.NoError(t, err)
	assert.Equal(t, "172", *resp.Value)
	assert.Equal(t, model.StatusWaiting, h.store.Snapshot()[0].Status, "testing poll clears the stored reading")
}

func TestService_SerialCommandsNeverOverlap(t *testing.T) {
	board := &fakeBoard{
		replies: map[string]reply{},
		delay:   5 * time.Millisecond,
	}
	for _, name := range model.Sensors {
		board.replies[name.String()] = reply{line: "1"}
	}
	h := newHarness(t, board, false, 16)

	var wg sync.WaitGroup
	for _, name := range model.Sensors {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.service.Fetch(name.String())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	for _, name := range model.Sensors {
		h.pollUntilReady(t, name.String())
	}
	assert.Len(t, board.Commands(), len(model.Sensors))
	assert.Zero(t, board.overlap.Load())
}

func TestService_PendingFetchIsCoalesced(t *testing.T) {
	board := &fakeBoard{
		replies: map[string]reply{"bp": {line: "121/82"}},
		delay:   30 * time.Millisecond,
	}
	h := newHarness(t, board, false, 16)

	for range 3 {
		resp, err := h.service.Fetch("bp")
		require.NoError(t, err)
		assert.Equal(t, model.StatusFetching, resp.Status)
	}

	resp := h.pollUntilReady(t, "bp")
	assert.Equal(t, "121/82", *resp.Value)
	assert.Equal(t, []string{"bp"}, board.Commands())
}

func TestService_FullQueueStillAnswersFetching(t *testing.T) {
	board := &fakeBoard{replies: map[string]reply{"height": {line: "170"}}, delay: time.Hour}
	h := newHarness(t, board, false, 1)

	_, err := h.service.Fetch("height")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(board.Commands()) == 1 }, time.Second, time.Millisecond)

	_, err = h.service.Fetch("pulse") // fills the queue
	require.NoError(t, err)
	resp, err := h.service.Fetch("bp") // dropped
	require.NoError(t, err)
	assert.Equal(t, model.StatusFetching, resp.Status)

	states := h.store.Snapshot()
	assert.True(t, states[2].Pending, "pulse queued")
	assert.False(t, states[3].Pending, "bp dropped")
}

func TestWorker_PublishesCompletedFetches(t *testing.T) {
	board := &fakeBoard{replies: map[string]reply{"weight": {line: "70.2"}}}
	h := newHarness(t, board, false, 16)
	events, cancel := h.service.Subscribe(4)
	defer cancel()

	_, err := h.service.Fetch("weight")
	require.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, "weight", ev.Sensor)
		assert.Equal(t, "70.2", *ev.Value)
		assert.Equal(t, model.StatusReady, ev.Status)
		assert.NotEmpty(t, ev.JobID)
		assert.Empty(t, ev.Error)
	case <-time.After(time.Second):
		t.Fatal("no event published")
	}
}

func TestWorker_ShutdownAbandonsRunningAndQueuedJobs(t *testing.T) {
	board := &fakeBoard{
		replies: map[string]reply{"height": {line: "170"}, "pulse": {line: "70"}, "bp": {line: "120/80"}},
		delay:   time.Hour,
	}
	store := NewStore()
	events := NewBroadcaster()
	defer events.Close()
	worker := NewWorker(board, store, events, 16, 0)
	service := NewService(store, worker, events, false)
	completed, unsubscribe := service.Subscribe(4)
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		worker.Run(ctx)
	}()

	_, err := service.Fetch("height")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(board.Commands()) == 1 }, time.Second, time.Millisecond)
	for _, name := range []string{"pulse", "bp"} {
		_, err := service.Fetch(name)
		require.NoError(t, err)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}

	for _, state := range store.Snapshot() {
		assert.Equal(t, model.StatusWaiting, state.Status, state.Sensor)
		assert.False(t, state.Pending, state.Sensor)
		assert.Zero(t, state.Fetched, state.Sensor)
	}
	select {
	case ev := <-completed:
		t.Fatalf("unexpected event %+v", ev)
	default:
	}

	resp, err := service.Fetch("height")
	require.NoError(t, err)
	assert.Equal(t, model.StatusFetching, resp.Status)
	assert.True(t, store.Snapshot()[0].Pending, "fetch accepted again after shutdown")
}

package device

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePort is an in-memory serial port. respond, when set, is called with every
// written line and its result is queued as incoming data.
type fakePort struct {
	mu       sync.Mutex
	incoming []byte
	written  []string
	timeout  time.Duration
	closed   bool
	respond  func(line string) string
}

func (f *fakePort) feed(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.incoming = append(f.incoming, s...)
}

func (f *fakePort) Read(p []byte) (int, error) {
	f.mu.Lock()
	timeout := f.timeout
	f.mu.Unlock()

	deadline := time.Now().Add(timeout)
	for {
		f.mu.Lock()
		if len(f.incoming) > 0 {
			n := copy(p, f.incoming)
			f.incoming = f.incoming[n:]
			f.mu.Unlock()
			return n, nil
		}
		f.mu.Unlock()
		if timeout >= 0 && time.Now().After(deadline) {
			return 0, nil
		}
		time.Sleep(time.Millisecond)
	}
}

func (f *fakePort) Write(p []byte) (int, error) {
	f.mu.Lock()
	f.written = append(f.written, string(p))
	respond := f.respond
	f.mu.Unlock()
	if respond != nil {
		if reply := respond(string(p)); reply != "" {
			f.feed(reply)
		}
	}
	return len(p), nil
}

func (f *fakePort) SetReadTimeout(t time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.timeout = t
	return nil
}

func (f *fakePort) ResetInputBuffer() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.incoming = nil
	return nil
}

func (f *fakePort) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakePort) Written() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.written...)
}

func TestSerialDevice_ReadLine(t *testing.T) {
	t.Run("returns a complete line with its terminator", func(t *testing.T) {
		port := &fakePort{}
		port.feed("36.7\r\n")
		sd := NewSerialDeviceFromPort(port)

		line, err := sd.ReadLine(100 * time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, "36.7\r\n", line)
	})

	t.Run("keeps bytes after the first newline for the next read", func(t *testing.T) {
		port := &fakePort{}
		port.feed("172\n63.4\n")
		sd := NewSerialDeviceFromPort(port)

		first, err := sd.ReadLine(100 * time.Millisecond)
		require.NoError(t, err)
		second, err := sd.ReadLine(100 * time.Millisecond)
		require.NoError(t, err)

		assert.Equal(t, "172\n", first)
		assert.Equal(t, "63.4\n", second)
	})

	t.Run("returns a partial line on timeout", func(t *testing.T) {
		port := &fakePort{}
		port.feed("120/8")
		sd := NewSerialDeviceFromPort(port)

		line, err := sd.ReadLine(30 * time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, "120/8", line)
	})

	t.Run("reports no response when nothing arrives", func(t *testing.T) {
		sd := NewSerialDeviceFromPort(&fakePort{})

		start := time.Now()
		_, err := sd.ReadLine(30 * time.Millisecond)
		assert.ErrorIs(t, err, ErrNoResponse)
		assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
	})

	t.Run("fails once closed", func(t *testing.T) {
		port := &fakePort{}
		sd := NewSerialDeviceFromPort(port)
		require.NoError(t, sd.Close())

		_, err := sd.ReadLine(10 * time.Millisecond)
		assert.ErrorIs(t, err, ErrNotOpen)
		assert.True(t, port.closed)
	})
}

func TestSerialDevice_ReadFullLine(t *testing.T) {
	port := &fakePort{}
	port.feed("tempe")
	sd := NewSerialDeviceFromPort(port)

	_, err := sd.ReadFullLine(30 * time.Millisecond)
	assert.ErrorIs(t, err, ErrNoResponse)

	port.feed("rature\n")
	line, err := sd.ReadFullLine(100 * time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, "temperature\n", line)
}

func TestSerialDevice_Discard(t *testing.T) {
	port := &fakePort{}
	port.feed("120/8")
	sd := NewSerialDeviceFromPort(port)

	_, err := sd.ReadFullLine(20 * time.Millisecond)
	require.ErrorIs(t, err, ErrNoResponse)
	port.feed("0\n")

	require.NoError(t, sd.Discard())
	_, err = sd.ReadLine(20 * time.Millisecond)
	assert.ErrorIs(t, err, ErrNoResponse, "buffered and driver input both dropped")

	require.NoError(t, sd.Close())
	assert.ErrorIs(t, sd.Discard(), ErrNotOpen)
}

func TestSerialDevice_WriteLine(t *testing.T) {
	port := &fakePort{}
	sd := NewSerialDeviceFromPort(port)

	require.NoError(t, sd.WriteLine("pulse"))
	assert.Equal(t, []string{"pulse\n"}, port.Written())

	require.NoError(t, sd.Close())
	assert.ErrorIs(t, sd.WriteLine("pulse"), ErrNotOpen)
}

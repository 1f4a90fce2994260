package sensor

import (
	"sync"

	"VitalsKiosk/internal/model"
)

// Broadcaster fans completed fetches out to subscribers.
// A subscriber that is not keeping up misses events instead of blocking the worker.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[chan model.SensorEvent]struct{}
}

// NewBroadcaster creates a broadcaster with no subscribers.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[chan model.SensorEvent]struct{})}
}

// Subscribe registers a subscriber with a buffer of size buf.
// The returned cancel func unregisters it and closes the channel.
func (b *Broadcaster) Subscribe(buf int) (<-chan model.SensorEvent, func()) {
	ch := make(chan model.SensorEvent, buf)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if _, ok := b.subs[ch]; ok {
				delete(b.subs, ch)
				close(ch)
			}
		})
	}
}

// Publish delivers ev to every subscriber with room in its buffer.
func (b *Broadcaster) Publish(ev model.SensorEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Close unregisters and closes every subscriber.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
}

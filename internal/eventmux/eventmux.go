// Package eventmux merges the keyboard reader and the fixed-rate tick into
// one ordered event stream consumed by the main loop.
package eventmux

import (
	"io"
	"sync"
	"time"

	"github.com/linux-brat/BClicker/internal/keys"
)

// TickInterval is the period of the tick producer, roughly 60Hz.
const TickInterval = 16 * time.Millisecond

// Event is one multiplexed input event.
type Event interface{ isEvent() }

// KeyEvent carries a decoded keyboard event.
type KeyEvent struct {
	Key keys.Event
}

// TickEvent marks one pass of the fixed-rate tick producer.
type TickEvent struct {
	At time.Time
}

func (KeyEvent) isEvent()  {}
func (TickEvent) isEvent() {}

// Queue is an unbounded multi-producer single-consumer FIFO. Push never
// blocks; events leave in the exact order they were enqueued, with no
// coalescing across producers.
type Queue struct {
	mu     sync.Mutex
	events []Event
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends an event. Safe for concurrent producers.
func (q *Queue) Push(ev Event) {
	q.mu.Lock()
	q.events = append(q.events, ev)
	q.mu.Unlock()
}

// TryPop removes and returns the oldest event without blocking.
func (q *Queue) TryPop() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) == 0 {
		return nil, false
	}
	ev := q.events[0]
	q.events = q.events[1:]
	return ev, true
}

// Len reports the number of queued events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// StartKeyboardProducer spawns the goroutine that blocks on raw terminal
// reads and forwards decoded key events. The goroutine exits when the
// reader fails, which for stdin means process teardown.
func StartKeyboardProducer(q *Queue, r io.Reader) {
	go func() {
		buf := make([]byte, 64)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				for _, ev := range keys.DecodeAll(buf[:n]) {
					q.Push(KeyEvent{Key: ev})
				}
			}
			if err != nil {
				return
			}
		}
	}()
}

// StartTickProducer spawns the goroutine that sleeps a fixed interval and
// forwards tick events for the process lifetime.
func StartTickProducer(q *Queue, interval time.Duration) {
	go func() {
		for {
			time.Sleep(interval)
			q.Push(TickEvent{At: time.Now()})
		}
	}()
}

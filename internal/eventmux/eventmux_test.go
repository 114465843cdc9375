package eventmux

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/linux-brat/BClicker/internal/keys"
)

func TestQueuePreservesEnqueueOrder(t *testing.T) {
	q := NewQueue()
	t1 := TickEvent{At: time.Unix(1, 0)}
	k := KeyEvent{Key: keys.Event{Kind: keys.KindRune, Rune: 'q'}}
	t2 := TickEvent{At: time.Unix(2, 0)}

	q.Push(t1)
	q.Push(k)
	q.Push(t2)

	got := drain(q)
	if len(got) != 3 {
		t.Fatalf("drained %d events, want 3", len(got))
	}
	if ev, ok := got[0].(TickEvent); !ok || !ev.At.Equal(t1.At) {
		t.Fatalf("event 0 = %#v, want first tick", got[0])
	}
	if ev, ok := got[1].(KeyEvent); !ok || ev.Key.Rune != 'q' {
		t.Fatalf("event 1 = %#v, want key 'q'", got[1])
	}
	if ev, ok := got[2].(TickEvent); !ok || !ev.At.Equal(t2.At) {
		t.Fatalf("event 2 = %#v, want second tick", got[2])
	}
}

func TestTryPopEmptyDoesNotBlock(t *testing.T) {
	q := NewQueue()
	done := make(chan struct{})
	go func() {
		defer close(done)
		if ev, ok := q.TryPop(); ok {
			t.Errorf("TryPop on empty queue returned %#v", ev)
		}
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("TryPop blocked on empty queue")
	}
}

func TestConcurrentProducersLoseNothing(t *testing.T) {
	q := NewQueue()
	const producers = 4
	const perProducer = 500

	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				q.Push(TickEvent{At: time.Now()})
			}
		}()
	}
	wg.Wait()

	if q.Len() != producers*perProducer {
		t.Fatalf("Len = %d, want %d", q.Len(), producers*perProducer)
	}
}

func TestKeyboardProducerDecodesStream(t *testing.T) {
	q := NewQueue()
	StartKeyboardProducer(q, strings.NewReader("e\x1b[A7"))

	deadline := time.Now().Add(time.Second)
	for q.Len() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	got := drain(q)
	if len(got) != 3 {
		t.Fatalf("decoded %d events, want 3: %#v", len(got), got)
	}
	wantKinds := []keys.Kind{keys.KindRune, keys.KindUp, keys.KindRune}
	for i, ev := range got {
		key, ok := ev.(KeyEvent)
		if !ok {
			t.Fatalf("event %d is %#v, want KeyEvent", i, ev)
		}
		if key.Key.Kind != wantKinds[i] {
			t.Errorf("event %d kind = %v, want %v", i, key.Key.Kind, wantKinds[i])
		}
	}
}

func TestTickProducerEmits(t *testing.T) {
	q := NewQueue()
	StartTickProducer(q, time.Millisecond)

	deadline := time.Now().Add(time.Second)
	for q.Len() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if q.Len() == 0 {
		t.Fatalf("tick producer emitted nothing")
	}
	ev, ok := q.TryPop()
	if !ok {
		t.Fatalf("queue empty after wait")
	}
	if _, ok := ev.(TickEvent); !ok {
		t.Fatalf("event = %#v, want TickEvent", ev)
	}
}

func drain(q *Queue) []Event {
	var out []Event
	for {
		ev, ok := q.TryPop()
		if !ok {
			return out
		}
		out = append(out, ev)
	}
}

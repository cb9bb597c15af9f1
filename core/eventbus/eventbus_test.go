package eventbus

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"emotion-detector/core/event"
)

// mockEvent is a simple event for testing.
type mockEvent struct {
	name string
}

func (e *mockEvent) EventName() string {
	return e.name
}

// waitFor waits for wg or fails the test after timeout.
func waitFor(t *testing.T, wg *sync.WaitGroup, timeout time.Duration) bool {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

func TestEventBus_PublishSubscribe(t *testing.T) {
	bus := New(10, nil)
	defer bus.Close()

	var received atomic.Int32
	var wg sync.WaitGroup
	wg.Add(1)

	bus.Subscribe(func(e event.Event) {
		received.Add(1)
		wg.Done()
	})

	bus.Publish(&mockEvent{name: "test"})

	if !waitFor(t, &wg, time.Second) {
		t.Fatal("Timeout waiting for event")
	}
	if received.Load() != 1 {
		t.Errorf("Expected 1 event, got %d", received.Load())
	}
}

func TestEventBus_MultipleSubscribers(t *testing.T) {
	bus := New(10, nil)
	defer bus.Close()

	var received atomic.Int32
	var wg sync.WaitGroup
	wg.Add(3) // 3 subscribers

	for i := 0; i < 3; i++ {
		bus.Subscribe(func(e event.Event) {
			received.Add(1)
			wg.Done()
		})
	}

	bus.Publish(&mockEvent{name: "test"})

	if !waitFor(t, &wg, time.Second) {
		t.Fatal("Timeout waiting for events")
	}
	if received.Load() != 3 {
		t.Errorf("Expected 3 events, got %d", received.Load())
	}
}

func TestEventBus_NameFilter(t *testing.T) {
	bus := New(10, nil)
	defer bus.Close()

	var completedReceived atomic.Int32
	var clearedReceived atomic.Int32
	var allReceived atomic.Int32
	var wg sync.WaitGroup
	wg.Add(2) // completed subscriber + all subscriber

	bus.SubscribeNames(func(e event.Event) {
		completedReceived.Add(1)
		wg.Done()
	}, "AnalysisCompleted", "AnalysisFailed")

	// Should not receive
	bus.SubscribeNames(func(e event.Event) {
		clearedReceived.Add(1)
	}, "DisplayCleared")

	bus.Subscribe(func(e event.Event) {
		allReceived.Add(1)
		wg.Done()
	})

	bus.Publish(&mockEvent{name: "AnalysisCompleted"})

	if !waitFor(t, &wg, time.Second) {
		t.Fatal("Timeout waiting for events")
	}
	if completedReceived.Load() != 1 {
		t.Errorf("completed subscriber: expected 1, got %d", completedReceived.Load())
	}
	if clearedReceived.Load() != 0 {
		t.Errorf("cleared subscriber: expected 0, got %d", clearedReceived.Load())
	}
	if allReceived.Load() != 1 {
		t.Errorf("all subscriber: expected 1, got %d", allReceived.Load())
	}
}

func TestEventBus_OrderPreserved(t *testing.T) {
	bus := New(10, nil)
	defer bus.Close()

	var mu sync.Mutex
	var names []string
	var wg sync.WaitGroup
	wg.Add(3)

	bus.Subscribe(func(e event.Event) {
		mu.Lock()
		names = append(names, e.EventName())
		mu.Unlock()
		wg.Done()
	})

	bus.Publish(&mockEvent{name: "first"})
	bus.Publish(&mockEvent{name: "second"})
	bus.Publish(&mockEvent{name: "third"})

	if !waitFor(t, &wg, time.Second) {
		t.Fatal("Timeout waiting for events")
	}

	mu.Lock()
	defer mu.Unlock()
	for i, want := range []string{"first", "second", "third"} {
		if names[i] != want {
			t.Errorf("names[%d] = %v, want %v", i, names[i], want)
		}
	}
}

func TestEventBus_Unsubscribe(t *testing.T) {
	bus := New(10, nil)
	defer bus.Close()

	var received atomic.Int32

	subID := bus.Subscribe(func(e event.Event) {
		received.Add(1)
	})

	bus.Unsubscribe(subID)
	bus.Publish(&mockEvent{name: "test"})

	// Give some time for potential delivery
	time.Sleep(100 * time.Millisecond)

	if received.Load() != 0 {
		t.Errorf("Expected 0 events after unsubscribe, got %d", received.Load())
	}
}

func TestEventBus_Close(t *testing.T) {
	bus := New(10, nil)

	var received atomic.Int32
	bus.Subscribe(func(e event.Event) {
		received.Add(1)
	})

	bus.Close()

	// Publish should be no-op after close
	bus.Publish(&mockEvent{name: "test"})

	time.Sleep(100 * time.Millisecond)

	if received.Load() != 0 {
		t.Errorf("Expected 0 events after close, got %d", received.Load())
	}

	// Close again should not panic
	bus.Close()
}

func TestEventBus_HandlerPanic(t *testing.T) {
	bus := New(10, nil)
	defer bus.Close()

	var received atomic.Int32
	var wg sync.WaitGroup
	wg.Add(1)

	bus.Subscribe(func(e event.Event) {
		panic("test panic")
	})

	// Second handler should still receive the event
	bus.Subscribe(func(e event.Event) {
		received.Add(1)
		wg.Done()
	})

	bus.Publish(&mockEvent{name: "test"})

	if !waitFor(t, &wg, time.Second) {
		t.Fatal("Timeout waiting for event")
	}
	if received.Load() != 1 {
		t.Errorf("Expected 1 event despite panic, got %d", received.Load())
	}
}

func TestEventBus_UniqueSubscriptionIDs(t *testing.T) {
	bus := New(10, nil)
	defer bus.Close()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := bus.Subscribe(func(e event.Event) {})
		if seen[id] {
			t.Fatalf("duplicate subscription ID %q", id)
		}
		seen[id] = true
	}
}

func TestEventBus_ConcurrentPublish(t *testing.T) {
	bus := New(100, nil)
	defer bus.Close()

	var received atomic.Int32
	var wg sync.WaitGroup

	const numEvents = 100
	wg.Add(numEvents)

	bus.Subscribe(func(e event.Event) {
		received.Add(1)
		wg.Done()
	})

	for i := 0; i < numEvents; i++ {
		go func() {
			bus.Publish(&mockEvent{name: "test"})
		}()
	}

	if !waitFor(t, &wg, 5*time.Second) {
		t.Fatalf("Timeout: received %d of %d events", received.Load(), numEvents)
	}
	if received.Load() != numEvents {
		t.Errorf("Expected %d events, got %d", numEvents, received.Load())
	}
}

func TestEventBus_PublishDuringClose(t *testing.T) {
	bus := New(10, nil)
	bus.Subscribe(func(e event.Event) {})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				bus.Publish(&mockEvent{name: "test"})
			}
		}()
	}

	bus.Close()
	wg.Wait()
}

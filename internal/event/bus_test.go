package event

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recordingObserver struct {
	name   string
	expect int
	mu     sync.Mutex
	got    []Event
	done   chan struct{}
}

func newRecordingObserver(name string, expect int) *recordingObserver {
	o := &recordingObserver{name: name, expect: expect, done: make(chan struct{})}
	if expect == 0 {
		close(o.done)
	}
	return o
}

func (o *recordingObserver) Name() string { return o.name }

func (o *recordingObserver) Update(e Event) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.got = append(o.got, e)
	if len(o.got) == o.expect {
		close(o.done)
	}
	return nil
}

func (o *recordingObserver) events() []Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]Event, len(o.got))
	copy(out, o.got)
	return out
}

func (o *recordingObserver) wait(t *testing.T) {
	t.Helper()
	select {
	case <-o.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for events")
	}
}

func TestBusDeliversToAllObservers(t *testing.T) {
	bus := NewBus(2)
	defer bus.Shutdown()

	a := newRecordingObserver("a", 1)
	b := newRecordingObserver("b", 1)
	bus.Subscribe(a)
	bus.Subscribe(b)

	bus.Publish(Event{Type: TypeConnectionRequested, ConnectionID: 7, ActorID: 3, ReceiverID: 2})
	a.wait(t)
	b.wait(t)

	assert.Equal(t, TypeConnectionRequested, a.events()[0].Type)
	assert.Equal(t, uint(7), a.events()[0].ConnectionID)
	assert.False(t, a.events()[0].CreatedAt.IsZero())
	assert.Len(t, b.events(), 1)
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus(1)
	defer bus.Shutdown()

	a := newRecordingObserver("a", 1)
	b := newRecordingObserver("b", 1)
	bus.Subscribe(a)
	bus.Subscribe(b)
	bus.Unsubscribe(b)

	bus.Publish(Event{Type: TypeMessageCreated, ConnectionID: 7})
	a.wait(t)
	assert.Empty(t, b.events())
}

func TestBusPublishAfterShutdownDoesNotBlock(t *testing.T) {
	bus := NewBus(1)
	bus.Shutdown()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 2000; i++ {
			bus.Publish(Event{Type: TypeMessageCreated, ConnectionID: uint(i)})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked after shutdown")
	}
}

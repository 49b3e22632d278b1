package event

import (
	"context"
	"log"
	"sync"
	"time"
)

const (
	TypeConnectionRequested = "connection.requested"
	TypeConnectionAccepted  = "connection.accepted"
	TypeConnectionDeclined  = "connection.declined"
	TypeMessageCreated      = "message.created"
)

// Event is what the connection core publishes. Consumers (push dispatch, the chat
// WebSocket hub) subscribe; the core assumes nothing about their transport.
type Event struct {
	Type         string    `json:"type"`
	ConnectionID uint      `json:"connection_id"`
	ProductID    uint      `json:"product_id,omitempty"`
	ActorID      uint      `json:"actor_id"`
	ReceiverID   uint      `json:"receiver_id,omitempty"`
	MessageID    uint      `json:"message_id,omitempty"`
	Body         string    `json:"body,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type Observer interface {
	Name() string
	Update(e Event) error
}

// Publisher is the write side the core depends on.
type Publisher interface {
	Publish(e Event)
}

// Bus fans events out to observers through a buffered channel and a small worker
// pool, so a slow consumer never blocks the request that produced the event.
type Bus struct {
	observers map[string]Observer
	events    chan Event
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	wg        sync.WaitGroup
}

func NewBus(workers int) *Bus {
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	b := &Bus{
		observers: make(map[string]Observer),
		events:    make(chan Event, 1024),
		ctx:       ctx,
		cancel:    cancel,
	}
	for i := 0; i < workers; i++ {
		b.wg.Add(1)
		go b.run()
	}
	return b
}

func (b *Bus) Subscribe(o Observer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.observers[o.Name()] = o
}

func (b *Bus) Unsubscribe(o Observer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.observers, o.Name())
}

// Publish enqueues without blocking; an event is dropped (and logged) rather than
// stalling the caller when the buffer is full.
func (b *Bus) Publish(e Event) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	select {
	case b.events <- e:
	case <-b.ctx.Done():
	default:
		log.Printf("[Event] channel full, dropping %s for connection %d", e.Type, e.ConnectionID)
	}
}

func (b *Bus) run() {
	defer b.wg.Done()
	for {
		select {
		case e := <-b.events:
			b.dispatch(e)
		case <-b.ctx.Done():
			return
		}
	}
}

func (b *Bus) dispatch(e Event) {
	b.mu.RLock()
	observers := make([]Observer, 0, len(b.observers))
	for _, o := range b.observers {
		observers = append(observers, o)
	}
	b.mu.RUnlock()
	for _, o := range observers {
		if err := o.Update(e); err != nil {
			log.Printf("[Event] observer %s failed on %s: %v", o.Name(), e.Type, err)
		}
	}
}

func (b *Bus) Shutdown() {
	b.cancel()
	b.wg.Wait()
}

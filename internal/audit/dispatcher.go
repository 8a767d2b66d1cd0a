package audit

import (
	"context"
	"sync"
	"sync/atomic"
)

// Config controls dispatcher buffering behavior.
type Config struct {
	Enabled    bool
	BufferSize int
	// DropIfFull discards events while the queue is full instead of waiting
	// for room.
	DropIfFull bool
	// OnDrop, when set, is called synchronously with every discarded event.
	OnDrop func(Event)
}

// Dispatcher relays events to a sink from a single goroutine, preserving the
// order in which Emit accepted them.
type Dispatcher struct {
	sink   Sink
	block  bool
	onDrop func(Event)

	mu     sync.RWMutex
	queue  chan Event
	closed bool
	idle   chan struct{}

	dropped   atomic.Uint64
	delivered atomic.Uint64
}

// NewDispatcher starts a dispatcher, or returns nil when cfg is disabled. A nil
// *Dispatcher accepts and discards every call.
func NewDispatcher(cfg Config, sink Sink) *Dispatcher {
	if !cfg.Enabled {
		return nil
	}
	if sink == nil {
		sink = NoOpSink{}
	}

	d := &Dispatcher{
		sink:   sink,
		block:  !cfg.DropIfFull,
		onDrop: cfg.OnDrop,
		queue:  make(chan Event, max(cfg.BufferSize, 1)),
		idle:   make(chan struct{}),
	}
	go d.loop()
	return d
}

func (d *Dispatcher) loop() {
	defer close(d.idle)
	for event := range d.queue {
		d.sink.Emit(context.Background(), event)
		d.delivered.Add(1)
	}
}

// Emit queues event. It reports whether the event was accepted; events
// arriving after Close are ignored without counting as drops.
func (d *Dispatcher) Emit(ctx context.Context, event Event) bool {
	if d == nil {
		return false
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return false
	}

	if d.block {
		if ctx == nil {
			ctx = context.Background()
		}
		select {
		case d.queue <- event:
			return true
		case <-ctx.Done():
			d.drop(event)
			return false
		}
	}

	select {
	case d.queue <- event:
		return true
	default:
		d.drop(event)
		return false
	}
}

func (d *Dispatcher) drop(event Event) {
	d.dropped.Add(1)
	if d.onDrop != nil {
		d.onDrop(event)
	}
}

// Close stops accepting events and waits until everything queued has reached
// the sink. It is safe to call more than once.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	<-d.idle
}

// Dropped returns how many events were discarded.
func (d *Dispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}

// Delivered returns how many events reached the sink.
func (d *Dispatcher) Delivered() uint64 {
	if d == nil {
		return 0
	}
	return d.delivered.Load()
}

package audit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Config controls buffering. A disabled Config yields a nil *Dispatcher,
// whose methods are all safe no-ops.
type Config struct {
	Enabled    bool
	BufferSize int
	// DropIfFull makes Emit discard instead of waiting for queue space.
	DropIfFull bool
}

// Dispatcher hands engine events to a Sink on one background goroutine, so a
// slow sink never sits on the request path.
type Dispatcher struct {
	sink       Sink
	dropIfFull bool

	queue chan Event
	stop  chan struct{}
	idle  sync.WaitGroup

	stopping  atomic.Bool
	stopOnce  sync.Once
	dropped   atomic.Uint64
	delivered atomic.Uint64
}

// NewDispatcher starts the delivery goroutine. Callers must Close it.
func NewDispatcher(cfg Config, sink Sink) *Dispatcher {
	if !cfg.Enabled {
		return nil
	}
	if sink == nil {
		sink = NoOpSink{}
	}

	d := &Dispatcher{
		sink:       sink,
		dropIfFull: cfg.DropIfFull,
		queue:      make(chan Event, max(cfg.BufferSize, 1)),
		stop:       make(chan struct{}),
	}
	d.idle.Add(1)
	go d.loop()
	return d
}

func (d *Dispatcher) loop() {
	defer d.idle.Done()
	for {
		select {
		case ev := <-d.queue:
			d.send(ev)
		case <-d.stop:
			d.drain()
			return
		}
	}
}

// drain delivers whatever is still queued once Close was called.
func (d *Dispatcher) drain() {
	for {
		select {
		case ev := <-d.queue:
			d.send(ev)
		default:
			return
		}
	}
}

func (d *Dispatcher) send(ev Event) {
	d.sink.Emit(context.Background(), ev)
	d.delivered.Add(1)
}

// Emit queues ev, stamping it with the current UTC time if unset. Events
// that cannot be queued count as dropped; events after Close are ignored.
func (d *Dispatcher) Emit(ctx context.Context, ev Event) {
	if d == nil || d.stopping.Load() {
		return
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}

	var wait <-chan struct{}
	if !d.dropIfFull && ctx != nil {
		wait = ctx.Done()
	}

	if d.dropIfFull {
		select {
		case d.queue <- ev:
		case <-d.stop:
		default:
			d.dropped.Add(1)
		}
		return
	}

	select {
	case d.queue <- ev:
	case <-d.stop:
	case <-wait:
		d.dropped.Add(1)
	}
}

// Close stops intake, flushes the queue and waits for the sink to finish.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.stopOnce.Do(func() {
		d.stopping.Store(true)
		close(d.stop)
		d.idle.Wait()
	})
}

// Dropped counts events discarded because the queue was full or the caller's
// context ended first.
func (d *Dispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}

// Delivered counts events handed to the sink.
func (d *Dispatcher) Delivered() uint64 {
	if d == nil {
		return 0
	}
	return d.delivered.Load()
}

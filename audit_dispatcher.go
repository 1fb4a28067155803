package adminauth

import (
	"context"
	"sync"
	"sync/atomic"
)

// auditDispatcher decouples engine calls from sink latency: events queue on
// a buffered channel and a single worker delivers them, so a slow sink
// never stalls login or token validation.
type auditDispatcher struct {
	sink   AuditSink
	events chan AuditEvent
	quit   chan struct{}
	wg     sync.WaitGroup

	// block, when true, makes Emit wait for buffer space instead of
	// shedding the event.
	block   bool
	dropped atomic.Uint64
	stopped atomic.Bool
	once    sync.Once
}

func newAuditDispatcher(cfg AuditConfig, sink AuditSink) *auditDispatcher {
	if !cfg.Enabled {
		return nil
	}

	buffer := cfg.BufferSize
	if buffer <= 0 {
		buffer = 1
	}
	if sink == nil {
		sink = NoOpSink{}
	}

	d := &auditDispatcher{
		sink:   sink,
		events: make(chan AuditEvent, buffer),
		quit:   make(chan struct{}),
		block:  !cfg.DropIfFull,
	}

	d.wg.Add(1)
	go d.run()

	return d
}

func (d *auditDispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case event := <-d.events:
			d.sink.Emit(context.Background(), event)
		case <-d.quit:
			d.drain()
			return
		}
	}
}

// drain delivers whatever was queued before Close; an accepted event is
// never lost to shutdown.
func (d *auditDispatcher) drain() {
	for {
		select {
		case event := <-d.events:
			d.sink.Emit(context.Background(), event)
		default:
			return
		}
	}
}

// Emit queues an event for asynchronous delivery. It is a no-op on a nil
// or closed dispatcher. Shed events are counted, not errored.
func (d *auditDispatcher) Emit(ctx context.Context, event AuditEvent) {
	if d == nil || d.stopped.Load() {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if d.block {
		select {
		case d.events <- event:
		case <-ctx.Done():
		case <-d.quit:
		}
		return
	}

	select {
	case d.events <- event:
	case <-d.quit:
	default:
		d.dropped.Add(1)
	}
}

// Close stops intake, flushes the queue, and waits for the worker. Safe to
// call more than once and on a nil dispatcher.
func (d *auditDispatcher) Close() {
	if d == nil {
		return
	}
	d.once.Do(func() {
		d.stopped.Store(true)
		close(d.quit)
		d.wg.Wait()
	})
}

// Dropped reports how many events were shed because the buffer was full.
func (d *auditDispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}

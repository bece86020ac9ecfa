package source

import (
	"context"
	"sync"
)

// Mux merges every adapter's events into one bounded channel, tagging
// each event with its source id. All cross-task communication goes
// through that channel; the consumer loop is the only reader.
//
// The merged order reflects arrival order: lines from one source keep
// their relative order, lines from different sources interleave however
// they arrive.
type Mux struct {
	events chan SourcedEvent
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu    sync.Mutex
	count int
}

// NewMux creates a multiplexer with the given channel capacity
// (DefaultChannelBuffer when <= 0)
func NewMux(buffer int) *Mux {
	if buffer <= 0 {
		buffer = DefaultChannelBuffer
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Mux{
		events: make(chan SourcedEvent, buffer),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Events returns the merged event channel. It is closed by Close after
// every source task has exited.
func (m *Mux) Events() <-chan SourcedEvent {
	return m.events
}

// AddSource spawns a task driving the adapter until it ends or the mux
// shuts down. Safe to call after startup; callers assign ids.
func (m *Mux) AddSource(id int, a Adapter) {
	m.mu.Lock()
	m.count++
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		emit := func(ev Event) bool {
			if ev.Kind == EventLine {
				ev.Record.SourceID = id
			}
			select {
			case m.events <- SourcedEvent{SourceID: id, Event: ev}:
				return true
			case <-m.ctx.Done():
				return false
			}
		}
		a.Tail(m.ctx, emit)
	}()
}

// SourceCount returns how many sources have been added
func (m *Mux) SourceCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

// Close cancels every source task, waits for them to exit, then closes
// the event channel. Cancellation kills any subprocess a task owns.
func (m *Mux) Close() {
	m.cancel()
	m.wg.Wait()
	close(m.events)
}

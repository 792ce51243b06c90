package watch

import (
	"log/slog"
	"sync"
	"time"
)

// Debouncer coalesces rapid events into a single callback invocation.
// Only the last event within the configured interval triggers the callback.
// Callbacks never overlap: one that becomes due while another is running
// waits for it to return.
type Debouncer struct {
	interval time.Duration
	callback func(trigger string)

	// running is held for the duration of a callback.
	running sync.Mutex

	mu      sync.Mutex
	timer   *time.Timer
	seq     uint64
	trigger string
}

// NewDebouncer creates a debouncer that waits for interval of quiet before
// firing callback with the trigger of the last event.
func NewDebouncer(interval time.Duration, callback func(trigger string)) *Debouncer {
	return &Debouncer{
		interval: interval,
		callback: callback,
	}
}

// Trigger records an event. If no further events arrive within the debounce
// interval, the callback fires with the last trigger seen.
func (d *Debouncer) Trigger(trigger string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.trigger = trigger
	d.seq++

	if d.timer != nil {
		d.timer.Stop()
	}

	seq := d.seq
	d.timer = time.AfterFunc(d.interval, func() { d.fire(seq) })
}

// fire runs the callback unless a later Trigger or Stop superseded seq.
func (d *Debouncer) fire(seq uint64) {
	d.running.Lock()
	defer d.running.Unlock()

	d.mu.Lock()
	if seq != d.seq {
		d.mu.Unlock()
		return
	}

	trigger := d.trigger
	d.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("debouncer callback panicked", slog.Any("error", r))
		}
	}()

	d.callback(trigger)
}

// Stop cancels any pending debounced callback and waits for a running one
// to return. It must not be called from within the callback.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.seq++

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	d.mu.Unlock()

	d.running.Lock()
	d.running.Unlock() //nolint:staticcheck // waits for an in-flight callback
}

package claude

import (
	"sync"
	"sync/atomic"
	"time"
)

// indexChange is what happened to a watched index file.
type indexChange int

const (
	indexWritten indexChange = iota
	indexRemoved
)

// DefaultDebounceDelay coalesces the burst of events an atomic rewrite produces.
const DefaultDebounceDelay = 150 * time.Millisecond

// debouncer coalesces rapid events per path. Events for the same path are
// processed once after delay with no new event; removals are processed at once.
type debouncer struct {
	pending   map[string]*pendingEvent
	seq       uint64
	mu        sync.Mutex
	delay     time.Duration
	onProcess func(path string, change indexChange)
	stopping  atomic.Bool
}

// pendingEvent is the armed timer for a path. seq identifies which Queue call
// armed it, so a timer that fired while being replaced is ignored.
type pendingEvent struct {
	timer *time.Timer
	seq   uint64
}

func newDebouncer(delay time.Duration, onProcess func(path string, change indexChange)) *debouncer {
	return &debouncer{
		pending:   make(map[string]*pendingEvent),
		delay:     delay,
		onProcess: onProcess,
	}
}

// Queue schedules processing of path. Returns false once Stop was called.
func (d *debouncer) Queue(path string, change indexChange) bool {
	if d.stopping.Load() {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopping.Load() {
		return false
	}

	if change == indexRemoved {
		if ev, ok := d.pending[path]; ok {
			ev.timer.Stop()
			delete(d.pending, path)
		}
		go d.onProcess(path, indexRemoved)
		return true
	}

	if ev, ok := d.pending[path]; ok {
		ev.timer.Stop()
	}

	d.seq++
	seq := d.seq
	d.pending[path] = &pendingEvent{
		timer: time.AfterFunc(d.delay, func() {
			d.onTimer(path, seq)
		}),
		seq: seq,
	}
	return true
}

// onTimer processes path only if seq still names its latest pending event.
func (d *debouncer) onTimer(path string, seq uint64) {
	d.mu.Lock()
	ev, ok := d.pending[path]
	ok = ok && ev.seq == seq
	if ok {
		delete(d.pending, path)
	}
	d.mu.Unlock()

	if ok && !d.stopping.Load() {
		d.onProcess(path, indexWritten)
	}
}

// Stop cancels all pending events and prevents new ones from being queued.
func (d *debouncer) Stop() {
	d.stopping.Store(true)

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, ev := range d.pending {
		ev.timer.Stop()
	}
	d.pending = make(map[string]*pendingEvent)
}

// PendingCount returns the number of pending events (for testing)
func (d *debouncer) PendingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

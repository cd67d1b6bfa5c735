package gesture

import (
	"sync"
	"time"

	"github.com/macrokeys/macrod/input"
	"github.com/macrokeys/macrod/utils"
)

// keyState tracks one key mid-gesture. States are created lazily on the
// first event for a key and cleared after each finalized gesture; only
// lastReleaseMs and lastEventMs survive the reset, for debounce and
// monotonicity checks on the next cycle.
type keyState struct {
	pressed       bool
	pressStartMs  int64
	lastReleaseMs int64
	lastEventMs   int64
	pressCount    int
	counting      bool

	// generation invalidates timers scheduled for an earlier press
	gen uint64

	finalizeTimer *time.Timer
	cancelTimer   *time.Timer
}

// Detector runs independent per-key timing state machines and emits at most
// one gesture event per completed gesture per key.
//
// Hold durations and multi-press gaps are computed from event timestamps, so
// a replayed stream classifies identically to a live one. The finalize and
// cancel-hold timers are the only wall-clock elements; Close stops them all,
// so no timer outlives a detector across profile reloads.
type Detector struct {
	settings  Settings
	onGesture func(Event)

	mu     sync.Mutex
	states map[input.Key]*keyState
	closed bool

	// emitWG tracks callbacks in flight; Close waits on it so no gesture
	// is delivered after Close returns
	emitWG sync.WaitGroup
}

// NewDetector creates a detector for validated settings. The callback is
// invoked outside the detector's lock and must not block for long; dispatch
// work elsewhere.
func NewDetector(settings Settings, onGesture func(Event)) *Detector {
	return &Detector{
		settings:  settings,
		onGesture: onGesture,
		states:    make(map[input.Key]*keyState),
	}
}

func (d *Detector) getState(key input.Key) *keyState {
	if s, ok := d.states[key]; ok {
		return s
	}
	s := &keyState{}
	d.states[key] = s
	return s
}

// HandleEvent consumes one normalized down/up edge. Malformed events,
// duplicate edges and non-monotonic timestamps are dropped silently; the
// detector never raises to the caller and never blocks the feed.
func (d *Detector) HandleEvent(ev input.Event) {
	if !ev.Valid() {
		return
	}

	var emit *Event

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}

	st := d.getState(ev.Key)
	if ev.TimestampMs < st.lastEventMs {
		d.mu.Unlock()
		utils.Verbose("gesture: dropping non-monotonic event for %s (%d < %d)", ev.Key, ev.TimestampMs, st.lastEventMs)
		return
	}
	st.lastEventMs = ev.TimestampMs

	switch ev.Kind {
	case input.EventDown:
		d.handleDown(st, ev)
	case input.EventUp:
		emit = d.handleUp(st, ev)
	}
	if emit != nil {
		d.emitWG.Add(1)
	}
	d.mu.Unlock()

	if emit != nil {
		d.onGesture(*emit)
		d.emitWG.Done()
	}
}

// handleDown is called with the lock held.
func (d *Detector) handleDown(st *keyState, ev input.Event) {
	if st.pressed {
		// duplicate down edge
		return
	}

	// hardware chatter suppression: a down too close to the previous up is
	// discarded entirely, without touching the press count
	if st.lastReleaseMs > 0 && ev.TimestampMs-st.lastReleaseMs < d.settings.DebounceDelayMs {
		return
	}

	if st.finalizeTimer != nil {
		st.finalizeTimer.Stop()
		st.finalizeTimer = nil
	}

	if st.counting && ev.TimestampMs-st.lastReleaseMs <= d.settings.MultiPressWindowMs {
		// a 5th+ rapid press stays clamped at quadruple
		if st.pressCount < maxPressCount {
			st.pressCount++
		}
	} else {
		st.pressCount = 1
		st.counting = true
	}

	st.pressed = true
	st.pressStartMs = ev.TimestampMs
	st.gen++

	// fire cancelHold while still held, without waiting for release
	gen := st.gen
	key := ev.Key
	st.cancelTimer = time.AfterFunc(time.Duration(d.settings.CancelThresholdMs)*time.Millisecond, func() {
		d.fireCancelHold(key, gen)
	})
}

// handleUp is called with the lock held; it returns the gesture to emit, if
// the release finalizes one.
func (d *Detector) handleUp(st *keyState, ev input.Event) *Event {
	if !st.pressed {
		// orphan up, e.g. the physical release after a timer-driven
		// cancelHold; still anchors the debounce window
		st.lastReleaseMs = ev.TimestampMs
		return nil
	}

	if st.cancelTimer != nil {
		st.cancelTimer.Stop()
		st.cancelTimer = nil
	}

	st.pressed = false
	hold := ev.TimestampMs - st.pressStartMs
	st.lastReleaseMs = ev.TimestampMs

	s := d.settings
	switch {
	case hold >= s.CancelThresholdMs:
		return d.finalize(ev.Key, st, CancelHold)

	case hold >= s.SuperLongMinMs:
		// releases inside the (superLongMax, cancelThreshold) gap clamp to
		// the nearest lower tier
		return d.finalize(ev.Key, st, SuperLongPress)

	case hold >= s.LongPressMinMs:
		return d.finalize(ev.Key, st, LongPress)
	}

	// short tap: hold the result open for the multi-press window
	gen := st.gen
	key := ev.Key
	st.finalizeTimer = time.AfterFunc(time.Duration(s.MultiPressWindowMs)*time.Millisecond, func() {
		d.fireFinalize(key, gen)
	})
	return nil
}

// finalize is called with the lock held. It resets the key's state for the
// next independent cycle and returns the event to emit.
func (d *Detector) finalize(key input.Key, st *keyState, kind Kind) *Event {
	if st.finalizeTimer != nil {
		st.finalizeTimer.Stop()
		st.finalizeTimer = nil
	}
	if st.cancelTimer != nil {
		st.cancelTimer.Stop()
		st.cancelTimer = nil
	}

	st.pressed = false
	st.pressCount = 0
	st.counting = false
	st.gen++

	return &Event{Key: key, Gesture: kind}
}

// fireFinalize runs when a short press's multi-press window elapses with no
// further down.
func (d *Detector) fireFinalize(key input.Key, gen uint64) {
	var emit *Event

	d.mu.Lock()
	st, ok := d.states[key]
	if ok && !d.closed && st.gen == gen && !st.pressed && st.counting {
		emit = d.finalize(key, st, kindForPressCount(st.pressCount))
		d.emitWG.Add(1)
	}
	d.mu.Unlock()

	if emit != nil {
		d.onGesture(*emit)
		d.emitWG.Done()
	}
}

// fireCancelHold runs when a press has been held past the cancel threshold.
func (d *Detector) fireCancelHold(key input.Key, gen uint64) {
	var emit *Event

	d.mu.Lock()
	st, ok := d.states[key]
	if ok && !d.closed && st.gen == gen && st.pressed {
		emit = d.finalize(key, st, CancelHold)
		d.emitWG.Add(1)
	}
	d.mu.Unlock()

	if emit != nil {
		d.onGesture(*emit)
		d.emitWG.Done()
	}
}

// Close stops every pending timer and drops all key state, then waits for
// any callback already in flight, so no gesture is delivered after Close
// returns. The callback must not call Close. A detector is never reused
// after Close; profile reloads construct a fresh one.
func (d *Detector) Close() {
	d.mu.Lock()
	d.closed = true
	for _, st := range d.states {
		if st.finalizeTimer != nil {
			st.finalizeTimer.Stop()
		}
		if st.cancelTimer != nil {
			st.cancelTimer.Stop()
		}
	}
	d.states = make(map[input.Key]*keyState)
	d.mu.Unlock()

	d.emitWG.Wait()
}

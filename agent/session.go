// Package agent wires the gesture pipeline together for one loaded profile:
// input feed → detector → binding resolution → sequence execution.
package agent

import (
	"fmt"
	"sync"

	"github.com/macrokeys/macrod/backends"
	"github.com/macrokeys/macrod/executor"
	"github.com/macrokeys/macrod/gesture"
	"github.com/macrokeys/macrod/input"
	"github.com/macrokeys/macrod/profile"
	"github.com/macrokeys/macrod/resolver"
	"github.com/macrokeys/macrod/utils"
)

// Session owns the per-profile pipeline state. The detector is recreated on
// every profile reload so no pending gesture timer survives a settings swap;
// the sequencer and backend live for the session.
type Session struct {
	backend backends.Backend
	seq     *executor.Sequencer
	res     *resolver.Resolver

	mu       sync.Mutex
	prof     *profile.Profile
	detector *gesture.Detector
	closed   bool

	gestureMu   sync.Mutex
	gestureSubs []chan gesture.Event
}

// NewSession validates the profile and builds the pipeline on top of an
// already-selected backend. Invalid gesture settings are fatal; invalid
// bindings are only reported and excluded from the executable set.
func NewSession(p *profile.Profile, backend backends.Backend, jitter bool) (*Session, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("cannot start session: %w", err)
	}

	res, err := resolver.New(p)
	if err != nil {
		return nil, err
	}

	s := &Session{
		backend: backend,
		seq:     executor.NewSequencer(backend, jitter),
		res:     res,
		prof:    p,
	}
	s.registerBindings(p)
	s.detector = gesture.NewDetector(p.GestureSettings(), s.dispatch)

	utils.Info("agent: session ready, profile %q, %d bindings, backend %s",
		p.Name, len(p.Bindings), backend.Kind())
	return s, nil
}

func (s *Session) registerBindings(p *profile.Profile) {
	for i := range p.Bindings {
		// rejects are logged by the sequencer and kept in its report
		_ = s.seq.Register(&p.Bindings[i])
	}
}

// HandleEvent feeds one normalized input event into the detector. It never
// blocks on a running sequence.
func (s *Session) HandleEvent(ev input.Event) {
	s.mu.Lock()
	detector := s.detector
	s.mu.Unlock()

	if detector != nil {
		detector.HandleEvent(ev)
	}
}

// dispatch is the detector's gesture callback: resolve and, when bound,
// execute. Execution itself is asynchronous, so classification keeps going
// while a long sequence runs.
func (s *Session) dispatch(gev gesture.Event) {
	s.publishGesture(gev)

	b := s.res.Resolve(gev.Key, gev.Gesture)
	if b == nil {
		utils.Verbose("agent: no binding for %s", gev)
		return
	}

	if _, err := s.seq.Execute(b.Name); err != nil {
		utils.Warn("agent: cannot execute %s: %v", b.Name, err)
	}
}

// Reload swaps in a new profile. The old detector is closed first so its
// pending timers cannot fire into the new configuration; any in-flight
// sequence is cancelled. A profile that fails validation leaves the current
// session untouched.
func (s *Session) Reload(p *profile.Profile) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("reload rejected: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("session is closed")
	}

	s.detector.Close()
	s.seq.Reset()
	s.registerBindings(p)
	s.res.SetProfile(p)
	s.prof = p
	s.detector = gesture.NewDetector(p.GestureSettings(), s.dispatch)

	utils.Info("agent: reloaded profile %q, %d bindings", p.Name, len(p.Bindings))
	return nil
}

// Profile returns the active profile.
func (s *Session) Profile() *profile.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prof
}

// Sequencer exposes the executor for command handlers (dry runs, cancel,
// validation reports).
func (s *Session) Sequencer() *executor.Sequencer {
	return s.seq
}

// Events returns a subscription to execution lifecycle events.
func (s *Session) Events() <-chan executor.Event {
	return s.seq.Subscribe()
}

// Gestures returns a subscription to classified gestures. Slow consumers
// lose events rather than stalling detection.
func (s *Session) Gestures() <-chan gesture.Event {
	ch := make(chan gesture.Event, 64)
	s.gestureMu.Lock()
	s.gestureSubs = append(s.gestureSubs, ch)
	s.gestureMu.Unlock()
	return ch
}

func (s *Session) publishGesture(gev gesture.Event) {
	s.gestureMu.Lock()
	defer s.gestureMu.Unlock()

	for _, ch := range s.gestureSubs {
		select {
		case ch <- gev:
		default:
		}
	}
}

// Close cancels any in-flight execution and stops the detector's timers.
// Backend destruction is owned by the backend registry, not the session.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	detector := s.detector
	s.mu.Unlock()

	s.seq.CancelAll()
	detector.Close()
}

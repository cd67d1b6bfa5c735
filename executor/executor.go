// Package executor validates macro bindings against anti-detection timing
// constraints and drives their action sequences through the active injection
// backend, with lifecycle events and cancellation.
package executor

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/macrokeys/macrod/backends"
	"github.com/macrokeys/macrod/input"
	"github.com/macrokeys/macrod/profile"
	"github.com/macrokeys/macrod/utils"
)

// EventType is the lifecycle phase of an execution event.
type EventType string

const (
	EventStarted   EventType = "started"
	EventCompleted EventType = "completed"
	EventError     EventType = "error"
)

// Event is one lifecycle notification for a binding run. Events for a run
// are emitted strictly in started → (completed | error) order, exactly once.
type Event struct {
	Type    EventType `json:"type"`
	Binding string    `json:"bindingName"`
	RunID   string    `json:"runId"`
	Err     string    `json:"error,omitempty"`
}

// PlanStep is one step of a computed timing plan.
type PlanStep struct {
	Key     input.Key `json:"key"`
	DelayMs int64     `json:"delayMs"`
}

var (
	// ErrBusy rejects an Execute while another sequence is driving the
	// backend. The injection surface is serialized; requests are not queued.
	ErrBusy = errors.New("a sequence is already executing")

	// ErrCancelled marks a run aborted by CancelAll, as opposed to a
	// backend injection failure.
	ErrCancelled = errors.New("execution cancelled")

	// ErrNotExecutable marks a binding that failed registration or was
	// never registered.
	ErrNotExecutable = errors.New("binding is not executable")
)

// jitterCapMs bounds the random per-action delay perturbation.
const jitterCapMs = 6

// Sequencer owns the executable subset of a profile's bindings and the
// serialized access to the injection backend.
type Sequencer struct {
	backend      backends.Backend
	jitterEnable bool

	mu         sync.Mutex
	executable map[string]*profile.MacroBinding
	rejected   map[string]*ValidationError
	busy       bool
	cancelCh   chan struct{}
	running    sync.WaitGroup

	listenerMu sync.Mutex
	listeners  []chan Event
}

// NewSequencer creates a sequencer bound to one backend. The backend is
// shared agent state; the sequencer serializes every Press/Release on it but
// does not own its destruction.
func NewSequencer(backend backends.Backend, jitter bool) *Sequencer {
	return &Sequencer{
		backend:      backend,
		jitterEnable: jitter,
		executable:   make(map[string]*profile.MacroBinding),
		rejected:     make(map[string]*ValidationError),
	}
}

// Register validates a binding and, on success, adds it to the executable
// set. A rejected binding is reported and remembered as non-executable; the
// rest of the profile stays usable. Disabled bindings register but never
// match a trigger.
func (s *Sequencer) Register(b *profile.MacroBinding) *ValidationError {
	s.mu.Lock()
	defer s.mu.Unlock()

	if verr := ValidateBinding(b); verr != nil {
		s.rejected[b.Name] = verr
		delete(s.executable, b.Name)
		utils.Warn("executor: %v", verr)
		return verr
	}

	s.executable[b.Name] = b
	delete(s.rejected, b.Name)
	return nil
}

// Rejected returns the validation failures recorded at registration, keyed
// by binding name.
func (s *Sequencer) Rejected() map[string]*ValidationError {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]*ValidationError, len(s.rejected))
	for name, verr := range s.rejected {
		out[name] = verr
	}
	return out
}

// Subscribe returns a buffered channel of execution events. Slow consumers
// lose events rather than stalling execution.
func (s *Sequencer) Subscribe() <-chan Event {
	ch := make(chan Event, 64)
	s.listenerMu.Lock()
	s.listeners = append(s.listeners, ch)
	s.listenerMu.Unlock()
	return ch
}

func (s *Sequencer) emit(ev Event) {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()

	for _, ch := range s.listeners {
		select {
		case ch <- ev:
		default:
			utils.Verbose("executor: dropping event %s/%s for slow listener", ev.Type, ev.Binding)
		}
	}
}

// Execute starts the named binding's sequence asynchronously and returns its
// run ID. At most one sequence may drive the backend at a time; a request
// while one is in flight returns ErrBusy.
func (s *Sequencer) Execute(name string) (string, error) {
	s.mu.Lock()
	b, ok := s.executable[name]
	if !ok {
		verr, rejected := s.rejected[name]
		s.mu.Unlock()
		if rejected {
			return "", fmt.Errorf("%w: %v", ErrNotExecutable, verr)
		}
		return "", fmt.Errorf("%w: unknown binding %q", ErrNotExecutable, name)
	}
	if s.busy {
		s.mu.Unlock()
		return "", ErrBusy
	}
	s.busy = true
	cancelCh := make(chan struct{})
	s.cancelCh = cancelCh
	s.running.Add(1)
	s.mu.Unlock()

	runID := uuid.NewString()
	go s.run(b, runID, cancelCh)
	return runID, nil
}

func (s *Sequencer) run(b *profile.MacroBinding, runID string, cancelCh chan struct{}) {
	defer func() {
		s.mu.Lock()
		s.busy = false
		if s.cancelCh == cancelCh {
			s.cancelCh = nil
		}
		s.mu.Unlock()
		s.running.Done()
	}()

	s.emit(Event{Type: EventStarted, Binding: b.Name, RunID: runID})

	jitterMax := s.jitterBound(b)
	for _, action := range b.Actions {
		select {
		case <-cancelCh:
			s.emit(Event{Type: EventError, Binding: b.Name, RunID: runID, Err: ErrCancelled.Error()})
			return
		default:
		}

		if err := s.backend.Press(action.Key); err != nil {
			s.emit(Event{Type: EventError, Binding: b.Name, RunID: runID, Err: fmt.Sprintf("press %q: %v", action.Key, err)})
			return
		}
		if err := s.backend.Release(action.Key); err != nil {
			s.emit(Event{Type: EventError, Binding: b.Name, RunID: runID, Err: fmt.Sprintf("release %q: %v", action.Key, err)})
			return
		}

		delay := action.DelayAfterMs
		if jitterMax > 0 {
			delay += rand.Int63n(jitterMax + 1)
		}
		select {
		case <-cancelCh:
			s.emit(Event{Type: EventError, Binding: b.Name, RunID: runID, Err: ErrCancelled.Error()})
			return
		case <-time.After(time.Duration(delay) * time.Millisecond):
		}
	}

	s.emit(Event{Type: EventCompleted, Binding: b.Name, RunID: runID})
}

// jitterBound caps per-action jitter so the perturbed delays can neither
// drop below the minimum (jitter only adds) nor collapse the validated
// variance below its floor.
func (s *Sequencer) jitterBound(b *profile.MacroBinding) int64 {
	if !s.jitterEnable || len(b.Actions) == 0 {
		return 0
	}
	if len(b.Actions) == 1 {
		return jitterCapMs
	}

	minDelay := b.Actions[0].DelayAfterMs
	maxDelay := b.Actions[0].DelayAfterMs
	for _, action := range b.Actions {
		if action.DelayAfterMs < minDelay {
			minDelay = action.DelayAfterMs
		}
		if action.DelayAfterMs > maxDelay {
			maxDelay = action.DelayAfterMs
		}
	}

	headroom := (maxDelay - minDelay - MinVarianceMs) / 2
	if headroom > jitterCapMs {
		return jitterCapMs
	}
	if headroom < 0 {
		return 0
	}
	return headroom
}

// DryRun re-runs validation and computes the full timing plan without any
// backend calls. It emits the same started/completed event pair as a real
// run; only the absence of side effects distinguishes the two.
func (s *Sequencer) DryRun(b *profile.MacroBinding) ([]PlanStep, error) {
	if verr := ValidateBinding(b); verr != nil {
		return nil, verr
	}

	runID := uuid.NewString()
	s.emit(Event{Type: EventStarted, Binding: b.Name, RunID: runID})

	plan := make([]PlanStep, len(b.Actions))
	for i, action := range b.Actions {
		plan[i] = PlanStep{Key: action.Key, DelayMs: action.DelayAfterMs}
	}

	s.emit(Event{Type: EventCompleted, Binding: b.Name, RunID: runID})
	return plan, nil
}

// Reset cancels any in-flight run and drops all registered bindings, in
// preparation for a profile swap. Subscribers stay attached.
func (s *Sequencer) Reset() {
	s.CancelAll()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.executable = make(map[string]*profile.MacroBinding)
	s.rejected = make(map[string]*ValidationError)
}

// CancelAll stops the in-flight sequence, if any, before its next backend
// call. It is idempotent and guarantees no further backend calls occur after
// it returns; an action already sent cannot be un-sent.
func (s *Sequencer) CancelAll() {
	s.mu.Lock()
	if s.cancelCh != nil {
		close(s.cancelCh)
		s.cancelCh = nil
	}
	s.mu.Unlock()

	s.running.Wait()
}

package backends

import (
	"sync"

	"github.com/macrokeys/macrod/input"
)

// MockCall records one intended injection call.
type MockCall struct {
	Op  string // "press" or "release"
	Key input.Key
}

// Mock is the always-constructible recording backend, used for testing and
// dry validation.
type Mock struct {
	mu        sync.Mutex
	calls     []MockCall
	destroyed bool

	// PressErr / ReleaseErr, when set, are returned by the corresponding
	// call to simulate injection failures.
	PressErr   error
	ReleaseErr error
}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Kind() Kind {
	return KindMock
}

func (m *Mock) Press(key input.Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PressErr != nil {
		return m.PressErr
	}
	m.calls = append(m.calls, MockCall{Op: "press", Key: key})
	return nil
}

func (m *Mock) Release(key input.Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReleaseErr != nil {
		return m.ReleaseErr
	}
	m.calls = append(m.calls, MockCall{Op: "release", Key: key})
	return nil
}

func (m *Mock) Destroy() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.destroyed = true
	return nil
}

// Calls returns a copy of the recorded call log.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// Destroyed reports whether Destroy has been called.
func (m *Mock) Destroyed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.destroyed
}

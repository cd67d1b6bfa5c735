// Package backends provides the pluggable key-injection mechanisms macro
// sequences execute through, plus the probing factory that selects one.
package backends

import (
	"errors"

	"github.com/macrokeys/macrod/input"
)

// Kind identifies an injection backend variant. The set is closed; every
// variant is capability-equivalent.
type Kind string

const (
	// KindUserSpace injects through an unprivileged OS input-simulation
	// facility (uinput on Linux). Always constructible where the facility
	// exists; highest relative automated-detection risk.
	KindUserSpace Kind = "user-space"

	// KindKernel injects through a privileged driver-backed helper that
	// emulates hardware-level input. Requires the helper service to be
	// running.
	KindKernel Kind = "kernel-level"

	// KindMock records intended calls without emitting real input.
	KindMock Kind = "mock"
)

// ErrUnavailable marks a backend that cannot be constructed in the current
// environment. The factory treats it as recoverable and probes the next
// candidate.
var ErrUnavailable = errors.New("backend unavailable")

// Backend is the capability surface every injection variant implements.
// Press/Release calls are serialized by the executor; implementations are
// never invoked concurrently from multiple sequences.
type Backend interface {
	Kind() Kind
	Press(key input.Key) error
	Release(key input.Key) error
	Destroy() error
}

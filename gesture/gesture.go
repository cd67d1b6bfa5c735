// Package gesture classifies per-key press/release timing into discrete
// gesture symbols. Each key is tracked by an independent state machine;
// classification never blocks the event feed.
package gesture

import (
	"fmt"

	"github.com/macrokeys/macrod/input"
)

// Kind is a classified gesture symbol. The set is closed.
type Kind string

const (
	Tap            Kind = "tap"
	Double         Kind = "double"
	Triple         Kind = "triple"
	Quadruple      Kind = "quadruple"
	LongPress      Kind = "longPress"
	SuperLongPress Kind = "superLongPress"
	CancelHold     Kind = "cancelHold"
)

// Valid reports whether k is a member of the closed gesture set.
func (k Kind) Valid() bool {
	switch k {
	case Tap, Double, Triple, Quadruple, LongPress, SuperLongPress, CancelHold:
		return true
	}
	return false
}

// maxPressCount caps rapid multi-press accumulation; presses beyond it still
// classify as Quadruple.
const maxPressCount = 4

// kindForPressCount maps an accumulated press count to its gesture.
func kindForPressCount(n int) Kind {
	switch n {
	case 1:
		return Tap
	case 2:
		return Double
	case 3:
		return Triple
	default:
		return Quadruple
	}
}

// Event is one finalized gesture on one key.
type Event struct {
	Key     input.Key `json:"key"`
	Gesture Kind      `json:"gesture"`
}

func (e Event) String() string {
	return fmt.Sprintf("%s(%s)", e.Gesture, e.Key)
}

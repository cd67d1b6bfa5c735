package input

// Key identifies a physical key or mouse button, e.g. "q", "f4", "mouse4".
type Key string

// EventKind is the edge direction of a normalized input event.
type EventKind string

const (
	EventDown EventKind = "down"
	EventUp   EventKind = "up"
)

// EventSource distinguishes keyboard keys from mouse buttons.
type EventSource string

const (
	SourceKey    EventSource = "key"
	SourceButton EventSource = "button"
)

// Event is one normalized press or release edge as delivered by an external
// capture collaborator. Timestamps are milliseconds and must be non-decreasing
// per key; the capture layer owns that guarantee.
type Event struct {
	Kind        EventKind   `json:"kind"`
	Source      EventSource `json:"source"`
	Key         Key         `json:"key"`
	TimestampMs int64       `json:"timestampMs"`
}

// Valid reports whether the event carries a recognized kind, source and a
// non-empty key. Invalid events are dropped by consumers, never escalated.
func (e Event) Valid() bool {
	if e.Key == "" {
		return false
	}
	if e.Kind != EventDown && e.Kind != EventUp {
		return false
	}
	return e.Source == SourceKey || e.Source == SourceButton
}

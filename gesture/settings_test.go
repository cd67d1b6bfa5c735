package gesture

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSettingsAreValid(t *testing.T) {
	assert.NoError(t, DefaultSettings().Validate())
}

func TestSettingsValidation(t *testing.T) {
	valid := testSettings()

	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"zero multi-press window", func(s *Settings) { s.MultiPressWindowMs = 0 }},
		{"zero debounce", func(s *Settings) { s.DebounceDelayMs = 0 }},
		{"zero long press min", func(s *Settings) { s.LongPressMinMs = 0 }},
		{"long press min above max", func(s *Settings) { s.LongPressMinMs = s.LongPressMaxMs + 1 }},
		{"long press max above super long min", func(s *Settings) { s.LongPressMaxMs = s.SuperLongMinMs + 1 }},
		{"super long min above max", func(s *Settings) { s.SuperLongMinMs = s.SuperLongMaxMs + 1 }},
		{"super long max above cancel threshold", func(s *Settings) { s.SuperLongMaxMs = s.CancelThresholdMs + 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			assert.Error(t, s.Validate())
		})
	}
}

func TestKindValid(t *testing.T) {
	for _, k := range []Kind{Tap, Double, Triple, Quadruple, LongPress, SuperLongPress, CancelHold} {
		assert.True(t, k.Valid(), "%s should be valid", k)
	}
	assert.False(t, Kind("quintuple").Valid())
	assert.False(t, Kind("").Valid())
}

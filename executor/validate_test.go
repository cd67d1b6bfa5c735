package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macrokeys/macrod/input"
	"github.com/macrokeys/macrod/profile"
)

func bindingWithDelays(delays ...int64) *profile.MacroBinding {
	b := &profile.MacroBinding{
		Name:    "test-binding",
		Trigger: profile.Trigger{Key: "q", Gesture: "tap"},
		Enabled: true,
	}
	keys := []input.Key{"1", "2", "3", "4"}
	for i, d := range delays {
		b.Actions = append(b.Actions, profile.MacroAction{
			Key:          keys[i%len(keys)],
			DelayAfterMs: d,
		})
	}
	return b
}

func TestUniformDelaysAreRejectedForVariance(t *testing.T) {
	verr := ValidateBinding(bindingWithDelays(25, 25, 25))
	require.NotNil(t, verr)
	assert.Equal(t, ReasonVarianceTooLow, verr.Reason)
}

func TestVariedDelaysValidate(t *testing.T) {
	assert.Nil(t, ValidateBinding(bindingWithDelays(25, 30, 40)))
}

func TestDelayBelowMinimumIsRejected(t *testing.T) {
	verr := ValidateBinding(bindingWithDelays(10, 30, 40))
	require.NotNil(t, verr)
	assert.Equal(t, ReasonDelayTooShort, verr.Reason)
}

func TestSingleActionHasNoVarianceRequirement(t *testing.T) {
	assert.Nil(t, ValidateBinding(bindingWithDelays(25)))
}

func TestEmptyActionListIsVacuouslyValid(t *testing.T) {
	assert.Nil(t, ValidateBinding(bindingWithDelays()))
}

func TestTooManyDistinctKeysIsRejected(t *testing.T) {
	b := &profile.MacroBinding{
		Name:    "spread",
		Trigger: profile.Trigger{Key: "q", Gesture: "tap"},
		Enabled: true,
		Actions: []profile.MacroAction{
			{Key: "1", DelayAfterMs: 25},
			{Key: "2", DelayAfterMs: 30},
			{Key: "3", DelayAfterMs: 35},
			{Key: "4", DelayAfterMs: 40},
			{Key: "5", DelayAfterMs: 45},
		},
	}
	verr := ValidateBinding(b)
	require.NotNil(t, verr)
	assert.Equal(t, ReasonTooManyKeys, verr.Reason)
}

func TestKeyRepeatedTooOftenIsRejected(t *testing.T) {
	b := &profile.MacroBinding{
		Name:    "hammer",
		Trigger: profile.Trigger{Key: "q", Gesture: "tap"},
		Enabled: true,
	}
	for i := 0; i < 7; i++ {
		b.Actions = append(b.Actions, profile.MacroAction{Key: "1", DelayAfterMs: 25 + int64(i)})
	}
	verr := ValidateBinding(b)
	require.NotNil(t, verr)
	assert.Equal(t, ReasonKeyRepeatedTooMuch, verr.Reason)
}

func TestSixRepeatsOfOneKeyValidate(t *testing.T) {
	b := &profile.MacroBinding{
		Name:    "six",
		Trigger: profile.Trigger{Key: "q", Gesture: "tap"},
		Enabled: true,
	}
	for i := 0; i < 6; i++ {
		b.Actions = append(b.Actions, profile.MacroAction{Key: "1", DelayAfterMs: 25 + int64(i)})
	}
	assert.Nil(t, ValidateBinding(b))
}

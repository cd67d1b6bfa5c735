package executor

import (
	"fmt"

	"github.com/macrokeys/macrod/input"
	"github.com/macrokeys/macrod/profile"
)

// Anti-detection timing constraints, checked once per binding at
// registration. Sequences that are too fast, perfectly uniform, or hammer a
// key are trivially distinguishable from human input.
const (
	// MinActionDelayMs is the minimum declared per-action delay.
	MinActionDelayMs = 25

	// MinVarianceMs is the minimum spread between the slowest and fastest
	// delay in a multi-action list.
	MinVarianceMs = 4

	// MaxDistinctKeys caps the number of different keys one binding may
	// reference.
	MaxDistinctKeys = 4

	// MaxKeyRepeats caps how often a single key may appear in one binding.
	MaxKeyRepeats = 6
)

// Violation reasons form a closed set; operator tooling matches on them.
const (
	ReasonDelayTooShort      = "delay-too-short"
	ReasonVarianceTooLow     = "variance-too-low"
	ReasonTooManyKeys        = "too-many-keys"
	ReasonKeyRepeatedTooMuch = "key-repeated-too-often"
)

// ValidationError describes why a binding was rejected as non-executable.
type ValidationError struct {
	Binding string
	Reason  string
	Detail  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("binding %s rejected (%s): %s", e.Binding, e.Reason, e.Detail)
}

// ValidateBinding checks a binding's action list against the timing
// constraints. A nil result means the binding is executable. A single-action
// list has no variance requirement.
func ValidateBinding(b *profile.MacroBinding) *ValidationError {
	if len(b.Actions) == 0 {
		return nil
	}

	minDelay := b.Actions[0].DelayAfterMs
	maxDelay := b.Actions[0].DelayAfterMs
	occurrences := make(map[input.Key]int)

	for i, action := range b.Actions {
		if action.DelayAfterMs < MinActionDelayMs {
			return &ValidationError{
				Binding: b.Name,
				Reason:  ReasonDelayTooShort,
				Detail:  fmt.Sprintf("action %d delay %dms is below the %dms minimum", i, action.DelayAfterMs, MinActionDelayMs),
			}
		}
		if action.DelayAfterMs < minDelay {
			minDelay = action.DelayAfterMs
		}
		if action.DelayAfterMs > maxDelay {
			maxDelay = action.DelayAfterMs
		}
		occurrences[action.Key]++
	}

	if len(b.Actions) > 1 && maxDelay-minDelay < MinVarianceMs {
		return &ValidationError{
			Binding: b.Name,
			Reason:  ReasonVarianceTooLow,
			Detail:  fmt.Sprintf("delay variance %dms is below the %dms minimum", maxDelay-minDelay, MinVarianceMs),
		}
	}

	if len(occurrences) > MaxDistinctKeys {
		return &ValidationError{
			Binding: b.Name,
			Reason:  ReasonTooManyKeys,
			Detail:  fmt.Sprintf("%d distinct keys referenced, limit is %d", len(occurrences), MaxDistinctKeys),
		}
	}

	for key, count := range occurrences {
		if count > MaxKeyRepeats {
			return &ValidationError{
				Binding: b.Name,
				Reason:  ReasonKeyRepeatedTooMuch,
				Detail:  fmt.Sprintf("key %q appears %d times, limit is %d", key, count, MaxKeyRepeats),
			}
		}
	}

	return nil
}

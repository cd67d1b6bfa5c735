// Package profile defines the read-only configuration the agent core
// operates on: gesture settings and macro bindings. Profiles are produced by
// external tooling; the core never writes back to them.
package profile

import (
	"fmt"

	"github.com/macrokeys/macrod/gesture"
	"github.com/macrokeys/macrod/input"
)

// Trigger is the (key, gesture) pair that fires a binding.
type Trigger struct {
	Key     input.Key    `json:"key" toml:"key" yaml:"key"`
	Gesture gesture.Kind `json:"gesture" toml:"gesture" yaml:"gesture"`
}

// MacroAction is one injected key press with its post-action delay.
type MacroAction struct {
	Key          input.Key `json:"key" toml:"key" yaml:"key"`
	DelayAfterMs int64     `json:"delayAfterMs" toml:"delay_after_ms" yaml:"delayAfterMs"`
}

// MacroBinding maps a trigger to an ordered action sequence. Bindings are
// immutable once registered; the executor only ever reads them.
type MacroBinding struct {
	Name    string        `json:"name" toml:"name" yaml:"name"`
	Trigger Trigger       `json:"trigger" toml:"trigger" yaml:"trigger"`
	Enabled bool          `json:"enabled" toml:"enabled" yaml:"enabled"`
	Actions []MacroAction `json:"actions" toml:"actions" yaml:"actions"`
}

// Profile is a named settings block plus its macro bindings.
type Profile struct {
	Name     string            `json:"name" toml:"name" yaml:"name"`
	Settings *gesture.Settings `json:"gestureSettings,omitempty" toml:"gesture_settings" yaml:"gestureSettings,omitempty"`
	Bindings []MacroBinding    `json:"macroBindings" toml:"macro_bindings" yaml:"macroBindings"`
}

// GestureSettings returns the profile's settings, falling back to defaults
// when the settings block is absent.
func (p *Profile) GestureSettings() gesture.Settings {
	if p.Settings == nil {
		return gesture.DefaultSettings()
	}
	return *p.Settings
}

// Validate checks the parts of a profile that are fatal for detector
// construction. Per-binding timing constraints are deliberately not checked
// here; those are enforced at executor registration and only disable the
// offending binding.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile name is required")
	}
	if err := p.GestureSettings().Validate(); err != nil {
		return fmt.Errorf("invalid gesture settings: %w", err)
	}

	seen := make(map[string]bool, len(p.Bindings))
	for i, b := range p.Bindings {
		if b.Name == "" {
			return fmt.Errorf("binding %d has no name", i)
		}
		if seen[b.Name] {
			return fmt.Errorf("duplicate binding name: %s", b.Name)
		}
		seen[b.Name] = true

		if b.Trigger.Key == "" {
			return fmt.Errorf("binding %s has no trigger key", b.Name)
		}
		if !b.Trigger.Gesture.Valid() {
			return fmt.Errorf("binding %s has unknown trigger gesture %q", b.Name, b.Trigger.Gesture)
		}
	}
	return nil
}

// FindBinding returns the named binding, or nil.
func (p *Profile) FindBinding(name string) *MacroBinding {
	for i := range p.Bindings {
		if p.Bindings[i].Name == name {
			return &p.Bindings[i]
		}
	}
	return nil
}

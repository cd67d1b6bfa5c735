package gesture

import "fmt"

// Settings holds the timing thresholds for gesture classification. All
// values are milliseconds. Profiles may carry their own settings block; the
// tags cover every profile format the loader accepts.
type Settings struct {
	MultiPressWindowMs int64 `json:"multiPressWindowMs" toml:"multi_press_window_ms" yaml:"multiPressWindowMs"`
	DebounceDelayMs    int64 `json:"debounceDelayMs" toml:"debounce_delay_ms" yaml:"debounceDelayMs"`
	LongPressMinMs     int64 `json:"longPressMinMs" toml:"long_press_min_ms" yaml:"longPressMinMs"`
	LongPressMaxMs     int64 `json:"longPressMaxMs" toml:"long_press_max_ms" yaml:"longPressMaxMs"`
	SuperLongMinMs     int64 `json:"superLongMinMs" toml:"super_long_min_ms" yaml:"superLongMinMs"`
	SuperLongMaxMs     int64 `json:"superLongMaxMs" toml:"super_long_max_ms" yaml:"superLongMaxMs"`
	CancelThresholdMs  int64 `json:"cancelThresholdMs" toml:"cancel_threshold_ms" yaml:"cancelThresholdMs"`
}

// Validate enforces the threshold ordering invariant:
//
//	0 < longPressMin < longPressMax <= superLongMin < superLongMax <= cancelThreshold
//
// plus positive debounce and multi-press window. Settings that fail here are
// unusable and reject the whole profile at load time.
func (s Settings) Validate() error {
	if s.MultiPressWindowMs <= 0 {
		return fmt.Errorf("multiPressWindowMs must be positive, got %d", s.MultiPressWindowMs)
	}
	if s.DebounceDelayMs <= 0 {
		return fmt.Errorf("debounceDelayMs must be positive, got %d", s.DebounceDelayMs)
	}
	if s.LongPressMinMs <= 0 {
		return fmt.Errorf("longPressMinMs must be positive, got %d", s.LongPressMinMs)
	}
	if s.LongPressMinMs >= s.LongPressMaxMs {
		return fmt.Errorf("longPressMinMs (%d) must be below longPressMaxMs (%d)", s.LongPressMinMs, s.LongPressMaxMs)
	}
	if s.LongPressMaxMs > s.SuperLongMinMs {
		return fmt.Errorf("longPressMaxMs (%d) must not exceed superLongMinMs (%d)", s.LongPressMaxMs, s.SuperLongMinMs)
	}
	if s.SuperLongMinMs >= s.SuperLongMaxMs {
		return fmt.Errorf("superLongMinMs (%d) must be below superLongMaxMs (%d)", s.SuperLongMinMs, s.SuperLongMaxMs)
	}
	if s.SuperLongMaxMs > s.CancelThresholdMs {
		return fmt.Errorf("superLongMaxMs (%d) must not exceed cancelThresholdMs (%d)", s.SuperLongMaxMs, s.CancelThresholdMs)
	}
	return nil
}

// DefaultSettings returns the thresholds used when a profile omits its
// settings block.
func DefaultSettings() Settings {
	return Settings{
		MultiPressWindowMs: 350,
		DebounceDelayMs:    30,
		LongPressMinMs:     400,
		LongPressMaxMs:     1200,
		SuperLongMinMs:     1200,
		SuperLongMaxMs:     2500,
		CancelThresholdMs:  4000,
	}
}

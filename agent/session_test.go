package agent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macrokeys/macrod/backends"
	"github.com/macrokeys/macrod/executor"
	"github.com/macrokeys/macrod/gesture"
	"github.com/macrokeys/macrod/input"
	"github.com/macrokeys/macrod/profile"
)

func testSettings() *gesture.Settings {
	return &gesture.Settings{
		MultiPressWindowMs: 60,
		DebounceDelayMs:    5,
		LongPressMinMs:     100,
		LongPressMaxMs:     200,
		SuperLongMinMs:     200,
		SuperLongMaxMs:     300,
		CancelThresholdMs:  400,
	}
}

func testProfile() *profile.Profile {
	return &profile.Profile{
		Name:     "raid",
		Settings: testSettings(),
		Bindings: []profile.MacroBinding{
			{
				Name:    "opener",
				Trigger: profile.Trigger{Key: "q", Gesture: gesture.Tap},
				Enabled: true,
				Actions: []profile.MacroAction{
					{Key: "1", DelayAfterMs: 25},
					{Key: "2", DelayAfterMs: 40},
				},
			},
			{
				Name:    "uniform",
				Trigger: profile.Trigger{Key: "w", Gesture: gesture.Tap},
				Enabled: true,
				Actions: []profile.MacroAction{
					{Key: "3", DelayAfterMs: 25},
					{Key: "4", DelayAfterMs: 25},
				},
			},
		},
	}
}

func feedTap(s *Session, key input.Key, ts int64) {
	s.HandleEvent(input.Event{Kind: input.EventDown, Source: input.SourceKey, Key: key, TimestampMs: ts})
	s.HandleEvent(input.Event{Kind: input.EventUp, Source: input.SourceKey, Key: key, TimestampMs: ts + 5})
}

func collectExec(ch <-chan executor.Event, n int, timeout time.Duration) []executor.Event {
	var out []executor.Event
	deadline := time.After(timeout)
	for len(out) < n {
		select {
		case ev := <-ch:
			out = append(out, ev)
		case <-deadline:
			return out
		}
	}
	return out
}

func TestTapGestureTriggersBoundSequence(t *testing.T) {
	mock := backends.NewMock()
	s, err := NewSession(testProfile(), mock, false)
	require.NoError(t, err)
	defer s.Close()

	executions := s.Events()
	gestures := s.Gestures()

	feedTap(s, "q", 0)

	select {
	case gev := <-gestures:
		assert.Equal(t, gesture.Event{Key: "q", Gesture: gesture.Tap}, gev)
	case <-time.After(2 * time.Second):
		t.Fatal("no gesture classified")
	}

	got := collectExec(executions, 2, 2*time.Second)
	require.Len(t, got, 2)
	assert.Equal(t, executor.EventStarted, got[0].Type)
	assert.Equal(t, "opener", got[0].Binding)
	assert.Equal(t, executor.EventCompleted, got[1].Type)

	calls := mock.Calls()
	require.Len(t, calls, 4)
	assert.Equal(t, backends.MockCall{Op: "press", Key: "1"}, calls[0])
	assert.Equal(t, backends.MockCall{Op: "release", Key: "2"}, calls[3])
}

func TestInvalidBindingIsReportedButProfileLoads(t *testing.T) {
	s, err := NewSession(testProfile(), backends.NewMock(), false)
	require.NoError(t, err)
	defer s.Close()

	rejected := s.Sequencer().Rejected()
	require.Contains(t, rejected, "uniform")
	assert.Equal(t, executor.ReasonVarianceTooLow, rejected["uniform"].Reason)

	// the valid binding still executes
	_, err = s.Sequencer().Execute("opener")
	assert.NoError(t, err)
	s.Sequencer().CancelAll()
}

func TestUnboundGestureExecutesNothing(t *testing.T) {
	mock := backends.NewMock()
	s, err := NewSession(testProfile(), mock, false)
	require.NoError(t, err)
	defer s.Close()

	gestures := s.Gestures()
	feedTap(s, "z", 0)

	select {
	case <-gestures:
	case <-time.After(2 * time.Second):
		t.Fatal("no gesture classified")
	}

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, mock.Calls())
}

func TestSessionRejectsInvalidSettings(t *testing.T) {
	p := testProfile()
	p.Settings.LongPressMinMs = p.Settings.LongPressMaxMs + 1

	_, err := NewSession(p, backends.NewMock(), false)
	assert.Error(t, err)
}

func TestReloadSwapsBindings(t *testing.T) {
	mock := backends.NewMock()
	s, err := NewSession(testProfile(), mock, false)
	require.NoError(t, err)
	defer s.Close()

	next := testProfile()
	next.Name = "raid-v2"
	next.Bindings = []profile.MacroBinding{
		{
			Name:    "finisher",
			Trigger: profile.Trigger{Key: "q", Gesture: gesture.Tap},
			Enabled: true,
			Actions: []profile.MacroAction{{Key: "5", DelayAfterMs: 25}},
		},
	}
	require.NoError(t, s.Reload(next))
	assert.Equal(t, "raid-v2", s.Profile().Name)

	executions := s.Events()
	feedTap(s, "q", 0)

	got := collectExec(executions, 2, 2*time.Second)
	require.Len(t, got, 2)
	assert.Equal(t, "finisher", got[0].Binding)

	_, err = s.Sequencer().Execute("opener")
	assert.ErrorIs(t, err, executor.ErrNotExecutable)
}

func TestReloadRejectsInvalidProfileAndKeepsSession(t *testing.T) {
	s, err := NewSession(testProfile(), backends.NewMock(), false)
	require.NoError(t, err)
	defer s.Close()

	broken := testProfile()
	broken.Settings.DebounceDelayMs = 0
	require.Error(t, s.Reload(broken))

	assert.Equal(t, "raid", s.Profile().Name)
}

func TestCloseIsIdempotent(t *testing.T) {
	s, err := NewSession(testProfile(), backends.NewMock(), false)
	require.NoError(t, err)

	s.Close()
	s.Close()
}

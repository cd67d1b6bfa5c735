package input

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplayReaderDecodesEvents(t *testing.T) {
	stream := `{"kind":"down","source":"key","key":"q","timestampMs":0}
{"kind":"up","source":"key","key":"q","timestampMs":5}
`
	var got []Event
	err := NewReplayReader(strings.NewReader(stream), false).Run(func(ev Event) {
		got = append(got, ev)
	})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, Event{Kind: EventDown, Source: SourceKey, Key: "q", TimestampMs: 0}, got[0])
	assert.Equal(t, Event{Kind: EventUp, Source: SourceKey, Key: "q", TimestampMs: 5}, got[1])
}

func TestReplayReaderSkipsNoise(t *testing.T) {
	stream := `{"kind":"down","source":"key","key":"q","timestampMs":0}
not json at all
{"kind":"sideways","source":"key","key":"q","timestampMs":1}
{"kind":"up","source":"key","timestampMs":2}

{"kind":"up","source":"key","key":"q","timestampMs":5}
`
	var got []Event
	err := NewReplayReader(strings.NewReader(stream), false).Run(func(ev Event) {
		got = append(got, ev)
	})
	require.NoError(t, err)
	assert.Len(t, got, 2, "malformed and invalid lines are skipped")
}

func TestEventValid(t *testing.T) {
	assert.True(t, Event{Kind: EventDown, Source: SourceKey, Key: "q"}.Valid())
	assert.True(t, Event{Kind: EventUp, Source: SourceButton, Key: "mouse4"}.Valid())
	assert.False(t, Event{Kind: EventDown, Source: SourceKey}.Valid())
	assert.False(t, Event{Kind: "hover", Source: SourceKey, Key: "q"}.Valid())
	assert.False(t, Event{Kind: EventDown, Source: "pedal", Key: "q"}.Valid())
}

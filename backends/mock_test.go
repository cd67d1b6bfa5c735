package backends

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockRecordsCallsInOrder(t *testing.T) {
	m := NewMock()

	require.NoError(t, m.Press("q"))
	require.NoError(t, m.Release("q"))
	require.NoError(t, m.Press("w"))

	calls := m.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, MockCall{Op: "press", Key: "q"}, calls[0])
	assert.Equal(t, MockCall{Op: "release", Key: "q"}, calls[1])
	assert.Equal(t, MockCall{Op: "press", Key: "w"}, calls[2])
}

func TestMockErrorInjection(t *testing.T) {
	m := NewMock()
	m.PressErr = errors.New("boom")

	assert.Error(t, m.Press("q"))
	assert.Empty(t, m.Calls(), "failed calls are not recorded")
}

func TestMockDestroy(t *testing.T) {
	m := NewMock()
	assert.False(t, m.Destroyed())
	require.NoError(t, m.Destroy())
	assert.True(t, m.Destroyed())
}

func TestEvdevCodeLookup(t *testing.T) {
	code, err := evdevCode("q")
	require.NoError(t, err)
	assert.Equal(t, uint16(16), code)

	_, err = evdevCode("hyperkey")
	assert.Error(t, err)
}

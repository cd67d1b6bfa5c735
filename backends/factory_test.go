package backends

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withFailingVariants simulates an environment where only the mock is
// constructible.
func withFailingVariants(t *testing.T) {
	t.Helper()
	original := construct
	construct = func(kind Kind) (Backend, error) {
		switch kind {
		case KindKernel:
			return nil, fmt.Errorf("%w: injector service is not running", ErrUnavailable)
		case KindUserSpace:
			return nil, fmt.Errorf("%w: cannot open /dev/uinput", ErrUnavailable)
		case KindMock:
			return NewMock(), nil
		default:
			return nil, fmt.Errorf("unknown backend kind: %s", kind)
		}
	}
	t.Cleanup(func() { construct = original })
}

func TestProbingFallsBackToMockWithDistinctReasons(t *testing.T) {
	withFailingVariants(t)

	result, err := Create("auto")
	require.NoError(t, err)
	defer func() { _ = result.Backend.Destroy() }()

	assert.Equal(t, KindMock, result.Backend.Kind())

	require.Len(t, result.Skipped, 2)
	assert.Equal(t, KindKernel, result.Skipped[0].Kind)
	assert.Equal(t, KindUserSpace, result.Skipped[1].Kind)
	assert.NotEqual(t, result.Skipped[0].Err, result.Skipped[1].Err)
}

func TestEmptyPreferenceMeansAuto(t *testing.T) {
	withFailingVariants(t)

	result, err := Create("")
	require.NoError(t, err)
	defer func() { _ = result.Backend.Destroy() }()
	assert.Equal(t, KindMock, result.Backend.Kind())
}

func TestExplicitPreferenceFailsLoudlyWhenUnavailable(t *testing.T) {
	withFailingVariants(t)

	_, err := Create(string(KindKernel))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestExplicitMockSkipsProbing(t *testing.T) {
	result, err := Create(string(KindMock))
	require.NoError(t, err)
	defer func() { _ = result.Backend.Destroy() }()

	assert.Equal(t, KindMock, result.Backend.Kind())
	assert.Empty(t, result.Skipped)
}

func TestUnknownPreferenceIsRejected(t *testing.T) {
	_, err := Create("hypervisor")
	assert.Error(t, err)
}

func TestTotalUnavailabilityIsFatal(t *testing.T) {
	original := construct
	construct = func(kind Kind) (Backend, error) {
		return nil, fmt.Errorf("%w: nothing works here", ErrUnavailable)
	}
	t.Cleanup(func() { construct = original })

	_, err := Create("auto")
	assert.Error(t, err)
}

package simplecodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wwhai/uavcan-presentation"
)

type sample struct {
	A int
	B string
}

func TestRoundTrip(t *testing.T) {
	c := New()

	frags, err := c.Serialize(sample{A: 7, B: "hi"})
	require.NoError(t, err)
	require.Len(t, frags, 1)

	got, ok := c.TryDeserialize(sample{}, frags)
	require.True(t, ok)
	assert.Equal(t, sample{A: 7, B: "hi"}, got)
}

func TestTryDeserializeRejectsEmptyFragments(t *testing.T) {
	c := New()
	_, ok := c.TryDeserialize(sample{}, nil)
	assert.False(t, ok)
}

func TestTryDeserializeRejectsMalformedPayload(t *testing.T) {
	c := New()
	_, ok := c.TryDeserialize(sample{}, presentation.Fragments{[]byte("garbage")})
	assert.False(t, ok)
}

func TestTryDeserializeRejectsTypeMismatch(t *testing.T) {
	c := New()

	type other struct{ X float64 }
	frags, err := c.Serialize(sample{A: 1, B: "x"})
	require.NoError(t, err)

	_, ok := c.TryDeserialize(other{}, frags)
	assert.False(t, ok)
}

func TestEqualUint16Slices(t *testing.T) {
	assert.NoError(t, EqualUint16Slices([]uint16{1, 2, 3}, []uint16{1, 2, 3}))
	assert.Error(t, EqualUint16Slices([]uint16{1, 2}, []uint16{1, 2, 3}))
	assert.Error(t, EqualUint16Slices([]uint16{1, 2, 3}, []uint16{1, 2, 4}))
}

package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSeed(t *testing.T) {
	a, err := NewSeed()
	require.NoError(t, err)
	b, err := NewSeed()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestLocked_Deterministic(t *testing.T) {
	a := New(7)
	b := New(7)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Intn(100), b.Intn(100))
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestFixed(t *testing.T) {
	f := &Fixed{Floats: []float64{0.1, 0.9}, Ints: []int{3, 12}}
	assert.Equal(t, 0.1, f.Float64())
	assert.Equal(t, 0.9, f.Float64())
	assert.Equal(t, 0.1, f.Float64())
	assert.Equal(t, 3, f.Intn(10))
	assert.Equal(t, 2, f.Intn(10))
}

func TestUniform(t *testing.T) {
	f := &Fixed{Floats: []float64{0.5}}
	assert.InDelta(t, 15.0, Uniform(f, 10, 20), 1e-9)
}

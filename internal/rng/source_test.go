package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	id     string
	weight int
}

func TestNewIsDeterministic(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Intn(1000), b.Intn(1000))
	}
}

func TestSequence(t *testing.T) {
	s := NewSequence([]float64{0.25, 0.75}, []int{3, 8})

	assert.Equal(t, 0.25, s.Float64())
	assert.Equal(t, 0.75, s.Float64())
	assert.Equal(t, 0.25, s.Float64(), "floats cycle")

	assert.Equal(t, 3, s.Intn(5))
	assert.Equal(t, 3, s.Intn(5), "8 mod 5")

	empty := NewSequence(nil, nil)
	assert.Equal(t, 0.0, empty.Float64())
	assert.Equal(t, 0, empty.Intn(4))
}

func TestPickWeighted(t *testing.T) {
	table := []entry{{"skip", 0}, {"a", 1}, {"b", 3}}
	w := func(e entry) int { return e.weight }

	t.Run("first bucket", func(t *testing.T) {
		got, err := PickWeighted(NewSequence(nil, []int{0}), table, w)
		require.NoError(t, err)
		assert.Equal(t, "a", got.id)
	})

	t.Run("later bucket", func(t *testing.T) {
		got, err := PickWeighted(NewSequence(nil, []int{3}), table, w)
		require.NoError(t, err)
		assert.Equal(t, "b", got.id)
	})

	t.Run("no weight", func(t *testing.T) {
		_, err := PickWeighted(New(1), []entry{{"x", 0}}, w)
		assert.ErrorIs(t, err, ErrNoWeight)
	})
}

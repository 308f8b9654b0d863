package geo

import (
	"testing"

	"xbitocom/internal/rng"
	"xbitocom/internal/validate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	assert.Equal(t, 5.0, Distance(Point{0, 0}, Point{3, 4}))
	assert.Equal(t, Point{X: 5, Y: 10}, Lerp(Point{0, 0}, Point{10, 20}, 0.5))
}

func TestSegmentIntersectsRect(t *testing.T) {
	r := Rect{MinX: 10, MinY: 10, MaxX: 20, MaxY: 20}

	cases := []struct {
		name string
		a, b Point
		want bool
	}{
		{"crosses through", Point{0, 15}, Point{30, 15}, true},
		{"inside", Point{12, 12}, Point{18, 18}, true},
		{"diagonal clip", Point{0, 0}, Point{30, 30}, true},
		{"touches corner", Point{0, 20}, Point{20, 0}, true},
		{"passes above", Point{0, 5}, Point{30, 5}, false},
		{"stops short", Point{0, 15}, Point{9, 15}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SegmentIntersectsRect(tc.a, tc.b, r))
		})
	}
}

func TestSegmentIntersectsCircle(t *testing.T) {
	center := Point{50, 0}

	assert.True(t, SegmentIntersectsCircle(Point{0, 0}, Point{100, 0}, center, 5, 10), "a sample lands inside")
	assert.True(t, SegmentIntersectsCircle(Point{50, 3}, Point{500, 300}, center, 5, 10), "start endpoint inside")
	assert.False(t, SegmentIntersectsCircle(Point{0, 20}, Point{100, 20}, center, 5, 10))
	// Radius smaller than the sampling step: the pass between samples is missed.
	assert.False(t, SegmentIntersectsCircle(Point{0, 0}, Point{100, 0}, Point{50, 0}, 1, 10))
}

func TestEdges(t *testing.T) {
	assert.Equal(t, South, North.Opposite())
	assert.Equal(t, West, East.Opposite())
	assert.ElementsMatch(t, []Edge{East, West}, North.Adjacent())

	src := rng.NewSequence([]float64{0.25}, nil)
	assert.Equal(t, Point{X: 250, Y: 0}, PointOnEdge(MapBounds, North, src))
	assert.Equal(t, Point{X: 0, Y: 125}, PointOnEdge(MapBounds, West, src))
	assert.Equal(t, Point{X: 1000, Y: 125}, PointOnEdge(MapBounds, East, src))
}

func TestContinents(t *testing.T) {
	eu, err := ContinentByName("Europe")
	require.NoError(t, err)

	at, ok := ContinentAt(eu.Bounds.Center())
	require.True(t, ok)
	assert.Equal(t, "Europe", at.Name)

	_, ok = ContinentAt(Point{5, 5})
	assert.False(t, ok, "open ocean")

	_, err = ContinentByName("Atlantis")
	assert.ErrorIs(t, err, validate.ErrInvalidArgument)

	assert.True(t, CrossesLand(Point{0, 100}, Point{1000, 100}))
	assert.False(t, CrossesLand(Point{0, 5}, Point{1000, 5}))

	for _, c := range Continents {
		assert.True(t, MapBounds.Contains(c.Bounds.Center()), c.Name)
		assert.Positive(t, c.PersonnelMultiplier, c.Name)
	}
}

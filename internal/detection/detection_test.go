package detection

import (
	"testing"

	"xbitocom/internal/base"
	"xbitocom/internal/facility"
	"xbitocom/internal/geo"
	"xbitocom/internal/rng"
	"xbitocom/internal/ufo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func radarBase(t *testing.T, at geo.Point, rangeUnits float64) base.Base {
	t.Helper()
	radar, err := facility.Create(facility.TypeRadar, 1)
	require.NoError(t, err)
	return base.Base{
		ID:                 "b1",
		Location:           at,
		Facilities:         []facility.Facility{radar},
		RadarRange:         rangeUnits,
		RadarEffectiveness: 1,
	}
}

func TestCheckRadarDetection(t *testing.T) {
	b := radarBase(t, geo.Point{}, 100)
	near := ufo.UFO{Location: ufo.Location{X: 60}}

	t.Run("range grows with radar level", func(t *testing.T) {
		assert.InDelta(t, 120, EffectiveRange(b, Options{}), 1e-9)
	})

	t.Run("roll under probability detects", func(t *testing.T) {
		res, err := CheckRadarDetection(near, b, rng.NewSequence([]float64{0.49}, nil), Options{})
		require.NoError(t, err)
		assert.InDelta(t, 0.5, res.Probability, 1e-9)
		assert.True(t, res.Detected)
	})

	t.Run("roll at probability misses", func(t *testing.T) {
		res, err := CheckRadarDetection(near, b, rng.NewSequence([]float64{0.5}, nil), Options{})
		require.NoError(t, err)
		assert.False(t, res.Detected)
	})

	t.Run("out of range never detects", func(t *testing.T) {
		far := ufo.UFO{Location: ufo.Location{X: 200}}
		res, err := CheckRadarDetection(far, b, rng.NewSequence([]float64{0}, nil), Options{})
		require.NoError(t, err)
		assert.False(t, res.Detected)
		assert.Zero(t, res.Probability)
	})

	t.Run("full stealth never detects", func(t *testing.T) {
		ghost := ufo.UFO{Location: ufo.Location{X: 10}, StealthRating: 100}
		res, err := CheckRadarDetection(ghost, b, rng.NewSequence([]float64{0}, nil), Options{})
		require.NoError(t, err)
		assert.False(t, res.Detected)
	})

	t.Run("nil source", func(t *testing.T) {
		_, err := CheckRadarDetection(near, b, nil, Options{})
		assert.Error(t, err)
	})
}

func TestGenerateTrajectory(t *testing.T) {
	t.Run("scripted west to east crossing", func(t *testing.T) {
		src := rng.NewSequence([]float64{0.2}, []int{3, 0})
		tr, err := GenerateTrajectory(nil, false, src, Options{})
		require.NoError(t, err)
		assert.Equal(t, geo.Point{X: 0, Y: 100}, tr.Start)
		assert.Equal(t, geo.Point{X: 1000, Y: 100}, tr.End)
		assert.Equal(t, tr.Start, tr.CurrentPosition)
	})

	t.Run("ocean-only paths exhaust the budget", func(t *testing.T) {
		src := rng.NewSequence([]float64{0}, []int{0, 0})
		_, err := GenerateTrajectory(nil, false, src, Options{MaxAttempts: 5})
		assert.ErrorIs(t, err, ErrTrajectoryGenerationFailed)
	})

	t.Run("first spawn passes through radar", func(t *testing.T) {
		hq := radarBase(t, geo.MapBounds.Center(), 150)
		for seed := int64(1); seed <= 20; seed++ {
			tr, err := GenerateTrajectory([]base.Base{hq}, true, rng.New(seed), Options{})
			require.NoError(t, err, "seed %d", seed)
			assert.True(t, geo.CrossesLand(tr.Start, tr.End))
			assert.True(t, geo.SegmentIntersectsCircle(tr.Start, tr.End, hq.Location, EffectiveRange(hq, Options{}), 10))
		}
	})

	t.Run("first spawn with unreachable radar fails", func(t *testing.T) {
		lost := radarBase(t, geo.Point{X: -5000, Y: -5000}, 1)
		_, err := GenerateTrajectory([]base.Base{lost}, true, rng.New(1), Options{})
		assert.ErrorIs(t, err, ErrTrajectoryGenerationFailed)

		_, err = GenerateTrajectory(nil, true, rng.New(1), Options{})
		assert.ErrorIs(t, err, ErrTrajectoryGenerationFailed)
	})
}

package detection

import (
	"errors"
	"fmt"

	"xbitocom/internal/base"
	"xbitocom/internal/geo"
	"xbitocom/internal/rng"
	"xbitocom/internal/ufo"
	"xbitocom/internal/validate"
)

var ErrTrajectoryGenerationFailed = errors.New("trajectory generation failed")

type Options struct {
	// RadarLevelBonus is the range gained per radar facility level.
	RadarLevelBonus float64
	MaxAttempts     int
	// RadarSamples is the number of interior points tested against radar
	// circles on a first spawn; both endpoints are always tested.
	RadarSamples int
	Bounds       geo.Rect
}

func DefaultOptions() Options {
	return Options{
		RadarLevelBonus: 0.2,
		MaxAttempts:     100,
		RadarSamples:    10,
		Bounds:          geo.MapBounds,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.RadarLevelBonus <= 0 {
		o.RadarLevelBonus = d.RadarLevelBonus
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = d.MaxAttempts
	}
	if o.RadarSamples <= 0 {
		o.RadarSamples = d.RadarSamples
	}
	if o.Bounds == (geo.Rect{}) {
		o.Bounds = d.Bounds
	}
	return o
}

// EffectiveRange is b's radar range after radar facility upgrades.
func EffectiveRange(b base.Base, opts Options) float64 {
	opts = opts.withDefaults()
	return b.RadarRange * (1 + float64(base.RadarLevel(b))*opts.RadarLevelBonus)
}

type Result struct {
	Detected    bool    `json:"detected"`
	Distance    float64 `json:"distance"`
	Range       float64 `json:"range"`
	Probability float64 `json:"probability"`
}

// CheckRadarDetection rolls whether b sees u. Out of range never rolls.
func CheckRadarDetection(u ufo.UFO, b base.Base, src rng.Source, opts Options) (Result, error) {
	if err := validate.NotNil("random source", src); err != nil {
		return Result{}, err
	}
	res := Result{
		Distance: geo.Distance(b.Location, u.Location.Point()),
		Range:    EffectiveRange(b, opts),
	}
	if res.Range <= 0 || res.Distance > res.Range {
		return res, nil
	}

	p := (1 - res.Distance/res.Range) * b.RadarEffectiveness * (1 - float64(u.StealthRating)/100)
	res.Probability = min(1, max(0, p))
	res.Detected = src.Float64() < res.Probability
	return res, nil
}

// GenerateTrajectory samples edge-to-edge paths until one crosses land
// and, on a first spawn, passes through some base's radar coverage.
func GenerateTrajectory(bases []base.Base, isFirstSpawn bool, src rng.Source, opts Options) (ufo.Trajectory, error) {
	if err := validate.NotNil("random source", src); err != nil {
		return ufo.Trajectory{}, err
	}
	opts = opts.withDefaults()
	if isFirstSpawn && len(bases) == 0 {
		return ufo.Trajectory{}, fmt.Errorf("%w: first spawn needs at least one base", ErrTrajectoryGenerationFailed)
	}

	for attempt := 0; attempt < opts.MaxAttempts; attempt++ {
		startEdge := geo.Edges[src.Intn(len(geo.Edges))]
		start := geo.PointOnEdge(opts.Bounds, startEdge, src)

		adj := startEdge.Adjacent()
		endEdges := [3]geo.Edge{startEdge.Opposite(), adj[0], adj[1]}
		end := geo.PointOnEdge(opts.Bounds, endEdges[src.Intn(len(endEdges))], src)

		if !geo.CrossesLand(start, end) {
			continue
		}
		if isFirstSpawn && !coveredByRadar(start, end, bases, opts) {
			continue
		}
		return ufo.Trajectory{Start: start, End: end, CurrentPosition: start}, nil
	}
	return ufo.Trajectory{}, fmt.Errorf("%w after %d attempts", ErrTrajectoryGenerationFailed, opts.MaxAttempts)
}

func coveredByRadar(start, end geo.Point, bases []base.Base, opts Options) bool {
	for _, b := range bases {
		if geo.SegmentIntersectsCircle(start, end, b.Location, EffectiveRange(b, opts), opts.RadarSamples) {
			return true
		}
	}
	return false
}

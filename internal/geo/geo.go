package geo

import (
	"math"

	"xbitocom/internal/rng"
)

// Point is a position in map units. Y grows southward.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

type Rect struct {
	MinX float64 `json:"min_x" yaml:"min_x"`
	MinY float64 `json:"min_y" yaml:"min_y"`
	MaxX float64 `json:"max_x" yaml:"max_x"`
	MaxY float64 `json:"max_y" yaml:"max_y"`
}

// MapBounds is the playable world.
var MapBounds = Rect{MinX: 0, MinY: 0, MaxX: 1000, MaxY: 500}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

func (r Rect) Center() Point {
	return Point{X: (r.MinX + r.MaxX) / 2, Y: (r.MinY + r.MaxY) / 2}
}

func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Lerp returns the point at fraction t of the way from a to b.
func Lerp(a, b Point, t float64) Point {
	return Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

// SegmentIntersectsRect reports whether segment ab touches r, including
// segments that lie entirely inside it.
func SegmentIntersectsRect(a, b Point, r Rect) bool {
	if r.Contains(a) || r.Contains(b) {
		return true
	}
	corners := [4]Point{
		{X: r.MinX, Y: r.MinY},
		{X: r.MaxX, Y: r.MinY},
		{X: r.MaxX, Y: r.MaxY},
		{X: r.MinX, Y: r.MaxY},
	}
	for i := range corners {
		if segmentsIntersect(a, b, corners[i], corners[(i+1)%4]) {
			return true
		}
	}
	return false
}

func cross(o, a, b Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

func onSegment(p, q, r Point) bool {
	return q.X <= math.Max(p.X, r.X) && q.X >= math.Min(p.X, r.X) &&
		q.Y <= math.Max(p.Y, r.Y) && q.Y >= math.Min(p.Y, r.Y)
}

func segmentsIntersect(p1, p2, q1, q2 Point) bool {
	d1 := cross(q1, q2, p1)
	d2 := cross(q1, q2, p2)
	d3 := cross(p1, p2, q1)
	d4 := cross(p1, p2, q2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) && ((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	switch {
	case d1 == 0 && onSegment(q1, p1, q2):
		return true
	case d2 == 0 && onSegment(q1, p2, q2):
		return true
	case d3 == 0 && onSegment(p1, q1, p2):
		return true
	case d4 == 0 && onSegment(p1, q2, p2):
		return true
	}
	return false
}

// SegmentIntersectsCircle checks both endpoints plus samples evenly spaced
// interior points of ab against the circle. It is an approximation: a
// segment grazing a small circle between samples is missed.
func SegmentIntersectsCircle(a, b, center Point, radius float64, samples int) bool {
	steps := max(samples, 0) + 1
	for i := 0; i <= steps; i++ {
		p := Lerp(a, b, float64(i)/float64(steps))
		if Distance(p, center) <= radius {
			return true
		}
	}
	return false
}

type Edge int

const (
	North Edge = iota
	East
	South
	West
)

var Edges = []Edge{North, East, South, West}

func (e Edge) String() string {
	switch e {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	}
	return "unknown"
}

func (e Edge) Opposite() Edge {
	return (e + 2) % 4
}

// Adjacent returns the two edges that share a corner with e.
func (e Edge) Adjacent() [2]Edge {
	return [2]Edge{(e + 1) % 4, (e + 3) % 4}
}

// PointOnEdge picks a uniformly random point along edge e of r.
func PointOnEdge(r Rect, e Edge, src rng.Source) Point {
	f := src.Float64()
	switch e {
	case North:
		return Point{X: r.MinX + f*(r.MaxX-r.MinX), Y: r.MinY}
	case East:
		return Point{X: r.MaxX, Y: r.MinY + f*(r.MaxY-r.MinY)}
	case South:
		return Point{X: r.MinX + f*(r.MaxX-r.MinX), Y: r.MaxY}
	default:
		return Point{X: r.MinX, Y: r.MinY + f*(r.MaxY-r.MinY)}
	}
}

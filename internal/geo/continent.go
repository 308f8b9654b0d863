package geo

import (
	"fmt"

	"xbitocom/internal/validate"
)

// Continent is a coarse landmass used for spawn targeting and base
// placement. PersonnelMultiplier scales the starting housing of a base
// built there.
type Continent struct {
	Name                string  `json:"name"`
	Bounds              Rect    `json:"bounds"`
	PersonnelMultiplier float64 `json:"personnel_multiplier"`
}

var Continents = []Continent{
	{Name: "North America", Bounds: Rect{MinX: 100, MinY: 60, MaxX: 330, MaxY: 220}, PersonnelMultiplier: 1.0},
	{Name: "South America", Bounds: Rect{MinX: 220, MinY: 260, MaxX: 340, MaxY: 460}, PersonnelMultiplier: 1.2},
	{Name: "Europe", Bounds: Rect{MinX: 450, MinY: 60, MaxX: 560, MaxY: 160}, PersonnelMultiplier: 1.0},
	{Name: "Africa", Bounds: Rect{MinX: 450, MinY: 180, MaxX: 600, MaxY: 400}, PersonnelMultiplier: 1.3},
	{Name: "Asia", Bounds: Rect{MinX: 560, MinY: 50, MaxX: 880, MaxY: 250}, PersonnelMultiplier: 0.9},
	{Name: "Oceania", Bounds: Rect{MinX: 760, MinY: 320, MaxX: 920, MaxY: 440}, PersonnelMultiplier: 1.5},
}

func ContinentByName(name string) (Continent, error) {
	for _, c := range Continents {
		if c.Name == name {
			return c, nil
		}
	}
	return Continent{}, fmt.Errorf("%w: unknown continent %q", validate.ErrInvalidArgument, name)
}

// ContinentAt returns the first continent whose bounds contain p.
func ContinentAt(p Point) (Continent, bool) {
	for _, c := range Continents {
		if c.Bounds.Contains(p) {
			return c, true
		}
	}
	return Continent{}, false
}

// CrossesLand reports whether ab passes over any continent.
func CrossesLand(a, b Point) bool {
	for _, c := range Continents {
		if SegmentIntersectsRect(a, b, c.Bounds) {
			return true
		}
	}
	return false
}

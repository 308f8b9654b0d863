package ufo

import (
	"errors"
	"fmt"

	"xbitocom/internal/geo"
	"xbitocom/internal/rng"
	"xbitocom/internal/validate"

	"github.com/google/uuid"
)

type Type string

const (
	TypeScout      Type = "scout"
	TypeFighter    Type = "fighter"
	TypeRaider     Type = "raider"
	TypeHarvester  Type = "harvester"
	TypeAbductor   Type = "abductor"
	TypeTerrorShip Type = "terror_ship"
	TypeBattleship Type = "battleship"
)

var Types = []Type{TypeScout, TypeFighter, TypeRaider, TypeHarvester, TypeAbductor, TypeTerrorShip, TypeBattleship}

type Size string

const (
	SizeSmall     Size = "small"
	SizeMedium    Size = "medium"
	SizeLarge     Size = "large"
	SizeVeryLarge Size = "very_large"
)

type Status string

const (
	StatusApproaching Status = "approaching"
	StatusDetected    Status = "detected"
	StatusEngaged     Status = "engaged"
	StatusDestroyed   Status = "destroyed"
	StatusEscaped     Status = "escaped"
	StatusLanded      Status = "landed"
)

var ErrInvalidTransition = errors.New("invalid ufo status transition")

// transitions is the full status machine. Terminal statuses have no entry.
var transitions = map[Status][]Status{
	StatusApproaching: {StatusDetected, StatusEscaped, StatusLanded},
	StatusDetected:    {StatusEngaged, StatusEscaped, StatusLanded},
	StatusEngaged:     {StatusDestroyed, StatusEscaped, StatusLanded},
}

func (s Status) Terminal() bool {
	_, ok := transitions[s]
	return !ok
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Template is the static profile every spawned UFO of a type starts from.
// BehaviorDeck lists the card ids the craft fights with.
type Template struct {
	Type          Type
	Size          Size
	Speed         int
	Armor         int
	Weapons       int
	StealthRating int
	ThreatLevel   int
	BehaviorDeck  []string
}

var Templates = map[Type]Template{
	TypeScout: {
		Type: TypeScout, Size: SizeSmall, Speed: 100, Armor: 40, Weapons: 80, StealthRating: 40, ThreatLevel: 1,
		BehaviorDeck: []string{"laser_shot", "evasive_maneuver"},
	},
	TypeFighter: {
		Type: TypeFighter, Size: SizeSmall, Speed: 160, Armor: 50, Weapons: 110, StealthRating: 25, ThreatLevel: 2,
		BehaviorDeck: []string{"laser_shot", "cannon_burst", "target_lock"},
	},
	TypeRaider: {
		Type: TypeRaider, Size: SizeMedium, Speed: 130, Armor: 70, Weapons: 120, StealthRating: 20, ThreatLevel: 3,
		BehaviorDeck: []string{"cannon_burst", "missile_salvo", "ecm_pod"},
	},
	TypeHarvester: {
		Type: TypeHarvester, Size: SizeLarge, Speed: 80, Armor: 90, Weapons: 70, StealthRating: 10, ThreatLevel: 2,
		BehaviorDeck: []string{"reinforced_plating", "field_repair"},
	},
	TypeAbductor: {
		Type: TypeAbductor, Size: SizeMedium, Speed: 110, Armor: 60, Weapons: 90, StealthRating: 35, ThreatLevel: 3,
		BehaviorDeck: []string{"cloud_cover", "laser_shot", "evasive_maneuver"},
	},
	TypeTerrorShip: {
		Type: TypeTerrorShip, Size: SizeLarge, Speed: 120, Armor: 110, Weapons: 160, StealthRating: 15, ThreatLevel: 4,
		BehaviorDeck: []string{"missile_salvo", "avalanche_torpedo", "target_lock"},
	},
	TypeBattleship: {
		Type: TypeBattleship, Size: SizeVeryLarge, Speed: 90, Armor: 150, Weapons: 200, StealthRating: 5, ThreatLevel: 5,
		BehaviorDeck: []string{"fusion_overload", "avalanche_torpedo", "reinforced_plating"},
	},
}

type SpawnEntry struct {
	Type   Type `yaml:"type" json:"type"`
	Weight int  `yaml:"weight" json:"weight"`
}

// DefaultSpawnTable favours small craft; weights sum to 100.
var DefaultSpawnTable = []SpawnEntry{
	{Type: TypeScout, Weight: 30},
	{Type: TypeFighter, Weight: 20},
	{Type: TypeRaider, Weight: 15},
	{Type: TypeHarvester, Weight: 12},
	{Type: TypeAbductor, Weight: 12},
	{Type: TypeTerrorShip, Weight: 7},
	{Type: TypeBattleship, Weight: 4},
}

type Location struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Altitude float64 `json:"altitude"`
}

func (l Location) Point() geo.Point { return geo.Point{X: l.X, Y: l.Y} }

type Trajectory struct {
	Start           geo.Point `json:"start"`
	End             geo.Point `json:"end"`
	Progress        float64   `json:"progress"`
	CurrentPosition geo.Point `json:"current_position"`
}

func (t Trajectory) Length() float64 { return geo.Distance(t.Start, t.End) }

// UFO keeps DetectedBy and InterceptedBy as lookup-only ids.
type UFO struct {
	ID            string      `json:"id"`
	Type          Type        `json:"type"`
	Size          Size        `json:"size"`
	Speed         int         `json:"speed"`
	Armor         int         `json:"armor"`
	Weapons       int         `json:"weapons"`
	StealthRating int         `json:"stealth_rating"`
	Status        Status      `json:"status"`
	Location      Location    `json:"location"`
	Trajectory    *Trajectory `json:"trajectory,omitempty"`
	DetectedBy    []string    `json:"detected_by,omitempty"`
	InterceptedBy string      `json:"intercepted_by,omitempty"`
}

func LookupTemplate(t Type) (Template, error) {
	tpl, ok := Templates[t]
	if !ok {
		return Template{}, fmt.Errorf("%w: unknown ufo type %q", validate.ErrInvalidArgument, t)
	}
	return tpl, nil
}

// New builds an approaching UFO of type t at the start of traj.
func New(t Type, traj Trajectory) (UFO, error) {
	tpl, err := LookupTemplate(t)
	if err != nil {
		return UFO{}, err
	}
	traj.Progress = 0
	traj.CurrentPosition = traj.Start
	return UFO{
		ID:            uuid.NewString(),
		Type:          t,
		Size:          tpl.Size,
		Speed:         tpl.Speed,
		Armor:         tpl.Armor,
		Weapons:       tpl.Weapons,
		StealthRating: tpl.StealthRating,
		Status:        StatusApproaching,
		Location:      Location{X: traj.Start.X, Y: traj.Start.Y, Altitude: cruiseAltitude(tpl.Size)},
		Trajectory:    &traj,
	}, nil
}

func cruiseAltitude(s Size) float64 {
	switch s {
	case SizeSmall:
		return 12000
	case SizeMedium:
		return 9000
	case SizeLarge:
		return 6000
	default:
		return 4000
	}
}

// Spawn draws a type from table (DefaultSpawnTable when empty) and builds
// the UFO on traj.
func Spawn(src rng.Source, traj Trajectory, table []SpawnEntry) (UFO, error) {
	if err := validate.NotNil("random source", src); err != nil {
		return UFO{}, err
	}
	if len(table) == 0 {
		table = DefaultSpawnTable
	}
	entry, err := rng.PickWeighted(src, table, func(e SpawnEntry) int { return e.Weight })
	if err != nil {
		return UFO{}, fmt.Errorf("spawn ufo: %w", err)
	}
	return New(entry.Type, traj)
}

func Transition(u *UFO, to Status) error {
	if err := validate.NotNil("ufo", u); err != nil {
		return err
	}
	if !CanTransition(u.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, u.Status, to)
	}
	u.Status = to
	return nil
}

// Advance moves u distance map units along its trajectory and reports
// whether it reached the end.
func Advance(u *UFO, distance float64) (bool, error) {
	if err := validate.NotNil("ufo", u); err != nil {
		return false, err
	}
	if u.Trajectory == nil {
		return false, fmt.Errorf("%w: ufo %s has no trajectory", validate.ErrInvalidArgument, u.ID)
	}
	if err := validate.InRange("distance", distance, 0, 1e9); err != nil {
		return false, err
	}

	tr := u.Trajectory
	if length := tr.Length(); length > 0 {
		tr.Progress = min(1, tr.Progress+distance/length)
	} else {
		tr.Progress = 1
	}
	tr.CurrentPosition = geo.Lerp(tr.Start, tr.End, tr.Progress)
	u.Location.X = tr.CurrentPosition.X
	u.Location.Y = tr.CurrentPosition.Y
	return tr.Progress >= 1, nil
}

// MarkDetected records baseID once.
func MarkDetected(u *UFO, baseID string) {
	for _, id := range u.DetectedBy {
		if id == baseID {
			return
		}
	}
	u.DetectedBy = append(u.DetectedBy, baseID)
}

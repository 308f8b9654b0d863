package vehicle

import (
	"errors"
	"fmt"
	"math"

	"xbitocom/internal/validate"

	"github.com/google/uuid"
)

type Type string

const (
	TypeInterceptor Type = "interceptor"
	TypeTransport   Type = "transport"
	TypeScout       Type = "scout"
)

type Status string

const (
	StatusReady       Status = "ready"
	StatusMaintenance Status = "maintenance"
	StatusMission     Status = "mission"
	StatusDamaged     Status = "damaged"
	StatusUpgrading   Status = "upgrading"
)

var ErrUnknownVariant = errors.New("unknown vehicle variant")

// Stat floors keep a stripped vehicle operable.
const (
	MinSpeed    = 10
	MinArmor    = 5
	MinRange    = 10
	MinCapacity = 1
)

type Stats struct {
	Speed     int `json:"speed"`
	Armor     int `json:"armor"`
	Range     int `json:"range"`
	Capacity  int `json:"capacity"`
	Firepower int `json:"firepower"`
}

func (s Stats) Add(o Stats) Stats {
	return Stats{
		Speed:     s.Speed + o.Speed,
		Armor:     s.Armor + o.Armor,
		Range:     s.Range + o.Range,
		Capacity:  s.Capacity + o.Capacity,
		Firepower: s.Firepower + o.Firepower,
	}
}

// Weapon accuracy is a 0..1 hit fraction.
type Weapon struct {
	Key      string  `json:"key"`
	Name     string  `json:"name"`
	Damage   int     `json:"damage"`
	Accuracy float64 `json:"accuracy"`
	Range    int     `json:"range"`
}

func (w Weapon) Firepower() float64 {
	return float64(w.Damage) * w.Accuracy * float64(w.Range) / 100
}

type Component struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Delta Stats  `json:"delta"`
}

type CrewRequirements struct {
	Pilots    int `json:"pilots"`
	Soldiers  int `json:"soldiers,omitempty"`
	Engineers int `json:"engineers,omitempty"`
	Medics    int `json:"medics,omitempty"`
}

func (c CrewRequirements) Size() int {
	return c.Pilots + c.Soldiers + c.Engineers + c.Medics
}

type Variant struct {
	Key               string           `json:"key"`
	Name              string           `json:"name"`
	Type              Type             `json:"type"`
	Cost              int              `json:"cost"`
	BaseStats         Stats            `json:"base_stats"`
	Crew              CrewRequirements `json:"crew"`
	Hardpoints        int              `json:"hardpoints"`
	ComponentSlots    int              `json:"component_slots"`
	ResearchRequired  []string         `json:"research_required,omitempty"`
	DefaultWeapons    []string         `json:"default_weapons,omitempty"`
	DefaultComponents []string         `json:"default_components,omitempty"`
}

// Vehicle references crew by personnel id.
type Vehicle struct {
	ID         string      `json:"id"`
	Variant    string      `json:"variant"`
	Name       string      `json:"name"`
	Type       Type        `json:"type"`
	Status     Status      `json:"status"`
	Condition  int         `json:"condition"`
	BaseID     string      `json:"base_id"`
	Crew       []string    `json:"crew"`
	Stats      Stats       `json:"stats"`
	Weapons    []Weapon    `json:"weapons"`
	Components []Component `json:"components"`
}

func LookupVariant(key string) (Variant, error) {
	v, ok := Variants[key]
	if !ok {
		return Variant{}, fmt.Errorf("%w: %q", ErrUnknownVariant, key)
	}
	return v, nil
}

// Generate builds a factory-fresh vehicle of variantKey stationed at baseID.
func Generate(variantKey, baseID string) (Vehicle, error) {
	variant, err := LookupVariant(variantKey)
	if err != nil {
		return Vehicle{}, err
	}
	if err := validate.NotEmpty("base id", baseID); err != nil {
		return Vehicle{}, err
	}

	v := Vehicle{
		ID:         uuid.NewString(),
		Variant:    variant.Key,
		Name:       variant.Name,
		Type:       variant.Type,
		Status:     StatusReady,
		Condition:  100,
		BaseID:     baseID,
		Crew:       []string{},
		Weapons:    make([]Weapon, 0, len(variant.DefaultWeapons)),
		Components: make([]Component, 0, len(variant.DefaultComponents)),
	}
	for _, k := range variant.DefaultWeapons {
		w, ok := Weapons[k]
		if !ok {
			return Vehicle{}, fmt.Errorf("variant %s: unknown default weapon %q", variant.Key, k)
		}
		v.Weapons = append(v.Weapons, w)
	}
	for _, k := range variant.DefaultComponents {
		c, ok := Components[k]
		if !ok {
			return Vehicle{}, fmt.Errorf("variant %s: unknown default component %q", variant.Key, k)
		}
		v.Components = append(v.Components, c)
	}
	if err := UpdateStats(&v); err != nil {
		return Vehicle{}, err
	}
	return v, nil
}

// ComputeStats derives stats from the variant plus installed components.
// Firepower comes from weapons whenever any are mounted.
func ComputeStats(v Vehicle) (Stats, error) {
	variant, err := LookupVariant(v.Variant)
	if err != nil {
		return Stats{}, err
	}
	s := variant.BaseStats
	for _, c := range v.Components {
		s = s.Add(c.Delta)
	}
	if len(v.Weapons) > 0 {
		fp := 0.0
		for _, w := range v.Weapons {
			fp += w.Firepower()
		}
		s.Firepower = int(math.Round(fp))
	}
	s.Speed = max(s.Speed, MinSpeed)
	s.Armor = max(s.Armor, MinArmor)
	s.Range = max(s.Range, MinRange)
	s.Capacity = max(s.Capacity, MinCapacity)
	return s, nil
}

func UpdateStats(v *Vehicle) error {
	if err := validate.NotNil("vehicle", v); err != nil {
		return err
	}
	s, err := ComputeStats(*v)
	if err != nil {
		return err
	}
	v.Stats = s
	return nil
}

// AvailableUpgrades lists same-type variants other than variantKey whose
// research gates are all in completedResearch.
func AvailableUpgrades(variantKey string, completedResearch []string) ([]Variant, error) {
	current, err := LookupVariant(variantKey)
	if err != nil {
		return nil, err
	}
	done := make(map[string]bool, len(completedResearch))
	for _, r := range completedResearch {
		done[r] = true
	}

	out := []Variant{}
	for _, k := range VariantKeys() {
		candidate := Variants[k]
		if k == current.Key || candidate.Type != current.Type {
			continue
		}
		unlocked := true
		for _, r := range candidate.ResearchRequired {
			if !done[r] {
				unlocked = false
				break
			}
		}
		if unlocked {
			out = append(out, candidate)
		}
	}
	return out, nil
}

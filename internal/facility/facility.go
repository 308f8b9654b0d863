package facility

import (
	"errors"
	"fmt"
	"math"

	"xbitocom/internal/personnel"
	"xbitocom/internal/validate"

	"github.com/google/uuid"
)

type Type string

const (
	TypeResearch   Type = "research"
	TypeBarracks   Type = "barracks"
	TypeHangar     Type = "hangar"
	TypeRadar      Type = "radar"
	TypeDefense    Type = "defense"
	TypePowerPlant Type = "powerPlant"
)

var Types = []Type{TypeResearch, TypeBarracks, TypeHangar, TypeRadar, TypeDefense, TypePowerPlant}

var ErrUnknownFacilityType = errors.New("unknown facility type")

// Barracks housing grows linearly, unlike every other curve here.
const (
	BarracksBaseCapacity     = 15
	BarracksCapacityPerLevel = 10
)

// Facility belongs to a base. Personnel holds personnel ids. PowerUsage is
// negative for generators.
type Facility struct {
	ID                string   `json:"id"`
	Type              Type     `json:"type"`
	Level             int      `json:"level"`
	Personnel         []string `json:"personnel"`
	PowerUsage        int      `json:"power_usage"`
	Maintenance       int      `json:"maintenance"`
	PersonnelCapacity int      `json:"personnel_capacity"`
	VehicleCapacity   int      `json:"vehicle_capacity,omitempty"`
	CommanderAssigned bool     `json:"commander_assigned,omitempty"`
}

// Definition is the static catalog entry every derived figure comes from.
type Definition struct {
	Type              Type
	Name              string
	Description       string
	BaseCost          int
	BaseMaintenance   int
	PowerUsage        int
	Size              int
	UpgradeMultiplier float64
	// Staff slots per level; barracks use the housing constants instead.
	PersonnelCapacity         int
	VehicleCapacity           int
	VehicleCapacityMultiplier float64
}

var Catalog = map[Type]Definition{
	TypeResearch: {
		Type:              TypeResearch,
		Name:              "Research Lab",
		Description:       "Scientists study recovered alien technology",
		BaseCost:          150000,
		BaseMaintenance:   10000,
		PowerUsage:        20,
		Size:              3,
		UpgradeMultiplier: 1.5,
		PersonnelCapacity: 10,
	},
	TypeBarracks: {
		Type:              TypeBarracks,
		Name:              "Barracks",
		Description:       "Living quarters for base personnel",
		BaseCost:          100000,
		BaseMaintenance:   5000,
		PowerUsage:        10,
		Size:              2,
		UpgradeMultiplier: 1.4,
	},
	TypeHangar: {
		Type:                      TypeHangar,
		Name:                      "Hangar",
		Description:               "Houses and services craft",
		BaseCost:                  200000,
		BaseMaintenance:           15000,
		PowerUsage:                25,
		Size:                      4,
		UpgradeMultiplier:         1.6,
		PersonnelCapacity:         6,
		VehicleCapacity:           2,
		VehicleCapacityMultiplier: 1.5,
	},
	TypeRadar: {
		Type:              TypeRadar,
		Name:              "Radar Array",
		Description:       "Extends UFO detection range",
		BaseCost:          120000,
		BaseMaintenance:   8000,
		PowerUsage:        15,
		Size:              1,
		UpgradeMultiplier: 1.5,
		PersonnelCapacity: 4,
	},
	TypeDefense: {
		Type:              TypeDefense,
		Name:              "Defense Battery",
		Description:       "Surface-to-air base protection",
		BaseCost:          180000,
		BaseMaintenance:   12000,
		PowerUsage:        30,
		Size:              2,
		UpgradeMultiplier: 1.5,
		PersonnelCapacity: 6,
	},
	TypePowerPlant: {
		Type:              TypePowerPlant,
		Name:              "Power Plant",
		Description:       "Generates power for the base",
		BaseCost:          250000,
		BaseMaintenance:   20000,
		PowerUsage:        -50,
		Size:              2,
		UpgradeMultiplier: 1.5,
		PersonnelCapacity: 5,
	},
}

func Lookup(t Type) (Definition, error) {
	def, ok := Catalog[t]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrUnknownFacilityType, t)
	}
	return def, nil
}

// Create builds a facility of type t at level with every figure derived
// from the catalog.
func Create(t Type, level int) (Facility, error) {
	def, err := Lookup(t)
	if err != nil {
		return Facility{}, err
	}
	if err := validate.Positive("level", level); err != nil {
		return Facility{}, err
	}
	f := Facility{
		ID:        uuid.NewString(),
		Type:      t,
		Personnel: []string{},
	}
	applyLevel(&f, def, level)
	return f, nil
}

func applyLevel(f *Facility, def Definition, level int) {
	growth := math.Pow(def.UpgradeMultiplier, float64(level-1))

	f.Level = level
	f.PowerUsage = def.PowerUsage * level
	f.Maintenance = int(math.Floor(float64(def.BaseMaintenance) * growth))

	switch f.Type {
	case TypeBarracks:
		f.PersonnelCapacity = BarracksBaseCapacity + BarracksCapacityPerLevel*(level-1)
	case TypeHangar:
		f.PersonnelCapacity = def.PersonnelCapacity * level
		f.VehicleCapacity = int(math.Floor(float64(def.VehicleCapacity) * math.Pow(def.VehicleCapacityMultiplier, float64(level-1))))
	default:
		f.PersonnelCapacity = def.PersonnelCapacity * level
	}
}

// UpgradeCost is the price of going from the current level to the next.
func UpgradeCost(f Facility) (int, error) {
	def, err := Lookup(f.Type)
	if err != nil {
		return 0, err
	}
	return int(math.Floor(float64(def.BaseCost) * math.Pow(def.UpgradeMultiplier, float64(f.Level)))), nil
}

type UpgradeResult struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message"`
	Facility Facility `json:"facility"`
	Cost     int      `json:"cost"`
}

// Upgrade returns the facility one level up. The input is not modified.
// Non-barracks facilities come back with no crew; barracks keep theirs.
func Upgrade(f *Facility) (UpgradeResult, error) {
	if err := validate.NotNil("facility", f); err != nil {
		return UpgradeResult{}, err
	}
	if f.Type == TypeBarracks {
		return UpgradeBarracks(f)
	}
	def, err := Lookup(f.Type)
	if err != nil {
		return UpgradeResult{}, err
	}
	cost, err := UpgradeCost(*f)
	if err != nil {
		return UpgradeResult{}, err
	}

	next := Facility{ID: f.ID, Type: f.Type, Personnel: []string{}}
	applyLevel(&next, def, f.Level+1)

	return UpgradeResult{
		Success:  true,
		Message:  fmt.Sprintf("%s upgraded to level %d", def.Name, next.Level),
		Facility: next,
		Cost:     cost,
	}, nil
}

func UpgradeBarracks(f *Facility) (UpgradeResult, error) {
	if err := validate.NotNil("facility", f); err != nil {
		return UpgradeResult{}, err
	}
	if f.Type != TypeBarracks {
		return UpgradeResult{
			Success:  false,
			Message:  fmt.Sprintf("facility %s is a %s, not a barracks", f.ID, f.Type),
			Facility: *f,
		}, nil
	}
	def, err := Lookup(TypeBarracks)
	if err != nil {
		return UpgradeResult{}, err
	}
	cost, err := UpgradeCost(*f)
	if err != nil {
		return UpgradeResult{}, err
	}

	next := Facility{
		ID:                f.ID,
		Type:              TypeBarracks,
		Personnel:         append([]string{}, f.Personnel...),
		CommanderAssigned: f.CommanderAssigned,
	}
	applyLevel(&next, def, f.Level+1)

	return UpgradeResult{
		Success:  true,
		Message:  fmt.Sprintf("Barracks upgraded to level %d (capacity %d)", next.Level, next.PersonnelCapacity),
		Facility: next,
		Cost:     cost,
	}, nil
}

func (f Facility) Has(personnelID string) bool {
	for _, id := range f.Personnel {
		if id == personnelID {
			return true
		}
	}
	return false
}

// CanAssignPersonnel reports whether p may join f, with the reason when not.
func CanAssignPersonnel(f Facility, p personnel.Personnel) (bool, string) {
	if f.Has(p.ID) || p.AssignedFacilityID != "" {
		return false, fmt.Sprintf("%s is already assigned to a facility", p.Name)
	}
	if f.Type == TypeBarracks {
		if p.Role != personnel.RoleCommander {
			return false, "only commanders can be assigned to barracks"
		}
		if f.CommanderAssigned {
			return false, "barracks already has a commander"
		}
		return true, ""
	}
	if len(f.Personnel) >= f.PersonnelCapacity {
		return false, fmt.Sprintf("facility is at capacity (%d/%d)", len(f.Personnel), f.PersonnelCapacity)
	}
	return true, ""
}

type AssignResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Assign links p and f on both sides once CanAssignPersonnel allows it.
func Assign(f *Facility, p *personnel.Personnel) (AssignResult, error) {
	if err := validate.First(validate.NotNil("facility", f), validate.NotNil("personnel", p)); err != nil {
		return AssignResult{}, err
	}
	if ok, reason := CanAssignPersonnel(*f, *p); !ok {
		return AssignResult{Success: false, Message: reason}, nil
	}
	f.Personnel = append(f.Personnel, p.ID)
	if f.Type == TypeBarracks {
		f.CommanderAssigned = true
	}
	p.AssignedFacilityID = f.ID
	p.Status = personnel.StatusWorking
	return AssignResult{Success: true, Message: fmt.Sprintf("%s assigned", p.Name)}, nil
}

// Unassign removes p from f and frees p.
func Unassign(f *Facility, p *personnel.Personnel) error {
	if err := validate.First(validate.NotNil("facility", f), validate.NotNil("personnel", p)); err != nil {
		return err
	}
	if !f.Has(p.ID) {
		return fmt.Errorf("%s is not assigned to facility %s", p.Name, f.ID)
	}
	kept := make([]string, 0, len(f.Personnel)-1)
	for _, id := range f.Personnel {
		if id != p.ID {
			kept = append(kept, id)
		}
	}
	f.Personnel = kept
	if f.Type == TypeBarracks && p.Role == personnel.RoleCommander {
		f.CommanderAssigned = false
	}
	p.Release()
	return nil
}

// CommanderBoost is 1.0 unless f is a barracks with a commander, in which
// case leadership and experience each add at most 0.1 on top of a flat 0.1.
func CommanderBoost(f Facility, commander *personnel.Personnel) float64 {
	if f.Type != TypeBarracks || !f.CommanderAssigned || commander == nil {
		return 1.0
	}
	leadership := min(commander.Skill(personnel.SkillLeadership), 100)
	experience := min(commander.Experience, 100)
	return 1.0 + 0.1 + float64(leadership)/1000 + float64(experience)/1000
}

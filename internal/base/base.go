package base

import (
	"errors"
	"fmt"
	"math"

	"xbitocom/internal/facility"
	"xbitocom/internal/geo"
	"xbitocom/internal/validate"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrInvalidBase = errors.New("invalid base")

const (
	InitialHousing            = 15
	DefaultMaxSize            = 20
	DefaultRadarRange         = 150.0
	DefaultRadarEffectiveness = 0.8
)

// Base owns its facilities by value. Vehicles and Personnel hold ids of
// records kept in their own repositories; Personnel lists people on base
// who are not working a facility.
type Base struct {
	ID                 string              `json:"id"`
	Name               string              `json:"name"`
	Continent          string              `json:"continent"`
	Location           geo.Point           `json:"location"`
	Facilities         []facility.Facility `json:"facilities"`
	Vehicles           []string            `json:"vehicles"`
	Personnel          []string            `json:"personnel"`
	MaxSize            int                 `json:"max_size"`
	RadarRange         float64             `json:"radar_range"`
	RadarEffectiveness float64             `json:"radar_effectiveness"`
}

// InitialPersonnelCapacity is how many people the founding barracks of a
// base on c houses.
func InitialPersonnelCapacity(c geo.Continent) int {
	return int(math.Round(InitialHousing * c.PersonnelMultiplier))
}

// New founds a base with a power plant, barracks, hangar and radar at
// level 1. The founding barracks houses InitialPersonnelCapacity(c).
func New(name string, c geo.Continent, at geo.Point) (Base, error) {
	if err := validate.First(
		validate.NotEmpty("name", name),
		validate.InRange("personnel multiplier", c.PersonnelMultiplier, 0.1, 10),
	); err != nil {
		return Base{}, err
	}

	b := Base{
		ID:                 uuid.NewString(),
		Name:               name,
		Continent:          c.Name,
		Location:           at,
		Vehicles:           []string{},
		Personnel:          []string{},
		MaxSize:            DefaultMaxSize,
		RadarRange:         DefaultRadarRange,
		RadarEffectiveness: DefaultRadarEffectiveness,
	}
	for _, t := range []facility.Type{facility.TypePowerPlant, facility.TypeBarracks, facility.TypeHangar, facility.TypeRadar} {
		f, err := facility.Create(t, 1)
		if err != nil {
			return Base{}, err
		}
		if t == facility.TypeBarracks {
			f.PersonnelCapacity = InitialPersonnelCapacity(c)
		}
		b.Facilities = append(b.Facilities, f)
	}
	return b, nil
}

// Clone copies every slice so the result shares no backing arrays with b.
func (b Base) Clone() Base {
	out := b
	out.Facilities = make([]facility.Facility, len(b.Facilities))
	for i, f := range b.Facilities {
		f.Personnel = append([]string{}, f.Personnel...)
		out.Facilities[i] = f
	}
	out.Vehicles = append([]string{}, b.Vehicles...)
	out.Personnel = append([]string{}, b.Personnel...)
	return out
}

func (b Base) FacilityIndex(id string) (int, bool) {
	for i := range b.Facilities {
		if b.Facilities[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

type Power struct {
	Generation int `json:"generation"`
	Usage      int `json:"usage"`
	Surplus    int `json:"surplus"`
}

// PowerStatus totals generators (negative usage) against consumers.
func PowerStatus(b *Base) (Power, error) {
	if b == nil {
		return Power{}, fmt.Errorf("%w: base is nil", ErrInvalidBase)
	}
	if b.Facilities == nil {
		return Power{}, fmt.Errorf("%w: base %s has no facility list", ErrInvalidBase, b.ID)
	}
	var p Power
	for _, f := range b.Facilities {
		if f.PowerUsage < 0 {
			p.Generation += -f.PowerUsage
		} else {
			p.Usage += f.PowerUsage
		}
	}
	p.Surplus = p.Generation - p.Usage
	return p, nil
}

// Size is the land taken by b's facilities. Types missing from the catalog
// count as 1.
func Size(b Base, logger *zap.Logger) int {
	if logger == nil {
		logger = zap.NewNop()
	}
	total := 0
	for _, f := range b.Facilities {
		def, err := facility.Lookup(f.Type)
		if err != nil {
			logger.Warn("unknown facility type, assuming size 1",
				zap.String("base_id", b.ID),
				zap.String("facility_id", f.ID),
				zap.String("facility_type", string(f.Type)),
			)
			total++
			continue
		}
		total += def.Size
	}
	return total
}

// PersonnelCapacity sums barracks only.
func PersonnelCapacity(b Base) int {
	total := 0
	for _, f := range b.Facilities {
		if f.Type == facility.TypeBarracks {
			total += f.PersonnelCapacity
		}
	}
	return total
}

// UsedPersonnelCapacity counts personnel on base plus those working any
// facility.
func UsedPersonnelCapacity(b Base) int {
	used := len(b.Personnel)
	for _, f := range b.Facilities {
		used += len(f.Personnel)
	}
	return used
}

func AvailablePersonnelCapacity(b Base) int {
	return max(0, PersonnelCapacity(b)-UsedPersonnelCapacity(b))
}

func VehicleCapacity(b Base) int {
	total := 0
	for _, f := range b.Facilities {
		if f.Type == facility.TypeHangar {
			total += f.VehicleCapacity
		}
	}
	return total
}

// RadarLevel is the highest radar facility level, 0 without one.
func RadarLevel(b Base) int {
	level := 0
	for _, f := range b.Facilities {
		if f.Type == facility.TypeRadar {
			level = max(level, f.Level)
		}
	}
	return level
}

func MonthlyMaintenance(b Base) int {
	total := 0
	for _, f := range b.Facilities {
		total += f.Maintenance
	}
	return total
}

package interception

import (
	"fmt"
	"math"

	"xbitocom/internal/personnel"
	"xbitocom/internal/ufo"
	"xbitocom/internal/vehicle"
)

// Damage bands used to pick the result message.
const (
	LightDamage = 20
	HeavyDamage = 80
)

type Result struct {
	Success              bool    `json:"success"`
	VehicleDamage        int     `json:"vehicle_damage"`
	UFODamage            int     `json:"ufo_damage"`
	VehicleEffectiveness float64 `json:"vehicle_effectiveness"`
	UFOEffectiveness     float64 `json:"ufo_effectiveness"`
	Message              string  `json:"message"`
}

// CrewBonus is 1 plus each member's experience and combat contribution.
func CrewBonus(crew []personnel.Personnel) float64 {
	bonus := 1.0
	for _, c := range crew {
		bonus += float64(c.Experience)*0.01 + float64(c.Skill(personnel.SkillCombat))*0.005
	}
	return bonus
}

// damage is what an attacker of effectiveness eff does through armor.
// Armor above 100 would turn it negative, so it is clamped at 0.
func damage(eff float64, armor int) int {
	return max(0, int(math.Floor(eff*100*(1-float64(armor)/100))))
}

// Calculate resolves a single exchange between v and u. It has no side
// effects; the caller applies the damage.
func Calculate(v vehicle.Vehicle, crew []personnel.Personnel, u ufo.UFO) Result {
	vEff := (float64(v.Stats.Speed)/100 + float64(v.Stats.Firepower)/100) * CrewBonus(crew)
	uEff := float64(u.Speed)/100 + float64(u.Weapons)/100

	r := Result{
		VehicleEffectiveness: vEff,
		UFOEffectiveness:     uEff,
		UFODamage:            damage(vEff, u.Armor),
		VehicleDamage:        damage(uEff, v.Stats.Armor),
	}
	r.Success = r.UFODamage > r.VehicleDamage
	r.Message = message(r, v.Name, u.Type)
	return r
}

func message(r Result, craft string, target ufo.Type) string {
	if r.Success {
		switch {
		case r.UFODamage >= HeavyDamage:
			return fmt.Sprintf("%s shot down the %s", craft, target)
		case r.UFODamage >= LightDamage:
			return fmt.Sprintf("%s crippled the %s", craft, target)
		default:
			return fmt.Sprintf("%s narrowly outfought the %s", craft, target)
		}
	}
	switch {
	case r.VehicleDamage >= HeavyDamage:
		return fmt.Sprintf("%s was badly mauled by the %s", craft, target)
	case r.VehicleDamage >= LightDamage:
		return fmt.Sprintf("%s was driven off by the %s", craft, target)
	default:
		return fmt.Sprintf("%s lost contact with the %s", craft, target)
	}
}

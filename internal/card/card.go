package card

type Type string

const (
	TypeAction        Type = "action"
	TypeCrew          Type = "crew"
	TypeEquipment     Type = "equipment"
	TypeEnvironmental Type = "environmental"
)

type Rarity string

const (
	RarityCommon   Rarity = "common"
	RarityUncommon Rarity = "uncommon"
	RarityRare     Rarity = "rare"
)

type EffectType string

const (
	EffectDamage  EffectType = "damage"
	EffectHeal    EffectType = "heal"
	EffectBuff    EffectType = "buff"
	EffectDebuff  EffectType = "debuff"
	EffectSpecial EffectType = "special"
)

type Target string

const (
	TargetSelf  Target = "self"
	TargetEnemy Target = "enemy"
	TargetAll   Target = "all"
)

// Effect is one clause of a card. Value is numeric; Code carries the encoded
// form used by special effects.
type Effect struct {
	Type     EffectType `yaml:"type" json:"type"`
	Target   Target     `yaml:"target" json:"target"`
	Value    int        `yaml:"value" json:"value"`
	Code     string     `yaml:"code,omitempty" json:"code,omitempty"`
	Duration int        `yaml:"duration,omitempty" json:"duration,omitempty"`
}

// Timed reports whether the effect becomes an ActiveEffect when resolved.
func (e Effect) Timed() bool {
	return e.Type == EffectBuff || e.Type == EffectDebuff || e.Type == EffectSpecial
}

type Requirements struct {
	VehicleTypes []string `yaml:"vehicle_types,omitempty" json:"vehicle_types,omitempty"`
}

// Card is an immutable template. Decks hold copies; duplicates share an ID.
type Card struct {
	ID           string        `yaml:"id" json:"id"`
	Name         string        `yaml:"name" json:"name"`
	Description  string        `yaml:"description" json:"description"`
	Type         Type          `yaml:"type" json:"type"`
	Cost         int           `yaml:"cost" json:"cost"`
	Effects      []Effect      `yaml:"effects" json:"effects"`
	Requirements *Requirements `yaml:"requirements,omitempty" json:"requirements,omitempty"`
	Cooldown     int           `yaml:"cooldown,omitempty" json:"cooldown,omitempty"`
	Rarity       Rarity        `yaml:"rarity" json:"rarity"`
}

// Usable reports whether a vehicle of the given type may carry the card.
func (c Card) Usable(vehicleType string) bool {
	if c.Requirements == nil || len(c.Requirements.VehicleTypes) == 0 {
		return true
	}
	for _, vt := range c.Requirements.VehicleTypes {
		if vt == vehicleType {
			return true
		}
	}
	return false
}

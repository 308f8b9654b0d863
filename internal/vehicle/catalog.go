package vehicle

import "sort"

var Weapons = map[string]Weapon{
	"cannon":       {Key: "cannon", Name: "30mm Cannon", Damage: 20, Accuracy: 0.7, Range: 100},
	"stingray":     {Key: "stingray", Name: "Stingray Missiles", Damage: 35, Accuracy: 0.8, Range: 150},
	"avalanche":    {Key: "avalanche", Name: "Avalanche Missiles", Damage: 60, Accuracy: 0.85, Range: 200},
	"laser_cannon": {Key: "laser_cannon", Name: "Laser Cannon", Damage: 45, Accuracy: 0.9, Range: 120},
	"plasma_beam":  {Key: "plasma_beam", Name: "Plasma Beam", Damage: 80, Accuracy: 0.95, Range: 150},
}

var Components = map[string]Component{
	"afterburner":      {Key: "afterburner", Name: "Afterburner", Delta: Stats{Speed: 40, Range: -100}},
	"armor_plating":    {Key: "armor_plating", Name: "Armor Plating", Delta: Stats{Armor: 20, Speed: -15}},
	"aux_fuel":         {Key: "aux_fuel", Name: "Auxiliary Fuel Tanks", Delta: Stats{Range: 300, Speed: -5}},
	"cargo_pod":        {Key: "cargo_pod", Name: "Cargo Pod", Delta: Stats{Capacity: 4, Speed: -20}},
	"long_range_radar": {Key: "long_range_radar", Name: "Long Range Radar", Delta: Stats{Range: 150}},
}

var Variants = map[string]Variant{
	"raven": {
		Key: "raven", Name: "Raven", Type: TypeInterceptor, Cost: 350000,
		BaseStats:      Stats{Speed: 180, Armor: 30, Range: 600, Capacity: 1},
		Crew:           CrewRequirements{Pilots: 1},
		Hardpoints:     2,
		ComponentSlots: 2,
		DefaultWeapons: []string{"cannon", "stingray"},
	},
	"lightning": {
		Key: "lightning", Name: "Lightning", Type: TypeInterceptor, Cost: 750000,
		BaseStats:        Stats{Speed: 300, Armor: 35, Range: 700, Capacity: 1},
		Crew:             CrewRequirements{Pilots: 1, Engineers: 1},
		Hardpoints:       2,
		ComponentSlots:   2,
		ResearchRequired: []string{"ufo_propulsion"},
		DefaultWeapons:   []string{"laser_cannon"},
	},
	"firestorm": {
		Key: "firestorm", Name: "Firestorm", Type: TypeInterceptor, Cost: 900000,
		BaseStats:         Stats{Speed: 260, Armor: 50, Range: 800, Capacity: 1},
		Crew:              CrewRequirements{Pilots: 1},
		Hardpoints:        3,
		ComponentSlots:    3,
		ResearchRequired:  []string{"alien_alloys", "ufo_propulsion"},
		DefaultWeapons:    []string{"laser_cannon", "avalanche"},
		DefaultComponents: []string{"armor_plating"},
	},
	"skyranger": {
		Key: "skyranger", Name: "Skyranger", Type: TypeTransport, Cost: 500000,
		BaseStats:      Stats{Speed: 120, Armor: 40, Range: 900, Capacity: 14},
		Crew:           CrewRequirements{Pilots: 2, Soldiers: 1, Medics: 1},
		Hardpoints:     1,
		ComponentSlots: 3,
	},
	"avenger": {
		Key: "avenger", Name: "Avenger", Type: TypeTransport, Cost: 1500000,
		BaseStats:         Stats{Speed: 220, Armor: 80, Range: 1500, Capacity: 26},
		Crew:              CrewRequirements{Pilots: 2, Soldiers: 1, Engineers: 1, Medics: 1},
		Hardpoints:        2,
		ComponentSlots:    4,
		ResearchRequired:  []string{"alien_alloys", "ufo_propulsion", "elerium_power"},
		DefaultWeapons:    []string{"plasma_beam"},
		DefaultComponents: []string{"cargo_pod"},
	},
	"hawkeye": {
		Key: "hawkeye", Name: "Hawkeye", Type: TypeScout, Cost: 250000,
		BaseStats:         Stats{Speed: 220, Armor: 15, Range: 1200, Capacity: 2},
		Crew:              CrewRequirements{Pilots: 1},
		Hardpoints:        1,
		ComponentSlots:    3,
		DefaultComponents: []string{"long_range_radar"},
	},
	"spectre": {
		Key: "spectre", Name: "Spectre", Type: TypeScout, Cost: 600000,
		BaseStats:         Stats{Speed: 280, Armor: 20, Range: 1600, Capacity: 2},
		Crew:              CrewRequirements{Pilots: 1, Engineers: 1},
		Hardpoints:        1,
		ComponentSlots:    4,
		ResearchRequired:  []string{"stealth_systems"},
		DefaultWeapons:    []string{"laser_cannon"},
		DefaultComponents: []string{"long_range_radar", "aux_fuel"},
	},
}

// VariantKeys lists catalog keys in a stable order.
func VariantKeys() []string {
	keys := make([]string, 0, len(Variants))
	for k := range Variants {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

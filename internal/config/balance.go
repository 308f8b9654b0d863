package config

import "fmt"

// Balance holds the economy and encounter tunables. Every field can be
// overridden from the environment.
type Balance struct {
	// Economy
	StartingFunds     int `yaml:"starting_funds" json:"starting_funds" env:"STARTING_FUNDS"`
	TrainingCost      int `yaml:"training_cost" json:"training_cost" env:"TRAINING_COST"`
	TrainingIncrement int `yaml:"training_increment" json:"training_increment" env:"TRAINING_INCREMENT"`

	// Detection
	RadarLevelBonus    float64 `yaml:"radar_level_bonus" json:"radar_level_bonus" env:"RADAR_LEVEL_BONUS"`
	TrajectoryAttempts int     `yaml:"trajectory_attempts" json:"trajectory_attempts" env:"TRAJECTORY_ATTEMPTS"`
	RadarSamples       int     `yaml:"radar_samples" json:"radar_samples" env:"RADAR_SAMPLES"`
	UFOSpeedScale      float64 `yaml:"ufo_speed_scale" json:"ufo_speed_scale" env:"UFO_SPEED_SCALE"`

	// SpawnWeights maps ufo type to weight, e.g. SPAWN_WEIGHTS="scout:30,fighter:20".
	SpawnWeights map[string]int `yaml:"spawn_weights" json:"spawn_weights" env:"SPAWN_WEIGHTS"`
}

// Default returns the default balance configuration
func Default() Balance {
	return Balance{
		StartingFunds:      5000000,
		TrainingCost:       20000,
		TrainingIncrement:  5,
		RadarLevelBonus:    0.2,
		TrajectoryAttempts: 100,
		RadarSamples:       10,
		UFOSpeedScale:      0.1,
		SpawnWeights: map[string]int{
			"scout":       30,
			"fighter":     20,
			"raider":      15,
			"harvester":   12,
			"abductor":    12,
			"terror_ship": 7,
			"battleship":  4,
		},
	}
}

// Casual returns a richer, gentler campaign
func Casual() Balance {
	cfg := Default()
	cfg.StartingFunds = 8000000
	cfg.TrainingCost = 10000
	cfg.TrainingIncrement = 8
	cfg.RadarLevelBonus = 0.3
	cfg.SpawnWeights["terror_ship"] = 3
	cfg.SpawnWeights["battleship"] = 1
	return cfg
}

// Hard returns a leaner campaign with nastier visitors
func Hard() Balance {
	cfg := Default()
	cfg.StartingFunds = 3000000
	cfg.TrainingCost = 30000
	cfg.TrainingIncrement = 3
	cfg.RadarLevelBonus = 0.1
	cfg.UFOSpeedScale = 0.15
	cfg.SpawnWeights["scout"] = 15
	cfg.SpawnWeights["terror_ship"] = 12
	cfg.SpawnWeights["battleship"] = 8
	return cfg
}

// Preset resolves a difficulty name. Empty means default.
func Preset(name string) (Balance, error) {
	switch name {
	case "", "default", "normal":
		return Default(), nil
	case "casual":
		return Casual(), nil
	case "hard":
		return Hard(), nil
	}
	return Balance{}, fmt.Errorf("unknown difficulty %q", name)
}

// ApplyDefaults fills zero fields from Default.
func (b *Balance) ApplyDefaults() {
	d := Default()
	if b.StartingFunds == 0 {
		b.StartingFunds = d.StartingFunds
	}
	if b.TrainingCost == 0 {
		b.TrainingCost = d.TrainingCost
	}
	if b.TrainingIncrement == 0 {
		b.TrainingIncrement = d.TrainingIncrement
	}
	if b.RadarLevelBonus == 0 {
		b.RadarLevelBonus = d.RadarLevelBonus
	}
	if b.TrajectoryAttempts == 0 {
		b.TrajectoryAttempts = d.TrajectoryAttempts
	}
	if b.RadarSamples == 0 {
		b.RadarSamples = d.RadarSamples
	}
	if b.UFOSpeedScale == 0 {
		b.UFOSpeedScale = d.UFOSpeedScale
	}
	if len(b.SpawnWeights) == 0 {
		b.SpawnWeights = d.SpawnWeights
	}
}

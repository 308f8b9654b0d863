package config

import (
	"os"

	"xbitocom/internal/battle"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Version   string       `yaml:"version" json:"version"`
	SeededRNG SeededRNG    `yaml:"seeded_rng" json:"seeded_rng"`
	Log       LogConfig    `yaml:"log" json:"log"`
	Battle    BattleConfig `yaml:"battle" json:"battle"`
	Balance   Balance      `yaml:"balance" json:"balance"`
}

// SeededRNG pins every random draw to Seed when enabled.
type SeededRNG struct {
	Enabled bool  `yaml:"enabled" json:"enabled"`
	Seed    int64 `yaml:"seed" json:"seed"`
}

type LogConfig struct {
	Level string `yaml:"level" json:"level"`
	JSON  bool   `yaml:"json" json:"json"`
}

type BattleConfig struct {
	DrawCount       int `yaml:"draw_count" json:"draw_count" env:"DRAW_COUNT"`
	ApproachTurns   int `yaml:"approach_turns" json:"approach_turns" env:"APPROACH_TURNS"`
	EngagementTurns int `yaml:"engagement_turns" json:"engagement_turns" env:"ENGAGEMENT_TURNS"`
	PursuitTurns    int `yaml:"pursuit_turns" json:"pursuit_turns" env:"PURSUIT_TURNS"`
}

func (b *BattleConfig) ApplyDefaults() {
	d := battle.DefaultRules()
	if b.DrawCount == 0 {
		b.DrawCount = d.DrawCount
	}
	if b.ApproachTurns == 0 {
		b.ApproachTurns = d.StageTurns.Approach
	}
	if b.EngagementTurns == 0 {
		b.EngagementTurns = d.StageTurns.Engagement
	}
	if b.PursuitTurns == 0 {
		b.PursuitTurns = d.StageTurns.Pursuit
	}
}

// Rules converts the section into what the battle engine takes.
func (b BattleConfig) Rules() battle.Rules {
	return battle.Rules{
		DrawCount: b.DrawCount,
		StageTurns: battle.StageTurns{
			Approach:   b.ApproachTurns,
			Engagement: b.EngagementTurns,
			Pursuit:    b.PursuitTurns,
		},
	}
}

func (c *Config) ApplyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	c.Battle.ApplyDefaults()
	c.Balance.ApplyDefaults()
}

// Defaults is the config used when no file is given.
func Defaults() *Config {
	c := &Config{Version: "1"}
	c.ApplyDefaults()
	return c
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Config
	if err := yaml.Unmarshal(b, &r); err != nil {
		return nil, err
	}
	r.ApplyDefaults()
	return &r, nil
}

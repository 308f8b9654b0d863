package battle

import (
	"errors"
	"fmt"

	"xbitocom/internal/card"
	"xbitocom/internal/validate"
)

type Stage string

const (
	StageApproach   Stage = "approach"
	StageEngagement Stage = "engagement"
	StagePursuit    Stage = "pursuit"
	StageRecovery   Stage = "recovery"
	StageAftermath  Stage = "aftermath"
)

type Outcome string

const (
	OutcomeOngoing Outcome = "ongoing"
	OutcomeVictory Outcome = "victory"
	OutcomeDefeat  Outcome = "defeat"
)

func (o Outcome) Terminal() bool {
	return o == OutcomeVictory || o == OutcomeDefeat
}

var (
	ErrInsufficientEnergy = errors.New("insufficient energy")
	ErrCardNotInHand      = errors.New("card not in hand")
	ErrBattleOver         = errors.New("battle is over")
	ErrBattleOngoing      = errors.New("battle has no outcome yet")
	ErrAlreadyResolved    = errors.New("battle already resolved")
	ErrStageLocked        = errors.New("stage cannot advance by turn count")
)

// StageTurns is how many turns each stage lasts. Pursuit is the exception:
// reaching its count is a defeat, not a transition.
type StageTurns struct {
	Approach   int `yaml:"approach" json:"approach"`
	Engagement int `yaml:"engagement" json:"engagement"`
	Pursuit    int `yaml:"pursuit" json:"pursuit"`
}

func (t StageTurns) For(s Stage) int {
	switch s {
	case StageApproach:
		return t.Approach
	case StageEngagement:
		return t.Engagement
	case StagePursuit:
		return t.Pursuit
	}
	return 0
}

type VehicleStats struct {
	MaxHealth      int     `json:"max_health"`
	CurrentHealth  int     `json:"current_health"`
	EnergyPerTurn  int     `json:"energy_per_turn"`
	MaxEnergy      int     `json:"max_energy"`
	CurrentEnergy  int     `json:"current_energy"`
	Accuracy       float64 `json:"accuracy"`
	Evasion        float64 `json:"evasion"`
	CriticalChance float64 `json:"critical_chance"`
	CardSlots      int     `json:"card_slots"`
	EquipmentSlots int     `json:"equipment_slots"`
}

type UFOStats struct {
	MaxHealth      int      `json:"max_health"`
	CurrentHealth  int      `json:"current_health"`
	EnergyPerTurn  int      `json:"energy_per_turn"`
	MaxEnergy      int      `json:"max_energy"`
	CurrentEnergy  int      `json:"current_energy"`
	Accuracy       float64  `json:"accuracy"`
	Evasion        float64  `json:"evasion"`
	CriticalChance float64  `json:"critical_chance"`
	BehaviorDeck   []string `json:"behavior_deck"`
	ThreatLevel    int      `json:"threat_level"`
}

// ActiveEffect is a timed modifier left behind by a played card.
type ActiveEffect struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Type         card.EffectType `json:"type"`
	Target       card.Target     `json:"target"`
	Code         string          `json:"code,omitempty"`
	Value        int             `json:"value"`
	Duration     int             `json:"duration"`
	SourceCardID string          `json:"source_card_id"`
	Description  string          `json:"description"`
}

type ObjectiveType string

const (
	ObjectivePrimary   ObjectiveType = "primary"
	ObjectiveSecondary ObjectiveType = "secondary"
)

const (
	ObjectiveApproach      = "approach"
	ObjectiveDestroy       = "destroy"
	ObjectivePreventEscape = "prevent_escape"
)

// Objective.Completed only ever flips to true.
type Objective struct {
	ID          string        `json:"id"`
	Type        ObjectiveType `json:"type"`
	Description string        `json:"description"`
	Completed   bool          `json:"completed"`
}

// Initiative lists participant ids in acting order.
type Initiative struct {
	Order   []string `json:"order"`
	Current int      `json:"current"`
}

type LogEntry struct {
	Turn    int    `json:"turn"`
	Stage   Stage  `json:"stage"`
	Message string `json:"message"`
}

// State is the aggregate for one battle. Hand, Deck and Discard always
// partition the same cards.
type State struct {
	ID         string     `json:"id"`
	VehicleID  string     `json:"vehicle_id"`
	UFOID      string     `json:"ufo_id"`
	Stage      Stage      `json:"stage"`
	Turn       int        `json:"turn"`
	Rounds     int        `json:"rounds"`
	StageTurns StageTurns `json:"stage_turns"`
	Initiative Initiative `json:"initiative"`

	PlayerEnergy int `json:"player_energy"`
	EnemyEnergy  int `json:"enemy_energy"`
	card.Piles

	ActiveEffects []ActiveEffect `json:"active_effects"`
	Vehicle       VehicleStats   `json:"vehicle"`
	UFO           UFOStats       `json:"ufo"`
	Objectives    []Objective    `json:"objectives"`
	Environment   []string       `json:"environment"`
	Log           []LogEntry     `json:"log"`

	Outcome  Outcome `json:"outcome"`
	Resolved bool    `json:"resolved"`
}

// SpendEnergy deducts n from the player's pool, or fails without change.
func (s *State) SpendEnergy(n int) error {
	if err := validate.NonNegative("energy", n); err != nil {
		return err
	}
	if s.PlayerEnergy < n {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientEnergy, n, s.PlayerEnergy)
	}
	s.PlayerEnergy -= n
	s.Vehicle.CurrentEnergy = s.PlayerEnergy
	return nil
}

// EvaluateOutcome reads the state without changing it. A recorded terminal
// outcome always wins.
func (s *State) EvaluateOutcome() Outcome {
	if s.Outcome.Terminal() {
		return s.Outcome
	}
	switch {
	case s.UFO.CurrentHealth <= 0:
		return OutcomeVictory
	case s.Vehicle.CurrentHealth <= 0:
		return OutcomeDefeat
	case s.Stage == StagePursuit && s.Turn >= s.StageTurns.Pursuit:
		return OutcomeDefeat
	}
	return OutcomeOngoing
}

func (s *State) Objective(id string) (Objective, bool) {
	for _, o := range s.Objectives {
		if o.ID == id {
			return o, true
		}
	}
	return Objective{}, false
}

func (s *State) completeObjective(id string) {
	for i := range s.Objectives {
		if s.Objectives[i].ID == id {
			s.Objectives[i].Completed = true
		}
	}
}

func (s *State) logf(format string, args ...any) {
	s.Log = append(s.Log, LogEntry{Turn: s.Turn, Stage: s.Stage, Message: fmt.Sprintf(format, args...)})
}

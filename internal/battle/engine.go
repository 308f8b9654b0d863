package battle

import (
	"fmt"
	"math"

	"xbitocom/internal/card"
	"xbitocom/internal/rng"
	"xbitocom/internal/ufo"
	"xbitocom/internal/validate"
	"xbitocom/internal/vehicle"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Rules struct {
	DrawCount  int        `yaml:"draw_count" json:"draw_count"`
	StageTurns StageTurns `yaml:"stage_turns" json:"stage_turns"`
}

func DefaultRules() Rules {
	return Rules{
		DrawCount:  5,
		StageTurns: StageTurns{Approach: 1, Engagement: 3, Pursuit: 2},
	}
}

func (r Rules) withDefaults() Rules {
	d := DefaultRules()
	if r.DrawCount <= 0 {
		r.DrawCount = d.DrawCount
	}
	if r.StageTurns.Approach <= 0 {
		r.StageTurns.Approach = d.StageTurns.Approach
	}
	if r.StageTurns.Engagement <= 0 {
		r.StageTurns.Engagement = d.StageTurns.Engagement
	}
	if r.StageTurns.Pursuit <= 0 {
		r.StageTurns.Pursuit = d.StageTurns.Pursuit
	}
	return r
}

// Engine drives battles. It holds no battle state itself; every call takes
// the State it mutates.
type Engine struct {
	src    rng.Source
	logger *zap.Logger
	rules  Rules
}

func NewEngine(src rng.Source, logger *zap.Logger, rules Rules) *Engine {
	if src == nil {
		src = rng.New(rng.NewSeed())
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		src:    src,
		logger: logger.With(zap.String("component", "battle")),
		rules:  rules.withDefaults(),
	}
}

func (e *Engine) Rules() Rules { return e.rules }

func deriveVehicleStats(v vehicle.Vehicle, drawCount int) VehicleStats {
	ept := max(1, int(math.Round(float64(v.Stats.Speed)/25)))
	hp := max(50, v.Stats.Armor*2)
	return VehicleStats{
		MaxHealth:      hp,
		CurrentHealth:  hp,
		EnergyPerTurn:  ept,
		MaxEnergy:      ept * 5,
		Accuracy:       min(0.95, 0.6+float64(v.Stats.Firepower)/1000),
		Evasion:        min(0.5, float64(v.Stats.Speed)/1000),
		CriticalChance: 0.05,
		CardSlots:      drawCount,
		EquipmentSlots: len(v.Components),
	}
}

func deriveUFOStats(u ufo.UFO) UFOStats {
	ept := max(1, int(math.Round(float64(u.Speed)/25)))
	hp := max(50, u.Armor*2)
	s := UFOStats{
		MaxHealth:      hp,
		CurrentHealth:  hp,
		EnergyPerTurn:  ept,
		MaxEnergy:      ept * 5,
		Accuracy:       min(0.95, 0.5+float64(u.Weapons)/1000),
		Evasion:        min(0.5, float64(u.Speed)/1000),
		CriticalChance: 0.05,
		BehaviorDeck:   []string{},
	}
	if tpl, err := ufo.LookupTemplate(u.Type); err == nil {
		s.BehaviorDeck = append(s.BehaviorDeck, tpl.BehaviorDeck...)
		s.ThreatLevel = tpl.ThreatLevel
		s.CriticalChance += float64(tpl.ThreatLevel) * 0.01
	}
	return s
}

// Initialize builds the opening state: shuffled deck, three primary
// objectives, stage approach at turn 0, one turn-start of energy and an
// opening hand.
func (e *Engine) Initialize(v vehicle.Vehicle, u ufo.UFO, deck []card.Card) (*State, error) {
	if len(deck) == 0 {
		return nil, fmt.Errorf("%w: deck must not be empty", validate.ErrInvalidArgument)
	}

	s := &State{
		ID:         uuid.NewString(),
		VehicleID:  v.ID,
		UFOID:      u.ID,
		Stage:      StageApproach,
		Turn:       0,
		StageTurns: e.rules.StageTurns,
		Piles: card.Piles{
			Deck:    append([]card.Card{}, deck...),
			Hand:    []card.Card{},
			Discard: []card.Card{},
		},
		ActiveEffects: []ActiveEffect{},
		Vehicle:       deriveVehicleStats(v, e.rules.DrawCount),
		UFO:           deriveUFOStats(u),
		Objectives: []Objective{
			{ID: ObjectiveApproach, Type: ObjectivePrimary, Description: "Close to engagement range"},
			{ID: ObjectiveDestroy, Type: ObjectivePrimary, Description: "Destroy the UFO"},
			{ID: ObjectivePreventEscape, Type: ObjectivePrimary, Description: "Prevent the UFO from escaping"},
		},
		Environment: []string{},
		Log:         []LogEntry{},
		Outcome:     OutcomeOngoing,
	}

	// The faster craft acts first; ties go to the player.
	s.Initiative.Order = []string{v.ID, u.ID}
	if u.Speed > v.Stats.Speed {
		s.Initiative.Order = []string{u.ID, v.ID}
	}

	card.Shuffle(s.Deck, e.src)
	s.logf("%s engages %s", v.Name, u.Type)

	if err := e.StartTurn(s); err != nil {
		return nil, err
	}
	card.Draw(&s.Piles, e.rules.DrawCount, e.src)

	e.logger.Info("battle started",
		zap.String("battle_id", s.ID),
		zap.String("vehicle_id", v.ID),
		zap.String("ufo_id", u.ID),
		zap.Int("deck_size", len(deck)),
	)
	return s, nil
}

// StartTurn adds each side's per-turn energy up to its ceiling. Unspent
// energy carries over.
func (e *Engine) StartTurn(s *State) error {
	if err := validate.NotNil("state", s); err != nil {
		return err
	}
	if s.Outcome.Terminal() {
		return ErrBattleOver
	}
	s.PlayerEnergy = min(s.Vehicle.MaxEnergy, s.PlayerEnergy+s.Vehicle.EnergyPerTurn)
	s.Vehicle.CurrentEnergy = s.PlayerEnergy
	s.EnemyEnergy = min(s.UFO.MaxEnergy, s.EnemyEnergy+s.UFO.EnergyPerTurn)
	s.UFO.CurrentEnergy = s.EnemyEnergy
	s.Initiative.Current = 0
	return nil
}

type PlayResult struct {
	Card            card.Card      `json:"card"`
	DamageToUFO     int            `json:"damage_to_ufo"`
	DamageToVehicle int            `json:"damage_to_vehicle"`
	Healed          int            `json:"healed"`
	Effects         []ActiveEffect `json:"effects"`
}

// PlayCard pays for and resolves the first hand card with cardID, then
// discards it. Every check runs before anything changes.
func (e *Engine) PlayCard(s *State, cardID string) (PlayResult, error) {
	if err := validate.First(validate.NotNil("state", s), validate.NotEmpty("card id", cardID)); err != nil {
		return PlayResult{}, err
	}
	if s.EvaluateOutcome().Terminal() || s.Resolved {
		return PlayResult{}, ErrBattleOver
	}
	i := s.IndexInHand(cardID)
	if i < 0 {
		return PlayResult{}, fmt.Errorf("%w: %s", ErrCardNotInHand, cardID)
	}
	c := s.Hand[i]
	if err := s.SpendEnergy(c.Cost); err != nil {
		return PlayResult{}, err
	}

	res := PlayResult{Card: c, Effects: []ActiveEffect{}}
	for _, eff := range c.Effects {
		e.apply(s, c, eff, &res)
	}
	if err := card.Discard(&s.Piles, c.ID); err != nil {
		return PlayResult{}, err
	}

	s.logf("played %s", c.Name)
	e.logger.Debug("card played",
		zap.String("battle_id", s.ID),
		zap.String("card_id", c.ID),
		zap.Int("turn", s.Turn),
		zap.Int("energy_left", s.PlayerEnergy),
		zap.Int("ufo_health", s.UFO.CurrentHealth),
	)
	return res, nil
}

func (e *Engine) apply(s *State, c card.Card, eff card.Effect, res *PlayResult) {
	hitsEnemy := eff.Target == card.TargetEnemy || eff.Target == card.TargetAll
	hitsSelf := eff.Target == card.TargetSelf || eff.Target == card.TargetAll

	switch eff.Type {
	case card.EffectDamage:
		if hitsEnemy {
			dealt := min(max(0, eff.Value), s.UFO.CurrentHealth)
			s.UFO.CurrentHealth -= dealt
			res.DamageToUFO += dealt
		}
		if hitsSelf {
			dealt := min(max(0, eff.Value), s.Vehicle.CurrentHealth)
			s.Vehicle.CurrentHealth -= dealt
			res.DamageToVehicle += dealt
		}
	case card.EffectHeal:
		// Heals only ever restore the player's craft, whatever the target.
		healed := min(max(0, eff.Value), s.Vehicle.MaxHealth-s.Vehicle.CurrentHealth)
		s.Vehicle.CurrentHealth += healed
		res.Healed += healed
	default:
		ae := ActiveEffect{
			ID:           uuid.NewString(),
			Name:         c.Name,
			Type:         eff.Type,
			Target:       eff.Target,
			Code:         eff.Code,
			Value:        eff.Value,
			Duration:     eff.Duration,
			SourceCardID: c.ID,
			Description:  c.Description,
		}
		s.ActiveEffects = append(s.ActiveEffects, ae)
		res.Effects = append(res.Effects, ae)
	}
}

// EndTurn records a terminal outcome if there is one. Otherwise it moves
// the clock on, advancing the stage when its turn count is met, and
// starts the next turn with a fresh draw. Hand size is not capped here.
func (e *Engine) EndTurn(s *State) (Outcome, error) {
	if err := validate.NotNil("state", s); err != nil {
		return "", err
	}
	if s.Outcome.Terminal() {
		return s.Outcome, nil
	}

	if outcome := s.EvaluateOutcome(); outcome.Terminal() {
		e.recordOutcome(s, outcome)
		return outcome, nil
	}

	s.Turn++
	s.Rounds++
	if s.Stage != StagePursuit && s.Turn >= s.StageTurns.For(s.Stage) {
		if err := e.AdvanceStage(s); err != nil {
			return "", err
		}
	}
	if err := e.StartTurn(s); err != nil {
		return "", err
	}
	card.Draw(&s.Piles, e.rules.DrawCount, e.src)
	return OutcomeOngoing, nil
}

func (e *Engine) recordOutcome(s *State, o Outcome) {
	s.Outcome = o
	if o == OutcomeVictory {
		s.completeObjective(ObjectiveDestroy)
		s.completeObjective(ObjectivePreventEscape)
	}
	s.logf("battle ends in %s", o)
	e.logger.Info("battle ended",
		zap.String("battle_id", s.ID),
		zap.String("outcome", string(o)),
		zap.String("stage", string(s.Stage)),
		zap.Int("turn", s.Turn),
	)
}

// AdvanceStage moves approach to engagement and engagement to pursuit,
// completing the stage's objective and restarting the turn count. Pursuit
// and the closing stages never advance this way.
func (e *Engine) AdvanceStage(s *State) error {
	if err := validate.NotNil("state", s); err != nil {
		return err
	}
	var next Stage
	switch s.Stage {
	case StageApproach:
		next = StageEngagement
		s.completeObjective(ObjectiveApproach)
	case StageEngagement:
		next = StagePursuit
	default:
		return fmt.Errorf("%w: %s", ErrStageLocked, s.Stage)
	}
	prev := s.Stage
	s.Stage = next
	s.Turn = 0
	s.logf("stage %s -> %s", prev, next)
	e.logger.Debug("stage advanced",
		zap.String("battle_id", s.ID),
		zap.String("from", string(prev)),
		zap.String("to", string(next)),
	)
	return nil
}

type ResolveResult struct {
	Outcome       Outcome `json:"outcome"`
	Stage         Stage   `json:"stage"`
	Rounds        int     `json:"rounds"`
	VehicleHealth int     `json:"vehicle_health"`
	UFOHealth     int     `json:"ufo_health"`
}

// Resolve closes a finished battle into recovery (victory) or aftermath
// (defeat). It succeeds once.
func (e *Engine) Resolve(s *State) (ResolveResult, error) {
	if err := validate.NotNil("state", s); err != nil {
		return ResolveResult{}, err
	}
	if s.Resolved {
		return ResolveResult{}, ErrAlreadyResolved
	}
	outcome := s.EvaluateOutcome()
	if !outcome.Terminal() {
		return ResolveResult{}, ErrBattleOngoing
	}
	if !s.Outcome.Terminal() {
		e.recordOutcome(s, outcome)
	}

	if outcome == OutcomeVictory {
		s.Stage = StageRecovery
	} else {
		s.Stage = StageAftermath
	}
	s.Resolved = true
	s.logf("moved to %s", s.Stage)

	return ResolveResult{
		Outcome:       outcome,
		Stage:         s.Stage,
		Rounds:        s.Rounds,
		VehicleHealth: s.Vehicle.CurrentHealth,
		UFOHealth:     s.UFO.CurrentHealth,
	}, nil
}

// TickEffects ages every active effect by one turn and returns the ones
// that expired. The engine never calls it; turn-start hooks that want
// expiry do.
func TickEffects(s *State) []ActiveEffect {
	if s == nil {
		return nil
	}
	kept := s.ActiveEffects[:0]
	var expired []ActiveEffect
	for _, ae := range s.ActiveEffects {
		ae.Duration--
		if ae.Duration <= 0 {
			expired = append(expired, ae)
			continue
		}
		kept = append(kept, ae)
	}
	s.ActiveEffects = kept
	return expired
}

package agency

import (
	"context"
	"fmt"

	"xbitocom/internal/battle"
	"xbitocom/internal/card"
	"xbitocom/internal/telemetry"
	"xbitocom/internal/ufo"
	"xbitocom/internal/validate"
	"xbitocom/internal/vehicle"
)

// StarterCopies is how many copies of each starter card a craft carries.
const StarterCopies = 3

// BattleDeck is the starter deck, StarterCopies deep, filtered to what
// vehicleType may use.
func BattleDeck(vehicleType vehicle.Type) []card.Card {
	var deck []card.Card
	for i := 0; i < StarterCopies; i++ {
		deck = append(deck, card.StarterDeck()...)
	}
	return card.UsableBy(deck, string(vehicleType))
}

type EngageResult struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Battle  *battle.State `json:"battle,omitempty"`
}

// Engage opens a card battle between a crewed, ready craft and a detected
// UFO. Both are committed until Conclude.
func (a *Agency) Engage(ctx context.Context, vehicleID, ufoID string) (EngageResult, error) {
	v, err := a.getVehicle(ctx, vehicleID)
	if err != nil {
		return EngageResult{}, err
	}
	u, err := a.getUFO(ctx, ufoID)
	if err != nil {
		return EngageResult{}, err
	}
	if v.Status != vehicle.StatusReady {
		return EngageResult{Message: fmt.Sprintf("%s is not ready (%s)", v.Name, v.Status)}, nil
	}
	if u.Status != ufo.StatusDetected {
		return EngageResult{Message: fmt.Sprintf("%s %s cannot be engaged while %s", u.Type, u.ID, u.Status)}, nil
	}
	crew, err := a.crewOf(ctx, v)
	if err != nil {
		return EngageResult{}, err
	}
	manned, err := vehicle.MeetsCrewRequirements(v, crew)
	if err != nil {
		return EngageResult{}, err
	}
	if !manned {
		return EngageResult{Message: fmt.Sprintf("%s is undercrewed", v.Name)}, nil
	}
	deck := BattleDeck(v.Type)
	if len(deck) == 0 {
		return EngageResult{Message: fmt.Sprintf("no cards usable by a %s", v.Type)}, nil
	}

	s, err := a.Battles.Initialize(v, u, deck)
	if err != nil {
		return EngageResult{}, err
	}
	if err := ufo.Transition(&u, ufo.StatusEngaged); err != nil {
		return EngageResult{}, err
	}
	u.InterceptedBy = v.ID
	v.Status = vehicle.StatusMission

	if err := a.Vehicles.Update(ctx, v); err != nil {
		return EngageResult{}, err
	}
	if err := a.UFOs.Update(ctx, u); err != nil {
		return EngageResult{}, err
	}

	a.record(telemetry.EventBattleStarted, telemetry.EventMetadata{
		"battle_id":  s.ID,
		"vehicle_id": v.ID,
		"ufo_id":     u.ID,
		"ufo_type":   string(u.Type),
	})
	return EngageResult{Success: true, Message: fmt.Sprintf("%s engages the %s", v.Name, u.Type), Battle: s}, nil
}

// PlayCard plays through the battle engine and records the play.
func (a *Agency) PlayCard(s *battle.State, cardID string) (battle.PlayResult, error) {
	res, err := a.Battles.PlayCard(s, cardID)
	if err != nil {
		return res, err
	}
	a.record(telemetry.EventCardPlayed, telemetry.EventMetadata{
		"battle_id": s.ID,
		"card_id":   cardID,
		"turn":      s.Turn,
	})
	return res, nil
}

// Autoplay drives s to an outcome by playing the first affordable card
// until none is left, then ending the turn. It stops after maxTurns turns
// even if the battle is still going.
func (a *Agency) Autoplay(s *battle.State, maxTurns int) (battle.Outcome, error) {
	if err := validate.First(validate.NotNil("battle", s), validate.Positive("max turns", maxTurns)); err != nil {
		return "", err
	}
	for turn := 0; turn < maxTurns; turn++ {
		for s.EvaluateOutcome() == battle.OutcomeOngoing {
			i := affordable(s)
			if i < 0 {
				break
			}
			if _, err := a.PlayCard(s, s.Hand[i].ID); err != nil {
				return "", err
			}
		}
		outcome, err := a.Battles.EndTurn(s)
		if err != nil {
			return "", err
		}
		if outcome.Terminal() {
			return outcome, nil
		}
	}
	return s.EvaluateOutcome(), nil
}

func affordable(s *battle.State) int {
	for i, c := range s.Hand {
		if c.Cost <= s.PlayerEnergy {
			return i
		}
	}
	return -1
}

// Conclude resolves a finished battle and writes its result back: the UFO
// is destroyed on victory and escapes on defeat, and the craft keeps the
// share of hull it ended with.
func (a *Agency) Conclude(ctx context.Context, s *battle.State) (battle.ResolveResult, error) {
	if err := validate.NotNil("battle", s); err != nil {
		return battle.ResolveResult{}, err
	}
	v, err := a.getVehicle(ctx, s.VehicleID)
	if err != nil {
		return battle.ResolveResult{}, err
	}
	u, err := a.getUFO(ctx, s.UFOID)
	if err != nil {
		return battle.ResolveResult{}, err
	}
	res, err := a.Battles.Resolve(s)
	if err != nil {
		return battle.ResolveResult{}, err
	}

	to := ufo.StatusEscaped
	if res.Outcome == battle.OutcomeVictory {
		to = ufo.StatusDestroyed
	}
	if err := ufo.Transition(&u, to); err != nil {
		return battle.ResolveResult{}, err
	}

	remaining := 0
	if s.Vehicle.MaxHealth > 0 {
		remaining = min(v.Condition, v.Condition*max(0, res.VehicleHealth)/s.Vehicle.MaxHealth)
	}
	v.Status = vehicle.StatusReady
	applyHullDamage(&v, v.Condition-remaining)

	if err := a.Vehicles.Update(ctx, v); err != nil {
		return battle.ResolveResult{}, err
	}
	if err := a.UFOs.Update(ctx, u); err != nil {
		return battle.ResolveResult{}, err
	}

	a.record(telemetry.EventBattleEnded, telemetry.EventMetadata{
		"battle_id": s.ID,
		"outcome":   string(res.Outcome),
		"rounds":    res.Rounds,
	})
	return res, nil
}

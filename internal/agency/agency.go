// Package agency is the overworld: bases, roster, fleet, funds and the UFOs
// in the sky. Every record is reached through the repositories here, so ids
// stored on one record are always resolved against the same index.
package agency

import (
	"context"
	"errors"
	"fmt"

	"xbitocom/internal/base"
	"xbitocom/internal/battle"
	"xbitocom/internal/config"
	"xbitocom/internal/detection"
	"xbitocom/internal/finance"
	"xbitocom/internal/geo"
	"xbitocom/internal/personnel"
	"xbitocom/internal/rng"
	"xbitocom/internal/telemetry"
	"xbitocom/internal/ufo"
	"xbitocom/internal/validate"
	"xbitocom/internal/vehicle"

	"go.uber.org/zap"
)

var ErrNotFound = errors.New("not found")

type Agency struct {
	Bases     base.Repository
	Personnel personnel.Repository
	Vehicles  vehicle.Repository
	UFOs      ufo.Repository
	Ledger    finance.Repository
	Events    telemetry.Repository
	Battles   *battle.Engine
	Balance   config.Balance

	src    rng.Source
	logger *zap.Logger
}

// New builds an agency on in-memory repositories funded from balance.
func New(src rng.Source, logger *zap.Logger, balance config.Balance, rules battle.Rules) *Agency {
	if src == nil {
		src = rng.New(rng.NewSeed())
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	balance.ApplyDefaults()
	return &Agency{
		Bases:     base.NewMemoryRepo(),
		Personnel: personnel.NewMemoryRepo(),
		Vehicles:  vehicle.NewMemoryRepo(),
		UFOs:      ufo.NewMemoryRepo(),
		Ledger:    finance.NewMemoryRepo(balance.StartingFunds),
		Events:    telemetry.NewMemoryRepository(),
		Battles:   battle.NewEngine(src, logger, rules),
		Balance:   balance,
		src:       src,
		logger:    logger.With(zap.String("component", "agency")),
	}
}

func (a *Agency) detectionOptions() detection.Options {
	return detection.Options{
		RadarLevelBonus: a.Balance.RadarLevelBonus,
		MaxAttempts:     a.Balance.TrajectoryAttempts,
		RadarSamples:    a.Balance.RadarSamples,
	}
}

// spawnTable orders the configured weights by ufo.Types so draws are
// reproducible for a given seed.
func (a *Agency) spawnTable() []ufo.SpawnEntry {
	table := make([]ufo.SpawnEntry, 0, len(ufo.Types))
	for _, t := range ufo.Types {
		if w := a.Balance.SpawnWeights[string(t)]; w > 0 {
			table = append(table, ufo.SpawnEntry{Type: t, Weight: w})
		}
	}
	return table
}

// record is best effort: a lost event is logged and play continues.
func (a *Agency) record(t telemetry.EventType, md telemetry.EventMetadata) {
	if a.Events == nil {
		return
	}
	if err := a.Events.RecordEvent(t, md); err != nil {
		a.logger.Warn("telemetry event dropped", zap.String("event", string(t)), zap.Error(err))
	}
}

func (a *Agency) getBase(ctx context.Context, id string) (base.Base, error) {
	b, ok, err := a.Bases.Get(ctx, id)
	if err != nil {
		return base.Base{}, err
	}
	if !ok {
		return base.Base{}, fmt.Errorf("%w: base %s", ErrNotFound, id)
	}
	return b, nil
}

func (a *Agency) getPersonnel(ctx context.Context, id string) (personnel.Personnel, error) {
	p, ok, err := a.Personnel.Get(ctx, id)
	if err != nil {
		return personnel.Personnel{}, err
	}
	if !ok {
		return personnel.Personnel{}, fmt.Errorf("%w: personnel %s", ErrNotFound, id)
	}
	return p, nil
}

func (a *Agency) getVehicle(ctx context.Context, id string) (vehicle.Vehicle, error) {
	v, ok, err := a.Vehicles.Get(ctx, id)
	if err != nil {
		return vehicle.Vehicle{}, err
	}
	if !ok {
		return vehicle.Vehicle{}, fmt.Errorf("%w: vehicle %s", ErrNotFound, id)
	}
	return v, nil
}

func (a *Agency) getUFO(ctx context.Context, id string) (ufo.UFO, error) {
	u, ok, err := a.UFOs.Get(ctx, id)
	if err != nil {
		return ufo.UFO{}, err
	}
	if !ok {
		return ufo.UFO{}, fmt.Errorf("%w: ufo %s", ErrNotFound, id)
	}
	return u, nil
}

// crewOf resolves v.Crew through the roster.
func (a *Agency) crewOf(ctx context.Context, v vehicle.Vehicle) ([]personnel.Personnel, error) {
	crew := make([]personnel.Personnel, 0, len(v.Crew))
	for _, id := range v.Crew {
		p, err := a.getPersonnel(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("crew of %s: %w", v.ID, err)
		}
		crew = append(crew, p)
	}
	return crew, nil
}

// FoundBase opens a base on continent. A zero location puts it at the
// continent's center; an empty continent is taken from the location.
func (a *Agency) FoundBase(ctx context.Context, name, continent string, at geo.Point) (base.Base, error) {
	var c geo.Continent
	switch {
	case continent == "":
		found, ok := geo.ContinentAt(at)
		if !ok {
			return base.Base{}, fmt.Errorf("%w: no continent at (%.0f,%.0f)", validate.ErrInvalidArgument, at.X, at.Y)
		}
		c = found
	default:
		named, err := geo.ContinentByName(continent)
		if err != nil {
			return base.Base{}, err
		}
		c = named
		if at == (geo.Point{}) {
			at = c.Bounds.Center()
		}
		if !c.Bounds.Contains(at) {
			return base.Base{}, fmt.Errorf("%w: (%.0f,%.0f) is outside %s", validate.ErrInvalidArgument, at.X, at.Y, c.Name)
		}
	}
	b, err := base.New(name, c, at)
	if err != nil {
		return base.Base{}, err
	}
	if err := a.Bases.Add(ctx, b); err != nil {
		return base.Base{}, err
	}
	a.logger.Info("base founded",
		zap.String("base_id", b.ID),
		zap.String("name", b.Name),
		zap.String("continent", b.Continent),
		zap.Int("quarters", base.PersonnelCapacity(b)),
	)
	return b, nil
}

// Funds is the current ledger balance.
func (a *Agency) Funds(ctx context.Context) (int, error) {
	l, err := a.Ledger.Get(ctx)
	if err != nil {
		return 0, err
	}
	return l.Balance, nil
}

// Garrison is everyone and everything stationed at one base.
type Garrison struct {
	Base      base.Base             `json:"base"`
	Personnel []personnel.Personnel `json:"personnel"`
	Vehicles  []vehicle.Vehicle     `json:"vehicles"`
}

func (a *Agency) Garrison(ctx context.Context, baseID string) (Garrison, error) {
	b, err := a.getBase(ctx, baseID)
	if err != nil {
		return Garrison{}, err
	}
	ps, err := a.Personnel.ListByBase(ctx, baseID)
	if err != nil {
		return Garrison{}, err
	}
	vs, err := a.Vehicles.ListByBase(ctx, baseID)
	if err != nil {
		return Garrison{}, err
	}
	return Garrison{Base: b, Personnel: ps, Vehicles: vs}, nil
}

package agency

import (
	"context"
	"fmt"

	"xbitocom/internal/base"
	"xbitocom/internal/finance"
	"xbitocom/internal/interception"
	"xbitocom/internal/personnel"
	"xbitocom/internal/telemetry"
	"xbitocom/internal/ufo"
	"xbitocom/internal/vehicle"

	"go.uber.org/zap"
)

type CommissionResult struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Vehicle vehicle.Vehicle `json:"vehicle"`
	Cost    int             `json:"cost"`
}

// CommissionVehicle buys a factory-fresh variantKey into a hangar slot at
// baseID.
func (a *Agency) CommissionVehicle(ctx context.Context, baseID, variantKey string) (CommissionResult, error) {
	variant, err := vehicle.LookupVariant(variantKey)
	if err != nil {
		return CommissionResult{}, err
	}
	b, err := a.getBase(ctx, baseID)
	if err != nil {
		return CommissionResult{}, err
	}
	if capacity := base.VehicleCapacity(b); len(b.Vehicles) >= capacity {
		return CommissionResult{
			Message: fmt.Sprintf("hangars at %s are full (%d/%d)", b.Name, len(b.Vehicles), capacity),
		}, nil
	}

	ledger, err := a.Ledger.Get(ctx)
	if err != nil {
		return CommissionResult{}, err
	}
	spent, err := ledger.Spend(finance.OneTime, "fleet", fmt.Sprintf("commission %s", variant.Name), variant.Cost)
	if err != nil {
		return CommissionResult{}, err
	}
	if !spent.Success {
		return CommissionResult{Message: spent.Message}, nil
	}
	v, err := vehicle.Generate(variantKey, baseID)
	if err != nil {
		return CommissionResult{}, err
	}
	b.Vehicles = append(b.Vehicles, v.ID)

	if err := a.Vehicles.Add(ctx, v); err != nil {
		return CommissionResult{}, err
	}
	if err := a.Bases.Update(ctx, b); err != nil {
		return CommissionResult{}, err
	}
	if err := a.Ledger.Update(ctx, ledger); err != nil {
		return CommissionResult{}, err
	}

	a.record(telemetry.EventVehicleCommissioned, telemetry.EventMetadata{
		"vehicle_id": v.ID,
		"variant":    variantKey,
		"base_id":    baseID,
		"cost":       variant.Cost,
	})
	return CommissionResult{
		Success: true,
		Message: fmt.Sprintf("%s commissioned at %s", v.Name, b.Name),
		Vehicle: v,
		Cost:    variant.Cost,
	}, nil
}

type InterceptResult struct {
	interception.Result
	Vehicle vehicle.Vehicle `json:"vehicle"`
	UFO     ufo.UFO         `json:"ufo"`
}

// Intercept sends vehicleID against a detected ufoID and applies the
// exchange: hull damage to the craft, destroyed or escaped for the UFO.
func (a *Agency) Intercept(ctx context.Context, vehicleID, ufoID string) (InterceptResult, error) {
	v, err := a.getVehicle(ctx, vehicleID)
	if err != nil {
		return InterceptResult{}, err
	}
	u, err := a.getUFO(ctx, ufoID)
	if err != nil {
		return InterceptResult{}, err
	}
	refuse := func(format string, args ...any) (InterceptResult, error) {
		return InterceptResult{
			Result:  interception.Result{Message: fmt.Sprintf(format, args...)},
			Vehicle: v,
			UFO:     u,
		}, nil
	}
	if v.Status != vehicle.StatusReady {
		return refuse("%s is not ready (%s)", v.Name, v.Status)
	}
	if u.Status != ufo.StatusDetected {
		return refuse("%s %s cannot be intercepted while %s", u.Type, u.ID, u.Status)
	}
	crew, err := a.crewOf(ctx, v)
	if err != nil {
		return InterceptResult{}, err
	}
	manned, err := vehicle.MeetsCrewRequirements(v, crew)
	if err != nil {
		return InterceptResult{}, err
	}
	if !manned {
		return refuse("%s is undercrewed", v.Name)
	}

	if err := ufo.Transition(&u, ufo.StatusEngaged); err != nil {
		return InterceptResult{}, err
	}
	res := interception.Calculate(v, crew, u)

	u.InterceptedBy = v.ID
	outcome := ufo.StatusEscaped
	if res.Success {
		outcome = ufo.StatusDestroyed
	}
	if err := ufo.Transition(&u, outcome); err != nil {
		return InterceptResult{}, err
	}
	applyHullDamage(&v, res.VehicleDamage)
	for i := range crew {
		crew[i].Experience++
	}

	if err := a.Personnel.UpdateMany(ctx, crew); err != nil {
		return InterceptResult{}, err
	}
	if err := a.Vehicles.Update(ctx, v); err != nil {
		return InterceptResult{}, err
	}
	if err := a.UFOs.Update(ctx, u); err != nil {
		return InterceptResult{}, err
	}

	a.record(telemetry.EventInterceptionResolved, telemetry.EventMetadata{
		"vehicle_id":     v.ID,
		"ufo_id":         u.ID,
		"ufo_type":       string(u.Type),
		"success":        res.Success,
		"vehicle_damage": res.VehicleDamage,
		"ufo_damage":     res.UFODamage,
	})
	a.logger.Info("interception resolved",
		zap.String("vehicle_id", v.ID),
		zap.String("ufo_id", u.ID),
		zap.Bool("success", res.Success),
		zap.Int("vehicle_damage", res.VehicleDamage),
		zap.Strings("crew", crewNames(crew)),
	)
	return InterceptResult{Result: res, Vehicle: v, UFO: u}, nil
}

// applyHullDamage wears condition down; any damage sends the craft to
// maintenance and a wrecked hull is marked damaged.
func applyHullDamage(v *vehicle.Vehicle, dmg int) {
	v.Condition = max(0, v.Condition-dmg)
	switch {
	case v.Condition == 0:
		v.Status = vehicle.StatusDamaged
	case dmg > 0:
		v.Status = vehicle.StatusMaintenance
	}
}

func crewNames(crew []personnel.Personnel) []string {
	out := make([]string, len(crew))
	for i, c := range crew {
		out[i] = c.Name
	}
	return out
}

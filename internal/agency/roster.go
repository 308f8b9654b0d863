package agency

import (
	"context"
	"fmt"

	"xbitocom/internal/base"
	"xbitocom/internal/facility"
	"xbitocom/internal/finance"
	"xbitocom/internal/personnel"
	"xbitocom/internal/telemetry"
	"xbitocom/internal/validate"
	"xbitocom/internal/vehicle"

	"go.uber.org/zap"
)

type HireResult struct {
	Success   bool                `json:"success"`
	Message   string              `json:"message"`
	Personnel personnel.Personnel `json:"personnel"`
	Cost      int                 `json:"cost"`
}

// Hire recruits name as role at baseID, paying one annual salary up front.
func (a *Agency) Hire(ctx context.Context, baseID string, role personnel.Role, name string) (HireResult, error) {
	salary, err := personnel.Salary(role)
	if err != nil {
		return HireResult{}, err
	}
	recruit, err := personnel.New(role, name, baseID)
	if err != nil {
		return HireResult{}, err
	}
	b, err := a.getBase(ctx, baseID)
	if err != nil {
		return HireResult{}, err
	}
	if base.AvailablePersonnelCapacity(b) <= 0 {
		return HireResult{
			Message: fmt.Sprintf("%s has no room (%d/%d)", b.Name, base.UsedPersonnelCapacity(b), base.PersonnelCapacity(b)),
		}, nil
	}

	ledger, err := a.Ledger.Get(ctx)
	if err != nil {
		return HireResult{}, err
	}
	spent, err := ledger.Spend(finance.OneTime, "hire", fmt.Sprintf("hire %s", recruit), salary)
	if err != nil {
		return HireResult{}, err
	}
	if !spent.Success {
		return HireResult{Message: spent.Message}, nil
	}

	b.Personnel = append(b.Personnel, recruit.ID)
	if err := a.Personnel.Add(ctx, recruit); err != nil {
		return HireResult{}, err
	}
	if err := a.Bases.Update(ctx, b); err != nil {
		return HireResult{}, err
	}
	if err := a.Ledger.Update(ctx, ledger); err != nil {
		return HireResult{}, err
	}

	a.record(telemetry.EventPersonnelHired, telemetry.EventMetadata{
		"personnel_id": recruit.ID,
		"role":         string(role),
		"base_id":      baseID,
		"cost":         salary,
	})
	a.logger.Info("personnel hired",
		zap.String("personnel_id", recruit.ID),
		zap.String("role", string(role)),
		zap.String("base_id", baseID),
	)
	return HireResult{
		Success:   true,
		Message:   fmt.Sprintf("%s joins %s", recruit, b.Name),
		Personnel: recruit,
		Cost:      salary,
	}, nil
}

type TrainResult struct {
	Success   bool                `json:"success"`
	Message   string              `json:"message"`
	Personnel personnel.Personnel `json:"personnel"`
}

// Train buys one session of skill for personnelID. The trainee stays in
// training until the month ends.
func (a *Agency) Train(ctx context.Context, personnelID string, skill personnel.Skill) (TrainResult, error) {
	if err := validate.OneOf("skill", skill, personnel.SkillNames...); err != nil {
		return TrainResult{}, err
	}
	p, err := a.getPersonnel(ctx, personnelID)
	if err != nil {
		return TrainResult{}, err
	}
	if p.Skill(skill) >= personnel.MaxSkill {
		return TrainResult{Message: fmt.Sprintf("%s has already mastered %s", p.Name, skill), Personnel: p}, nil
	}
	if p.Status == personnel.StatusMission || p.Status == personnel.StatusInjured {
		return TrainResult{Message: fmt.Sprintf("%s is %s", p.Name, p.Status), Personnel: p}, nil
	}

	ledger, err := a.Ledger.Get(ctx)
	if err != nil {
		return TrainResult{}, err
	}
	spent, err := ledger.Spend(finance.OneTime, "training", fmt.Sprintf("train %s in %s", p.Name, skill), a.Balance.TrainingCost)
	if err != nil {
		return TrainResult{}, err
	}
	if !spent.Success {
		return TrainResult{Message: spent.Message, Personnel: p}, nil
	}
	if err := personnel.Train(&p, skill, a.Balance.TrainingIncrement); err != nil {
		return TrainResult{}, err
	}

	p, err = a.Personnel.Update(ctx, p)
	if err != nil {
		return TrainResult{}, err
	}
	if err := a.Ledger.Update(ctx, ledger); err != nil {
		return TrainResult{}, err
	}

	a.record(telemetry.EventPersonnelTrained, telemetry.EventMetadata{
		"personnel_id": p.ID,
		"skill":        string(skill),
		"level":        p.Skill(skill),
	})
	return TrainResult{
		Success:   true,
		Message:   fmt.Sprintf("%s trained %s to %d", p.Name, skill, p.Skill(skill)),
		Personnel: p,
	}, nil
}

// AssignPersonnel moves a person from the base pool onto one of its
// facilities.
func (a *Agency) AssignPersonnel(ctx context.Context, personnelID, facilityID string) (facility.AssignResult, error) {
	p, err := a.getPersonnel(ctx, personnelID)
	if err != nil {
		return facility.AssignResult{}, err
	}
	b, err := a.getBase(ctx, p.BaseID)
	if err != nil {
		return facility.AssignResult{}, err
	}
	i, ok := b.FacilityIndex(facilityID)
	if !ok {
		return facility.AssignResult{}, fmt.Errorf("%w: facility %s at base %s", ErrNotFound, facilityID, b.ID)
	}
	if p.AssignedVehicleID != "" {
		return facility.AssignResult{Message: fmt.Sprintf("%s is crewing a vehicle", p.Name)}, nil
	}

	res, err := facility.Assign(&b.Facilities[i], &p)
	if err != nil || !res.Success {
		return res, err
	}
	b.Personnel = removeID(b.Personnel, p.ID)

	if _, err := a.Personnel.Update(ctx, p); err != nil {
		return facility.AssignResult{}, err
	}
	if err := a.Bases.Update(ctx, b); err != nil {
		return facility.AssignResult{}, err
	}
	return res, nil
}

// UnassignPersonnel returns a person from their facility to the base pool.
func (a *Agency) UnassignPersonnel(ctx context.Context, personnelID string) error {
	p, err := a.getPersonnel(ctx, personnelID)
	if err != nil {
		return err
	}
	if p.AssignedFacilityID == "" {
		return fmt.Errorf("%w: %s is not assigned to a facility", validate.ErrInvalidArgument, p.Name)
	}
	b, err := a.getBase(ctx, p.BaseID)
	if err != nil {
		return err
	}
	i, ok := b.FacilityIndex(p.AssignedFacilityID)
	if !ok {
		return fmt.Errorf("%w: facility %s at base %s", ErrNotFound, p.AssignedFacilityID, b.ID)
	}
	if err := facility.Unassign(&b.Facilities[i], &p); err != nil {
		return err
	}
	b.Personnel = append(b.Personnel, p.ID)

	if _, err := a.Personnel.Update(ctx, p); err != nil {
		return err
	}
	return a.Bases.Update(ctx, b)
}

// AssignCrew seats a person from the same base on a vehicle.
func (a *Agency) AssignCrew(ctx context.Context, personnelID, vehicleID string) (vehicle.Result, error) {
	p, err := a.getPersonnel(ctx, personnelID)
	if err != nil {
		return vehicle.Result{}, err
	}
	v, err := a.getVehicle(ctx, vehicleID)
	if err != nil {
		return vehicle.Result{}, err
	}
	if p.BaseID != v.BaseID {
		return vehicle.Result{Message: fmt.Sprintf("%s is stationed elsewhere", p.Name)}, nil
	}
	if p.AssignedFacilityID != "" {
		return vehicle.Result{Message: fmt.Sprintf("%s is working a facility", p.Name)}, nil
	}
	roster, err := a.crewOf(ctx, v)
	if err != nil {
		return vehicle.Result{}, err
	}

	res, err := vehicle.AssignCrew(&v, &p, roster)
	if err != nil || !res.Success {
		return res, err
	}
	if _, err := a.Personnel.Update(ctx, p); err != nil {
		return vehicle.Result{}, err
	}
	if err := a.Vehicles.Update(ctx, v); err != nil {
		return vehicle.Result{}, err
	}
	return res, nil
}

// UnassignCrew takes a person off the vehicle they crew. A craft out on a
// mission keeps its crew.
func (a *Agency) UnassignCrew(ctx context.Context, personnelID string) (vehicle.Result, error) {
	p, err := a.getPersonnel(ctx, personnelID)
	if err != nil {
		return vehicle.Result{}, err
	}
	if p.AssignedVehicleID == "" {
		return vehicle.Result{}, fmt.Errorf("%w: %s is not crewing a vehicle", validate.ErrInvalidArgument, p.Name)
	}
	v, err := a.getVehicle(ctx, p.AssignedVehicleID)
	if err != nil {
		return vehicle.Result{}, err
	}
	if v.Status == vehicle.StatusMission {
		return vehicle.Result{Message: fmt.Sprintf("%s is on a mission", v.Name)}, nil
	}
	if err := vehicle.RemoveCrew(&v, &p); err != nil {
		return vehicle.Result{}, err
	}

	if _, err := a.Personnel.Update(ctx, p); err != nil {
		return vehicle.Result{}, err
	}
	if err := a.Vehicles.Update(ctx, v); err != nil {
		return vehicle.Result{}, err
	}
	return vehicle.Result{Success: true, Message: fmt.Sprintf("%s leaves the %s crew", p.Name, v.Name)}, nil
}

func removeID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

package vehicle

import (
	"fmt"

	"xbitocom/internal/personnel"
	"xbitocom/internal/validate"
)

type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func InstallWeapon(v *Vehicle, w Weapon) (Result, error) {
	if err := validate.First(validate.NotNil("vehicle", v), validate.NotEmpty("weapon key", w.Key)); err != nil {
		return Result{}, err
	}
	variant, err := LookupVariant(v.Variant)
	if err != nil {
		return Result{}, err
	}
	if len(v.Weapons) >= variant.Hardpoints {
		return Result{Message: fmt.Sprintf("%s has no free hardpoint (%d/%d)", v.Name, len(v.Weapons), variant.Hardpoints)}, nil
	}
	v.Weapons = append(v.Weapons, w)
	if err := UpdateStats(v); err != nil {
		return Result{}, err
	}
	return Result{Success: true, Message: fmt.Sprintf("%s mounted on %s", w.Name, v.Name)}, nil
}

func InstallComponent(v *Vehicle, c Component) (Result, error) {
	if err := validate.First(validate.NotNil("vehicle", v), validate.NotEmpty("component key", c.Key)); err != nil {
		return Result{}, err
	}
	variant, err := LookupVariant(v.Variant)
	if err != nil {
		return Result{}, err
	}
	if len(v.Components) >= variant.ComponentSlots {
		return Result{Message: fmt.Sprintf("%s has no free component slot (%d/%d)", v.Name, len(v.Components), variant.ComponentSlots)}, nil
	}
	v.Components = append(v.Components, c)
	if err := UpdateStats(v); err != nil {
		return Result{}, err
	}
	return Result{Success: true, Message: fmt.Sprintf("%s fitted to %s", c.Name, v.Name)}, nil
}

// RemoveComponent drops the first installed component with key.
func RemoveComponent(v *Vehicle, key string) (bool, error) {
	if err := validate.NotNil("vehicle", v); err != nil {
		return false, err
	}
	for i, c := range v.Components {
		if c.Key == key {
			v.Components = append(v.Components[:i:i], v.Components[i+1:]...)
			return true, UpdateStats(v)
		}
	}
	return false, nil
}

// seats returns how many crew of role the variant takes.
func (c CrewRequirements) seats(role personnel.Role) int {
	switch role {
	case personnel.RolePilot:
		return c.Pilots
	case personnel.RoleSoldier:
		return c.Soldiers
	case personnel.RoleEngineer:
		return c.Engineers
	case personnel.RoleMedic:
		return c.Medics
	}
	return 0
}

// AssignCrew seats p on v. roster is the current crew, resolved by the
// caller from v.Crew.
func AssignCrew(v *Vehicle, p *personnel.Personnel, roster []personnel.Personnel) (Result, error) {
	if err := validate.First(validate.NotNil("vehicle", v), validate.NotNil("personnel", p)); err != nil {
		return Result{}, err
	}
	variant, err := LookupVariant(v.Variant)
	if err != nil {
		return Result{}, err
	}
	if p.AssignedVehicleID != "" {
		return Result{Message: fmt.Sprintf("%s is already crewing a vehicle", p.Name)}, nil
	}
	if len(v.Crew) >= variant.Crew.Size() {
		return Result{Message: fmt.Sprintf("%s crew is full (%d/%d)", v.Name, len(v.Crew), variant.Crew.Size())}, nil
	}
	seats := variant.Crew.seats(p.Role)
	if seats == 0 {
		return Result{Message: fmt.Sprintf("%s takes no %s", v.Name, p.Role)}, nil
	}
	taken := 0
	for _, c := range roster {
		if c.Role == p.Role {
			taken++
		}
	}
	if taken >= seats {
		return Result{Message: fmt.Sprintf("all %s seats on %s are taken", p.Role, v.Name)}, nil
	}

	v.Crew = append(v.Crew, p.ID)
	p.AssignedVehicleID = v.ID
	return Result{Success: true, Message: fmt.Sprintf("%s joins the %s crew", p.Name, v.Name)}, nil
}

func RemoveCrew(v *Vehicle, p *personnel.Personnel) error {
	if err := validate.First(validate.NotNil("vehicle", v), validate.NotNil("personnel", p)); err != nil {
		return err
	}
	for i, id := range v.Crew {
		if id == p.ID {
			v.Crew = append(v.Crew[:i:i], v.Crew[i+1:]...)
			p.AssignedVehicleID = ""
			return nil
		}
	}
	return fmt.Errorf("%s is not crewing %s", p.Name, v.ID)
}

// MeetsCrewRequirements reports whether crew fills every seat the variant
// demands.
func MeetsCrewRequirements(v Vehicle, crew []personnel.Personnel) (bool, error) {
	variant, err := LookupVariant(v.Variant)
	if err != nil {
		return false, err
	}
	counts := map[personnel.Role]int{}
	for _, c := range crew {
		counts[c.Role]++
	}
	for _, role := range []personnel.Role{personnel.RolePilot, personnel.RoleSoldier, personnel.RoleEngineer, personnel.RoleMedic} {
		if counts[role] < variant.Crew.seats(role) {
			return false, nil
		}
	}
	return true, nil
}

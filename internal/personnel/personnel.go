package personnel

import (
	"fmt"

	"xbitocom/internal/validate"

	"github.com/google/uuid"
)

type Role string

const (
	RoleSoldier   Role = "soldier"
	RolePilot     Role = "pilot"
	RoleEngineer  Role = "engineer"
	RoleScientist Role = "scientist"
	RoleMedic     Role = "medic"
	RoleCommander Role = "commander"
)

var Roles = []Role{RoleSoldier, RolePilot, RoleEngineer, RoleScientist, RoleMedic, RoleCommander}

type Skill string

const (
	SkillCombat      Skill = "combat"
	SkillPiloting    Skill = "piloting"
	SkillEngineering Skill = "engineering"
	SkillResearch    Skill = "research"
	SkillMedical     Skill = "medical"
	SkillLeadership  Skill = "leadership"
)

var SkillNames = []Skill{SkillCombat, SkillPiloting, SkillEngineering, SkillResearch, SkillMedical, SkillLeadership}

type Status string

const (
	StatusAvailable Status = "available"
	StatusTraining  Status = "training"
	StatusWorking   Status = "working"
	StatusInjured   Status = "injured"
	StatusResting   Status = "resting"
	StatusMission   Status = "mission"
)

const MaxSkill = 100

// Salaries are annual figures per role. Hiring charges the full amount once.
var Salaries = map[Role]int{
	RoleSoldier:   40000,
	RolePilot:     60000,
	RoleEngineer:  50000,
	RoleScientist: 55000,
	RoleMedic:     45000,
	RoleCommander: 90000,
}

// primarySkill is the gauge a fresh hire of each role starts strong in.
var primarySkill = map[Role]Skill{
	RoleSoldier:   SkillCombat,
	RolePilot:     SkillPiloting,
	RoleEngineer:  SkillEngineering,
	RoleScientist: SkillResearch,
	RoleMedic:     SkillMedical,
	RoleCommander: SkillLeadership,
}

// Skills are 0-100 gauges.
type Skills map[Skill]int

// Personnel references its base, facility and vehicle by id only; the roster
// repository is the single place records are resolved.
type Personnel struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Role               Role   `json:"role"`
	Skills             Skills `json:"skills"`
	Status             Status `json:"status"`
	Experience         int    `json:"experience"`
	BaseID             string `json:"base_id"`
	AssignedFacilityID string `json:"assigned_facility_id,omitempty"`
	AssignedVehicleID  string `json:"assigned_vehicle_id,omitempty"`
}

func Salary(role Role) (int, error) {
	s, ok := Salaries[role]
	if !ok {
		return 0, validate.OneOf("role", role, Roles...)
	}
	return s, nil
}

// New builds an available recruit for role.
func New(role Role, name, baseID string) (Personnel, error) {
	if err := validate.First(
		validate.OneOf("role", role, Roles...),
		validate.NotEmpty("name", name),
	); err != nil {
		return Personnel{}, err
	}

	skills := make(Skills, len(SkillNames))
	for _, s := range SkillNames {
		skills[s] = 10
	}
	skills[primarySkill[role]] = 50
	if role == RoleSoldier || role == RolePilot {
		skills[SkillCombat] = max(skills[SkillCombat], 30)
	}

	return Personnel{
		ID:     uuid.NewString(),
		Name:   name,
		Role:   role,
		Skills: skills,
		Status: StatusAvailable,
		BaseID: baseID,
	}, nil
}

func (p Personnel) Skill(s Skill) int {
	return p.Skills[s]
}

// Clone copies Skills so the result shares no map with p.
func (p Personnel) Clone() Personnel {
	if p.Skills != nil {
		skills := make(Skills, len(p.Skills))
		for k, v := range p.Skills {
			skills[k] = v
		}
		p.Skills = skills
	}
	return p
}

// Train raises one skill by increment (capped), adds one experience and puts
// the record into training.
func Train(p *Personnel, skill Skill, increment int) error {
	if err := validate.First(
		validate.NotNil("personnel", p),
		validate.OneOf("skill", skill, SkillNames...),
		validate.Positive("increment", increment),
	); err != nil {
		return err
	}
	if p.Skills == nil {
		p.Skills = Skills{}
	}
	p.Skills[skill] = min(MaxSkill, p.Skills[skill]+increment)
	p.Experience++
	p.Status = StatusTraining
	return nil
}

// Assigned reports whether the record is held by a facility or vehicle.
func (p Personnel) Assigned() bool {
	return p.AssignedFacilityID != "" || p.AssignedVehicleID != ""
}

// Release clears any assignment and returns the record to the available pool.
func (p *Personnel) Release() {
	p.AssignedFacilityID = ""
	p.AssignedVehicleID = ""
	p.Status = StatusAvailable
}

func (p Personnel) String() string {
	return fmt.Sprintf("%s (%s)", p.Name, p.Role)
}

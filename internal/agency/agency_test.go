package agency

import (
	"context"
	"fmt"
	"testing"

	"xbitocom/internal/base"
	"xbitocom/internal/battle"
	"xbitocom/internal/config"
	"xbitocom/internal/detection"
	"xbitocom/internal/facility"
	"xbitocom/internal/finance"
	"xbitocom/internal/geo"
	"xbitocom/internal/personnel"
	"xbitocom/internal/rng"
	"xbitocom/internal/telemetry"
	"xbitocom/internal/ufo"
	"xbitocom/internal/validate"
	"xbitocom/internal/vehicle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newAgency(t *testing.T, src rng.Source, balance config.Balance) (*Agency, base.Base) {
	t.Helper()
	a := New(src, zap.NewNop(), balance, battle.DefaultRules())
	b, err := a.FoundBase(context.Background(), "Alpha", "Europe", geo.Point{})
	require.NoError(t, err)
	return a, b
}

func funds(t *testing.T, a *Agency) int {
	t.Helper()
	f, err := a.Funds(context.Background())
	require.NoError(t, err)
	return f
}

func reloadBase(t *testing.T, a *Agency, id string) base.Base {
	t.Helper()
	b, ok, err := a.Bases.Get(context.Background(), id)
	require.NoError(t, err)
	require.True(t, ok)
	return b
}

func facilityOf(t *testing.T, b base.Base, ft facility.Type) facility.Facility {
	t.Helper()
	for _, f := range b.Facilities {
		if f.Type == ft {
			return f
		}
	}
	t.Fatalf("no %s at %s", ft, b.Name)
	return facility.Facility{}
}

func hire(t *testing.T, a *Agency, baseID string, role personnel.Role) personnel.Personnel {
	t.Helper()
	res, err := a.Hire(context.Background(), baseID, role, fmt.Sprintf("%s recruit", role))
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)
	return res.Personnel
}

// detectedScout puts a detected scout into the sky over at.
func detectedScout(t *testing.T, a *Agency, at geo.Point) ufo.UFO {
	t.Helper()
	u, err := ufo.New(ufo.TypeScout, ufo.Trajectory{Start: at, End: geo.Point{X: at.X + 500, Y: at.Y}})
	require.NoError(t, err)
	u.Status = ufo.StatusDetected
	require.NoError(t, a.UFOs.Add(context.Background(), u))
	return u
}

// crewedRaven commissions a raven and seats a fresh pilot in it.
func crewedRaven(t *testing.T, a *Agency, baseID string) vehicle.Vehicle {
	t.Helper()
	ctx := context.Background()
	res, err := a.CommissionVehicle(ctx, baseID, "raven")
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)
	pilot := hire(t, a, baseID, personnel.RolePilot)
	seat, err := a.AssignCrew(ctx, pilot.ID, res.Vehicle.ID)
	require.NoError(t, err)
	require.True(t, seat.Success, seat.Message)
	v, err := a.getVehicle(ctx, res.Vehicle.ID)
	require.NoError(t, err)
	return v
}

func TestFoundBase(t *testing.T) {
	a, b := newAgency(t, rng.New(1), config.Default())
	assert.Equal(t, "Europe", b.Continent)
	assert.Equal(t, geo.Point{X: 505, Y: 110}, b.Location)
	assert.Equal(t, 5000000, funds(t, a))

	_, err := a.FoundBase(context.Background(), "Nowhere", "Atlantis", geo.Point{})
	assert.ErrorIs(t, err, validate.ErrInvalidArgument)

	t.Run("continent from location", func(t *testing.T) {
		b, err := a.FoundBase(context.Background(), "Cairo", "", geo.Point{X: 500, Y: 200})
		require.NoError(t, err)
		assert.Equal(t, "Africa", b.Continent)
		assert.Equal(t, 20, base.PersonnelCapacity(b))

		_, err = a.FoundBase(context.Background(), "Raft", "", geo.Point{X: 20, Y: 480})
		assert.ErrorIs(t, err, validate.ErrInvalidArgument)
	})

	t.Run("location must be on the continent", func(t *testing.T) {
		_, err := a.FoundBase(context.Background(), "Lost", "Europe", geo.Point{X: 800, Y: 400})
		assert.ErrorIs(t, err, validate.ErrInvalidArgument)
	})
}

func TestGarrison(t *testing.T) {
	ctx := context.Background()
	a, b := newAgency(t, rng.New(1), config.Default())
	v := crewedRaven(t, a, b.ID)
	other, err := a.FoundBase(ctx, "Beta", "Africa", geo.Point{})
	require.NoError(t, err)
	hire(t, a, other.ID, personnel.RoleMedic)

	g, err := a.Garrison(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", g.Base.Name)
	require.Len(t, g.Personnel, 1)
	assert.Equal(t, personnel.RolePilot, g.Personnel[0].Role)
	require.Len(t, g.Vehicles, 1)
	assert.Equal(t, v.ID, g.Vehicles[0].ID)

	_, err = a.Garrison(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHire(t *testing.T) {
	ctx := context.Background()

	t.Run("charges one annual salary", func(t *testing.T) {
		a, b := newAgency(t, rng.New(1), config.Default())
		p := hire(t, a, b.ID, personnel.RolePilot)

		assert.Equal(t, 5000000-60000, funds(t, a))
		assert.Equal(t, b.ID, p.BaseID)
		assert.Contains(t, reloadBase(t, a, b.ID).Personnel, p.ID)
		assert.Equal(t, 1, a.Events.Count(telemetry.EventPersonnelHired))
	})

	t.Run("invalid arguments", func(t *testing.T) {
		a, b := newAgency(t, rng.New(1), config.Default())
		_, err := a.Hire(ctx, b.ID, personnel.Role("janitor"), "Bob")
		assert.ErrorIs(t, err, validate.ErrInvalidArgument)
		_, err = a.Hire(ctx, "missing", personnel.RoleMedic, "Bob")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("no room", func(t *testing.T) {
		a, b := newAgency(t, rng.New(1), config.Default())
		for i := 0; i < base.PersonnelCapacity(b); i++ {
			b.Personnel = append(b.Personnel, fmt.Sprintf("p%d", i))
		}
		require.NoError(t, a.Bases.Update(ctx, b))

		res, err := a.Hire(ctx, b.ID, personnel.RoleSoldier, "Late")
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Contains(t, res.Message, "no room")
		assert.Equal(t, 5000000, funds(t, a))
	})

	t.Run("founding barracks is the only housing", func(t *testing.T) {
		a, b := newAgency(t, rng.New(1), config.Default())
		require.Equal(t, 15, base.PersonnelCapacity(b))

		for i := 0; i < 15; i++ {
			res, err := a.Hire(ctx, b.ID, personnel.RoleSoldier, fmt.Sprintf("Recruit %d", i))
			require.NoError(t, err)
			require.True(t, res.Success, res.Message)
		}
		res, err := a.Hire(ctx, b.ID, personnel.RoleSoldier, "One Too Many")
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Contains(t, res.Message, "no room (15/15)")
	})

	t.Run("insufficient funds", func(t *testing.T) {
		poor := config.Default()
		poor.StartingFunds = 1000
		a, b := newAgency(t, rng.New(1), poor)

		res, err := a.Hire(ctx, b.ID, personnel.RoleCommander, "Broke")
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Contains(t, res.Message, "insufficient funds")

		all, err := a.Personnel.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
		assert.Empty(t, reloadBase(t, a, b.ID).Personnel)
	})
}

func TestRosterCopies(t *testing.T) {
	ctx := context.Background()
	a, b := newAgency(t, rng.New(1), config.Default())
	res, err := a.Hire(ctx, b.ID, personnel.RolePilot, "Kestrel")
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)

	res.Personnel.Skills[personnel.SkillCombat] = 99
	stored, err := a.getPersonnel(ctx, res.Personnel.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, stored.Skill(personnel.SkillCombat))

	poor := config.Default()
	poor.TrainingCost = 10000000
	a.Balance = poor
	tr, err := a.Train(ctx, stored.ID, personnel.SkillPiloting)
	require.NoError(t, err)
	require.False(t, tr.Success)
	stored, err = a.getPersonnel(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, stored.Skill(personnel.SkillPiloting), "refused training leaves the record alone")
	assert.Equal(t, personnel.StatusAvailable, stored.Status)
}

func TestTrain(t *testing.T) {
	ctx := context.Background()
	a, b := newAgency(t, rng.New(1), config.Default())
	p := hire(t, a, b.ID, personnel.RoleSoldier)
	before := funds(t, a)

	res, err := a.Train(ctx, p.ID, personnel.SkillCombat)
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)
	assert.Equal(t, 55, res.Personnel.Skill(personnel.SkillCombat))
	assert.Equal(t, personnel.StatusTraining, res.Personnel.Status)
	assert.Equal(t, before-20000, funds(t, a))

	_, err = a.Train(ctx, p.ID, personnel.Skill("juggling"))
	assert.ErrorIs(t, err, validate.ErrInvalidArgument)

	month, err := a.AdvanceMonth(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, month.Trained)
	back, err := a.getPersonnel(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, personnel.StatusAvailable, back.Status)
}

func TestBuildFacility(t *testing.T) {
	ctx := context.Background()
	a, b := newAgency(t, rng.New(1), config.Default())

	res, err := a.BuildFacility(ctx, b.ID, facility.TypeResearch)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "insufficient power")
	assert.Equal(t, 5000000, funds(t, a))

	res, err = a.BuildFacility(ctx, b.ID, facility.TypePowerPlant)
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)
	assert.Equal(t, 250000, res.Cost)

	res, err = a.BuildFacility(ctx, b.ID, facility.TypeResearch)
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)

	res, err = a.BuildFacility(ctx, b.ID, facility.TypeHangar)
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)

	b = reloadBase(t, a, b.ID)
	assert.Equal(t, 18, base.Size(b, nil))
	assert.Equal(t, 5000000-250000-150000-200000, funds(t, a))

	res, err = a.BuildFacility(ctx, b.ID, facility.TypeHangar)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "not enough land")

	_, err = a.BuildFacility(ctx, b.ID, facility.Type("moat"))
	assert.Error(t, err)
	assert.Equal(t, 3, a.Events.Count(telemetry.EventFacilityBuilt))
}

func TestAssignAndUpgrade(t *testing.T) {
	ctx := context.Background()
	a, b := newAgency(t, rng.New(1), config.Default())
	_, err := a.BuildFacility(ctx, b.ID, facility.TypePowerPlant)
	require.NoError(t, err)

	eng := hire(t, a, b.ID, personnel.RoleEngineer)
	radar := facilityOf(t, reloadBase(t, a, b.ID), facility.TypeRadar)

	res, err := a.AssignPersonnel(ctx, eng.ID, radar.ID)
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)

	b = reloadBase(t, a, b.ID)
	assert.NotContains(t, b.Personnel, eng.ID)
	assert.True(t, facilityOf(t, b, facility.TypeRadar).Has(eng.ID))
	assert.Equal(t, 1, base.UsedPersonnelCapacity(b))
	eng, err = a.getPersonnel(ctx, eng.ID)
	require.NoError(t, err)
	assert.Equal(t, personnel.StatusWorking, eng.Status)
	assert.Equal(t, radar.ID, eng.AssignedFacilityID)

	t.Run("barracks takes commanders only", func(t *testing.T) {
		soldier := hire(t, a, b.ID, personnel.RoleSoldier)
		barracks := facilityOf(t, reloadBase(t, a, b.ID), facility.TypeBarracks)
		res, err := a.AssignPersonnel(ctx, soldier.ID, barracks.ID)
		require.NoError(t, err)
		assert.False(t, res.Success)
	})

	before := funds(t, a)
	up, err := a.UpgradeFacility(ctx, b.ID, radar.ID)
	require.NoError(t, err)
	require.True(t, up.Success, up.Message)
	assert.Equal(t, 2, up.Facility.Level)
	assert.Equal(t, 180000, up.Cost)
	assert.Equal(t, before-180000, funds(t, a))

	b = reloadBase(t, a, b.ID)
	assert.Empty(t, facilityOf(t, b, facility.TypeRadar).Personnel)
	assert.Contains(t, b.Personnel, eng.ID)
	eng, err = a.getPersonnel(ctx, eng.ID)
	require.NoError(t, err)
	assert.Equal(t, personnel.StatusAvailable, eng.Status)
	assert.Empty(t, eng.AssignedFacilityID)

	t.Run("unassign", func(t *testing.T) {
		res, err := a.AssignPersonnel(ctx, eng.ID, radar.ID)
		require.NoError(t, err)
		require.True(t, res.Success, res.Message)
		require.NoError(t, a.UnassignPersonnel(ctx, eng.ID))
		assert.Contains(t, reloadBase(t, a, b.ID).Personnel, eng.ID)
		assert.ErrorIs(t, a.UnassignPersonnel(ctx, eng.ID), validate.ErrInvalidArgument)
	})
}

func TestUnassignCrew(t *testing.T) {
	ctx := context.Background()
	a, b := newAgency(t, rng.New(1), config.Default())
	v := crewedRaven(t, a, b.ID)
	require.Len(t, v.Crew, 1)
	pilotID := v.Crew[0]

	v.Status = vehicle.StatusMission
	require.NoError(t, a.Vehicles.Update(ctx, v))
	res, err := a.UnassignCrew(ctx, pilotID)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "mission")

	v.Status = vehicle.StatusReady
	require.NoError(t, a.Vehicles.Update(ctx, v))
	res, err = a.UnassignCrew(ctx, pilotID)
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)

	v, err = a.getVehicle(ctx, v.ID)
	require.NoError(t, err)
	assert.Empty(t, v.Crew)
	p, err := a.getPersonnel(ctx, pilotID)
	require.NoError(t, err)
	assert.Empty(t, p.AssignedVehicleID)

	_, err = a.UnassignCrew(ctx, pilotID)
	assert.ErrorIs(t, err, validate.ErrInvalidArgument)
}

func TestCommissionVehicle(t *testing.T) {
	ctx := context.Background()
	a, b := newAgency(t, rng.New(1), config.Default())

	for i := 0; i < 2; i++ {
		res, err := a.CommissionVehicle(ctx, b.ID, "raven")
		require.NoError(t, err)
		require.True(t, res.Success, res.Message)
	}
	res, err := a.CommissionVehicle(ctx, b.ID, "raven")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "full")
	assert.Equal(t, 5000000-700000, funds(t, a))

	_, err = a.CommissionVehicle(ctx, b.ID, "zeppelin")
	assert.ErrorIs(t, err, vehicle.ErrUnknownVariant)

	vs, err := a.Vehicles.ListByBase(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, vs, 2)
}

func TestIntercept(t *testing.T) {
	ctx := context.Background()
	a, b := newAgency(t, rng.New(1), config.Default())

	res, err := a.CommissionVehicle(ctx, b.ID, "raven")
	require.NoError(t, err)
	u := detectedScout(t, a, b.Location)

	t.Run("undercrewed", func(t *testing.T) {
		r, err := a.Intercept(ctx, res.Vehicle.ID, u.ID)
		require.NoError(t, err)
		assert.False(t, r.Success)
		assert.Contains(t, r.Message, "undercrewed")
	})

	pilot := hire(t, a, b.ID, personnel.RolePilot)
	seat, err := a.AssignCrew(ctx, pilot.ID, res.Vehicle.ID)
	require.NoError(t, err)
	require.True(t, seat.Success, seat.Message)

	r, err := a.Intercept(ctx, res.Vehicle.ID, u.ID)
	require.NoError(t, err)
	assert.True(t, r.Success)
	assert.Equal(t, 162, r.UFODamage)
	assert.Equal(t, 125, r.VehicleDamage)
	assert.Equal(t, ufo.StatusDestroyed, r.UFO.Status)
	assert.Equal(t, res.Vehicle.ID, r.UFO.InterceptedBy)
	assert.Equal(t, 0, r.Vehicle.Condition)
	assert.Equal(t, vehicle.StatusDamaged, r.Vehicle.Status)

	pilot, err = a.getPersonnel(ctx, pilot.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, pilot.Experience)
	assert.Equal(t, 1, a.Events.Count(telemetry.EventInterceptionResolved))

	t.Run("destroyed ufo cannot be intercepted again", func(t *testing.T) {
		v := crewedRaven(t, a, b.ID)
		again, err := a.Intercept(ctx, v.ID, u.ID)
		require.NoError(t, err)
		assert.False(t, again.Success)
		assert.Contains(t, again.Message, "destroyed")
	})
}

func TestSpawnUFO(t *testing.T) {
	ctx := context.Background()

	t.Run("seeded first spawn", func(t *testing.T) {
		weights := config.Default()
		weights.SpawnWeights = map[string]int{"battleship": 1}
		a, _ := newAgency(t, rng.New(7), weights)

		u, err := a.SpawnUFO(ctx, true)
		require.NoError(t, err)
		assert.Equal(t, ufo.TypeBattleship, u.Type)
		assert.Equal(t, ufo.StatusApproaching, u.Status)
		require.NotNil(t, u.Trajectory)
		assert.True(t, geo.CrossesLand(u.Trajectory.Start, u.Trajectory.End))

		n, err := a.UFOs.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Equal(t, 1, a.Events.Count(telemetry.EventUFOSpawned))
	})

	t.Run("degenerate source exhausts attempts", func(t *testing.T) {
		a, _ := newAgency(t, rng.NewSequence([]float64{0}, []int{0}), config.Default())
		_, err := a.SpawnUFO(ctx, false)
		assert.ErrorIs(t, err, detection.ErrTrajectoryGenerationFailed)
		n, err := a.UFOs.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})
}

func TestDetectionTick(t *testing.T) {
	ctx := context.Background()
	a, b := newAgency(t, rng.NewSequence([]float64{0}, []int{0}), config.Default())

	u, err := ufo.New(ufo.TypeScout, ufo.Trajectory{Start: b.Location, End: geo.Point{X: b.Location.X + 15, Y: b.Location.Y}})
	require.NoError(t, err)
	require.NoError(t, a.UFOs.Add(ctx, u))

	res, err := a.DetectionTick(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{u.ID}, res.Detected)
	assert.Empty(t, res.Escaped)
	assert.Equal(t, 1, res.Active)

	got, err := a.getUFO(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, ufo.StatusDetected, got.Status)
	assert.Equal(t, []string{b.ID}, got.DetectedBy)
	assert.InDelta(t, b.Location.X+10, got.Location.X, 1e-9)

	res, err = a.DetectionTick(ctx)
	require.NoError(t, err)
	assert.Empty(t, res.Detected)
	assert.Equal(t, []string{u.ID}, res.Escaped)
	assert.Equal(t, 0, res.Active)
	assert.Equal(t, 1, a.Events.Count(telemetry.EventUFODetected))

	res, err = a.DetectionTick(ctx)
	require.NoError(t, err)
	assert.Empty(t, res.Escaped, "escaped ufos are left alone")
}

func TestAdvanceMonth(t *testing.T) {
	ctx := context.Background()

	t.Run("bills upkeep and payroll", func(t *testing.T) {
		a, b := newAgency(t, rng.New(1), config.Default())
		hire(t, a, b.ID, personnel.RolePilot)

		res, err := a.AdvanceMonth(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Month)
		assert.Equal(t, 48000, res.Maintenance)
		assert.Equal(t, 5000, res.Salaries)
		assert.Equal(t, 60000, res.OneTime)
		assert.Equal(t, 5000000-60000-53000, res.Balance)
		assert.False(t, res.Overdrawn)

		l, err := a.Ledger.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, l.Month)
		assert.Equal(t, 53000, l.Totals(0)[finance.Recurring])
	})

	t.Run("overdraft warns", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		poor := config.Default()
		poor.StartingFunds = 10000
		a := New(rng.New(1), zap.New(core), poor, battle.DefaultRules())
		_, err := a.FoundBase(ctx, "Beta", "Africa", geo.Point{})
		require.NoError(t, err)

		res, err := a.AdvanceMonth(ctx)
		require.NoError(t, err)
		assert.True(t, res.Overdrawn)
		assert.Equal(t, 10000-48000, res.Balance)
		assert.Equal(t, 1, logs.FilterMessage("agency overdrawn").Len())
	})
}

func TestEngageAndConclude(t *testing.T) {
	ctx := context.Background()
	a, b := newAgency(t, rng.New(42), config.Default())
	v := crewedRaven(t, a, b.ID)
	u := detectedScout(t, a, b.Location)

	res, err := a.Engage(ctx, v.ID, u.ID)
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)
	s := res.Battle
	require.NotNil(t, s)

	v, err = a.getVehicle(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, vehicle.StatusMission, v.Status)

	again, err := a.Engage(ctx, v.ID, u.ID)
	require.NoError(t, err)
	assert.False(t, again.Success, "craft is already out")

	_, err = a.Conclude(ctx, s)
	assert.ErrorIs(t, err, battle.ErrBattleOngoing)

	outcome, err := a.Autoplay(s, 20)
	require.NoError(t, err)
	require.True(t, outcome.Terminal())

	end, err := a.Conclude(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, outcome, end.Outcome)

	got, err := a.getUFO(ctx, u.ID)
	require.NoError(t, err)
	if outcome == battle.OutcomeVictory {
		assert.Equal(t, ufo.StatusDestroyed, got.Status)
	} else {
		assert.Equal(t, ufo.StatusEscaped, got.Status)
	}
	v, err = a.getVehicle(ctx, v.ID)
	require.NoError(t, err)
	assert.NotEqual(t, vehicle.StatusMission, v.Status)
	assert.LessOrEqual(t, v.Condition, 100)

	_, err = a.Conclude(ctx, s)
	assert.ErrorIs(t, err, battle.ErrAlreadyResolved)

	assert.Equal(t, 1, a.Events.Count(telemetry.EventBattleStarted))
	assert.Equal(t, 1, a.Events.Count(telemetry.EventBattleEnded))
	assert.Positive(t, a.Events.Count(telemetry.EventCardPlayed))
}

func TestBattleDeck(t *testing.T) {
	deck := BattleDeck(vehicle.TypeInterceptor)
	assert.Len(t, deck, 12)
}

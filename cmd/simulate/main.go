package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"xbitocom/internal/agency"
	"xbitocom/internal/battle"
	"xbitocom/internal/config"
	"xbitocom/internal/geo"
	"xbitocom/internal/personnel"
	"xbitocom/internal/rng"
	"xbitocom/internal/telemetry"
	"xbitocom/internal/ufo"
	"xbitocom/internal/vehicle"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(2)
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "load .env:", err)
	}

	var err error
	switch os.Args[1] {
	case "battle":
		err = cmdBattle(os.Args[2:], os.Stdout)
	case "intercept":
		err = cmdIntercept(os.Args[2:], os.Stdout)
	case "month":
		err = cmdMonth(os.Args[2:], os.Stdout)
	default:
		printUsage(os.Stderr)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s failed: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

// common holds the flags every subcommand takes.
type common struct {
	seed       int64
	configPath string
}

func (c *common) register(fs *flag.FlagSet) {
	fs.Int64Var(&c.seed, "seed", 0, "random seed (0 uses seeded_rng from config, else a fresh seed)")
	fs.StringVar(&c.configPath, "config", "", "path to a YAML config file")
}

type session struct {
	cfg    *config.Config
	seed   int64
	logger *zap.Logger
}

func (c common) setup() (session, error) {
	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return session{}, err
	}
	logger, err := buildLogger(cfg.Log)
	if err != nil {
		return session{}, err
	}
	seed := c.seed
	if seed == 0 && cfg.SeededRNG.Enabled {
		seed = cfg.SeededRNG.Seed
	}
	if seed == 0 {
		seed = rng.NewSeed()
	}
	logger.Debug("simulation configured", zap.Int64("seed", seed), zap.String("config", c.configPath))
	return session{cfg: cfg, seed: seed, logger: logger}, nil
}

// loadConfig reads path (or defaults), applies the DIFFICULTY preset and
// then individual env overrides.
func loadConfig(path string) (*config.Config, error) {
	cfg := config.Defaults()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if os.Getenv("DIFFICULTY") != "" {
		preset, err := config.FromEnv()
		if err != nil {
			return nil, err
		}
		cfg.Balance = preset
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildLogger(lc config.LogConfig) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	if lc.JSON {
		zc = zap.NewProductionConfig()
	}
	level, err := zap.ParseAtomicLevel(lc.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zc.Level = level
	return zc.Build()
}

func cmdBattle(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("battle", flag.ContinueOnError)
	var c common
	c.register(fs)
	variant := fs.String("variant", "raven", "vehicle variant")
	ufoType := fs.String("ufo", string(ufo.TypeScout), "ufo type")
	turns := fs.Int("turns", 20, "turn limit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rt, err := c.setup()
	if err != nil {
		return err
	}
	defer rt.logger.Sync() //nolint:errcheck

	a := agency.New(rng.New(rt.seed), rt.logger, rt.cfg.Balance, rt.cfg.Battle.Rules())
	v, err := vehicle.Generate(*variant, "simulation")
	if err != nil {
		return err
	}
	u, err := ufo.New(ufo.Type(*ufoType), ufo.Trajectory{End: geo.Point{X: geo.MapBounds.MaxX}})
	if err != nil {
		return err
	}
	s, err := a.Battles.Initialize(v, u, agency.BattleDeck(v.Type))
	if err != nil {
		return err
	}
	if _, err := a.Autoplay(s, *turns); err != nil {
		return err
	}

	for _, e := range s.Log {
		fmt.Fprintf(out, "[turn %d %-10s] %s\n", e.Turn, e.Stage, e.Message)
	}
	res, err := a.Battles.Resolve(s)
	if errors.Is(err, battle.ErrBattleOngoing) {
		fmt.Fprintf(out, "no outcome after %d turns\n", *turns)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "seed %d: %s vs %s -> %s after %d rounds (hull %d, ufo %d)\n",
		rt.seed, v.Name, u.Type, res.Outcome, res.Rounds, res.VehicleHealth, res.UFOHealth)
	return nil
}

// newCampaign founds a base and mans a single raven.
func newCampaign(ctx context.Context, rt session) (*agency.Agency, vehicle.Vehicle, error) {
	a := agency.New(rng.New(rt.seed), rt.logger, rt.cfg.Balance, rt.cfg.Battle.Rules())
	b, err := a.FoundBase(ctx, "Skyguard", "Europe", geo.Point{})
	if err != nil {
		return nil, vehicle.Vehicle{}, err
	}
	craft, err := a.CommissionVehicle(ctx, b.ID, "raven")
	if err != nil {
		return nil, vehicle.Vehicle{}, err
	}
	if !craft.Success {
		return nil, vehicle.Vehicle{}, errors.New(craft.Message)
	}
	pilot, err := a.Hire(ctx, b.ID, personnel.RolePilot, "Ace")
	if err != nil {
		return nil, vehicle.Vehicle{}, err
	}
	if !pilot.Success {
		return nil, vehicle.Vehicle{}, errors.New(pilot.Message)
	}
	seat, err := a.AssignCrew(ctx, pilot.Personnel.ID, craft.Vehicle.ID)
	if err != nil {
		return nil, vehicle.Vehicle{}, err
	}
	if !seat.Success {
		return nil, vehicle.Vehicle{}, errors.New(seat.Message)
	}
	return a, craft.Vehicle, nil
}

func cmdIntercept(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("intercept", flag.ContinueOnError)
	var c common
	c.register(fs)
	ticks := fs.Int("ticks", 200, "radar sweeps before giving up")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rt, err := c.setup()
	if err != nil {
		return err
	}
	defer rt.logger.Sync() //nolint:errcheck

	ctx := context.Background()
	a, craft, err := newCampaign(ctx, rt)
	if err != nil {
		return err
	}
	u, err := a.SpawnUFO(ctx, true)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "seed %d: %s inbound from (%.0f,%.0f) to (%.0f,%.0f)\n",
		rt.seed, u.Type, u.Trajectory.Start.X, u.Trajectory.Start.Y, u.Trajectory.End.X, u.Trajectory.End.Y)

	for i := 1; i <= *ticks; i++ {
		tick, err := a.DetectionTick(ctx)
		if err != nil {
			return err
		}
		if len(tick.Detected) > 0 {
			fmt.Fprintf(out, "sweep %d: contact\n", i)
			res, err := a.Intercept(ctx, craft.ID, u.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s (ufo damage %d, hull damage %d)\n", res.Message, res.UFODamage, res.VehicleDamage)
			return nil
		}
		if len(tick.Escaped) > 0 {
			fmt.Fprintf(out, "sweep %d: %s slipped past radar\n", i, u.Type)
			return nil
		}
	}
	fmt.Fprintf(out, "no contact after %d sweeps\n", *ticks)
	return nil
}

func cmdMonth(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("month", flag.ContinueOnError)
	var c common
	c.register(fs)
	months := fs.Int("months", 12, "months to simulate")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rt, err := c.setup()
	if err != nil {
		return err
	}
	defer rt.logger.Sync() //nolint:errcheck

	ctx := context.Background()
	started := time.Now()
	a, craft, err := newCampaign(ctx, rt)
	if err != nil {
		return err
	}
	for i := 0; i < *months; i++ {
		if _, err := a.SpawnUFO(ctx, i == 0); err != nil {
			rt.logger.Warn("no spawn this month", zap.Error(err))
		}
		res, err := a.AdvanceMonth(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "month %2d: upkeep %7d payroll %6d spent %7d balance %9d\n",
			res.Month, res.Maintenance, res.Salaries, res.OneTime, res.Balance)
	}

	events, err := a.Events.GetEvents(started, nil)
	if err != nil {
		return err
	}
	stats, err := telemetry.CalculateStats(events, started)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "spawns %d (%.2f/month), by type %v\n", stats.Spawns, stats.SpawnsPerMonth, stats.SpawnsByType)

	g, err := a.Garrison(ctx, craft.BaseID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "garrison %s: %d personnel, %d craft\n", g.Base.Name, len(g.Personnel), len(g.Vehicles))
	return nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage:")
	fmt.Fprintln(w, "  simulate battle    -seed 42 -variant raven -ufo scout")
	fmt.Fprintln(w, "  simulate intercept -seed 42 -ticks 200")
	fmt.Fprintln(w, "  simulate month     -seed 42 -months 12")
}

package agency

import (
	"context"
	"fmt"

	"xbitocom/internal/detection"
	"xbitocom/internal/telemetry"
	"xbitocom/internal/ufo"

	"go.uber.org/zap"
)

// SpawnUFO puts a new UFO on a fresh trajectory. A first spawn is routed
// through radar coverage so the player sees it.
func (a *Agency) SpawnUFO(ctx context.Context, isFirstSpawn bool) (ufo.UFO, error) {
	bases, err := a.Bases.List(ctx)
	if err != nil {
		return ufo.UFO{}, err
	}
	traj, err := detection.GenerateTrajectory(bases, isFirstSpawn, a.src, a.detectionOptions())
	if err != nil {
		return ufo.UFO{}, err
	}
	u, err := ufo.Spawn(a.src, traj, a.spawnTable())
	if err != nil {
		return ufo.UFO{}, err
	}
	if err := a.UFOs.Add(ctx, u); err != nil {
		return ufo.UFO{}, err
	}

	a.record(telemetry.EventUFOSpawned, telemetry.EventMetadata{
		"ufo_id":      u.ID,
		"ufo_type":    string(u.Type),
		"first_spawn": isFirstSpawn,
	})
	a.logger.Debug("ufo spawned",
		zap.String("ufo_id", u.ID),
		zap.String("ufo_type", string(u.Type)),
		zap.Float64("path_length", traj.Length()),
	)
	return u, nil
}

type TickResult struct {
	Detected []string `json:"detected"`
	Escaped  []string `json:"escaped"`
	Active   int      `json:"active"`
}

// DetectionTick sweeps every radar over every airborne UFO, then moves each
// one along its path. A UFO that reaches the map edge has escaped.
func (a *Agency) DetectionTick(ctx context.Context) (TickResult, error) {
	bases, err := a.Bases.List(ctx)
	if err != nil {
		return TickResult{}, err
	}
	us, err := a.UFOs.List(ctx)
	if err != nil {
		return TickResult{}, err
	}
	opts := a.detectionOptions()

	res := TickResult{Detected: []string{}, Escaped: []string{}}
	for _, u := range us {
		if u.Status.Terminal() || u.Status == ufo.StatusEngaged {
			continue
		}

		for _, b := range bases {
			d, err := detection.CheckRadarDetection(u, b, a.src, opts)
			if err != nil {
				return TickResult{}, err
			}
			if !d.Detected {
				continue
			}
			ufo.MarkDetected(&u, b.ID)
			if u.Status == ufo.StatusApproaching {
				if err := ufo.Transition(&u, ufo.StatusDetected); err != nil {
					return TickResult{}, err
				}
				res.Detected = append(res.Detected, u.ID)
				a.record(telemetry.EventUFODetected, telemetry.EventMetadata{
					"ufo_id":   u.ID,
					"ufo_type": string(u.Type),
					"base_id":  b.ID,
					"distance": d.Distance,
				})
			}
		}

		if u.Trajectory != nil {
			arrived, err := ufo.Advance(&u, float64(u.Speed)*a.Balance.UFOSpeedScale)
			if err != nil {
				return TickResult{}, fmt.Errorf("advance ufo %s: %w", u.ID, err)
			}
			if arrived {
				if err := ufo.Transition(&u, ufo.StatusEscaped); err != nil {
					return TickResult{}, err
				}
				res.Escaped = append(res.Escaped, u.ID)
			}
		}
		if !u.Status.Terminal() {
			res.Active++
		}

		if err := a.UFOs.Update(ctx, u); err != nil {
			return TickResult{}, err
		}
	}
	return res, nil
}

package telemetry

import (
	"encoding/json"
	"time"
)

type Stats struct {
	Period           string            `json:"period"`
	EventCounts      map[EventType]int `json:"event_counts"`
	Months           int               `json:"months"`
	Spawns           int               `json:"spawns"`
	Detections       int               `json:"detections"`
	Interceptions    int               `json:"interceptions"`
	Kills            int               `json:"kills"`
	KillRate         float64           `json:"kill_rate"`
	SpawnsPerMonth   float64           `json:"spawns_per_month"`
	SpawnsByType     map[string]int    `json:"spawns_by_type"`
	BattlesByOutcome map[string]int    `json:"battles_by_outcome"`
	CardUsage        map[string]int    `json:"card_usage"`
	SpendingByKind   map[string]int    `json:"spending_by_kind"`
	HiresByRole      map[string]int    `json:"hires_by_role"`
	FacilitiesByType map[string]int    `json:"facilities_by_type"`
}

// CalculateStats computes campaign stats from events
func CalculateStats(events []Event, since time.Time) (Stats, error) {
	stats := Stats{
		Period:           since.Format("2006-01-02"),
		EventCounts:      make(map[EventType]int),
		SpawnsByType:     make(map[string]int),
		BattlesByOutcome: make(map[string]int),
		CardUsage:        make(map[string]int),
		SpendingByKind:   make(map[string]int),
		HiresByRole:      make(map[string]int),
		FacilitiesByType: make(map[string]int),
	}

	for _, event := range events {
		stats.EventCounts[event.Type]++

		var metadata EventMetadata
		if err := json.Unmarshal([]byte(event.Metadata), &metadata); err != nil {
			continue
		}

		switch event.Type {
		case EventMonthAdvanced:
			stats.Months++
			for _, kind := range []string{"recurring", "one_time"} {
				if v, ok := metadata[kind].(float64); ok {
					stats.SpendingByKind[kind] += int(v)
				}
			}
		case EventUFOSpawned:
			stats.Spawns++
			if t, ok := metadata["ufo_type"].(string); ok {
				stats.SpawnsByType[t]++
			}
		case EventUFODetected:
			stats.Detections++
		case EventInterceptionResolved:
			stats.Interceptions++
			if ok, _ := metadata["success"].(bool); ok {
				stats.Kills++
			}
		case EventBattleEnded:
			if o, ok := metadata["outcome"].(string); ok {
				stats.BattlesByOutcome[o]++
			}
		case EventCardPlayed:
			if id, ok := metadata["card_id"].(string); ok {
				stats.CardUsage[id]++
			}
		case EventPersonnelHired:
			if r, ok := metadata["role"].(string); ok {
				stats.HiresByRole[r]++
			}
		case EventFacilityBuilt:
			if ft, ok := metadata["facility_type"].(string); ok {
				stats.FacilitiesByType[ft]++
			}
		}
	}

	if stats.Months > 0 {
		stats.SpawnsPerMonth = float64(stats.Spawns) / float64(stats.Months)
	}
	if stats.Interceptions > 0 {
		stats.KillRate = float64(stats.Kills) / float64(stats.Interceptions)
	}

	return stats, nil
}

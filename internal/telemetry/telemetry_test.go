package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository(t *testing.T) {
	repo := NewMemoryRepository()
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := t0
	repo.Now = func() time.Time { return now }

	require.NoError(t, repo.RecordEvent(EventUFOSpawned, EventMetadata{"ufo_type": "scout"}))
	now = t0.Add(time.Hour)
	require.NoError(t, repo.RecordEvent(EventUFODetected, EventMetadata{"base_id": "b1"}))
	require.NoError(t, repo.RecordEvent(EventUFOSpawned, EventMetadata{"ufo_type": "raider"}))

	all, err := repo.GetEvents(t0, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 1, all[0].ID)
	assert.Equal(t, 3, all[2].ID)

	later, err := repo.GetEvents(t0.Add(time.Minute), nil)
	require.NoError(t, err)
	assert.Len(t, later, 2)

	spawns, err := repo.GetEvents(t0, []EventType{EventUFOSpawned})
	require.NoError(t, err)
	assert.Len(t, spawns, 2)
	assert.Equal(t, 2, repo.Count(EventUFOSpawned))

	require.NoError(t, repo.Clear())
	assert.Equal(t, 0, repo.Count(EventUFOSpawned))
	require.NoError(t, repo.RecordEvent(EventMonthAdvanced, nil))
	all, _ = repo.GetEvents(time.Time{}, nil)
	assert.Equal(t, 1, all[0].ID)
}

func TestCalculateStats(t *testing.T) {
	repo := NewMemoryRepository()
	record := func(et EventType, md EventMetadata) {
		require.NoError(t, repo.RecordEvent(et, md))
	}
	record(EventMonthAdvanced, EventMetadata{"recurring": 1000, "one_time": 0})
	record(EventMonthAdvanced, EventMetadata{"recurring": 1500, "one_time": 200})
	record(EventUFOSpawned, EventMetadata{"ufo_type": "scout"})
	record(EventUFOSpawned, EventMetadata{"ufo_type": "scout"})
	record(EventUFOSpawned, EventMetadata{"ufo_type": "battleship"})
	record(EventInterceptionResolved, EventMetadata{"success": true})
	record(EventInterceptionResolved, EventMetadata{"success": false})
	record(EventBattleEnded, EventMetadata{"outcome": "victory"})
	record(EventCardPlayed, EventMetadata{"card_id": "laser_shot"})
	record(EventCardPlayed, EventMetadata{"card_id": "laser_shot"})
	record(EventPersonnelHired, EventMetadata{"role": "pilot"})
	record(EventFacilityBuilt, EventMetadata{"facility_type": "research"})

	events, err := repo.GetEvents(time.Time{}, nil)
	require.NoError(t, err)
	stats, err := CalculateStats(events, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Months)
	assert.Equal(t, 3, stats.Spawns)
	assert.InDelta(t, 1.5, stats.SpawnsPerMonth, 1e-9)
	assert.Equal(t, map[string]int{"scout": 2, "battleship": 1}, stats.SpawnsByType)
	assert.Equal(t, 2, stats.Interceptions)
	assert.Equal(t, 1, stats.Kills)
	assert.InDelta(t, 0.5, stats.KillRate, 1e-9)
	assert.Equal(t, 1, stats.BattlesByOutcome["victory"])
	assert.Equal(t, 2, stats.CardUsage["laser_shot"])
	assert.Equal(t, 2500, stats.SpendingByKind["recurring"])
	assert.Equal(t, 200, stats.SpendingByKind["one_time"])
	assert.Equal(t, 1, stats.HiresByRole["pilot"])
	assert.Equal(t, 1, stats.FacilitiesByType["research"])
	assert.Equal(t, 2, stats.EventCounts[EventCardPlayed])
}

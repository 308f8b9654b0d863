package telemetry

import "time"

type EventType string

const (
	EventBattleStarted        EventType = "battle_started"
	EventCardPlayed           EventType = "card_played"
	EventBattleEnded          EventType = "battle_ended"
	EventPersonnelHired       EventType = "personnel_hired"
	EventPersonnelTrained     EventType = "personnel_trained"
	EventFacilityBuilt        EventType = "facility_built"
	EventFacilityUpgraded     EventType = "facility_upgraded"
	EventVehicleCommissioned  EventType = "vehicle_commissioned"
	EventInterceptionResolved EventType = "interception_resolved"
	EventUFOSpawned           EventType = "ufo_spawned"
	EventUFODetected          EventType = "ufo_detected"
	EventMonthAdvanced        EventType = "month_advanced"
)

type Event struct {
	ID        int       `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  string    `json:"metadata"`
}

type EventMetadata map[string]interface{}

package game

import "time"

// EventKind identifies something that happened during play.
type EventKind int

const (
	EventGameStarted EventKind = iota
	EventShotFired
	EventEnemyDestroyed
	EventPlayerHit
	EventPowerUpSpawned
	EventPowerUpCollected
	EventPowerUpExpired
	EventGameOver
	EventStepFailed
)

var eventNames = [...]string{
	EventGameStarted:      "game_started",
	EventShotFired:        "shot_fired",
	EventEnemyDestroyed:   "enemy_destroyed",
	EventPlayerHit:        "player_hit",
	EventPowerUpSpawned:   "powerup_spawned",
	EventPowerUpCollected: "powerup_collected",
	EventPowerUpExpired:   "powerup_expired",
	EventGameOver:         "game_over",
	EventStepFailed:       "step_failed",
}

// String returns the snake_case event name used in logs and metrics.
func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventNames) {
		return "unknown"
	}
	return eventNames[k]
}

// Event is reported to every EventSink.
// X and Y locate the event in the arena where that makes sense.
type Event struct {
	Kind    EventKind
	X, Y    float64
	Score   int           // Session score after the event
	Elapsed time.Duration // Session game time of the event
	Count   int           // Bullets per shot for EventShotFired
}

package game

import "time"

// Renderer draws a snapshot after every frame.
type Renderer interface {
	Render(Snapshot)
}

// Display shows the numeric score and lives. Values are pushed on change.
type Display interface {
	SetScore(score int)
	SetLives(lives int)
}

// Sound names an audio cue.
type Sound string

const (
	SoundLaser     Sound = "laser"
	SoundExplosion Sound = "explosion"
	SoundPowerUp   Sound = "powerup"
	SoundGameOver  Sound = "gameover"
)

// Sounds lists every cue the game triggers.
var Sounds = []Sound{SoundLaser, SoundExplosion, SoundPowerUp, SoundGameOver}

// Audio plays cues fire-and-forget. Overlapping triggers of the same cue
// must all be heard. An unavailable Audio ignores triggers and keeps the
// sound toggle locked off.
type Audio interface {
	Trigger(Sound)
	Available() bool
}

// EventSink observes game events.
type EventSink interface {
	HandleEvent(Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(Event)

// HandleEvent calls f(ev).
func (f EventSinkFunc) HandleEvent(ev Event) { f(ev) }

// StepObserver is an optional EventSink extension that receives the wall
// time spent in each simulation step.
type StepObserver interface {
	ObserveStep(d time.Duration)
}

// LeaderboardStore persists the ranked list of high scores.
type LeaderboardStore interface {
	Load() ([]Entry, error)
	Save([]Entry) error
}

// HistoryRecorder stores every finished game.
type HistoryRecorder interface {
	RecordGame(score int, played time.Duration) error
}

type nopRenderer struct{}

func (nopRenderer) Render(Snapshot) {}

type nopDisplay struct{}

func (nopDisplay) SetScore(int) {}
func (nopDisplay) SetLives(int) {}

// SilentAudio is an Audio that is never available.
type SilentAudio struct{}

// Trigger does nothing.
func (SilentAudio) Trigger(Sound) {}

// Available reports false.
func (SilentAudio) Available() bool { return false }

// MemoryStore is a LeaderboardStore that keeps entries in memory.
// A nil *MemoryStore is not usable.
type MemoryStore struct {
	Entries []Entry
	LoadErr error
	SaveErr error
	Saves   int
}

// Load returns a copy of the stored entries.
func (m *MemoryStore) Load() ([]Entry, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return append([]Entry(nil), m.Entries...), nil
}

// Save replaces the stored entries.
func (m *MemoryStore) Save(entries []Entry) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Entries = append([]Entry(nil), entries...)
	m.Saves++
	return nil
}

package game

import (
	"time"

	"github.com/vovakirdan/starblaster/internal/config"
)

// fixedRNG always returns the same value.
type fixedRNG float64

func (r fixedRNG) Float64() float64 { return float64(r) }

// newTestSession creates a session with the default configuration and no
// enemies, so tests can place exactly the entities they need.
func newTestSession() *Session {
	s := NewSession(config.DefaultStarBlasterConfig(), fixedRNG(0.5))
	s.Enemies = nil
	return s
}

type recordingAudio struct {
	available bool
	played    []Sound
}

func (a *recordingAudio) Trigger(s Sound) { a.played = append(a.played, s) }
func (a *recordingAudio) Available() bool { return a.available }

type recordingDisplay struct {
	scores []int
	lives  []int
}

func (d *recordingDisplay) SetScore(v int) { d.scores = append(d.scores, v) }
func (d *recordingDisplay) SetLives(v int) { d.lives = append(d.lives, v) }

type recordingSink struct {
	events []Event
	steps  int
}

func (s *recordingSink) HandleEvent(ev Event) { s.events = append(s.events, ev) }
func (s *recordingSink) ObserveStep(d time.Duration) { s.steps++ }

func (s *recordingSink) count(kind EventKind) int {
	n := 0
	for _, ev := range s.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

type recordingHistory struct {
	scores []int
	played []time.Duration
}

func (h *recordingHistory) RecordGame(score int, played time.Duration) error {
	h.scores = append(h.scores, score)
	h.played = append(h.played, played)
	return nil
}

type panicRenderer struct{ armed bool }

func (r *panicRenderer) Render(Snapshot) {
	if r.armed {
		panic("renderer exploded")
	}
}

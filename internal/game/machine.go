package game

import (
	"errors"
	"fmt"
)

// ErrIllegalTransition is returned for a phase change the state machine
// does not allow.
var ErrIllegalTransition = errors.New("game: illegal transition")

// Phase is the top-level game state.
type Phase int

const (
	PhaseStart    Phase = iota // Menu with the leaderboard
	PhasePlaying               // Simulation and input active
	PhaseGameOver              // Simulation frozen, outcome shown
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhasePlaying:
		return "playing"
	case PhaseGameOver:
		return "gameover"
	default:
		return "unknown"
	}
}

// transitions lists every legal phase change.
// Playing -> GameOver is only taken when the player is hit.
var transitions = map[Phase][]Phase{
	PhaseStart:    {PhasePlaying},
	PhasePlaying:  {PhaseGameOver},
	PhaseGameOver: {PhaseStart, PhasePlaying},
}

// Machine holds the current phase. The zero value is in PhaseStart.
type Machine struct {
	phase Phase
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase {
	return m.phase
}

// CanTransition reports whether moving to the given phase is legal.
func (m *Machine) CanTransition(to Phase) bool {
	for _, p := range transitions[m.phase] {
		if p == to {
			return true
		}
	}
	return false
}

// Transition moves to the given phase or returns ErrIllegalTransition.
func (m *Machine) Transition(to Phase) error {
	if !m.CanTransition(to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, m.phase, to)
	}
	m.phase = to
	return nil
}

package game

import (
	"errors"
	"testing"
)

func TestMachineTransitions(t *testing.T) {
	tests := []struct {
		from  Phase
		to    Phase
		legal bool
	}{
		{PhaseStart, PhasePlaying, true},
		{PhaseStart, PhaseGameOver, false},
		{PhaseStart, PhaseStart, false},
		{PhasePlaying, PhaseGameOver, true},
		{PhasePlaying, PhaseStart, false},
		{PhasePlaying, PhasePlaying, false},
		{PhaseGameOver, PhaseStart, true},
		{PhaseGameOver, PhasePlaying, true},
		{PhaseGameOver, PhaseGameOver, false},
	}

	for _, tc := range tests {
		t.Run(tc.from.String()+"->"+tc.to.String(), func(t *testing.T) {
			m := Machine{phase: tc.from}
			err := m.Transition(tc.to)

			if tc.legal {
				if err != nil {
					t.Errorf("Transition() = %v, expected success", err)
				}
				if m.Phase() != tc.to {
					t.Errorf("phase = %s, expected %s", m.Phase(), tc.to)
				}
				return
			}
			if !errors.Is(err, ErrIllegalTransition) {
				t.Errorf("Transition() = %v, expected ErrIllegalTransition", err)
			}
			if m.Phase() != tc.from {
				t.Errorf("phase changed to %s on an illegal transition", m.Phase())
			}
		})
	}
}

func TestMachineZeroValueIsStart(t *testing.T) {
	var m Machine
	if m.Phase() != PhaseStart {
		t.Errorf("zero Machine phase = %s", m.Phase())
	}
}

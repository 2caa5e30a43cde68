package game

import (
	"errors"
	"fmt"
	"runtime/debug"
	"time"
)

// ErrNotRunning is returned for operations that need a live session.
var ErrNotRunning = errors.New("game: not running")

// StepError is a panic recovered from a frame. The session that raised it
// is halted until restarted.
type StepError struct {
	Value any
	Stack []byte
}

func (e *StepError) Error() string {
	return fmt.Sprintf("game: step failed: %v", e.Value)
}

// Unwrap returns the panic value when it was an error.
func (e *StepError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// frameTarget is what a Driver advances.
type frameTarget interface {
	// active reports whether frames should advance the simulation.
	active() bool
	// advance steps the simulation by delta and renders the result.
	advance(delta time.Duration)
	// halt stops the simulation after a failed frame.
	halt(err error)
}

// Driver turns host timestamps into step deltas.
// The host calls Frame once per refresh and schedules another call only
// while Frame reports reschedule.
type Driver struct {
	target frameTarget
	last   time.Time
	primed bool
}

// Reset drops the baseline timestamp, so the next frame has a zero delta.
// Called on start, restart and resume.
func (d *Driver) Reset() {
	d.primed = false
	d.last = time.Time{}
}

// Frame runs one step for the timestamp now.
// The first frame after Reset establishes the baseline and steps with a zero
// delta. A timestamp earlier than the previous one also steps with zero.
// A panic inside the step is recovered, halts the target and is returned as
// a *StepError.
func (d *Driver) Frame(now time.Time) (reschedule bool, err error) {
	if d.target == nil || !d.target.active() {
		return false, nil
	}

	var delta time.Duration
	if d.primed {
		delta = now.Sub(d.last)
	}
	if delta < 0 {
		delta = 0
	} else {
		d.last = now
	}
	d.primed = true

	defer func() {
		if r := recover(); r != nil {
			stepErr := &StepError{Value: r, Stack: debug.Stack()}
			d.target.halt(stepErr)
			reschedule, err = false, stepErr
		}
	}()

	d.target.advance(delta)
	return d.target.active(), nil
}

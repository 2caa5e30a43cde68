package tui

import (
	"sort"
	"time"

	"github.com/vovakirdan/starblaster/internal/config"
	"github.com/vovakirdan/starblaster/internal/core"
)

// HoldTracker turns terminal key repeats into press/release pairs.
// Terminals report only key presses; a held key arrives as one press, a pause
// of up to the initial repeat delay, then a steady stream of repeats. An
// action counts as held until no press arrives for its window: the long
// first-press window until the first repeat, the short repeat window after.
type HoldTracker struct {
	first  map[core.Action]time.Duration
	repeat time.Duration
	seen   map[core.Action]hold
}

type hold struct {
	last      time.Time
	repeating bool
}

// NewHoldTracker creates a tracker with the configured hold windows.
func NewHoldTracker(cfg config.InputConfig) *HoldTracker {
	return &HoldTracker{
		first: map[core.Action]time.Duration{
			core.ActionLeft:  cfg.MoveHold,
			core.ActionRight: cfg.MoveHold,
			core.ActionFire:  cfg.FireHold,
		},
		repeat: cfg.RepeatHold,
		seen:   make(map[core.Action]hold),
	}
}

// Press records a key press at now. It reports true on the first press of a
// hold, false for repeats while the action is still held.
func (h *HoldTracker) Press(a core.Action, now time.Time) bool {
	if !a.IsHeld() {
		return false
	}
	_, held := h.seen[a]
	h.seen[a] = hold{last: now, repeating: held}
	return !held
}

func (h *HoldTracker) window(a core.Action, st hold) time.Duration {
	if st.repeating {
		return h.repeat
	}
	return h.first[a]
}

// Expire releases every action whose last press is older than its window
// and returns them in a stable order.
func (h *HoldTracker) Expire(now time.Time) []core.Action {
	var released []core.Action
	for a, st := range h.seen {
		if now.Sub(st.last) > h.window(a, st) {
			released = append(released, a)
		}
	}
	for _, a := range released {
		delete(h.seen, a)
	}
	sortActions(released)
	return released
}

// ReleaseAll releases every held action.
func (h *HoldTracker) ReleaseAll() []core.Action {
	released := make([]core.Action, 0, len(h.seen))
	for a := range h.seen {
		released = append(released, a)
	}
	clear(h.seen)
	sortActions(released)
	return released
}

func sortActions(a []core.Action) {
	sort.Slice(a, func(i, j int) bool { return a[i] < a[j] })
}

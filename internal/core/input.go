package core

// Action represents a semantic game action, abstracted from physical key presses.
// This allows the game to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone    Action = iota
	ActionLeft           // Left arrow, A - move ship left (level-triggered)
	ActionRight          // Right arrow, D - move ship right (level-triggered)
	ActionFire           // Space - fire (level-triggered, one shot per press)
	ActionConfirm        // Enter - start game / submit name
	ActionBack           // B, Escape - return to menu after game over
	ActionRestart        // R - restart after game over
	ActionPause          // P - pause/unpause
	ActionSound          // M - toggle sound
	ActionQuit           // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionFire:
		return "Fire"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionPause:
		return "Pause"
	case ActionSound:
		return "Sound"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// IsHeld reports whether the action is level-triggered: it has a pressed
// state that lasts until an explicit release.
func (a Action) IsHeld() bool {
	switch a {
	case ActionLeft, ActionRight, ActionFire:
		return true
	default:
		return false
	}
}

// Package tui hosts StarBlaster in a terminal with Bubble Tea.
// The tick command is the frame scheduler: one TickMsg per frame while the
// game reports that it wants another.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg requests one frame. Gen identifies the loop that scheduled it;
// ticks from a loop that was superseded (by pause/resume or restart) are
// dropped so two loops never run at once.
type TickMsg struct {
	Time time.Time
	Gen  int
}

// frameCmd schedules the next frame of loop gen at the given rate.
func frameCmd(fps, gen int) tea.Cmd {
	if fps <= 0 {
		fps = 60
	}
	interval := time.Second / time.Duration(fps)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t, Gen: gen}
	})
}

package main

import (
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/starblaster/internal/audio"
	"github.com/vovakirdan/starblaster/internal/config"
)

func TestOpenSoundIgnoresMute(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
	}{
		{"enabled", true},
		{"muted", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			opened := false
			open := func(cfg config.AudioConfig, _ *log.Logger) (*audio.Player, error) {
				opened = true
				if cfg.Enabled != tc.enabled {
					t.Errorf("Enabled = %v, expected %v", cfg.Enabled, tc.enabled)
				}
				return nil, errors.New("no device")
			}

			sink, closeSound := openSound(config.AudioConfig{Enabled: tc.enabled}, log.New(io.Discard), open)
			closeSound()

			if !opened {
				t.Error("the player should be opened regardless of the enabled flag")
			}
			if sink != audio.Nop {
				t.Error("a failed open should fall back to audio.Nop")
			}
		})
	}
}

func TestOpenSoundKeepsPlayer(t *testing.T) {
	player := &audio.Player{}
	open := func(config.AudioConfig, *log.Logger) (*audio.Player, error) { return player, nil }

	sink, _ := openSound(config.AudioConfig{Enabled: false}, log.New(io.Discard), open)
	if sink != player {
		t.Errorf("sink = %v, expected the opened player", sink)
	}
}

func TestRunClosesBeforeExit(t *testing.T) {
	var order []string
	defer func(orig func(int)) { exit = orig }(exit)
	exit = func(code int) { order = append(order, "exit") }

	run(func() error {
		defer func() { order = append(order, "close") }()
		return errors.New("boom")
	})(nil, nil)

	if len(order) != 2 || order[0] != "close" || order[1] != "exit" {
		t.Errorf("order = %v, expected [close exit]", order)
	}
}

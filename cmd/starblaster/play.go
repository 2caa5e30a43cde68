package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/starblaster/internal/audio"
	"github.com/vovakirdan/starblaster/internal/config"
	"github.com/vovakirdan/starblaster/internal/game"
	"github.com/vovakirdan/starblaster/internal/platform/tui"
	"github.com/vovakirdan/starblaster/internal/storage"
)

var (
	flagMute   bool
	flagSounds string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play StarBlaster in this terminal",
	Long: `Start StarBlaster in the current terminal.

Controls:
  Left/A, Right/D  - Move
  Space            - Fire (one shot per press)
  P/Esc            - Pause
  M                - Toggle sound (--mute only starts it off)
  R                - Restart (after game over)
  B                - Back to the start screen (after game over)
  Ctrl+S           - Save a screenshot (text and PNG)
  Q/Ctrl+C         - Quit

Logs are written to ~/.starblaster/starblaster.log.

Examples:
  starblaster play
  starblaster play --mute
  starblaster play --sounds ./sounds --config ./my-starblaster.yaml`,
	Args: cobra.NoArgs,
	Run:  run(runPlay),
}

func init() {
	playCmd.Flags().BoolVar(&flagMute, "mute", false, "Start with sound off (M turns it on)")
	playCmd.Flags().StringVar(&flagSounds, "sounds", "", "Directory with laser/explosion/powerup/gameover .wav files")
}

// audioOpener opens the sound player. audio.Open in production.
type audioOpener func(config.AudioConfig, *log.Logger) (*audio.Player, error)

// openSound opens the player whatever cfg.Enabled says; the flag only sets
// the starting state of the sound toggle. When the sounds cannot be loaded
// or played it falls back to audio.Nop, which locks the toggle off.
func openSound(cfg config.AudioConfig, logger *log.Logger, open audioOpener) (game.Audio, func()) {
	player, err := open(cfg, logger)
	if err != nil {
		logger.Warn("audio unavailable, sound disabled", "err", err)
		return audio.Nop, func() {}
	}
	return player, player.Close
}

func runPlay() error {
	cfg := mustLoadConfig()
	if flagMute {
		cfg.Audio.Enabled = false
	}
	if flagSounds != "" {
		cfg.Audio.SoundsDir = flagSounds
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("cannot get home directory: %w", err)
	}
	dataDir := filepath.Join(home, ".starblaster")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", dataDir, err)
	}

	// The TUI owns the terminal, so logs go to a file.
	logFile, err := os.OpenFile(filepath.Join(dataDir, "starblaster.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("cannot open log file: %w", err)
	}
	defer logFile.Close()

	logger, err := newLogger(logFile, flagLogLevel, "starblaster")
	if err != nil {
		return err
	}

	var (
		lbStore game.LeaderboardStore
		history game.HistoryRecorder
	)
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("scores database unavailable, scores will not be saved", "err", err)
		lbStore = &game.MemoryStore{}
	} else {
		defer store.Close()
		lbStore, history = store, store
	}

	sink, closeSound := openSound(cfg.Audio, logger, audio.Open)
	defer closeSound()

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}

	return tui.Run(tui.Options{
		Config:        cfg,
		FPS:           flagFPS,
		Seed:          flagSeed,
		Width:         width,
		Height:        height,
		Audio:         sink,
		Leaderboard:   game.NewLeaderboard(lbStore, logger),
		History:       history,
		Logger:        logger,
		ScreenshotDir: filepath.Join(dataDir, "screenshots"),
		PlayerName:    os.Getenv("USER"),
	})
}

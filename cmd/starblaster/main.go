// starblaster is a terminal arcade shooter: fly a ship along the bottom of
// the arena, shoot the descending enemies and grab power-ups.
//
// Usage:
//
//	starblaster play     - Play in this terminal
//	starblaster serve    - Host games over SSH
//	starblaster scores   - Show the leaderboard and game history
//	starblaster config   - Print the effective configuration
//
// Global flags:
//
//	--fps <rate>        - Frame requests per second (default: 60)
//	--seed <value>      - RNG seed for reproducible games
//	--db <path>         - Database path (default: ~/.starblaster/scores.db)
//	--config <path>     - Gameplay config YAML
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/starblaster/internal/config"
)

var (
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "starblaster",
	Short: "StarBlaster - an arcade shooter for your terminal",
	Long: `StarBlaster is a terminal arcade shooter. Move your ship, blast the
descending enemies and collect power-ups for double shots. One hit ends
the game; the top five scores make the leaderboard.

Examples:
  starblaster play
  starblaster play --seed 42 --mute
  starblaster serve --ssh :2222 --metrics :9100
  starblaster scores --recent 20`,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Frame rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.starblaster/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to gameplay config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(configCmd)
}

// exit is os.Exit, swapped in tests.
var exit = os.Exit

// fail prints err the way every command reports errors and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	exit(1)
}

// run adapts a command body that returns an error. The body returns before
// fail exits, so its deferred cleanup runs.
func run(body func() error) func(*cobra.Command, []string) {
	return func(_ *cobra.Command, _ []string) {
		if err := body(); err != nil {
			fail("%v", err)
		}
	}
}

// mustLoadConfig loads the gameplay config or exits.
func mustLoadConfig() config.StarBlasterConfig {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fail("%v", err)
	}
	return cfg
}

// newLogger creates a structured logger at the given level.
func newLogger(w io.Writer, level, prefix string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           lvl,
	}), nil
}

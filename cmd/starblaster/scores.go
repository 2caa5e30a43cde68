package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/starblaster/internal/game"
	"github.com/vovakirdan/starblaster/internal/storage"
)

var (
	flagRecent int
	flagClear  bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the leaderboard and game history",
	Long: `Display the top five high scores, lifetime statistics and the most
recent games.

Examples:
  starblaster scores
  starblaster scores --recent 20
  starblaster scores --clear`,
	Args: cobra.NoArgs,
	Run:  run(runScores),
}

func init() {
	scoresCmd.Flags().IntVar(&flagRecent, "recent", 5, "Number of recent games to list")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the leaderboard and the game history")
}

func runScores() error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearLeaderboard(); err != nil {
			return err
		}
		if err := store.ClearHistory(); err != nil {
			return err
		}
		fmt.Println("Leaderboard and history cleared.")
		return nil
	}

	entries, err := store.Load()
	if err != nil {
		return err
	}
	stats, err := store.Stats()
	if err != nil {
		return err
	}
	recent, err := store.RecentGames(flagRecent)
	if err != nil {
		return err
	}

	printScores(os.Stdout, entries, stats, recent)
	return nil
}

// printScores writes the scores report.
func printScores(w io.Writer, entries []game.Entry, stats *storage.Stats, recent []storage.GameRecord) {
	fmt.Fprintln(w, "High Scores - StarBlaster")
	fmt.Fprintln(w)

	if len(entries) == 0 {
		fmt.Fprintln(w, "No high scores yet!")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Play 'starblaster play' to set the first high score!")
		return
	}

	fmt.Fprintf(w, "  %-4s  %-20s  %s\n", "Rank", "Name", "Score")
	fmt.Fprintf(w, "  %-4s  %-20s  %s\n", "----", "----", "-----")
	for i, e := range entries {
		fmt.Fprintf(w, "  %-4d  %-20s  %d\n", i+1, e.Name, e.Score)
	}

	if stats != nil && stats.GamesCount > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Games played: %d\n", stats.GamesCount)
		fmt.Fprintf(w, "Best: %d   Average: %.1f\n", stats.HighScore, stats.AvgScore)
		fmt.Fprintf(w, "Time played: %s\n", stats.TotalTime.Round(time.Second))
		if !stats.LastPlayed.IsZero() {
			fmt.Fprintf(w, "Last played: %s\n", stats.LastPlayed.Format("2006-01-02 15:04"))
		}
	}

	if len(recent) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Recent games:")
		for _, r := range recent {
			fmt.Fprintf(w, "  %s  %6d  %s\n", r.CreatedAt.Format("2006-01-02 15:04"), r.Score, r.Duration.Round(time.Second))
		}
	}
}

package game

import (
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// MaxLeaderboardEntries is the size of the high score table.
const MaxLeaderboardEntries = 5

// AnonymousName replaces a blank name on submission.
const AnonymousName = "Anonymous"

// Entry is one leaderboard row.
type Entry struct {
	Name  string
	Score int
}

// Leaderboard is the top-5 high score table, sorted by score descending.
// It is safe for concurrent use so that SSH sessions can share one.
// Store failures are logged and never returned: a failed load starts from
// an empty table and a failed save keeps the table in memory only.
type Leaderboard struct {
	mu      sync.Mutex
	entries []Entry
	store   LeaderboardStore
	logger  *log.Logger
}

// NewLeaderboard loads the table from store. A nil store keeps the table
// in memory. A nil logger discards log output.
func NewLeaderboard(store LeaderboardStore, logger *log.Logger) *Leaderboard {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	l := &Leaderboard{store: store, logger: logger}
	if store == nil {
		return l
	}

	entries, err := store.Load()
	if err != nil {
		logger.Warn("cannot load leaderboard, starting empty", "err", err)
		return l
	}
	l.entries = normalize(entries)
	return l
}

// normalize sorts entries by score descending (stable) and keeps the top 5.
func normalize(entries []Entry) []Entry {
	out := append([]Entry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if len(out) > MaxLeaderboardEntries {
		out = out[:MaxLeaderboardEntries]
	}
	return out
}

// Entries returns a copy of the table.
func (l *Leaderboard) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entry(nil), l.entries...)
}

// IsQualifying reports whether score would enter the table: the table has
// free rows, or score beats the lowest entry.
func (l *Leaderboard) IsQualifying(score int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.qualifies(score)
}

func (l *Leaderboard) qualifies(score int) bool {
	return len(l.entries) < MaxLeaderboardEntries || score > l.entries[len(l.entries)-1].Score
}

// Submit adds a score and persists the table. A blank name is recorded as
// "Anonymous". It returns the 1-based rank of the new entry, or 0 if the
// score does not qualify, in which case the table is unchanged.
func (l *Leaderboard) Submit(name string, score int) int {
	name = strings.TrimSpace(name)
	if name == "" {
		name = AnonymousName
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.qualifies(score) {
		return 0
	}

	// Ties keep the earlier entry ahead, so the new one lands after them.
	rank := len(l.entries) + 1
	for i, e := range l.entries {
		if score > e.Score {
			rank = i + 1
			break
		}
	}

	l.entries = normalize(append(l.entries, Entry{Name: name, Score: score}))

	if l.store != nil {
		if err := l.store.Save(append([]Entry(nil), l.entries...)); err != nil {
			l.logger.Warn("cannot save leaderboard", "err", err)
		}
	}
	return rank
}

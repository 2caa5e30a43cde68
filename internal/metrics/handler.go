package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vovakirdan/starblaster/internal/game"
)

// RouterConfig contains the dependencies of the HTTP router.
type RouterConfig struct {
	// Gatherer serves /metrics (required).
	Gatherer prometheus.Gatherer

	// Leaderboard serves /leaderboard. If nil the route is not mounted.
	Leaderboard *game.Leaderboard

	// CORSOrigins lists origins allowed to read /leaderboard from a browser.
	// Empty disables CORS headers.
	CORSOrigins []string
}

// leaderboardRow is the JSON form of a leaderboard entry.
type leaderboardRow struct {
	Rank  int    `json:"rank"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// NewRouter builds the monitoring router. It starts no goroutines and opens
// no listeners, so it can be served with httptest.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		}))
	}

	r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if cfg.Leaderboard != nil {
		board := cfg.Leaderboard
		r.Get("/leaderboard", func(w http.ResponseWriter, r *http.Request) {
			entries := board.Entries()
			rows := make([]leaderboardRow, 0, len(entries))
			for i, e := range entries {
				rows = append(rows, leaderboardRow{Rank: i + 1, Name: e.Name, Score: e.Score})
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(rows)
		})
	}

	return r
}

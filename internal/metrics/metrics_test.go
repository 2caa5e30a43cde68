package metrics

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vovakirdan/starblaster/internal/game"
)

func TestRecorderCountsEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	events := []game.Event{
		{Kind: game.EventGameStarted},
		{Kind: game.EventShotFired, Count: 2},
		{Kind: game.EventShotFired, Count: 1},
		{Kind: game.EventEnemyDestroyed},
		{Kind: game.EventPowerUpSpawned},
		{Kind: game.EventPowerUpCollected},
		{Kind: game.EventPowerUpExpired},
		{Kind: game.EventPlayerHit},
		{Kind: game.EventGameOver, Score: 12},
		{Kind: game.EventStepFailed},
	}
	for _, ev := range events {
		r.HandleEvent(ev)
	}
	r.ObserveStep(50 * time.Microsecond)

	tests := []struct {
		name string
		want float64
	}{
		{"starblaster_games_started_total", 1},
		{"starblaster_games_over_total", 1},
		{"starblaster_bullets_fired_total", 3},
		{"starblaster_enemies_destroyed_total", 1},
		{"starblaster_powerups_spawned_total", 1},
		{"starblaster_powerups_collected_total", 1},
		{"starblaster_step_failures_total", 1},
	}
	for _, tc := range tests {
		if got := gathered(t, reg, tc.name); got != tc.want {
			t.Errorf("%s = %v, expected %v", tc.name, got, tc.want)
		}
	}
	if got := gathered(t, reg, "starblaster_step_duration_seconds"); got != 1 {
		t.Errorf("step duration samples = %v, expected 1", got)
	}
	if got := gathered(t, reg, "starblaster_final_score"); got != 1 {
		t.Errorf("final score samples = %v, expected 1", got)
	}
}

func TestRecorderSessions(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.SessionOpened()
	r.SessionOpened()
	r.SessionClosed()
	r.SessionRejected("rate_limit")
	r.SessionRejected("rate_limit")

	if got := gathered(t, reg, "starblaster_ssh_sessions_active"); got != 1 {
		t.Errorf("active sessions = %v, expected 1", got)
	}
	if got := gathered(t, reg, "starblaster_ssh_sessions_rejected_total"); got != 2 {
		t.Errorf("rejected = %v, expected 2", got)
	}
}

func TestRouter(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewRecorder(reg)
	rec.HandleEvent(game.Event{Kind: game.EventGameStarted})

	board := game.NewLeaderboard(nil, nil)
	board.Submit("ace", 30)
	board.Submit("bee", 50)

	ts := httptest.NewServer(NewRouter(RouterConfig{
		Gatherer:    reg,
		Leaderboard: board,
		CORSOrigins: []string{"https://scores.example"},
	}))
	defer ts.Close()

	body := get(t, ts.URL+"/health")
	if body != "OK" {
		t.Errorf("/health = %q", body)
	}

	body = get(t, ts.URL+"/metrics")
	if !strings.Contains(body, "starblaster_games_started_total 1") {
		t.Errorf("/metrics missing games started counter:\n%s", body)
	}

	var rows []leaderboardRow
	if err := json.Unmarshal([]byte(get(t, ts.URL+"/leaderboard")), &rows); err != nil {
		t.Fatalf("decode /leaderboard: %v", err)
	}
	if len(rows) != 2 || rows[0] != (leaderboardRow{1, "bee", 50}) {
		t.Errorf("/leaderboard = %+v", rows)
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/leaderboard", nil)
	req.Header.Set("Origin", "https://scores.example")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET with origin: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://scores.example" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestRouterWithoutLeaderboard(t *testing.T) {
	ts := httptest.NewServer(NewRouter(RouterConfig{Gatherer: prometheus.NewRegistry()}))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/leaderboard")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, expected 404", resp.StatusCode)
	}
}

func get(t *testing.T, url string) string {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read %s: %v", url, err)
	}
	return string(data)
}

// gathered returns the summed value of a family: counter and gauge values,
// or the sample count for histograms.
func gathered(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				total += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				total += m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				total += float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return total
}

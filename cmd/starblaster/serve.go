package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/starblaster/internal/game"
	"github.com/vovakirdan/starblaster/internal/metrics"
	"github.com/vovakirdan/starblaster/internal/platform/tui"
	"github.com/vovakirdan/starblaster/internal/storage"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagMetricsAddr string
	flagCORSOrigins []string
	flagRate        float64
	flagBurst       int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Host StarBlaster over SSH",
	Long: `Start an SSH server. Every connection plays its own game; all players
share the leaderboard. Remote sessions have no sound.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.starblaster/host_key

With --metrics, an HTTP server exposes /metrics (Prometheus), /health and a
read-only /leaderboard JSON.

Examples:
  starblaster serve                          # Listen on :23234
  starblaster serve --ssh :2222 --metrics :9100
  starblaster serve --metrics :9100 --cors-origin https://example.com

Players connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  run(runServe),
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagMetricsAddr, "metrics", "", "Metrics HTTP address, e.g. :9100 (disabled if empty)")
	serveCmd.Flags().StringSliceVar(&flagCORSOrigins, "cors-origin", nil, "Origin allowed to read /leaderboard (repeatable)")
	serveCmd.Flags().Float64Var(&flagRate, "rate", tui.DefaultRateLimitConfig.SessionsPerSecond, "New sessions per second per IP")
	serveCmd.Flags().IntVar(&flagBurst, "burst", tui.DefaultRateLimitConfig.Burst, "Session burst per IP")
}

func runServe() error {
	gameCfg := mustLoadConfig()
	logger, err := newLogger(os.Stderr, flagLogLevel, "starblaster-ssh")
	if err != nil {
		return err
	}

	deps := tui.SSHDeps{Logger: logger}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database, scores will not be saved", "error", err)
		deps.Leaderboard = game.NewLeaderboard(&game.MemoryStore{}, logger)
	} else {
		defer store.Close()
		deps.Leaderboard = game.NewLeaderboard(store, logger)
		deps.History = store
	}

	var metricsSrv *http.Server
	if flagMetricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		deps.Recorder = metrics.NewRecorder(reg)

		metricsSrv = &http.Server{
			Addr: flagMetricsAddr,
			Handler: metrics.NewRouter(metrics.RouterConfig{
				Gatherer:    reg,
				Leaderboard: deps.Leaderboard,
				CORSOrigins: flagCORSOrigins,
			}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("metrics server listening", "address", flagMetricsAddr)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server error", "error", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := metricsSrv.Shutdown(ctx); err != nil {
				logger.Warn("metrics server shutdown", "error", err)
			}
		}()
	}

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.FPS = flagFPS
	cfg.Game = gameCfg
	cfg.RateLimit.SessionsPerSecond = flagRate
	cfg.RateLimit.Burst = flagBurst

	server, err := tui.NewSSHServer(cfg, deps)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	fmt.Printf("Starting StarBlaster SSH server on %s\n", cfg.Address)
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe()
}

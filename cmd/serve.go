package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/huangsam/heatwatch/internal/api"
	"github.com/huangsam/heatwatch/internal/contract"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// serveCmd runs the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP ingest and statistics API",
	Long: `Start the HTTP API that sensors push readings to.

Routes:
  GET  /send?temperature=&humidity=   ingest one reading
  GET  /sensor-data/:length           last rows of every stream as JSON
  GET  /sensor-data/csv/:length       last rows as a CSV download
  GET  /stats                         current statistics versus the baseline
  POST /stats/baseline                refreeze the baseline
  GET  /get-data                      latest rows with statistics
  GET  /describe                      descriptive statistics of a stream
  GET  /snapshots                     list daily snapshots
  GET  /download?myfile=              download a daily snapshot

Examples:
  # Serve on the default port with SQLite storage
  heatwatch serve

  # Rate limit ingest to 5 requests per second per client
  heatwatch serve --redis-addr localhost:6379 --rate-limit 5

  # Forward the latest data to a collector after every reading
  heatwatch serve --forward-mode http --forward-url https://collector.example/send`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, cleanup, err := buildService(ctx, cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		if cfg.LogLevel > slog.LevelDebug {
			gin.SetMode(gin.ReleaseMode)
		}
		opts := api.Options{Logger: slog.Default(), RateLimit: cfg.RateLimit}
		if client := newRedisClient(ctx, cfg.RedisAddr); client != nil {
			defer func() { _ = client.Close() }()
			opts.Redis = client
		}
		return api.Serve(ctx, cfg.Listen, api.NewRouter(svc, opts), slog.Default())
	},
}

// newRedisClient connects to Redis when an address is configured.
// An unreachable server is logged and rate limiting fails open.
func newRedisClient(ctx context.Context, addr string) *redis.Client {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		contract.LogWarn("Redis unreachable, rate limiting will pass requests through", err)
	}
	return client
}

// Package api serves the ingest and statistics HTTP interface.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/huangsam/heatwatch/core"
	"github.com/redis/go-redis/v9"
)

// Options configures the HTTP router.
type Options struct {
	Logger    *slog.Logger
	Redis     *redis.Client // optional, enables rate limiting of /send
	RateLimit int           // requests per second per client
}

// Handler serves the HTTP routes on top of a core.Service.
type Handler struct {
	svc *core.Service
	log *slog.Logger
}

// NewRouter wires every route onto a new gin engine.
func NewRouter(svc *core.Service, opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	h := &Handler{svc: svc, log: opts.Logger}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(opts.Logger))

	send := []gin.HandlerFunc{h.Send}
	if opts.Redis != nil && opts.RateLimit > 0 {
		send = append([]gin.HandlerFunc{NewRateLimiter(RateLimiterConfig{
			RedisClient: opts.Redis,
			Limit:       opts.RateLimit,
			Window:      time.Second,
			Logger:      opts.Logger,
		})}, send...)
	}

	r.GET("/", h.Index)
	r.GET("/send", send...)
	r.GET("/download", h.Download)
	r.POST("/download", h.Download)
	r.GET("/snapshots", h.Snapshots)
	r.GET("/describe", h.Describe)
	r.GET("/sensor-data/:length", h.SensorData)
	r.GET("/sensor-data/csv/:length", h.SensorDataCSV)
	r.GET("/get-data", h.GetData)
	r.GET("/stats", h.Stats)
	r.POST("/stats/baseline", h.ResetBaseline)
	return r
}

// Serve runs the router on addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("Shutting down")
	return srv.Shutdown(shutdownCtx)
}

// requestLogger logs each request at debug level.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("Request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

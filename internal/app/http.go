package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskflow/internal/auth"
	"github.com/adanyl0v/taskflow/internal/config"
	"github.com/adanyl0v/taskflow/internal/delivery/http/v1"
	"github.com/adanyl0v/taskflow/internal/metrics"
	"github.com/adanyl0v/taskflow/internal/services"
	"github.com/adanyl0v/taskflow/internal/validation"
)

const healthCheckTimeout = 2 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP
	m := metrics.New()
	router := newRouter(globalLogger, globalPostgresPool, m, newV1Handler(cfg, m))

	server := &http.Server{
		Addr:              net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// SIGKILL cannot be caught, so only SIGINT and SIGTERM are handled.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func newV1Handler(cfg *config.Config, m *metrics.Metrics) v1.Handler {
	return v1.New(globalLogger, v1.Dependencies{
		Users:        services.NewUserService(globalLogger, globalPostgresPool),
		Projects:     services.NewProjectService(globalLogger, globalPostgresPool),
		Tasks:        services.NewTaskService(globalLogger, globalPostgresPool),
		Hasher:       auth.NewHasher(nil),
		Tokens:       auth.NewTokenService(cfg.JWT.Issuer, []byte(cfg.JWT.SigningKey), cfg.JWT.TokenTTL),
		Validator:    validation.New(),
		Metrics:      m,
		CookieSecure: cfg.HTTP.CookieSecure,
	})
}

func newRouter(logger zerolog.Logger, db pinger, m *metrics.Metrics, handler v1.Handler) *gin.Engine {
	// Schema validation tells integral numbers from strings by their literal.
	binding.EnableDecoderUseNumber = true

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(m.Middleware())
	router.Use(requestLogger(logger))

	router.GET("/metrics", gin.WrapH(m.Handler()))
	router.GET("/healthz", handleHealthz(logger, db))

	handler.RegisterRoutes(router.Group("/api/v1"))
	return router
}

func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := logger.Debug()
		if status >= http.StatusInternalServerError {
			event = logger.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("handled request")
	}
}

func handleHealthz(logger zerolog.Logger, db pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			logger.Warn().
				Err(err).
				Msg("health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

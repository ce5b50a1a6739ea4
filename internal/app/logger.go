package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskflow/internal/config"
)

const serviceName = "taskflow"

var globalLogger zerolog.Logger

var envLogLevels = map[string]zerolog.Level{
	config.EnvLocal: zerolog.TraceLevel,
	config.EnvDev:   zerolog.DebugLevel,
	config.EnvProd:  zerolog.InfoLevel,
}

// InitDefaultLogger sets up a JSON logger used until the config is read.
func InitDefaultLogger() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	zerolog.TimestampFieldName = "timestamp"
	zerolog.DurationFieldUnit = time.Millisecond

	globalLogger = newLogger(os.Stdout)
	globalLogger.Debug().Msg("initialized default logger")
}

func MustInitApplicationLogger() {
	env := config.Global().Env

	level, ok := envLogLevels[env]
	if !ok {
		globalLogger.Error().
			Str("env", env).
			Msg("unknown env")
		panic(fmt.Errorf("unknown env: %s", env))
	}
	zerolog.SetGlobalLevel(level)

	var w io.Writer = os.Stdout
	if env == config.EnvLocal {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.DateTime}
	}
	globalLogger = newLogger(w)

	gin.DebugPrintRouteFunc = func(method, path, handler string, handlers int) {
		globalLogger.Trace().
			Str("method", method).
			Str("path", path).
			Int("handlers", handlers).
			Msg("registered route")
	}

	globalLogger.Info().
		Str("env", env).
		Stringer("level", level).
		Msg("initialized application logger")
}

func newLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).
		With().
		Timestamp().
		Caller().
		Str("service", serviceName).
		Int("pid", os.Getpid()).
		Logger()
}


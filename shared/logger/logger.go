// Package logger configures the global zerolog logger.
package logger

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"meetingbook/config"
	"meetingbook/shared/constant"
)

// InitLogger switches the global logger to human-readable console output at trace
// level until SetLogLevel narrows it.
func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
}

// ErrorWithStack logs err together with the stack at the call site.
func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

// SetLogLevel applies the configured level. Outside development the output becomes
// JSON lines, and a missing or unknown level means info rather than debug.
func SetLogLevel(cfg *config.Config) {
	fallback := zerolog.DebugLevel

	if cfg.Server.Env != constant.ServerEnvDevelopment {
		fallback = zerolog.InfoLevel
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	level, err := zerolog.ParseLevel(cfg.Server.LogLevel)
	if err != nil || cfg.Server.LogLevel == "" {
		level = fallback
	}

	zerolog.SetGlobalLevel(level)
	log.Debug().Str("level", level.String()).Str("env", cfg.Server.Env).Msg("log level set")
}

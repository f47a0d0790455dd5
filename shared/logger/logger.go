package logger

import (
	"io"
	"os"
	"pms/config"
	"pms/shared/constant"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Logger = log.Output(writer(os.Getenv("SERVER_ENV")))
	log.Trace().Msg("Zerolog initialized.")
}

// writer keeps machine-readable JSON in production and a colored console everywhere else.
func writer(env string) io.Writer {
	if env == constant.ServerEnvProduction {
		return os.Stdout
	}

	return zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

func SetLogLevel(config *config.Config) {
	level, err := zerolog.ParseLevel(config.Server.LogLevel)
	if err != nil || config.Server.LogLevel == constant.Empty {
		level = zerolog.TraceLevel
		log.Trace().Str("loglevel", level.String()).Msg("Environment has no log level set up, using default.")
	} else {
		log.Trace().Str("loglevel", level.String()).Msg("Desired log level detected.")
	}

	zerolog.SetGlobalLevel(level)

	log.Logger = log.Output(writer(config.Server.Env)).With().Str("app", config.App.Name).Logger()
}

package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type LoggerAdapter struct {
	log zerolog.Logger
}

// NewLoggerAdapter builds the application logger: JSON lines in production,
// a human readable console writer everywhere else.
func NewLoggerAdapter(env string) *LoggerAdapter {
	var w io.Writer = os.Stdout
	if env != "production" {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	return New(w, env, os.Getenv("LOG_LEVEL"))
}

func New(w io.Writer, env, level string) *LoggerAdapter {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
		if env != "production" {
			lvl = zerolog.DebugLevel
		}
	}
	return &LoggerAdapter{
		log: zerolog.New(w).Level(lvl).With().Timestamp().Str("env", env).Logger(),
	}
}

// NewNop discards everything. Handy in tests.
func NewNop() *LoggerAdapter {
	return &LoggerAdapter{log: zerolog.Nop()}
}

func (l *LoggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.log.Debug().Fields(fields).Msg(msg)
}

func (l *LoggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.log.Info().Fields(fields).Msg(msg)
}

func (l *LoggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.log.Warn().Fields(fields).Msg(msg)
}

func (l *LoggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.log.Error().Fields(fields).Msg(msg)
}

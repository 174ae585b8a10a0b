package observability

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

func InitLogger(level string, output io.Writer) zerolog.Logger {
	if output == nil {
		output = os.Stdout
	}

	logLevel := parseLogLevel(level)

	return zerolog.New(output).
		Level(logLevel).
		With().
		Timestamp().
		Caller().
		Logger()
}

func parseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// ForComponent returns a child logger tagged with the service and component names.
func ForComponent(logger zerolog.Logger, service, component string) zerolog.Logger {
	return logger.With().
		Str("service", service).
		Str("component", component).
		Logger()
}

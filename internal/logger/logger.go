// Package logger builds the zerolog root logger shared by the keepsake
// binaries. Output is one JSON event per line on stdout, tagged with the
// emitting service so co-located processes can be told apart.
package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New returns the root logger for the named service. The level defaults to
// info; KEEPSAKE_LOG_LEVEL (trace, debug, info, warn, error) overrides it.
// Unrecognized values fall back to info rather than failing startup.
func New(serviceName string) zerolog.Logger {
	level := zerolog.InfoLevel
	if raw := strings.TrimSpace(os.Getenv("KEEPSAKE_LOG_LEVEL")); raw != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(raw)); err == nil {
			level = parsed
		}
	}
	return zerolog.New(os.Stdout).
		Level(level).
		With().
		Str("service", serviceName).
		Timestamp().
		Logger()
}

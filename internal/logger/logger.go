package logger

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Tag-based logging helpers on top of zerolog. The tag identifies the
// subsystem (WFM, DB, Scanner, Server) so the console output stays greppable.

var root = zerolog.New(zerolog.ConsoleWriter{
	Out:        os.Stdout,
	TimeFormat: "15:04:05",
}).With().Timestamp().Logger()

// SetLevel adjusts the global log level ("debug", "info", "warn", "error").
// Unknown values are ignored and the level stays at the zerolog default.
func SetLevel(level string) {
	if l, err := zerolog.ParseLevel(level); err == nil {
		zerolog.SetGlobalLevel(l)
	}
}

// Component returns a child logger carrying the given component field,
// for packages that want structured fields beyond the tag helpers.
func Component(name string) zerolog.Logger {
	return root.With().Str("component", name).Logger()
}

// Info logs an informational message under a subsystem tag.
func Info(tag, msg string) {
	root.Info().Str("tag", tag).Msg(msg)
}

// Success logs a completed-step message under a subsystem tag.
func Success(tag, msg string) {
	root.Info().Str("tag", tag).Str("status", "ok").Msg(msg)
}

// Warn logs a warning under a subsystem tag.
func Warn(tag, msg string) {
	root.Warn().Str("tag", tag).Msg(msg)
}

// Error logs an error under a subsystem tag.
func Error(tag, msg string) {
	root.Error().Str("tag", tag).Msg(msg)
}

// Debug logs a debug message under a subsystem tag.
func Debug(tag, msg string) {
	root.Debug().Str("tag", tag).Msg(msg)
}

// Banner prints the startup banner with the build version.
func Banner(version string) {
	if version == "" {
		version = "dev"
	}
	fmt.Printf("wfm-flipper %s - warframe.market set scanner\n", version)
}

// Section prints a visual divider before a named startup phase.
func Section(name string) {
	fmt.Printf("--- %s ---\n", name)
}

// Stats logs a single named counter.
func Stats(key string, value int) {
	root.Info().Str("tag", "Stats").Int(key, value).Msg("")
}

// Server logs the listen address once the HTTP server is up.
func Server(addr string) {
	root.Info().Str("tag", "Server").Msgf("Listening on http://%s", addr)
}

// Elapsed logs a duration for a named phase.
func Elapsed(tag, phase string, d time.Duration) {
	root.Info().Str("tag", tag).Dur("elapsed", d).Msg(phase)
}
